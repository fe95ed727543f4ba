package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintName is provided, the helper looks for
// the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsMissingColumn reports whether the error indicates the statement referenced
// a column absent from the deployed schema. Both the Postgres and SQLite
// phrasings are matched; drift like this is expected between deploys and is
// handled by a reduced-column fallback rather than failing the request.
func IsMissingColumn(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "no such column") {
		return true
	}
	return strings.Contains(msg, "does not exist") && strings.Contains(msg, "column")
}
