package models

// OrderCounter is the sole source of truth for display-ID uniqueness within a
// calendar year. One row per year, monotonically incremented.
type OrderCounter struct {
	Year    int   `gorm:"column:year;primaryKey"`
	Counter int64 `gorm:"column:counter;not null;default:0"`
}
