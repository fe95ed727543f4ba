package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func adminTestHandler(t *testing.T, token string) (http.Handler, *int) {
	t.Helper()
	hits := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})
	return AdminCapability(token, nil)(next), &hits
}

func TestAdminCapabilityValidToken(t *testing.T) {
	handler, hits := adminTestHandler(t, "sekrit")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || *hits != 1 {
		t.Fatalf("expected pass-through, got %d (hits %d)", resp.Code, *hits)
	}
}

func TestAdminCapabilityWrongToken(t *testing.T) {
	handler, hits := adminTestHandler(t, "sekrit")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden || *hits != 0 {
		t.Fatalf("expected 403, got %d (hits %d)", resp.Code, *hits)
	}
}

func TestAdminCapabilityMissingHeader(t *testing.T) {
	handler, hits := adminTestHandler(t, "sekrit")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if resp.Code != http.StatusUnauthorized || *hits != 0 {
		t.Fatalf("expected 401, got %d (hits %d)", resp.Code, *hits)
	}
}

func TestAdminCapabilityDisabledWhenUnset(t *testing.T) {
	handler, hits := adminTestHandler(t, "")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer anything")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden || *hits != 0 {
		t.Fatalf("expected 403 when disabled, got %d (hits %d)", resp.Code, *hits)
	}
}
