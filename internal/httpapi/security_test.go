package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMutationsRequireCSRFToken(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := login(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/categories", token, "", map[string]any{
		"name": "Specials",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/categories", token, "bogus-token", map[string]any{
		"name": "Specials",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with bogus CSRF token, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/categories", token, csrfToken(t, handler), map[string]any{
		"name": "Specials",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with valid CSRF token, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCSRFTokenHourWindow(t *testing.T) {
	api := newTestAPI(t)

	current := time.Now().UTC().Truncate(time.Hour).Unix()

	if !api.validateCSRFToken(api.csrfTokenForHour(current)) {
		t.Fatalf("current-hour token rejected")
	}
	if !api.validateCSRFToken(api.csrfTokenForHour(current - 3600)) {
		t.Fatalf("previous-hour token rejected")
	}
	if api.validateCSRFToken(api.csrfTokenForHour(current - 2*3600)) {
		t.Fatalf("stale token accepted")
	}
	if api.validateCSRFToken("") {
		t.Fatalf("empty token accepted")
	}
}

func TestLoginRateLimit(t *testing.T) {
	handler := newTestAPI(t).Handler()

	// The limiter allows five attempts per client per minute.
	for i := 0; i < 5; i++ {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", "", map[string]string{
			"username": "admin",
			"password": "wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", "", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on sixth attempt, got %d", rec.Code)
	}
}

func TestAttemptLimiterWindowExpiry(t *testing.T) {
	limiter := newAttemptLimiter(2, 50*time.Millisecond)

	if !limiter.Allow("client") || !limiter.Allow("client") {
		t.Fatalf("first two attempts should pass")
	}
	if limiter.Allow("client") {
		t.Fatalf("third attempt inside window should fail")
	}
	if !limiter.Allow("other") {
		t.Fatalf("separate clients must not share a bucket")
	}

	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("client") {
		t.Fatalf("attempt after window expiry should pass")
	}
}

func TestSecurityHeadersAndCORS(t *testing.T) {
	handler := newTestAPI(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("missing nosniff header, got %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("missing frame options header, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected CORS origin %q", got)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, preflight)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
}
