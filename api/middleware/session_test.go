package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stationeryworks/stationery-backend/pkg/config"
)

func sessionTestConfig() config.SessionConfig {
	return config.SessionConfig{CookieName: "session_id", TTL: 24 * time.Hour}
}

func TestSessionAssignsCookieOnFirstContact(t *testing.T) {
	cfg := sessionTestConfig()
	var seenSession string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSession = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	Session(cfg, nil, nil)(handler).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if seenSession == "" {
		t.Fatal("expected session id in context")
	}
	if _, err := uuid.Parse(seenSession); err != nil {
		t.Fatalf("expected uuid session id, got %q", seenSession)
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != cfg.CookieName {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}
	cookie := cookies[0]
	if cookie.Value != seenSession {
		t.Fatalf("cookie %q does not match context session %q", cookie.Value, seenSession)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}
	if cookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("unexpected cookie max age %d", cookie.MaxAge)
	}
}

func TestSessionReusesValidCookie(t *testing.T) {
	cfg := sessionTestConfig()
	existing := uuid.NewString()
	var seenSession string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSession = SessionIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: existing})
	resp := httptest.NewRecorder()
	Session(cfg, nil, nil)(handler).ServeHTTP(resp, req)

	if seenSession != existing {
		t.Fatalf("expected session %q reused, got %q", existing, seenSession)
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatal("expected no new cookie for an existing session")
	}
}

func TestSessionReplacesMalformedCookie(t *testing.T) {
	cfg := sessionTestConfig()
	var seenSession string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSession = SessionIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-uuid"})
	resp := httptest.NewRecorder()
	Session(cfg, nil, nil)(handler).ServeHTTP(resp, req)

	if seenSession == "not-a-uuid" || seenSession == "" {
		t.Fatalf("expected fresh session, got %q", seenSession)
	}
	if len(resp.Result().Cookies()) != 1 {
		t.Fatal("expected replacement cookie")
	}
}

func TestSessionInvokesTouchCallback(t *testing.T) {
	cfg := sessionTestConfig()
	var touched string
	touch := func(r *http.Request, sessionID string) {
		touched = sessionID
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	Session(cfg, touch, nil)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if touched == "" {
		t.Fatal("expected touch callback invoked")
	}
}
