package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stationeryworks/stationery-backend/pkg/config"
)

type fakeLimiterStore struct {
	counts map[string]int64
	err    error
}

func newFakeLimiterStore() *fakeLimiterStore {
	return &fakeLimiterStore{counts: map[string]int64{}}
}

func (f *fakeLimiterStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func enquiryLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		EnquiryWindow:       time.Minute,
		EnquirySessionLimit: 2,
		EnquiryIPLimit:      4,
	}
}

func limitedHandler(cfg config.RateLimitConfig, store *fakeLimiterStore, calls *int) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusCreated)
	})
	return EnquiryRateLimit(cfg, store, nil)(next)
}

func submitRequest(sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/enquiries", strings.NewReader(`{}`))
	req.RemoteAddr = "203.0.113.9:51234"
	if sessionID != "" {
		req = req.WithContext(WithSessionID(req.Context(), sessionID))
	}
	return req
}

func TestEnquiryRateLimitBlocksSessionOverLimit(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	calls := 0
	handler := limitedHandler(enquiryLimitConfig(), store, &calls)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, submitRequest("sess-1"))
		if resp.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, submitRequest("sess-1"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, ran %d times", calls)
	}
}

func TestEnquiryRateLimitBlocksIPAcrossSessions(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	calls := 0
	handler := limitedHandler(enquiryLimitConfig(), store, &calls)

	sessions := []string{"s1", "s2", "s3", "s4"}
	for i, session := range sessions {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, submitRequest(session))
		if resp.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, submitRequest("s5"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the IP budget is spent, got %d", resp.Code)
	}
	if calls != 4 {
		t.Fatalf("expected handler to run four times, ran %d times", calls)
	}
}

func TestEnquiryRateLimitDisabledByZeroWindow(t *testing.T) {
	t.Parallel()

	cfg := enquiryLimitConfig()
	cfg.EnquiryWindow = 0
	store := newFakeLimiterStore()
	calls := 0
	handler := limitedHandler(cfg, store, &calls)

	for i := 0; i < 10; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, submitRequest("sess-1"))
		if resp.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i+1, resp.Code)
		}
	}
	if len(store.counts) != 0 {
		t.Fatalf("expected no counter activity, got %v", store.counts)
	}
}

func TestEnquiryRateLimitPrefersForwardedFor(t *testing.T) {
	t.Parallel()

	store := newFakeLimiterStore()
	calls := 0
	handler := limitedHandler(enquiryLimitConfig(), store, &calls)

	req := submitRequest("sess-1")
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if _, ok := store.counts["enquiry:ip:198.51.100.7"]; !ok {
		t.Fatalf("expected counter keyed on forwarded address, got %v", store.counts)
	}
}
