package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/stationeryworks/stationery-backend/api/responses"
	"github.com/stationeryworks/stationery-backend/pkg/config"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// EnquiryRateLimit throttles enquiry submission with fixed-window counters
// per client IP and per session. Anonymous storefront traffic has no account
// to key on, so the session cookie stands in for one.
func EnquiryRateLimit(cfg config.RateLimitConfig, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.EnquiryWindow <= 0 || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cfg.EnquiryIPLimit > 0 {
				if ip := clientIP(r); ip != "" {
					scope := fmt.Sprintf("enquiry:ip:%s", ip)
					allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(cfg.EnquiryIPLimit), cfg.EnquiryWindow)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						blockRateLimited(ctx, logg, w, "ip", count, cfg.EnquiryIPLimit, cfg.EnquiryWindow)
						return
					}
				}
			}

			if cfg.EnquirySessionLimit > 0 {
				if sessionID := SessionIDFromContext(ctx); sessionID != "" {
					scope := fmt.Sprintf("enquiry:session:%s", sessionID)
					allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(cfg.EnquirySessionLimit), cfg.EnquiryWindow)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						blockRateLimited(ctx, logg, w, "session", count, cfg.EnquirySessionLimit, cfg.EnquiryWindow)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func blockRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, scope string, count int64, limit int, window time.Duration) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(window.Seconds()),
		})
		logg.Warn(logCtx, "enquiry.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many enquiry submissions, try again later"))
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
