package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/stationeryworks/stationery-backend/pkg/config"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
)

// Session assigns an opaque uuid cookie on first contact and carries the
// session id in the request context. The redis touch is best effort: the
// storefront must keep working when redis is down.
func Session(cfg config.SessionConfig, touch func(r *http.Request, sessionID string), logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = cookie.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			ctx = WithSessionID(ctx, sessionID)

			if touch != nil {
				touch(r.WithContext(ctx), sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
