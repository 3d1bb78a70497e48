package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/stationeryworks/stationery-backend/api/responses"
	"github.com/stationeryworks/stationery-backend/pkg/config"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
)

const adminKeyHeader = "X-Admin-Key"

// AdminKey guards the admin surface with the configured API key.
func AdminKey(cfg config.AdminConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := strings.TrimSpace(r.Header.Get(adminKeyHeader))
			if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(cfg.APIKey)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "invalid admin key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
