package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
)

const AdminSecretHeader = "X-Admin-Secret"

// AdminSecret guards operator endpoints (batch regeneration, mcp).
// An empty secret disables the guarded routes entirely.
func AdminSecret(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			provided := r.Header.Get(AdminSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				log.Warnf("unauthorized admin request to %s from %s", r.URL.Path, pkg.ClientIP(r))
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
