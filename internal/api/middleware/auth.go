package middleware

import (
	"net/http"
	"strings"

	"github.com/NouradinAbdurahman/portfolio-api/internal/api/response"
	"golang.org/x/crypto/bcrypt"
)

// Auth gates the admin surface behind a single bearer token. The site has
// exactly one editor, so one configured bcrypt hash is the whole
// allowlist.
type Auth struct {
	keyHash string
}

// NewAuth creates the Auth middleware from the configured bcrypt hash of
// the admin token.
func NewAuth(keyHash string) *Auth {
	return &Auth{keyHash: keyHash}
}

// Authenticate validates the Bearer token against the configured hash.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(a.keyHash), []byte(token)) != nil {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid admin token", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
