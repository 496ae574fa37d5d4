package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/easyfin/internal/config"
	"github.com/JonMunkholm/easyfin/internal/core"
	"github.com/JonMunkholm/easyfin/internal/logging"
)

// Session cookie and the headers the Easyfin gateway sets after login.
const (
	SessionCookie = "easyfin_session"
	RoleHeader    = "X-Easyfin-Role"
	UserHeader    = "X-Easyfin-User"
)

// Session attaches a core.Session to every request. The session id lives in
// a cookie and is minted on first contact; views are kept per id. The role
// comes from RoleHeader when it names a known role, else from
// cfg.DefaultRole. A bearer token is carried along for the API source.
func Session(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	defaultRole, ok := core.ParseRole(strings.ToLower(cfg.DefaultRole))
	if !ok {
		defaultRole = core.RolePilot
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionID(r)
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.SecureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			role := defaultRole
			if h := r.Header.Get(RoleHeader); h != "" {
				if parsed, ok := core.ParseRole(strings.ToLower(strings.TrimSpace(h))); ok {
					role = parsed
				}
			}

			sess := core.Session{
				ID:     id,
				UserID: r.Header.Get(UserHeader),
				Role:   role,
				Token:  bearerToken(r.Header.Get("Authorization")),
			}

			ctx := core.ContextWithSession(r.Context(), sess)
			ctx = logging.WithAttrs(ctx, "session_id", id, "role", string(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionID returns the cookie's id if it is a well-formed UUID.
func sessionID(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
