package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fanandmerch/tickets-api/internal/clock"
)

const (
	adminCookieName = "admin_session"
	adminSessionTTL = 8 * time.Hour
)

// AdminAuth gates the dashboard endpoints behind a static shared-secret
// login. Sessions are HS256 tokens in an HttpOnly cookie, signed with the
// same secret; there is no server-side session state.
type AdminAuth struct {
	password string
	secret   []byte
	clock    clock.Clock
}

func NewAdminAuth(password string, clk clock.Clock) *AdminAuth {
	return &AdminAuth{
		password: password,
		secret:   []byte(password),
		clock:    clk,
	}
}

// LoginHandler handles POST /admin/login with a form-encoded password.
func (a *AdminAuth) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if a.password == "" {
			writeError(w, http.StatusInternalServerError, codeInternalError, "admin password not configured")
			return
		}
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid form body")
			return
		}

		given := r.PostFormValue("password")
		if subtle.ConstantTimeCompare([]byte(given), []byte(a.password)) != 1 {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "wrong password")
			return
		}

		token, err := a.issueToken()
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(adminSessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// LogoutHandler clears the session cookie.
func (a *AdminAuth) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     adminCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// Require rejects requests without a valid session cookie.
func (a *AdminAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(adminCookieName)
		if err != nil || a.verifyToken(cookie.Value) != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *AdminAuth) issueToken() (string, error) {
	now := a.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminSessionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AdminAuth) verifyToken(token string) error {
	if a.password == "" {
		return errors.New("admin password not configured")
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(a.clock.Now))
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid session token")
	}
	return nil
}
