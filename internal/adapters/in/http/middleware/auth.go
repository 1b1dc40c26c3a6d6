// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

type ctxKey int

const (
	ctxKeyUID ctxKey = iota
	ctxKeyEmail
	ctxKeyRole
)

// VerifiedToken is what the middleware needs from a verified bearer token.
type VerifiedToken struct {
	UID    string
	Email  string
	Claims map[string]any
}

// TokenVerifier verifies a raw bearer token. The Firebase-backed
// implementation lives in the DI layer; tests plug in a stub.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (VerifiedToken, error)
}

// AuthMiddleware verifies the Authorization bearer token and stores
// uid/email/role in the request context.
type AuthMiddleware struct {
	Verifier TokenVerifier
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Verifier == nil {
			writeAuthError(w, http.StatusServiceUnavailable, "auth middleware not initialized")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			writeAuthError(w, http.StatusUnauthorized, "empty bearer token")
			return
		}

		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			writeAuthError(w, http.StatusUnauthorized, "invalid uid in token")
			return
		}

		role := ""
		if v, ok := token.Claims["role"]; ok {
			if s, ok2 := v.(string); ok2 {
				role = strings.ToLower(strings.TrimSpace(s))
			}
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ctxKeyUID, uid)
		if e := strings.TrimSpace(token.Email); e != "" {
			ctx = context.WithValue(ctx, ctxKeyEmail, e)
		}
		if role != "" {
			ctx = context.WithValue(ctx, ctxKeyRole, role)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly gates a route on the "role: admin" custom claim. Must run inside
// Handler so the claims are already in context.
func (m *AuthMiddleware) AdminOnly(next http.Handler) http.Handler {
	return m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := CurrentRole(r)
		if role != "admin" {
			writeAuthError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// CurrentUID returns the verified user id.
func CurrentUID(r *http.Request) (string, bool) {
	v, ok := r.Context().Value(ctxKeyUID).(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// CurrentRole returns the role claim, if any.
func CurrentRole(r *http.Request) (string, bool) {
	v, ok := r.Context().Value(ctxKeyRole).(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func writeAuthError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"status":"error","statusCode":` + strconv.Itoa(code) + `,"message":"` + msg + `","data":null}`))
}
