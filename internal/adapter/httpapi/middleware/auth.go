package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type authClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenChecker reports whether a token is still the one on record for the
// user. Logout and account deactivation drop the record, so a signed JWT
// stops authorizing before its expiry.
type TokenChecker interface {
	IsCurrent(ctx context.Context, userID, token string) (bool, error)
}

func parseBearerToken(r *http.Request, jwtSecret string) (userID, rawToken string, err error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "", errors.New("authorization header is not provided")
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "", errors.New("authorization header format must be 'Bearer <token>'")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", "", errors.New("token is invalid")
	}
	return claims.UserID, parts[1], nil
}

func authenticate(r *http.Request, jwtSecret string, tokens TokenChecker) (string, error) {
	userID, rawToken, err := parseBearerToken(r, jwtSecret)
	if err != nil {
		return "", err
	}
	current, err := tokens.IsCurrent(r.Context(), userID, rawToken)
	if err != nil {
		return "", err
	}
	if !current {
		return "", errors.New("token is no longer valid")
	}
	return userID, nil
}

// JWTAuth rejects requests without a valid, still-current bearer token and
// stores the authenticated user id in the request context.
func JWTAuth(jwtSecret string, tokens TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(r, jwtSecret, tokens)
			if err != nil {
				http.Error(w, "unauthorized: "+err.Error(), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTAuth stores the user id when a valid, still-current token is
// present but lets anonymous requests through. Discovery and listing detail
// use it: identity improves the result but is never required.
func OptionalJWTAuth(jwtSecret string, tokens TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := authenticate(r, jwtSecret, tokens); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserIDCtxKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID extracts the authenticated user id from the request context.
// Returns an empty string for anonymous requests.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDCtxKey).(string); ok {
		return id
	}
	return ""
}
