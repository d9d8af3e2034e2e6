package middleware

// ContextKey is a private key type for request context values, so handler
// lookups cannot collide with other packages.
type ContextKey string

const (
	// UserIDCtxKey holds the authenticated user's id, set by JWTAuth and
	// OptionalJWTAuth.
	UserIDCtxKey = ContextKey("user_id")
)
