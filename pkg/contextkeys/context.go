package contextkeys

// Custom key type avoids collisions with other packages that store
// values under plain string keys.
type contextKey string

// UserIDContextKey is the key under which the authenticated subject
// identifier is stored in the request context.
const UserIDContextKey = contextKey("userID")
