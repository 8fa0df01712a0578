package context

// contextKey is a private key type to avoid collisions with context values
// set by other packages.
type contextKey string
