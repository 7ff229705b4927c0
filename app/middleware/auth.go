package appMiddleware

import "github.com/golang-jwt/jwt/v5"

type contextKey string

const (
	SubjectKey contextKey = "subject"
	ScopeKey   contextKey = "scope"
)

// Claims are the fields read from a bearer token. Tokens are issued by
// whatever fronts the chat product; this service only verifies them.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}
