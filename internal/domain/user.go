package domain

type UserId = string

// User is the identity resolved from a bearer token.
// This service never creates users; the token issuer owns their lifecycle.
type User struct {
	Id    UserId
	Email string
}
