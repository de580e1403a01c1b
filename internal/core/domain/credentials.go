package domain

// Credentials is the untyped login request as it arrives from a transport.
// Year holds the raw textual year; an empty string means it was not supplied.
type Credentials struct {
	Role     string
	UserID   string
	Password string
	Year     string
}
