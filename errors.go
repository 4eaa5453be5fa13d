package filestack

// Error is a type that allows for error constants below
type Error string

// Error returns a string representation of the error
func (e Error) Error() string { return string(e) }

const (
	// ErrAPIKeyRequired - NewClient was called without an API key
	ErrAPIKeyRequired = Error("api key is required")

	// ErrSecurityRequired - the operation requires a signed security policy
	ErrSecurityRequired = Error("operation requires a security policy and signature")
)
