package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors: bad credentials or an invalid/expired token.
	// Recovered locally by the dialog with a plain-language reply.
	ErrAuth             = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Service errors: the media server is unreachable or misbehaving.
	// Recovered locally with degraded (empty) responses.
	ErrService = fmt.Errorf("media service unavailable")
	ErrTimeout = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrNotOperator     = fmt.Errorf("operator permission required")
)
