package credentials

import "fmt"

// AuthError indicates a credential or workspace resolution failure: no
// workspace configured, an ambiguous workspace, a missing refresh token, and
// the like. Commands map it to a dedicated exit code.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError creates an AuthError with a formatted message.
func NewAuthError(format string, args ...any) *AuthError {
	return &AuthError{Message: fmt.Sprintf(format, args...)}
}
