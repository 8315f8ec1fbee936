package validation

// Error is a user-safe input validation failure. Handlers surface the
// message verbatim with a 400 status.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(msg string) error { return &Error{Message: msg} }
