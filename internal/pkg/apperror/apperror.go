package apperror

// AppError is a custom error type that includes an HTTP status code and a
// machine-readable reason slug clients can branch on.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 409)
	Reason  string // Stable slug (e.g., "capacity_exceeded", "booking_conflict")
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code, reason slug and message.
func New(code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}
