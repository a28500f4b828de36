package shared

// DomainError pairs a stable machine code with a message that is safe to
// show to an admin. The HTTP layer maps codes to statuses; the domain never
// thinks in status codes.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a domain error with the given code
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// ErrNotFound is the one shared sentinel: repositories return it for a
// missing row and services compare with errors.Is. Everything else gets a
// purpose-built DomainError with a message naming what went wrong.
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
