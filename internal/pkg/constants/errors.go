package constants

import "net/http"

// CodedError is an error carrying the HTTP status the API layer should
// answer with when it reaches the error handler.
type CodedError struct {
	message string
	code    int
}

func NewCodedError(message string, code int) *CodedError {
	return &CodedError{message: message, code: code}
}

func (e *CodedError) Error() string {
	return e.message
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	// ErrDBNotFound replaces pgx.ErrNoRows on the way out of the store.
	ErrDBNotFound = NewCodedError("requested entity not found", http.StatusNotFound)

	// ErrConfiguration covers template-load failures: malformed formulas,
	// forward references, circular line dependencies. The statement code is
	// not servable until its template is corrected.
	ErrConfiguration = NewCodedError("statement template configuration is invalid", http.StatusUnprocessableEntity)

	// ErrDataSource covers genuine repository I/O failures during collection.
	ErrDataSource = NewCodedError("activity data source unavailable", http.StatusBadGateway)

	// ErrTimeout is returned when the caller-supplied deadline is exceeded
	// during the collection phase. No partial statement is ever returned.
	ErrTimeout = NewCodedError("statement generation deadline exceeded", http.StatusGatewayTimeout)

	// ErrStrictMode aborts generation in strict mode when an activity record
	// matches no mapping or a formula references an unknown identifier.
	ErrStrictMode = NewCodedError("unmapped activity or unknown identifier in strict mode", http.StatusUnprocessableEntity)
)
