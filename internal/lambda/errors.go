package lambda

// Error codes used by the client.
const (
	CodeAuthenticationFailed = "authentication_failed"
	CodeNotFound             = "not_found"
	CodeNoCapacity           = "insufficient_capacity"
	CodeRateLimited          = "rate_limited"
	CodeRequestFailed        = "request_failed"
	CodeDecodeFailed         = "response_decode_failed"
	CodeAPIError             = "api_error"
)

// Sentinel errors for the failure conditions callers branch on.
var (
	// ErrAuthenticationFailed indicates the API key was rejected.
	ErrAuthenticationFailed = &Error{Code: CodeAuthenticationFailed, Message: "authentication failed - check API key"}

	// ErrNotFound indicates the requested instance type or instance ID is unknown.
	ErrNotFound = &Error{Code: CodeNotFound, Message: "not found"}

	// ErrNoCapacity indicates a launch was refused for lack of capacity.
	ErrNoCapacity = &Error{Code: CodeNoCapacity, Message: "insufficient capacity"}

	// ErrRateLimited indicates the provider rate limited the request.
	ErrRateLimited = &Error{Code: CodeRateLimited, Message: "rate limited by provider"}
)

// Error represents an error from a Lambda Cloud API operation.
type Error struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Cause   error  // Underlying error, if any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code, so wrapped
// errors match their sentinel under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Wrap returns a new Error with the same code and message but with a cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
	}
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the error code of err, or empty if err is not an *Error.
func CodeOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsFatal reports whether err should abort a long-running search
// immediately. A rejected credential or a malformed response will not fix
// itself on retry; transport failures, API errors and rate limits can.
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case CodeAuthenticationFailed, CodeDecodeFailed:
		return true
	}
	return false
}
