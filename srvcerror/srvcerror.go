package srvcerror

import (
	"errors"
	"log/slog"
	"net/http"
)

// Error is a failure that can be shown to the portal user. The debug error
// is only ever logged.
type Error struct {
	errorCode  string
	msgToUser  string // public
	dbgInfoErr error  // private, for debugging

	httpStatus int                 // optional, for HTTP responses
	fields     map[string][]string // optional, per form field messages
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) Unwrap() error {
	return e.dbgInfoErr
}

// Is matches any service error with the same code, so callers can compare
// against a freshly built error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.errorCode == e.errorCode
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) DebugInfo() error {
	return e.dbgInfoErr
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgInfoErr = err
	return e
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHttpStatusCode(code int) *Error {
	e.httpStatus = code
	return e
}

func (e *Error) Fields() map[string][]string {
	return e.fields
}

func (e *Error) SetFields(fields map[string][]string) *Error {
	e.fields = fields
	return e
}

func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", e.errorCode),
		slog.String("message", e.msgToUser),
		slog.Int("status", e.HttpStatusCode()),
	}
	if e.dbgInfoErr != nil {
		attrs = append(attrs, slog.String("debug", e.dbgInfoErr.Error()))
	}
	if len(e.fields) > 0 {
		attrs = append(attrs, slog.Any("fields", e.fields))
	}
	return slog.GroupValue(attrs...)
}

// CodeOf returns the code of the first service error in err's chain, or "".
func CodeOf(err error) string {
	var srvcErr *Error
	if errors.As(err, &srvcErr) {
		return srvcErr.errorCode
	}
	return ""
}

const ErrCodeInternalServerError = "internal_server_error"

func ErrInternal() *Error {
	return New(
		ErrCodeInternalServerError,
		"internal server error",
	).SetHttpStatusCode(http.StatusInternalServerError)
}
