package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/sitesmith/sitesmith/internal/common/apperrors"
)

// Error represents an HTTP error response with a status code and a
// user-facing description.
type Error struct {
	Description string `json:"description"`
	StatusCode  int    `json:"http_status_code"`
}

type errorRsp struct {
	Result int    `json:"result"`
	Error  string `json:"error"`
}

// Failure is the result code carried by error responses.
const Failure int = 0

// Send writes the error response to the provided ResponseWriter.
// A nil writer is a no-op.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	rsp := &errorRsp{
		Result: Failure,
		Error:  e.Description,
	}
	rspJson, err := json.Marshal(rsp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("unable to encode error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(rspJson)
}

// Error returns the error description.
func (e *Error) Error() string {
	return e.Description
}

// SendError sends an application error as an HTTP error response.
// A nil error is a no-op.
func SendError(w http.ResponseWriter, err apperrors.Error) {
	if err == nil {
		return
	}
	statusCode := err.StatusCode()
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	httperror := &Error{
		StatusCode:  statusCode,
		Description: err.ErrorAll(),
	}
	httperror.Send(w)
}

// Common errors

// ErrReqMethodNotSupported returns an error for unsupported HTTP methods.
func ErrReqMethodNotSupported() *Error {
	return &Error{
		Description: "request method not supported",
		StatusCode:  http.StatusMethodNotAllowed,
	}
}

// ErrUnableToParseReqData returns an error when request data cannot be parsed.
func ErrUnableToParseReqData() *Error {
	return &Error{
		Description: "unable to parse request data",
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrUnableToReadRequest returns an error when request data cannot be read.
func ErrUnableToReadRequest() *Error {
	return &Error{
		Description: "unable to read request data",
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrInvalidRequest returns an error for invalid request data.
// If no message is provided, a default message is used.
func ErrInvalidRequest(str ...string) *Error {
	s := "invalid request data or empty request values"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusBadRequest,
	}
}

// ErrUnAuthorized returns an error for unauthorized requests.
// If no message is provided, a default message is used.
func ErrUnAuthorized(str ...string) *Error {
	s := "unable to authenticate request"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusUnauthorized,
	}
}

// ErrNotFound returns an error for a missing entity.
// If no message is provided, a default message is used.
func ErrNotFound(str ...string) *Error {
	s := "not found"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusNotFound,
	}
}

// ErrApplicationError returns an error for application-level failures.
// If no message is provided, a default message is used.
func ErrApplicationError(err ...string) *Error {
	s := "unable to process request"
	if len(err) > 0 {
		s = err[0]
	}
	return &Error{
		Description: s,
		StatusCode:  http.StatusInternalServerError,
	}
}

// ErrRequestTimeout returns an error for request timeout.
func ErrRequestTimeout() *Error {
	return &Error{
		Description: "request timed out",
		StatusCode:  http.StatusRequestTimeout,
	}
}
