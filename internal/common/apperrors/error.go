// Package apperrors provides the application error type used across
// sitesmith. It extends the standard error interface with error chaining
// and HTTP status code management so handlers can map failures to
// responses without switch ladders at every call site.
package apperrors

// Error is the interface implemented by all application errors. Methods
// that produce a variant return Error so calls can be chained.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a fresh error using current as template
	Msg(msg string) Error                  // new message, wraps the original
	MsgErr(msg string, err ...error) Error // new message, wraps original plus extra errors
	Err(err ...error) Error                // attaches additional errors, message unchanged
	SetStatusCode(int) Error               // sets the HTTP status code
	StatusCode() int                       // returns the HTTP status code
	ErrorAll() string                      // message including all wrapped errors
	UnwrapAll() []error                    // all wrapped errors in attach order
}
