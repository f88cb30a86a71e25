// Package httpx provides HTTP request/response handling utilities shared
// by all sitesmith handlers: JSON responders, the RequestHandler wrapper,
// and a standard error vocabulary.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/common/apperrors"
)

// GetRequestData parses a JSON request body into the provided value.
// Only POST and PUT are supported.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseReqData()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response represents an HTTP response with configurable status code,
// Location header, and body.
type Response struct {
	StatusCode int
	Location   string
	Response   any
}

// RequestHandler is the handler signature used by all sitesmith API
// handlers. Errors are translated to JSON error responses by WrapHttpRsp.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler to http.HandlerFunc, mapping
// httpx.Error and apperrors.Error values to their status codes and
// everything else to a 500.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			if httperror, ok := err.(*Error); ok {
				httperror.Send(w)
			} else if appErr, ok := err.(apperrors.Error); ok {
				SendError(w, appErr)
			} else {
				ErrApplicationError(err.Error()).Send(w)
			}
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		var location []string
		if rsp.Location != "" {
			location = append(location, rsp.Location)
		}
		SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response, location...)
	}
}
