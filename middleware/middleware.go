// Package middleware decodes option payloads at HTTP boundaries and hands
// them to handlers through the request context.
package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	og "github.com/reoring/optgrammar"
	"github.com/reoring/optgrammar/source/gojson"
)

type ctxKeyOptions struct{}

// ContextWithOptions attaches a decoded options payload to ctx.
func ContextWithOptions(ctx context.Context, opts any) context.Context {
	return context.WithValue(ctx, ctxKeyOptions{}, opts)
}

// OptionsFromContext retrieves the payload stored by ContextWithOptions.
func OptionsFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyOptions{})
	return v, v != nil
}

// DefaultDecodeOpt is the recommended setting for HTTP JSON boundaries:
// duplicate keys are errors.
func DefaultDecodeOpt() gojson.Options {
	return gojson.Options{DisallowDuplicateKeys: true}
}

// ErrBodyTooLarge is passed to the error handler when the body exceeds
// the configured limit.
var ErrBodyTooLarge = errors.New("middleware: request body too large")

// ErrorHandler writes the response for a body that could not be decoded.
// status is 413 for oversized bodies and 400 otherwise.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, status int, err error)

// DecodeOptions reads the JSON request body (at most maxBytes), decodes it
// with opt and stores the result with ContextWithOptions. An empty body
// decodes to an empty Map. Decoding failures go to onError and stop the
// chain.
func DecodeOptions(maxBytes int64, opt gojson.Options, onError ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					onError(w, r, http.StatusRequestEntityTooLarge, ErrBodyTooLarge)
					return
				}
				onError(w, r, http.StatusBadRequest, err)
				return
			}

			var opts any = og.Map{}
			if strings.TrimSpace(string(body)) != "" {
				if opts, err = gojson.DecodeWithOptions(body, opt); err != nil {
					onError(w, r, http.StatusBadRequest, err)
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(ContextWithOptions(r.Context(), opts)))
		})
	}
}
