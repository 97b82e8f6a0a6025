package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	og "github.com/reoring/optgrammar"
	"github.com/reoring/optgrammar/middleware"
	"github.com/reoring/optgrammar/source/gojson"
)

func newHandler(t *testing.T, got *any, failed *int) http.Handler {
	t.Helper()
	onError := func(w http.ResponseWriter, r *http.Request, status int, err error) {
		*failed = status
		w.WriteHeader(status)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.OptionsFromContext(r.Context())
		require.True(t, ok)
		*got = v
		w.WriteHeader(http.StatusNoContent)
	})
	return middleware.DecodeOptions(64, middleware.DefaultDecodeOpt(), onError)(next)
}

func serve(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestDecodeOptions(t *testing.T) {
	var got any
	var failed int
	h := newHandler(t, &got, &failed)

	rec := serve(h, `{"b":1,"a":"x"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"b", "a"}, got.(og.Map).Keys())

	rec = serve(h, "  ")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, og.Map{}, got)
}

func TestDecodeOptions_Failures(t *testing.T) {
	var got any
	var failed int
	h := newHandler(t, &got, &failed)

	serve(h, `{"a":`)
	require.Equal(t, http.StatusBadRequest, failed)

	serve(h, `{"a":1,"a":2}`)
	require.Equal(t, http.StatusBadRequest, failed)

	serve(h, `{"a":"`+strings.Repeat("x", 100)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, failed)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := middleware.ContextWithOptions(httptest.NewRequest(http.MethodGet, "/", nil).Context(), og.NewMap("k", 1))
	v, ok := middleware.OptionsFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, og.NewMap("k", 1), v)

	_, ok = middleware.OptionsFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.False(t, ok)
}

func TestDefaultDecodeOpt(t *testing.T) {
	_, err := gojson.DecodeWithOptions([]byte(`{"a":1,"a":1}`), middleware.DefaultDecodeOpt())
	require.True(t, errors.Is(err, gojson.ErrDuplicateKey))
}
