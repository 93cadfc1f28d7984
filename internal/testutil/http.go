package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

type HTTPTestHelper struct {
	Handler http.Handler
	Headers map[string]string
}

func NewHTTPTestHelper(handler http.Handler) *HTTPTestHelper {
	return &HTTPTestHelper{Handler: handler, Headers: map[string]string{}}
}

// Do arma el request con body JSON (si hay) y los headers por defecto.
func (h *HTTPTestHelper) Do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.Handler.ServeHTTP(rr, req)
	return rr
}

func DecodeJSON(rr *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rr.Body).Decode(v)
}
