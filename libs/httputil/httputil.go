// Package httputil provides small helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/bitmap357/hospital-test/libs/golog"
)

// HTTP methods
const (
	Get     = "GET"
	Post    = "POST"
	Put     = "PUT"
	Patch   = "PATCH"
	Delete  = "DELETE"
	Options = "OPTIONS"
)

// JSONContentType is the value used for the Content-Type header on JSON responses.
const JSONContentType = "application/json"

// JSONResponse writes a response with the provided object encoded as JSON
// setting an appropriate Content-Type header.
func JSONResponse(w http.ResponseWriter, statusCode int, res interface{}) {
	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		golog.Errorf("httputil: failed to encode JSON response: %s", err)
	}
}

type supportedMethods struct {
	methods []string
	handler http.Handler
}

// SupportedMethods wraps an HTTP handler, and before a request is
// passed to the handler the method is checked against the list provided.
// If it does not match one of the expected methods then StatusMethodNotAllowed
// status is returned along with a list of allowed methods in the "Allow"
// HTTP header.
func SupportedMethods(h http.Handler, methods ...string) http.Handler {
	sort.Strings(methods)
	return &supportedMethods{
		methods: methods,
		handler: h,
	}
}

func (sm *supportedMethods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, m := range sm.methods {
		if r.Method == m {
			sm.handler.ServeHTTP(w, r)
			return
		}
	}

	w.Header().Set("Allow", strings.Join(sm.methods, ", "))
	if r.Method == Options {
		w.WriteHeader(http.StatusOK)
	} else {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
