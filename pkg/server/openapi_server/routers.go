// SPDX-License-Identifier: MIT

package openapi_server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/natevvv/terrain-routing/internal/logging"
)

// A Route defines the parameters for an api endpoint
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc http.HandlerFunc
}

// Routes are a collection of defined api endpoints
type Routes []Route

// Router defines the required methods for retrieving api routes
type Router interface {
	Routes() Routes
}

// NewRouter creates a new router for any number of api routers. Unmatched
// requests pass through the request logger as well.
func NewRouter(log logging.Logger, routers ...Router) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.NotFoundHandler = Logger(http.NotFoundHandler(), "NotFound", log)
	router.MethodNotAllowedHandler = Logger(http.HandlerFunc(methodNotAllowed), "MethodNotAllowed", log)
	for _, api := range routers {
		for _, route := range api.Routes() {
			var handler http.Handler
			handler = route.HandlerFunc
			handler = Logger(handler, route.Name, log)

			router.
				Methods(route.Method).
				Path(route.Pattern).
				Name(route.Name).
				Handler(handler)
		}
	}

	return router
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}

// EncodeJSONResponse uses the json encoder to write an interface to the http response with an optional status code
func EncodeJSONResponse(i interface{}, status *int, w http.ResponseWriter) error {
	return encodeResponse(i, status, "application/json; charset=UTF-8", w)
}

// EncodeGeoJSONResponse is EncodeJSONResponse with the GeoJSON media type
func EncodeGeoJSONResponse(i interface{}, status *int, w http.ResponseWriter) error {
	return encodeResponse(i, status, "application/geo+json", w)
}

func encodeResponse(i interface{}, status *int, contentType string, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", contentType)
	if status != nil {
		w.WriteHeader(*status)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if i != nil {
		return json.NewEncoder(w).Encode(i)
	}
	return nil
}
