// SPDX-License-Identifier: MIT

package openapi_server

import (
	"net/http"
	"strings"
)

// MetricsApiController serves a metrics exposition handler (Prometheus) as an api route
type MetricsApiController struct {
	handler http.Handler
}

// NewMetricsApiController creates a controller for the metrics handler
func NewMetricsApiController(handler http.Handler) Router {
	return &MetricsApiController{handler: handler}
}

// Routes returns all of the api route for the MetricsApiController
func (c *MetricsApiController) Routes() Routes {
	return Routes{
		{
			"Metrics",
			strings.ToUpper("Get"),
			"/metrics",
			c.handler.ServeHTTP,
		},
	}
}
