// Package api serves the latest status reports and the status history as
// read-only REST endpoints.
package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/markusressel/papr2go/internal/persistence"
	"github.com/markusressel/papr2go/internal/statistics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "id"
	queryParamLimit = "limit"
	indentationChar = "  "

	EndpointPathAlive = "/alive/"

	defaultHistoryLimit = 100
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// CreateRestService creates the REST service. Request metrics of the service
// are registered with the given registerer.
func CreateRestService(statuses statistics.StatusSource, db persistence.Persistence, registerer prometheus.Registerer) (*echo.Echo, error) {
	echoRest := CreateWebserver()

	echoRest.Use(middleware.Logger())

	metrics, err := echoprometheus.MiddlewareConfig{
		Namespace:  "papr2go",
		Subsystem:  "api",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == EndpointPathAlive
		},
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}
	echoRest.Use(metrics)

	echoRest.GET(EndpointPathAlive, isAlive)

	registerStatusEndpoints(echoRest, statuses)
	registerHistoryEndpoints(echoRest, db)

	return echoRest, nil
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, message string) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad request",
		Message: message,
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}
