package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/papr2go/internal/statistics"
	"github.com/qdm12/reprint"
)

func registerStatusEndpoints(rest *echo.Echo, statuses statistics.StatusSource) {
	group := rest.Group("/status")

	// returns the latest status of all devices
	group.GET("/", func(c echo.Context) error {
		data := reprint.This(statuses.Items())
		return c.JSONPretty(http.StatusOK, data, indentationChar)
	})

	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		id := c.Param(urlParamId)
		data, exists := statuses.Get(id)
		if !exists {
			return returnNotFound(c, id)
		}
		return c.JSONPretty(http.StatusOK, reprint.This(data), indentationChar)
	})
}
