package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/papr2go/internal/persistence"
)

func registerHistoryEndpoints(rest *echo.Echo, db persistence.Persistence) {
	group := rest.Group("/history")

	group.GET("/", func(c echo.Context) error {
		devices, err := db.ListDevices()
		if err != nil {
			return returnError(c, err)
		}
		if devices == nil {
			devices = []string{}
		}
		return c.JSONPretty(http.StatusOK, devices, indentationChar)
	})

	// returns the most recent status reports of a device, oldest first
	group.GET("/:"+urlParamId+"/", func(c echo.Context) error {
		id := c.Param(urlParamId)

		limit := defaultHistoryLimit
		if value := c.QueryParam(queryParamLimit); value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 0 {
				return returnBadRequest(c, fmt.Sprintf("invalid %s '%s'", queryParamLimit, value))
			}
			limit = parsed
		}

		reports, err := db.LoadStatusReports(id, limit)
		if errors.Is(err, os.ErrNotExist) {
			return returnNotFound(c, id)
		} else if err != nil {
			return returnError(c, err)
		}
		return c.JSONPretty(http.StatusOK, reports, indentationChar)
	})
}
