// SPDX-License-Identifier: MPL-2.0

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ServeApps responds with the raw contents of file. The body is not validated.
func ServeApps(file string) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := os.ReadFile(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return c.JSONPretty(http.StatusNotFound, errorResponse{Error: "apps file not found"}, "  ")
			}
			c.Logger().Error("error reading apps file:", slog.Any("error", err))
			return c.JSONPretty(http.StatusInternalServerError, errorResponse{Error: "failed to read apps file"}, "  ")
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
	}
}
