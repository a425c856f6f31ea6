// SPDX-License-Identifier: MPL-2.0

package web

import (
	"github.com/labstack/echo/v4"
)

// NoStore forbids every cache from keeping the response.
func NoStore() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cache-Control", "no-store, max-age=0")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
			return next(c)
		}
	}
}
