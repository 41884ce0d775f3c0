package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorResponse is the shape every failed upstream call comes back in.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// upstreamError reports a vendor API failure. Missing configuration is
// never routed here; that degrades to a zeroed 200 instead.
func upstreamError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, errorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// contextOf is the request-scoped context for upstream calls. The
// vendor clients carry their own per-call timeouts.
func contextOf(c echo.Context) context.Context {
	return c.Request().Context()
}
