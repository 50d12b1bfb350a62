package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"stock-advisor/internal/advisor/dto"
	"stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewHTTPErrorHandler renders router-level failures (unknown route, wrong
// method) with the same envelope the proxy endpoints use, so browser clients
// see one error shape everywhere.
func NewHTTPErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("Request failed", logger.ErrorField(err))
		}

		envelope := dto.ProxyErrorResponse{
			Error:     strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_")),
			Message:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if writeErr := c.JSON(status, envelope); writeErr != nil {
			log.Error("Failed to write error response", logger.ErrorField(writeErr))
		}
	}
}
