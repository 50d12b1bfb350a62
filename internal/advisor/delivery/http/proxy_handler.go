package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/advisor/service"
	"stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ProxyHandler relays dashboard requests to external market-data providers so
// API keys never reach the browser.
type ProxyHandler struct {
	proxyService service.ProxyService
	logger       *logger.Logger
}

// NewProxyHandler creates a new ProxyHandler.
func NewProxyHandler(proxyService service.ProxyService, logger *logger.Logger) *ProxyHandler {
	return &ProxyHandler{proxyService: proxyService, logger: logger}
}

// RegisterRoutes registers the proxy routes to the Echo group. Methods other
// than GET/POST/OPTIONS fall through to the router's 405.
func (h *ProxyHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:provider", h.Relay)
	g.POST("/:provider", h.Relay)
}

// Relay godoc
// @Summary Relay a request to a market-data provider
// @Description Forwards the query to the named provider (yahoo, alphavantage, fmp, polygon, iex, rapidapi) and returns the raw upstream JSON
// @Tags proxy
// @Accept  json
// @Produce  json
// @Param   provider  path    string  true   "Provider name"
// @Param   symbol    query   string  false  "Stock symbol, where the provider needs one"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} dto.ProxyErrorResponse
// @Failure 500 {object} dto.ProxyErrorResponse
// @Failure 503 {object} dto.ProxyErrorResponse
// @Router /proxy/{provider} [get]
func (h *ProxyHandler) Relay(c echo.Context) error {
	provider := c.Param("provider")

	values := make(url.Values, len(c.QueryParams()))
	for name, vs := range c.QueryParams() {
		values[name] = append([]string(nil), vs...)
	}
	if c.Request().Method == http.MethodPost {
		mergeBodyParams(c, values)
	}

	payload, err := h.proxyService.Relay(c.Request().Context(), provider, values)
	if err != nil {
		return h.renderError(c, provider, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

func (h *ProxyHandler) renderError(c echo.Context, provider string, err error) error {
	status := http.StatusInternalServerError
	label := "proxy_error"
	fallback := ""

	var missing *service.MissingParameterError
	var upstream *service.UpstreamError
	switch {
	case errors.Is(err, service.ErrUnknownProvider):
		status = http.StatusBadRequest
		label = "unknown_provider"
	case errors.As(err, &missing):
		status = http.StatusBadRequest
		label = "missing_parameter"
	case errors.Is(err, service.ErrProviderNotConfigured):
		status = http.StatusServiceUnavailable
		label = "not_configured"
		fallback = fallbackProvider(provider)
	case errors.As(err, &upstream):
		label = "upstream_error"
		fallback = fallbackProvider(provider)
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Proxy relay failed", logger.StringField("provider", provider), logger.ErrorField(err))
	}

	return c.JSON(status, dto.ProxyErrorResponse{
		Error:     label,
		Message:   err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Fallback:  fallback,
	})
}

// mergeBodyParams folds a flat JSON POST body into the query values, so POST
// callers can pass the same parameters GET callers put in the URL.
func mergeBodyParams(c echo.Context, values url.Values) {
	var body map[string]interface{}
	if err := c.Bind(&body); err != nil {
		return
	}
	for name, value := range body {
		switch v := value.(type) {
		case string:
			values.Set(name, v)
		case float64:
			values.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			values.Set(name, strconv.FormatBool(v))
		}
	}
}

// fallbackProvider suggests a keyless alternative the dashboard can retry.
func fallbackProvider(provider string) string {
	if strings.EqualFold(strings.TrimSpace(provider), "yahoo") {
		return ""
	}
	return "yahoo"
}
