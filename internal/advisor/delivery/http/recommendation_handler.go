package http

import (
	"errors"
	"net/http"

	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/advisor/service"
	"stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RecommendationHandler handles HTTP requests for recommendations.
type RecommendationHandler struct {
	recommendationService service.RecommendationService
	logger                *logger.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommendationService service.RecommendationService, logger *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService, logger: logger}
}

// RegisterRoutes registers the recommendation routes to the Echo group.
func (h *RecommendationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecommendations)
	g.DELETE("/cache", h.ClearCache)
}

// GetRecommendations godoc
// @Summary Get ranked stock recommendations
// @Description Returns up to five ranked recommendations for a time frame and sector, model-generated with a deterministic fallback
// @Tags recommendations
// @Produce  json
// @Param   timeFrame  query   string  false  "Analysis horizon: 7D, 1M, 3M, 6M or 1Y"  default(7D)
// @Param   sector     query   string  false  "Sector tag, e.g. BANKING, IT, ALL"       default(ALL)
// @Success 200 {object} dto.RecommendationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recommendations [get]
func (h *RecommendationHandler) GetRecommendations(c echo.Context) error {
	raw := c.QueryParam("timeFrame")
	if raw == "" {
		raw = c.QueryParam("timeframe")
	}
	timeFrame := dto.TimeFrame7D
	if raw != "" {
		var err error
		timeFrame, err = dto.ParseTimeFrame(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	sector, err := dto.ParseSectorTag(c.QueryParam("sector"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	response, err := h.recommendationService.GetRecommendations(c.Request().Context(), timeFrame, sector)
	if err != nil {
		if errors.Is(err, service.ErrEmptyUniverse) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no stocks available for analysis"})
		}
		h.logger.Error("Failed to get recommendations", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate recommendations"})
	}

	return c.JSON(http.StatusOK, response)
}

// ClearCache godoc
// @Summary Clear the recommendation cache
// @Description Drops every cached recommendation set so the next request regenerates
// @Tags recommendations
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 500 {object} dto.ErrorResponse
// @Router /recommendations/cache [delete]
func (h *RecommendationHandler) ClearCache(c echo.Context) error {
	if err := h.recommendationService.ClearCache(c.Request().Context()); err != nil {
		h.logger.Error("Failed to clear recommendation cache", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to clear cache"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cache cleared"})
}
