package http

import (
	"net/http"
	"strconv"

	"stock-advisor/internal/advisor/service"
	"stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// NewsHandler handles HTTP requests for market news.
type NewsHandler struct {
	newsService service.NewsService
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService service.NewsService, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetNews)
}

// GetNews godoc
// @Summary Get the latest market headlines
// @Description Returns recently harvested market news, newest first
// @Tags news
// @Produce  json
// @Param   limit  query   int  false  "Maximum number of headlines"  default(10)
// @Success 200 {array} entity.MarketNews
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /news [get]
func (h *NewsHandler) GetNews(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
		}
		limit = parsed
	}

	news, err := h.newsService.LatestHeadlines(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get latest headlines", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get news"})
	}
	return c.JSON(http.StatusOK, news)
}
