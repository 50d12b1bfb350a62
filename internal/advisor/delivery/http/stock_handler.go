package http

import (
	"net/http"
	"strings"

	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/advisor/service"
	"stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for the stock universe.
type StockHandler struct {
	universeService service.UniverseService
	logger          *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(universeService service.UniverseService, logger *logger.Logger) *StockHandler {
	return &StockHandler{universeService: universeService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStocks)
	g.GET("/:symbol", h.GetStockBySymbol)
}

// GetStocks godoc
// @Summary List the tracked stock universe
// @Description Returns the current universe snapshot, optionally filtered by sector tag
// @Tags stocks
// @Produce  json
// @Param   sector  query   string  false  "Sector tag, e.g. BANKING, IT, ALL"  default(ALL)
// @Success 200 {array} entity.Stock
// @Failure 400 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) GetStocks(c echo.Context) error {
	sector, err := dto.ParseSectorTag(c.QueryParam("sector"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	stocks := service.FilterBySector(h.universeService.Snapshot(), sector)
	return c.JSON(http.StatusOK, stocks)
}

// GetStockBySymbol godoc
// @Summary Get one stock by symbol
// @Description Returns the latest snapshot for a single NSE symbol
// @Tags stocks
// @Produce  json
// @Param   symbol  path    string  true    "NSE symbol, e.g. RELIANCE"
// @Success 200 {object} entity.Stock
// @Failure 404 {object} dto.ErrorResponse
// @Router /stocks/{symbol} [get]
func (h *StockHandler) GetStockBySymbol(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	stock, ok := h.universeService.Lookup(symbol)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown symbol"})
	}
	return c.JSON(http.StatusOK, stock)
}
