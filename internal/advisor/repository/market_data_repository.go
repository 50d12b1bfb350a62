package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/internal/advisor/dto"
	"stock-advisor/pkg/logger"

	"github.com/piquette/finance-go/equity"
	"golang.org/x/time/rate"
)

// MarketDataRepository fetches live quotes for the stock universe.
type MarketDataRepository interface {
	FetchQuote(ctx context.Context, symbol string) (*dto.QuoteSnapshot, error)
}

// yahooMarketDataRepository fetches quotes from Yahoo Finance. NSE symbols
// carry a .NS suffix on Yahoo.
type yahooMarketDataRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewYahooMarketDataRepository creates a new Yahoo-backed MarketDataRepository.
func NewYahooMarketDataRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	perMinute := cfg.MarketData.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	requestLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)

	return &yahooMarketDataRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *yahooMarketDataRepository) FetchQuote(ctx context.Context, symbol string) (*dto.QuoteSnapshot, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	yahooSymbol := toYahooSymbol(symbol)
	q, err := equity.Get(yahooSymbol)
	if err != nil {
		r.logger.Error("Failed to fetch quote",
			logger.StringField("symbol", yahooSymbol),
			logger.ErrorField(err),
		)
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("no quote returned for %s", symbol)
	}

	snapshot := &dto.QuoteSnapshot{
		Symbol:    symbol,
		Name:      q.ShortName,
		Price:     q.RegularMarketPrice,
		ChangePct: q.RegularMarketChangePercent,
		Volume:    int64(q.RegularMarketVolume),
		MarketCap: float64(q.MarketCap),
	}
	if q.TrailingPE > 0 {
		pe := q.TrailingPE
		snapshot.PERatio = &pe
	}
	if q.PriceToBook > 0 {
		pb := q.PriceToBook
		snapshot.PBRatio = &pb
	}
	if q.EpsTrailingTwelveMonths != 0 {
		eps := q.EpsTrailingTwelveMonths
		snapshot.EPS = &eps
	}
	// Yahoo's quote endpoint carries no ROE; earnings over book value per
	// share is the same ratio.
	if q.BookValue > 0 && q.EpsTrailingTwelveMonths != 0 {
		roe := q.EpsTrailingTwelveMonths / q.BookValue * 100
		snapshot.ROE = &roe
	}

	return snapshot, nil
}

// toYahooSymbol maps an NSE symbol to Yahoo's ticker form. Symbols already
// carrying an exchange suffix pass through unchanged.
func toYahooSymbol(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".NS"
}
