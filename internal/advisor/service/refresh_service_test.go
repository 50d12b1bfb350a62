package service

import (
	"context"
	"errors"
	"testing"

	"stock-advisor/internal/advisor/config"
	"stock-advisor/internal/advisor/dto"
	"stock-advisor/internal/entity"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMarketDataRepo struct {
	quotes map[string]*dto.QuoteSnapshot
}

func (r *stubMarketDataRepo) FetchQuote(ctx context.Context, symbol string) (*dto.QuoteSnapshot, error) {
	quote, ok := r.quotes[symbol]
	if !ok {
		return nil, errors.New("quote not found")
	}
	return quote, nil
}

type stubNewsService struct {
	stored int
	err    error
}

func (s *stubNewsService) Harvest(ctx context.Context) (int, error) {
	return s.stored, s.err
}

func (s *stubNewsService) LatestHeadlines(ctx context.Context, limit int) ([]entity.MarketNews, error) {
	return nil, nil
}

type stubRecommendationService struct {
	timeFrames []dto.TimeFrame
	err        error
}

func (s *stubRecommendationService) GetRecommendations(ctx context.Context, timeFrame dto.TimeFrame, sector dto.SectorTag) (*dto.RecommendationResponse, error) {
	s.timeFrames = append(s.timeFrames, timeFrame)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.RecommendationResponse{TimeFrame: timeFrame, Sector: sector}, nil
}

func (s *stubRecommendationService) ClearCache(ctx context.Context) error {
	return nil
}

func newTestRefreshService(cfg *config.Config, universe []entity.Stock, market *stubMarketDataRepo, stocks *stubStocksRepo, recs *stubRecommendationService) RefreshService {
	return NewRefreshService(
		cfg,
		logger.NewNop(),
		&staticUniverse{stocks: universe},
		market,
		stocks,
		&stubNewsService{},
		recs,
		nil,
	)
}

func TestRefreshQuotes(t *testing.T) {
	universe := []entity.Stock{
		{Symbol: "TCS", Name: "Tata Consultancy Services", DebtToEquity: utils.ToPointer(0.1)},
		{Symbol: "INFY", Name: "Infosys"},
	}
	market := &stubMarketDataRepo{quotes: map[string]*dto.QuoteSnapshot{
		"TCS":  {Symbol: "TCS", Price: 4200, ChangePct: 1.4, Volume: 1000, MarketCap: 15e12, ROE: utils.ToPointer(46.0)},
		"INFY": {Symbol: "INFY", Price: 1490, ChangePct: -2.3, Volume: 2000},
	}}
	stocksRepo := &stubStocksRepo{}
	svc := newTestRefreshService(&config.Config{}, universe, market, stocksRepo, &stubRecommendationService{})

	require.NoError(t, svc.RefreshQuotes(context.Background()))
	require.Len(t, stocksRepo.upserted, 2)

	bySymbol := map[string]entity.Stock{}
	for _, stock := range stocksRepo.upserted {
		bySymbol[stock.Symbol] = stock
	}

	tcs := bySymbol["TCS"]
	assert.Equal(t, 4200.0, tcs.Price)
	assert.Equal(t, 1.4, tcs.ChangePct)
	assert.Equal(t, int64(1000), tcs.Volume)
	// ROE 46 (+2) and debt/equity 0.1 (+1) grade the fundamentals GOOD, and
	// the up day on a healthy stock reads as a BUY.
	assert.Equal(t, entity.HealthGood, tcs.Health)
	assert.Equal(t, entity.SignalBuy, tcs.Signal)
	assert.False(t, tcs.LastUpdated.IsZero())

	infy := bySymbol["INFY"]
	assert.Equal(t, entity.HealthNormal, infy.Health)
	assert.Equal(t, entity.SignalSell, infy.Signal)
}

func TestRefreshQuotesToleratesPartialFailure(t *testing.T) {
	universe := []entity.Stock{
		{Symbol: "TCS", Name: "Tata Consultancy Services"},
		{Symbol: "GONE", Name: "Delisted Ltd"},
	}
	market := &stubMarketDataRepo{quotes: map[string]*dto.QuoteSnapshot{
		"TCS": {Symbol: "TCS", Price: 4200, ChangePct: 0.1, Volume: 1000},
	}}
	stocksRepo := &stubStocksRepo{}
	svc := newTestRefreshService(&config.Config{}, universe, market, stocksRepo, &stubRecommendationService{})

	require.NoError(t, svc.RefreshQuotes(context.Background()))
	require.Len(t, stocksRepo.upserted, 1)
	assert.Equal(t, "TCS", stocksRepo.upserted[0].Symbol)
}

func TestRefreshQuotesFailsWhenNothingRefreshed(t *testing.T) {
	universe := []entity.Stock{{Symbol: "TCS"}}
	market := &stubMarketDataRepo{quotes: map[string]*dto.QuoteSnapshot{}}
	stocksRepo := &stubStocksRepo{}
	svc := newTestRefreshService(&config.Config{}, universe, market, stocksRepo, &stubRecommendationService{})

	err := svc.RefreshQuotes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no quotes refreshed")
	assert.Empty(t, stocksRepo.upserted)
}

func TestRefreshQuotesEmptyUniverse(t *testing.T) {
	stocksRepo := &stubStocksRepo{}
	svc := newTestRefreshService(&config.Config{}, nil, &stubMarketDataRepo{}, stocksRepo, &stubRecommendationService{})

	require.NoError(t, svc.RefreshQuotes(context.Background()))
	assert.Empty(t, stocksRepo.upserted)
}

func TestHarvestNewsPropagatesError(t *testing.T) {
	svc := NewRefreshService(
		&config.Config{}, logger.NewNop(), &staticUniverse{}, &stubMarketDataRepo{},
		&stubStocksRepo{}, &stubNewsService{err: errors.New("all 3 feeds failed")},
		&stubRecommendationService{}, nil,
	)

	err := svc.HarvestNews(context.Background())
	require.Error(t, err)
}

func TestPrewarmCacheDefaultsToSevenDays(t *testing.T) {
	recs := &stubRecommendationService{}
	svc := newTestRefreshService(&config.Config{}, nil, &stubMarketDataRepo{}, &stubStocksRepo{}, recs)

	require.NoError(t, svc.PrewarmCache(context.Background()))
	require.Len(t, recs.timeFrames, 1)
	assert.Equal(t, dto.TimeFrame7D, recs.timeFrames[0])
}

func TestPrewarmCacheUsesConfiguredTimeFrame(t *testing.T) {
	cfg := &config.Config{}
	cfg.Refresh.PrewarmTimeFrame = "1M"
	recs := &stubRecommendationService{}
	svc := newTestRefreshService(cfg, nil, &stubMarketDataRepo{}, &stubStocksRepo{}, recs)

	require.NoError(t, svc.PrewarmCache(context.Background()))
	require.Len(t, recs.timeFrames, 1)
	assert.Equal(t, dto.TimeFrame1M, recs.timeFrames[0])
}

func TestPrewarmCacheRejectsInvalidTimeFrame(t *testing.T) {
	cfg := &config.Config{}
	cfg.Refresh.PrewarmTimeFrame = "2W"
	recs := &stubRecommendationService{}
	svc := newTestRefreshService(cfg, nil, &stubMarketDataRepo{}, &stubStocksRepo{}, recs)

	err := svc.PrewarmCache(context.Background())
	require.Error(t, err)
	assert.Empty(t, recs.timeFrames)
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	cfg := &config.Config{}
	cfg.Refresh.QuoteSchedule = "not a schedule"
	svc := newTestRefreshService(cfg, nil, &stubMarketDataRepo{}, &stubStocksRepo{}, &stubRecommendationService{})

	err := svc.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid quote schedule")
}

func TestStartAndStop(t *testing.T) {
	cfg := &config.Config{}
	cfg.Refresh.QuoteSchedule = "*/15 * * * *"
	cfg.Refresh.NewsSchedule = "0 * * * *"
	svc := newTestRefreshService(cfg, nil, &stubMarketDataRepo{}, &stubStocksRepo{}, &stubRecommendationService{})

	require.NoError(t, svc.Start(context.Background()))
	svc.Stop()
}

func TestDeriveHealth(t *testing.T) {
	tests := []struct {
		name     string
		stock    entity.Stock
		expected entity.Health
	}{
		{
			name: "strong on every ratio",
			stock: entity.Stock{
				ROE:             utils.ToPointer(22.0),
				DebtToEquity:    utils.ToPointer(0.2),
				OperatingMargin: utils.ToPointer(24.0),
				NetMargin:       utils.ToPointer(18.0),
			},
			expected: entity.HealthBest,
		},
		{
			name: "good roe and clean balance sheet",
			stock: entity.Stock{
				ROE:          utils.ToPointer(15.0),
				DebtToEquity: utils.ToPointer(0.4),
			},
			expected: entity.HealthGood,
		},
		{
			name:     "no ratios at all",
			stock:    entity.Stock{},
			expected: entity.HealthNormal,
		},
		{
			name: "single weak ratio",
			stock: entity.Stock{
				ROE: utils.ToPointer(5.0),
			},
			expected: entity.HealthBad,
		},
		{
			name: "weak and leveraged",
			stock: entity.Stock{
				ROE:          utils.ToPointer(5.0),
				DebtToEquity: utils.ToPointer(3.0),
			},
			expected: entity.HealthWorse,
		},
		{
			name: "middling roe alone stays normal",
			stock: entity.Stock{
				ROE: utils.ToPointer(12.0),
			},
			expected: entity.HealthNormal,
		},
		{
			name: "margins offset leverage",
			stock: entity.Stock{
				ROE:             utils.ToPointer(19.0),
				DebtToEquity:    utils.ToPointer(2.5),
				OperatingMargin: utils.ToPointer(20.0),
			},
			expected: entity.HealthGood,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deriveHealth(tt.stock))
		})
	}
}

func TestDeriveSignal(t *testing.T) {
	tests := []struct {
		name      string
		changePct float64
		health    entity.Health
		expected  entity.Signal
	}{
		{"up day on healthy stock", 1.2, entity.HealthGood, entity.SignalBuy},
		{"up day at threshold", 1.0, entity.HealthNormal, entity.SignalBuy},
		{"up day on weak stock", 1.5, entity.HealthBad, entity.SignalHold},
		{"hard down day", -2.0, entity.HealthBest, entity.SignalSell},
		{"soft down day on weak stock", -1.0, entity.HealthBad, entity.SignalSell},
		{"soft down day on worse stock", -1.2, entity.HealthWorse, entity.SignalSell},
		{"soft down day on healthy stock", -1.5, entity.HealthNormal, entity.SignalHold},
		{"flat day", 0.2, entity.HealthBest, entity.SignalHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deriveSignal(tt.changePct, tt.health))
		})
	}
}

func TestMergeQuote(t *testing.T) {
	stored := entity.Stock{
		Symbol:          "TCS",
		Name:            "Tata Consultancy Services",
		Price:           4000,
		MarketCap:       15e12,
		PERatio:         utils.ToPointer(30.0),
		DebtToEquity:    utils.ToPointer(0.1),
		OperatingMargin: utils.ToPointer(25.0),
	}

	t.Run("quote overrides price fields", func(t *testing.T) {
		merged := mergeQuote(stored, &dto.QuoteSnapshot{
			Price:     4200,
			ChangePct: 1.1,
			Volume:    5000,
			MarketCap: 16e12,
			PERatio:   utils.ToPointer(31.0),
		})
		assert.Equal(t, 4200.0, merged.Price)
		assert.Equal(t, 1.1, merged.ChangePct)
		assert.Equal(t, int64(5000), merged.Volume)
		assert.Equal(t, 16e12, merged.MarketCap)
		require.NotNil(t, merged.PERatio)
		assert.Equal(t, 31.0, *merged.PERatio)
	})

	t.Run("missing quote fields keep stored values", func(t *testing.T) {
		merged := mergeQuote(stored, &dto.QuoteSnapshot{Price: 4100, ChangePct: -0.3})
		assert.Equal(t, "Tata Consultancy Services", merged.Name)
		assert.Equal(t, 15e12, merged.MarketCap)
		require.NotNil(t, merged.PERatio)
		assert.Equal(t, 30.0, *merged.PERatio)
		require.NotNil(t, merged.DebtToEquity)
		assert.Equal(t, 0.1, *merged.DebtToEquity)
	})

	t.Run("fundamentals the quote never carries survive", func(t *testing.T) {
		merged := mergeQuote(stored, &dto.QuoteSnapshot{Price: 4100, ROE: utils.ToPointer(46.0)})
		require.NotNil(t, merged.OperatingMargin)
		assert.Equal(t, 25.0, *merged.OperatingMargin)
		require.NotNil(t, merged.ROE)
		assert.Equal(t, 46.0, *merged.ROE)
	})
}
