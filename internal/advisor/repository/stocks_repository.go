package repository

import (
	"context"

	"stock-advisor/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StocksRepository provides access to the stock universe table.
type StocksRepository interface {
	GetStocks(ctx context.Context) ([]entity.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	Count(ctx context.Context) (int64, error)
	UpsertQuotes(ctx context.Context, stocks []entity.Stock) error
	Seed(ctx context.Context, stocks []entity.Stock) error
}

type stocksRepository struct {
	db *gorm.DB
}

// NewStocksRepository creates a new StocksRepository.
func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

func (s *stocksRepository) GetStocks(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := s.db.WithContext(ctx).Order("symbol asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (s *stocksRepository) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (s *stocksRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&entity.Stock{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpsertQuotes replaces each stock's quote snapshot and derived labels,
// keyed by symbol. Rows are replaced wholesale so stale ratios never linger
// under a fresh price.
func (s *stocksRepository) UpsertQuotes(ctx context.Context, stocks []entity.Stock) error {
	if len(stocks) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "sector", "industry",
			"price", "change_pct", "volume", "market_cap",
			"pe_ratio", "pb_ratio", "roe", "roce", "debt_to_equity",
			"operating_margin", "net_margin", "eps", "beta",
			"health", "signal", "last_updated", "updated_at",
		}),
	}).Create(&stocks).Error
}

// Seed inserts the embedded universe, skipping symbols that already exist.
func (s *stocksRepository) Seed(ctx context.Context, stocks []entity.Stock) error {
	if len(stocks) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(&stocks).Error
}
