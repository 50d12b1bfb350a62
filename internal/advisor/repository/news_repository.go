package repository

import (
	"context"
	"time"

	"stock-advisor/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsRepository stores harvested market headlines.
type NewsRepository interface {
	Create(ctx context.Context, news *entity.MarketNews) error
	GetLatest(ctx context.Context, limit int, maxAge time.Duration) ([]entity.MarketNews, error)
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new NewsRepository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

// Create inserts a headline, silently skipping duplicates by hash. The same
// story arriving from a second feed is not an error.
func (r *newsRepository) Create(ctx context.Context, news *entity.MarketNews) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash_identifier"}},
		DoNothing: true,
	}).Create(news).Error
}

func (r *newsRepository) GetLatest(ctx context.Context, limit int, maxAge time.Duration) ([]entity.MarketNews, error) {
	if limit <= 0 {
		limit = 10
	}
	query := r.db.WithContext(ctx).Order("published_at desc nulls last")
	if maxAge > 0 {
		query = query.Where("published_at > ?", time.Now().Add(-maxAge))
	}
	var items []entity.MarketNews
	if err := query.Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
