package repository

import (
	"context"

	"stock-advisor/internal/entity"

	"gorm.io/gorm"
)

// RecommendationsRepository persists generated recommendation sets for audit.
type RecommendationsRepository interface {
	Create(ctx context.Context, rec *entity.StockRecommendation) error
	GetLatest(ctx context.Context, timeFrame, sector string) (*entity.StockRecommendation, error)
	GetHistory(ctx context.Context, timeFrame, sector string, limit int) ([]entity.StockRecommendation, error)
}

type recommendationsRepository struct {
	db *gorm.DB
}

// NewRecommendationsRepository creates a new RecommendationsRepository.
func NewRecommendationsRepository(db *gorm.DB) RecommendationsRepository {
	return &recommendationsRepository{db: db}
}

func (r *recommendationsRepository) Create(ctx context.Context, rec *entity.StockRecommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recommendationsRepository) GetLatest(ctx context.Context, timeFrame, sector string) (*entity.StockRecommendation, error) {
	var rec entity.StockRecommendation
	err := r.db.WithContext(ctx).
		Where("time_frame = ? AND sector = ?", timeFrame, sector).
		Order("generated_at desc").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationsRepository) GetHistory(ctx context.Context, timeFrame, sector string, limit int) ([]entity.StockRecommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []entity.StockRecommendation
	err := r.db.WithContext(ctx).
		Where("time_frame = ? AND sector = ?", timeFrame, sector).
		Order("generated_at desc").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
