package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StockRecommendation is an audit row for one generated recommendation set.
// The full response is kept as JSON so past advice can be replayed exactly;
// Symbols is duplicated out of it so history can be queried per stock.
type StockRecommendation struct {
	ID            int64          `json:"id"`
	TimeFrame     string         `gorm:"not null" json:"time_frame"`
	Sector        string         `gorm:"not null" json:"sector"`
	Source        string         `gorm:"not null" json:"source"`
	AnalyzedCount int            `json:"analyzed_count"`
	Symbols       pq.StringArray `gorm:"type:text[]" json:"symbols"`
	Data          datatypes.JSON `gorm:"type:jsonb" json:"data"`
	GeneratedAt   time.Time      `json:"generated_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"`
}

func (StockRecommendation) TableName() string {
	return "stock_recommendations"
}
