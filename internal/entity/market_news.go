package entity

import (
	"time"
)

// MarketNews is one harvested market headline. HashIdentifier deduplicates
// the same story arriving from different feeds.
type MarketNews struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Link           string     `gorm:"unique;not null" json:"link"`
	Source         string     `json:"source"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Summary        string     `json:"summary"`
	RawContent     string     `json:"-"`
	HashIdentifier string     `gorm:"unique;not null" json:"hash_identifier"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the MarketNews model.
func (MarketNews) TableName() string {
	return "market_news"
}
