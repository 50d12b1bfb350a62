package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsMarketOpenIST(t *testing.T) {
	ist := GetISTLocation()

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"monday mid-session", time.Date(2025, 6, 2, 11, 0, 0, 0, ist), true},
		{"friday at open", time.Date(2025, 6, 6, 9, 15, 0, 0, ist), true},
		{"friday at close", time.Date(2025, 6, 6, 15, 30, 0, 0, ist), true},
		{"minute before open", time.Date(2025, 6, 2, 9, 14, 0, 0, ist), false},
		{"minute after close", time.Date(2025, 6, 2, 15, 31, 0, 0, ist), false},
		{"saturday", time.Date(2025, 6, 7, 11, 0, 0, 0, ist), false},
		{"sunday", time.Date(2025, 6, 8, 11, 0, 0, 0, ist), false},
		{"weekday midnight", time.Date(2025, 6, 4, 0, 0, 0, 0, ist), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, IsMarketOpenIST(tt.at))
		})
	}
}

func TestIsMarketOpenISTConvertsZones(t *testing.T) {
	// 06:00 UTC on a Monday is 11:30 IST, inside the session.
	utc := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	assert.True(t, IsMarketOpenIST(utc))

	// 11:00 UTC is 16:30 IST, after the close.
	late := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
	assert.False(t, IsMarketOpenIST(late))
}
