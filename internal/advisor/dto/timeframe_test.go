package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFrame(t *testing.T) {
	tests := []struct {
		input    string
		expected TimeFrame
		wantErr  bool
	}{
		{"7D", TimeFrame7D, false},
		{"7d", TimeFrame7D, false},
		{" 1m ", TimeFrame1M, false},
		{"3M", TimeFrame3M, false},
		{"6M", TimeFrame6M, false},
		{"1y", TimeFrame1Y, false},
		{"", "", true},
		{"2W", "", true},
		{"forever", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeFrame(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTimeFrameCacheTTL(t *testing.T) {
	tests := []struct {
		timeFrame TimeFrame
		ttl       time.Duration
	}{
		{TimeFrame7D, 15 * time.Minute},
		{TimeFrame1M, 30 * time.Minute},
		{TimeFrame3M, time.Hour},
		{TimeFrame6M, 2 * time.Hour},
		{TimeFrame1Y, 4 * time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ttl, tt.timeFrame.CacheTTL(), string(tt.timeFrame))
	}
}

func TestTimeFrameStopLossPct(t *testing.T) {
	tests := []struct {
		timeFrame TimeFrame
		pct       float64
	}{
		{TimeFrame7D, 0.03},
		{TimeFrame1M, 0.05},
		{TimeFrame3M, 0.08},
		{TimeFrame6M, 0.10},
		{TimeFrame1Y, 0.15},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.pct, tt.timeFrame.StopLossPct(), string(tt.timeFrame))
	}
}

func TestTimeFrameDescription(t *testing.T) {
	assert.Equal(t, "7 days", TimeFrame7D.Description())
	assert.Equal(t, "1 year", TimeFrame1Y.Description())
}
