package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectorTag(t *testing.T) {
	tests := []struct {
		input    string
		expected SectorTag
		wantErr  bool
	}{
		{"ALL", SectorAll, false},
		{"banking", SectorBanking, false},
		{" it ", SectorIT, false},
		{"Pharma", SectorPharma, false},
		{"", SectorAll, false},
		{"   ", SectorAll, false},
		{"CRYPTO", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSectorTag(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSectorTagMatches(t *testing.T) {
	tests := []struct {
		name     string
		tag      SectorTag
		sector   string
		industry string
		matches  bool
	}{
		{"all matches anything", SectorAll, "whatever", "", true},
		{"all matches empty", SectorAll, "", "", true},
		{"exact sector name", SectorIT, "IT", "", true},
		{"synonym in sector", SectorIT, "Information Technology", "IT Services", true},
		{"synonym in industry", SectorBanking, "Financial Services", "Private Bank", true},
		{"nbfc counts as banking", SectorBanking, "Financial Services", "NBFC", true},
		{"pharma via healthcare", SectorPharma, "Healthcare", "Drug Manufacturers", true},
		{"energy via refineries", SectorEnergy, "Energy", "Oil Refineries", true},
		{"case insensitive", SectorFMCG, "consumer goods", "FOOD PRODUCTS", true},
		{"no bleed across sectors", SectorIT, "Banking", "Private Bank", false},
		{"telecom does not match metal", SectorMetal, "Telecom", "Carriers", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.tag.Matches(tt.sector, tt.industry))
		})
	}
}
