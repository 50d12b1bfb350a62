package dto

import (
	"fmt"
	"strings"
)

// SectorTag is a coarse sector filter over the stock universe.
type SectorTag string

const (
	SectorAll     SectorTag = "ALL"
	SectorBanking SectorTag = "BANKING"
	SectorIT      SectorTag = "IT"
	SectorPharma  SectorTag = "PHARMA"
	SectorAuto    SectorTag = "AUTO"
	SectorEnergy  SectorTag = "ENERGY"
	SectorFMCG    SectorTag = "FMCG"
	SectorMetal   SectorTag = "METAL"
	SectorInfra   SectorTag = "INFRA"
	SectorTelecom SectorTag = "TELECOM"
)

// SectorTags lists every valid tag in display order.
var SectorTags = []SectorTag{
	SectorAll, SectorBanking, SectorIT, SectorPharma, SectorAuto,
	SectorEnergy, SectorFMCG, SectorMetal, SectorInfra, SectorTelecom,
}

// sectorSynonyms maps each tag to the lowercase fragments matched against a
// stock's sector and industry strings. Fragments stay specific enough that a
// substring match does not bleed across sectors.
var sectorSynonyms = map[SectorTag][]string{
	SectorBanking: {"bank", "financial", "finance", "nbfc", "insurance", "asset management"},
	SectorIT:      {"information technology", "software", "it services", "it consulting", "tech services", "computer"},
	SectorPharma:  {"pharma", "healthcare", "drug", "hospital", "diagnostics", "life sciences"},
	SectorAuto:    {"auto", "automobile", "automotive", "tyre", "two wheeler"},
	SectorEnergy:  {"energy", "oil", "gas", "power", "refineries", "petroleum", "coal"},
	SectorFMCG:    {"fmcg", "consumer", "food", "beverage", "personal care", "household"},
	SectorMetal:   {"metal", "steel", "mining", "aluminium", "copper", "zinc"},
	SectorInfra:   {"infra", "construction", "cement", "engineering", "realty", "real estate"},
	SectorTelecom: {"telecom", "communication"},
}

// ParseSectorTag validates a raw query value. Matching is case-insensitive
// and an empty value means ALL.
func ParseSectorTag(s string) (SectorTag, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return SectorAll, nil
	}
	tag := SectorTag(trimmed)
	for _, known := range SectorTags {
		if tag == known {
			return tag, nil
		}
	}
	return "", fmt.Errorf("unknown sector %q", s)
}

// Matches reports whether a stock classified under the given sector and
// industry strings belongs to this tag. ALL matches everything.
func (t SectorTag) Matches(sector, industry string) bool {
	if t == SectorAll {
		return true
	}
	haystack := strings.ToLower(sector) + " " + strings.ToLower(industry)
	if strings.TrimSpace(strings.ToLower(sector)) == strings.ToLower(string(t)) {
		return true
	}
	for _, fragment := range sectorSynonyms[t] {
		if strings.Contains(haystack, fragment) {
			return true
		}
	}
	return false
}
