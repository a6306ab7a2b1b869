package discovery

import "strings"

// RegionProfile selects a Google News edition (HL/GL/CEID influence what
// Google News returns).
type RegionProfile struct {
	Code string // "US"
	HL   string // "en-US"
	GL   string // "US"
	CEID string // "US:en"
}

// DefaultRegions are the English editions queried for fetch-all-sources.
func DefaultRegions() []RegionProfile {
	return RegionProfiles([]string{"US", "GB", "IN", "AU"})
}

// RegionProfiles builds English edition profiles for ISO2 codes, skipping
// blanks and duplicates.
func RegionProfiles(codes []string) []RegionProfile {
	seen := map[string]struct{}{}
	out := make([]RegionProfile, 0, len(codes))
	for _, c := range codes {
		p, ok := BuildRegionProfile(c, "en")
		if !ok {
			continue
		}
		if _, dup := seen[p.Code]; dup {
			continue
		}
		seen[p.Code] = struct{}{}
		out = append(out, p)
	}
	return out
}

// BuildRegionProfile generates hl/gl/ceid from ISO2 + language.
// Example: ISO2=IN, lang=en -> hl=en-IN, gl=IN, ceid=IN:en
func BuildRegionProfile(iso2, lang string) (RegionProfile, bool) {
	iso2 = strings.ToUpper(strings.TrimSpace(iso2))
	lang = strings.ToLower(strings.TrimSpace(lang))
	if iso2 == "" || lang == "" {
		return RegionProfile{}, false
	}
	return RegionProfile{
		Code: iso2,
		HL:   lang + "-" + iso2,
		GL:   iso2,
		CEID: iso2 + ":" + lang,
	}, true
}
