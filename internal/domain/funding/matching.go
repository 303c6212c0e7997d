package funding

import (
	"fmt"
	"sort"
	"strings"
)

// Matching weights. A match starts from the base score for any active
// posting and gains weight for sector and geographic alignment,
// capped at 1.0.
const (
	matchBaseScore     = 0.3
	matchSectorWeight  = 0.4
	matchCountryWeight = 0.2

	// MinMatchScore is the floor below which a posting is not
	// considered a match at all
	MinMatchScore = 0.5
)

// MatchProfile is the slice of a user profile relevant to matching
type MatchProfile struct {
	Country string
	Sector  string
}

// Match pairs an opportunity with its score against a profile
type Match struct {
	Opportunity *DonorOpportunity
	Score       float64
	Reasons     []string
}

// ScoreMatch scores one opportunity against a profile
func ScoreMatch(profile MatchProfile, opp *DonorOpportunity) (float64, []string) {
	score := matchBaseScore
	var reasons []string

	if profile.Sector != "" && sectorAligned(profile.Sector, opp) {
		score += matchSectorWeight
		reasons = append(reasons, fmt.Sprintf("Sector alignment: %s", profile.Sector))
	}

	if profile.Country != "" && opp.MatchesCountry(profile.Country) {
		score += matchCountryWeight
		reasons = append(reasons, fmt.Sprintf("Geographic relevance: %s", profile.Country))
	}

	if len(opp.Keywords) > 0 {
		n := len(opp.Keywords)
		if n > 3 {
			n = 3
		}
		reasons = append(reasons, fmt.Sprintf("Keywords: %s", strings.Join(opp.Keywords[:n], ", ")))
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, reasons
}

func sectorAligned(sector string, opp *DonorOpportunity) bool {
	sector = strings.ToLower(sector)
	if strings.Contains(strings.ToLower(opp.Sector), sector) {
		return true
	}
	for _, kw := range opp.Keywords {
		if strings.Contains(strings.ToLower(kw), sector) {
			return true
		}
	}
	return false
}

// RankMatches scores each opportunity against the profile and returns
// matches at or above MinMatchScore, best first
func RankMatches(profile MatchProfile, opps []*DonorOpportunity) []Match {
	matches := make([]Match, 0, len(opps))
	for _, opp := range opps {
		score, reasons := ScoreMatch(profile, opp)
		if score < MinMatchScore {
			continue
		}
		matches = append(matches, Match{Opportunity: opp, Score: score, Reasons: reasons})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
