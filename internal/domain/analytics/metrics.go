package analytics

import (
	"math"
	"strings"
)

// Velocity thresholds in pixels per second
const (
	hesitationVelocity = 50.0
	fastMoveVelocity   = 1500.0
)

// Rapid clicks are repeat clicks within this window
const rapidClickWindow = 300 // milliseconds

// Frustration weights; the weighted sum is capped at 1.0
const (
	fastMoveWeight        = 0.02
	rapidClickWeight      = 0.15
	excessiveScrollCount  = 100
	excessiveScrollWeight = 0.25
)

// Engagement weights; the weighted sum is capped at 1.0
const (
	clickEngagementWeight = 0.05
	keyEngagementWeight   = 0.02
	scrollEngagementUnit  = 5000.0
	pointerEngagementUnit = 20000.0
)

// Intent categories inferred from clicked element classes
const (
	IntentDiscovery  = "discovery"
	IntentAuthoring  = "authoring"
	IntentPurchasing = "purchasing"
	IntentNavigation = "navigation"
	IntentSearching  = "searching"
	IntentUnknown    = "unknown"
)

// classIntents maps element class fragments to intent categories
var classIntents = map[string]string{
	"donor-card":       IntentDiscovery,
	"opportunity-card": IntentDiscovery,
	"match-card":       IntentDiscovery,
	"proposal-editor":  IntentAuthoring,
	"proposal-form":    IntentAuthoring,
	"payment-form":     IntentPurchasing,
	"credit-package":   IntentPurchasing,
	"nav-link":         IntentNavigation,
	"menu-item":        IntentNavigation,
	"search-input":     IntentSearching,
	"search-button":    IntentSearching,
}

// PointerDistance sums the euclidean distance between consecutive
// pointer samples
func PointerDistance(samples []RawEvent) float64 {
	total := 0.0
	for i := 1; i < len(samples); i++ {
		dx := samples[i].X - samples[i-1].X
		dy := samples[i].Y - samples[i-1].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// ScrollDistance sums the absolute scroll offset deltas
func ScrollDistance(samples []RawEvent) float64 {
	total := 0.0
	for i := 1; i < len(samples); i++ {
		total += math.Abs(samples[i].ScrollTop - samples[i-1].ScrollTop)
	}
	return total
}

// HesitationRatio is the fraction of pointer movements slower than the
// hesitation velocity threshold
func HesitationRatio(samples []RawEvent) float64 {
	if len(samples) < 2 {
		return 0
	}
	slow := 0
	pairs := 0
	for i := 1; i < len(samples); i++ {
		v, ok := velocity(samples[i-1], samples[i])
		if !ok {
			continue
		}
		pairs++
		if v < hesitationVelocity {
			slow++
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(slow) / float64(pairs)
}

// FrustrationScore is a heuristic weighted sum over erratic pointer
// movement, rapid clicking, and excessive scrolling, capped at 1.0
func FrustrationScore(mouse, clicks, scrolls []RawEvent) float64 {
	score := float64(fastMoveCount(mouse)) * fastMoveWeight
	score += float64(rapidClickCount(clicks)) * rapidClickWeight
	if len(scrolls) >= excessiveScrollCount {
		score += excessiveScrollWeight
	}
	return clamp01(score)
}

// EngagementScore rewards interaction volume, capped at 1.0
func EngagementScore(clicks, keyPresses int, scrollDistance, pointerDistance float64) float64 {
	score := float64(clicks) * clickEngagementWeight
	score += float64(keyPresses) * keyEngagementWeight
	score += (scrollDistance / scrollEngagementUnit) * 0.25
	score += (pointerDistance / pointerEngagementUnit) * 0.25
	return clamp01(score)
}

// ConfidenceScore is high when the user moves decisively and is not
// frustrated, capped to [0, 1]
func ConfidenceScore(hesitationRatio, frustrationScore float64) float64 {
	return clamp01(1.0 - hesitationRatio*0.6 - frustrationScore*0.4)
}

// InferIntent takes a majority vote over the intent categories of the
// clicked element classes. Ties break toward the most recent click.
func InferIntent(clicks []RawEvent) string {
	votes := make(map[string]int)
	lastSeen := make(map[string]int)
	for i, c := range clicks {
		intent := intentForClass(c.ElementClass)
		if intent == IntentUnknown {
			continue
		}
		votes[intent]++
		lastSeen[intent] = i
	}
	if len(votes) == 0 {
		return IntentUnknown
	}

	best := IntentUnknown
	for intent, n := range votes {
		if best == IntentUnknown || n > votes[best] ||
			(n == votes[best] && lastSeen[intent] > lastSeen[best]) {
			best = intent
		}
	}
	return best
}

func intentForClass(class string) string {
	lower := strings.ToLower(class)
	for fragment, intent := range classIntents {
		if strings.Contains(lower, fragment) {
			return intent
		}
	}
	return IntentUnknown
}

func velocity(a, b RawEvent) (float64, bool) {
	dt := b.OccurredAt.Sub(a.OccurredAt).Seconds()
	if dt <= 0 {
		return 0, false
	}
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx+dy*dy) / dt, true
}

func fastMoveCount(samples []RawEvent) int {
	count := 0
	for i := 1; i < len(samples); i++ {
		if v, ok := velocity(samples[i-1], samples[i]); ok && v > fastMoveVelocity {
			count++
		}
	}
	return count
}

func rapidClickCount(clicks []RawEvent) int {
	count := 0
	for i := 1; i < len(clicks); i++ {
		gap := clicks[i].OccurredAt.Sub(clicks[i-1].OccurredAt).Milliseconds()
		if gap >= 0 && gap < rapidClickWindow {
			count++
		}
	}
	return count
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
