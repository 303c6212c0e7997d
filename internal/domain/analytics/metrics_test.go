package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func moveAt(t time.Time, x, y float64) RawEvent {
	return RawEvent{Type: EventTypeMouseMove, X: x, Y: y, OccurredAt: t}
}

func clickAt(t time.Time, class string) RawEvent {
	return RawEvent{Type: EventTypeClick, ElementClass: class, OccurredAt: t}
}

func TestPointerDistance(t *testing.T) {
	base := time.Now()

	assert.Zero(t, PointerDistance(nil))
	assert.Zero(t, PointerDistance([]RawEvent{moveAt(base, 10, 10)}))

	samples := []RawEvent{
		moveAt(base, 0, 0),
		moveAt(base.Add(time.Second), 3, 4),
		moveAt(base.Add(2*time.Second), 3, 14),
	}
	assert.InDelta(t, 15.0, PointerDistance(samples), 0.001)
}

func TestScrollDistance(t *testing.T) {
	base := time.Now()
	samples := []RawEvent{
		{Type: EventTypeScroll, ScrollTop: 0, OccurredAt: base},
		{Type: EventTypeScroll, ScrollTop: 300, OccurredAt: base.Add(time.Second)},
		{Type: EventTypeScroll, ScrollTop: 100, OccurredAt: base.Add(2 * time.Second)},
	}
	assert.InDelta(t, 500.0, ScrollDistance(samples), 0.001)
}

func TestHesitationRatio(t *testing.T) {
	base := time.Now()

	t.Run("empty input", func(t *testing.T) {
		assert.Zero(t, HesitationRatio(nil))
	})

	t.Run("mixed slow and fast movement", func(t *testing.T) {
		// Two slow pairs (10px over 1s) and two fast pairs (500px over 1s)
		samples := []RawEvent{
			moveAt(base, 0, 0),
			moveAt(base.Add(1*time.Second), 10, 0),
			moveAt(base.Add(2*time.Second), 20, 0),
			moveAt(base.Add(3*time.Second), 520, 0),
			moveAt(base.Add(4*time.Second), 1020, 0),
		}
		assert.InDelta(t, 0.5, HesitationRatio(samples), 0.001)
	})

	t.Run("zero time delta pairs are skipped", func(t *testing.T) {
		samples := []RawEvent{
			moveAt(base, 0, 0),
			moveAt(base, 100, 0),
		}
		assert.Zero(t, HesitationRatio(samples))
	})
}

func TestFrustrationScore(t *testing.T) {
	base := time.Now()

	t.Run("calm session scores zero", func(t *testing.T) {
		mouse := []RawEvent{
			moveAt(base, 0, 0),
			moveAt(base.Add(time.Second), 50, 0),
		}
		clicks := []RawEvent{
			clickAt(base, "nav-link"),
			clickAt(base.Add(2*time.Second), "nav-link"),
		}
		assert.Zero(t, FrustrationScore(mouse, clicks, nil))
	})

	t.Run("rapid clicking raises the score", func(t *testing.T) {
		clicks := []RawEvent{
			clickAt(base, "submit"),
			clickAt(base.Add(100*time.Millisecond), "submit"),
			clickAt(base.Add(200*time.Millisecond), "submit"),
		}
		assert.InDelta(t, 2*rapidClickWeight, FrustrationScore(nil, clicks, nil), 0.001)
	})

	t.Run("score is capped at one", func(t *testing.T) {
		clicks := make([]RawEvent, 0, 20)
		for i := 0; i < 20; i++ {
			clicks = append(clicks, clickAt(base.Add(time.Duration(i)*50*time.Millisecond), "submit"))
		}
		assert.Equal(t, 1.0, FrustrationScore(nil, clicks, nil))
	})
}

func TestEngagementScore(t *testing.T) {
	assert.Zero(t, EngagementScore(0, 0, 0, 0))
	assert.InDelta(t, 0.25, EngagementScore(3, 5, 0, 0), 0.001)
	assert.Equal(t, 1.0, EngagementScore(100, 100, 50000, 100000))
}

func TestConfidenceScore(t *testing.T) {
	assert.Equal(t, 1.0, ConfidenceScore(0, 0))
	assert.InDelta(t, 0.5, ConfidenceScore(0.5, 0.5), 0.001)
	assert.Zero(t, ConfidenceScore(1.0, 1.0))
}

func TestInferIntent(t *testing.T) {
	base := time.Now()

	t.Run("no classified clicks", func(t *testing.T) {
		assert.Equal(t, IntentUnknown, InferIntent(nil))
		assert.Equal(t, IntentUnknown, InferIntent([]RawEvent{clickAt(base, "random-div")}))
	})

	t.Run("majority wins", func(t *testing.T) {
		clicks := []RawEvent{
			clickAt(base, "opportunity-card featured"),
			clickAt(base, "donor-card"),
			clickAt(base, "payment-form"),
		}
		assert.Equal(t, IntentDiscovery, InferIntent(clicks))
	})

	t.Run("ties break toward the most recent", func(t *testing.T) {
		clicks := []RawEvent{
			clickAt(base, "donor-card"),
			clickAt(base, "proposal-editor"),
		}
		assert.Equal(t, IntentAuthoring, InferIntent(clicks))
	})

	t.Run("class matching is case-insensitive", func(t *testing.T) {
		clicks := []RawEvent{clickAt(base, "Search-Input large")}
		assert.Equal(t, IntentSearching, InferIntent(clicks))
	})
}
