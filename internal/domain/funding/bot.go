package funding

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/shared"
)

// BotStatus represents the operating state of a search bot
type BotStatus string

const (
	BotStatusActive BotStatus = "active"
	BotStatusPaused BotStatus = "paused"
)

// SearchBot is a registered scraping agent that submits opportunity
// postings for a target country or source. The bots run elsewhere;
// this aggregate tracks their registration and performance.
type SearchBot struct {
	shared.BaseAggregateRoot
	Name               string
	Country            string
	TargetURL          string
	Status             BotStatus
	OpportunitiesFound int
	RunCount           int
	SuccessfulRuns     int
	LastRunAt          *time.Time
}

// NewSearchBot registers a search bot
func NewSearchBot(name, country, targetURL string) (*SearchBot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_BOT_NAME", "Bot name cannot be empty")
	}

	return &SearchBot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Country:           strings.TrimSpace(country),
		TargetURL:         strings.TrimSpace(targetURL),
		Status:            BotStatusActive,
	}, nil
}

// Pause stops the bot from being credited for runs
func (b *SearchBot) Pause() error {
	if b.Status == BotStatusPaused {
		return shared.NewDomainError("ALREADY_PAUSED", "Bot is already paused")
	}
	b.Status = BotStatusPaused
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Resume reactivates a paused bot
func (b *SearchBot) Resume() error {
	if b.Status == BotStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Bot is already active")
	}
	b.Status = BotStatusActive
	b.Touch()
	b.IncrementVersion()
	return nil
}

// RecordRun records a completed run and the postings it found.
// A run that found at least one posting counts as successful.
func (b *SearchBot) RecordRun(found int) error {
	if b.Status != BotStatusActive {
		return shared.NewDomainError("BOT_PAUSED", "Paused bots cannot record runs")
	}
	if found < 0 {
		return shared.NewDomainError("INVALID_RUN", "Found count cannot be negative")
	}

	now := time.Now()
	b.RunCount++
	if found > 0 {
		b.SuccessfulRuns++
		b.OpportunitiesFound += found
		b.AddDomainEvent(NewBotRewardedEvent(b, found))
	}
	b.LastRunAt = &now
	b.Touch()
	b.IncrementVersion()

	return nil
}

// SuccessRate returns the fraction of runs that found postings
func (b *SearchBot) SuccessRate() float64 {
	if b.RunCount == 0 {
		return 0
	}
	return float64(b.SuccessfulRuns) / float64(b.RunCount)
}

// BotReward is an append-only record crediting a bot for found postings
type BotReward struct {
	ID                 uuid.UUID
	BotID              uuid.UUID
	OpportunitiesFound int
	AwardedAt          time.Time
}

// NewBotReward creates a reward record
func NewBotReward(botID uuid.UUID, found int) (*BotReward, error) {
	if found <= 0 {
		return nil, shared.NewDomainError("INVALID_REWARD", "Reward requires at least one found posting")
	}
	return &BotReward{
		ID:                 uuid.New(),
		BotID:              botID,
		OpportunitiesFound: found,
		AwardedAt:          time.Now(),
	}, nil
}

// BotRepository defines the interface for bot persistence
type BotRepository interface {
	Create(ctx context.Context, bot *SearchBot) error
	Update(ctx context.Context, bot *SearchBot) error
	FindByID(ctx context.Context, id uuid.UUID) (*SearchBot, error)
	FindByName(ctx context.Context, name string) (*SearchBot, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*SearchBot, int64, error)
	SaveReward(ctx context.Context, reward *BotReward) error
	FindRecentRewards(ctx context.Context, botID uuid.UUID, limit int) ([]*BotReward, error)
}
