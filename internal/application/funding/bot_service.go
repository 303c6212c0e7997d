package funding

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BotService manages registered search bots and credits their runs
type BotService struct {
	botRepo    funding.BotRepository
	oppService *OpportunityService
	outboxRepo shared.OutboxRepository
	logger     *zap.Logger
}

// NewBotService creates a new bot service
func NewBotService(
	botRepo funding.BotRepository,
	oppService *OpportunityService,
	outboxRepo shared.OutboxRepository,
	logger *zap.Logger,
) *BotService {
	return &BotService{
		botRepo:    botRepo,
		oppService: oppService,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Register adds a new search bot
func (s *BotService) Register(ctx context.Context, input RegisterBotInput) (*BotInfo, error) {
	existing, err := s.botRepo.FindByName(ctx, input.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("BOT_EXISTS", "A bot with this name is already registered")
	}

	bot, err := funding.NewSearchBot(input.Name, input.Country, input.TargetURL)
	if err != nil {
		return nil, err
	}

	if err := s.botRepo.Create(ctx, bot); err != nil {
		return nil, err
	}

	s.logger.Info("Search bot registered",
		zap.String("bot_id", bot.ID.String()),
		zap.String("name", bot.Name),
		zap.String("country", bot.Country))

	info := toBotInfo(bot)
	return &info, nil
}

// Get returns one bot by ID
func (s *BotService) Get(ctx context.Context, id uuid.UUID) (*BotInfo, error) {
	bot, err := s.botRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toBotInfo(bot)
	return &info, nil
}

// List returns a page of registered bots
func (s *BotService) List(ctx context.Context, filter shared.Filter) ([]BotInfo, int64, error) {
	bots, total, err := s.botRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]BotInfo, 0, len(bots))
	for _, b := range bots {
		infos = append(infos, toBotInfo(b))
	}
	return infos, total, nil
}

// Pause stops a bot from submitting runs
func (s *BotService) Pause(ctx context.Context, id uuid.UUID) error {
	bot, err := s.botRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bot.Pause(); err != nil {
		return err
	}
	return s.botRepo.Update(ctx, bot)
}

// Resume reactivates a paused bot
func (s *BotService) Resume(ctx context.Context, id uuid.UUID) error {
	bot, err := s.botRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bot.Resume(); err != nil {
		return err
	}
	return s.botRepo.Update(ctx, bot)
}

// RecordIngestRun processes a batch of postings submitted by a bot.
// Each posting goes through the normal ingestion path, so duplicates
// are detected by content hash and do not count toward the reward.
// A paused bot cannot submit runs.
func (s *BotService) RecordIngestRun(ctx context.Context, botID uuid.UUID, postings []IngestOpportunityInput) (*BotRunResult, error) {
	bot, err := s.botRepo.FindByID(ctx, botID)
	if err != nil {
		return nil, err
	}
	if bot.Status != funding.BotStatusActive {
		return nil, shared.NewDomainError("BOT_PAUSED", "Paused bots cannot submit runs")
	}

	result := &BotRunResult{Submitted: len(postings)}
	for _, posting := range postings {
		ingested, err := s.oppService.Ingest(ctx, posting)
		if err != nil {
			result.Failed++
			s.logger.Warn("Bot posting rejected",
				zap.String("bot_id", botID.String()),
				zap.String("title", posting.Title),
				zap.Error(err))
			continue
		}
		if ingested.Created {
			result.Created++
		} else {
			result.Duplicate++
		}
	}

	if err := bot.RecordRun(result.Created); err != nil {
		return nil, err
	}
	if err := s.botRepo.Update(ctx, bot); err != nil {
		return nil, err
	}

	if result.Created > 0 {
		reward, err := funding.NewBotReward(bot.ID, result.Created)
		if err != nil {
			return nil, err
		}
		if err := s.botRepo.SaveReward(ctx, reward); err != nil {
			return nil, err
		}
	}

	if err := s.publishEvents(ctx, bot); err != nil {
		return nil, err
	}

	s.logger.Info("Bot run recorded",
		zap.String("bot_id", bot.ID.String()),
		zap.Int("submitted", result.Submitted),
		zap.Int("created", result.Created),
		zap.Int("duplicate", result.Duplicate),
		zap.Int("failed", result.Failed))

	return result, nil
}

// RecentRewards returns the latest reward records for a bot
func (s *BotService) RecentRewards(ctx context.Context, botID uuid.UUID, limit int) ([]*funding.BotReward, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.botRepo.FindRecentRewards(ctx, botID, limit)
}

func (s *BotService) publishEvents(ctx context.Context, bot *funding.SearchBot) error {
	events := bot.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("Failed to marshal event", zap.Error(err))
			continue
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	if len(entries) > 0 {
		if err := s.outboxRepo.Save(ctx, entries...); err != nil {
			return err
		}
	}

	bot.ClearDomainEvents()
	return nil
}
