package funding

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// OpportunityService handles opportunity ingestion, search,
// verification, and matching
type OpportunityService struct {
	oppRepo    funding.OpportunityRepository
	donorRepo  funding.DonorRepository
	userRepo   identity.UserRepository
	verifier   *funding.Verifier
	outboxRepo shared.OutboxRepository
	logger     *zap.Logger
}

// NewOpportunityService creates a new opportunity service
func NewOpportunityService(
	oppRepo funding.OpportunityRepository,
	donorRepo funding.DonorRepository,
	userRepo identity.UserRepository,
	verifier *funding.Verifier,
	outboxRepo shared.OutboxRepository,
	logger *zap.Logger,
) *OpportunityService {
	return &OpportunityService{
		oppRepo:    oppRepo,
		donorRepo:  donorRepo,
		userRepo:   userRepo,
		verifier:   verifier,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Ingest stores a new opportunity. Re-ingesting the same
// title/source/description is a no-op that returns the existing record.
func (s *OpportunityService) Ingest(ctx context.Context, input IngestOpportunityInput) (*IngestResult, error) {
	hash := funding.ComputeContentHash(input.Title, input.SourceName, input.Description)
	existing, err := s.oppRepo.FindByContentHash(ctx, hash)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return &IngestResult{Opportunity: toOpportunityInfo(existing), Created: false}, nil
	}

	if _, err := s.donorRepo.FindByID(ctx, input.DonorID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNKNOWN_DONOR", "Donor not found")
		}
		return nil, err
	}

	opp, err := funding.NewDonorOpportunity(input.DonorID, input.Title, input.Description, input.SourceName, input.SourceURL)
	if err != nil {
		return nil, err
	}

	opp.SetLocation(input.Country, input.Sector, input.Keywords)
	opp.SetDeadline(input.Deadline)

	amountMin, amountMax, err := parseFundingRange(input)
	if err != nil {
		return nil, err
	}
	if err := opp.SetFunding(amountMin, amountMax); err != nil {
		return nil, err
	}

	if err := s.oppRepo.Create(ctx, opp); err != nil {
		return nil, err
	}

	if err := s.publishEvents(ctx, opp); err != nil {
		s.logger.Error("Failed to save ingest events", zap.Error(err))
	}

	s.logger.Info("Opportunity ingested",
		zap.String("opportunity_id", opp.ID.String()),
		zap.String("source", opp.SourceName))

	return &IngestResult{Opportunity: toOpportunityInfo(opp), Created: true}, nil
}

// Search returns a page of opportunities matching the filters
func (s *OpportunityService) Search(ctx context.Context, input SearchOpportunitiesInput) (*OpportunityPage, error) {
	filter := funding.NewOpportunityFilter()
	filter.Query = input.Query
	filter.Country = input.Country
	filter.Sector = input.Sector
	filter.VerifiedOnly = input.VerifiedOnly
	filter.DonorID = input.DonorID
	if input.Status != "" {
		filter.Status = input.Status
	}
	if input.Limit > 0 {
		filter.Limit = input.Limit
	}
	filter.Offset = input.Offset

	opps, total, err := s.oppRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]OpportunityInfo, 0, len(opps))
	for _, o := range opps {
		infos = append(infos, toOpportunityInfo(o))
	}
	return &OpportunityPage{Opportunities: infos, Total: total}, nil
}

// Get returns one opportunity by ID
func (s *OpportunityService) Get(ctx context.Context, id uuid.UUID) (*OpportunityInfo, error) {
	opp, err := s.oppRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toOpportunityInfo(opp)
	return &info, nil
}

// Verify runs the verification checks against an opportunity and
// records the resulting score
func (s *OpportunityService) Verify(ctx context.Context, id uuid.UUID) (*funding.VerificationReport, error) {
	opp, err := s.oppRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	report, err := s.verifier.Verify(ctx, opp)
	if err != nil {
		return nil, err
	}

	opp.RecordVerification(report.Score)
	if err := s.oppRepo.Update(ctx, opp); err != nil {
		return nil, err
	}

	if err := s.publishEvents(ctx, opp); err != nil {
		s.logger.Error("Failed to save verification events", zap.Error(err))
	}

	s.logger.Info("Opportunity verified",
		zap.String("opportunity_id", opp.ID.String()),
		zap.Float64("score", report.Score),
		zap.Bool("verified", report.Verified))

	return report, nil
}

// MatchesForUser ranks verified opportunities against a user's
// country and sector profile
func (s *OpportunityService) MatchesForUser(ctx context.Context, userID uuid.UUID, limit int) ([]MatchInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter := funding.NewOpportunityFilter()
	filter.VerifiedOnly = true
	filter.Limit = 100

	opps, _, err := s.oppRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	profile := funding.MatchProfile{Country: user.Country, Sector: user.Sector}
	matches := funding.RankMatches(profile, opps)

	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}

	infos := make([]MatchInfo, 0, limit)
	for _, m := range matches[:limit] {
		infos = append(infos, MatchInfo{
			Opportunity: toOpportunityInfo(m.Opportunity),
			Score:       m.Score,
			Reasons:     m.Reasons,
		})
	}
	return infos, nil
}

// SweepExpired marks active opportunities past their deadline as
// expired. Returns the number of postings swept.
func (s *OpportunityService) SweepExpired(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	opps, err := s.oppRepo.FindExpiring(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, opp := range opps {
		if err := opp.MarkExpired(); err != nil {
			continue
		}
		if err := s.oppRepo.Update(ctx, opp); err != nil {
			s.logger.Error("Failed to expire opportunity",
				zap.String("opportunity_id", opp.ID.String()),
				zap.Error(err))
			continue
		}
		swept++
	}

	if swept > 0 {
		s.logger.Info("Expired opportunities swept", zap.Int("count", swept))
	}
	return swept, nil
}

func parseFundingRange(input IngestOpportunityInput) (*valueobject.Money, *valueobject.Money, error) {
	currency := valueobject.Currency(input.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	var amountMin, amountMax *valueobject.Money
	if input.AmountMin != nil {
		m, err := valueobject.NewMoneyFromFloat(*input.AmountMin, currency)
		if err != nil {
			return nil, nil, err
		}
		amountMin = &m
	}
	if input.AmountMax != nil {
		m, err := valueobject.NewMoneyFromFloat(*input.AmountMax, currency)
		if err != nil {
			return nil, nil, err
		}
		amountMax = &m
	}
	return amountMin, amountMax, nil
}

// publishEvents saves the aggregate's domain events to the outbox
func (s *OpportunityService) publishEvents(ctx context.Context, opp *funding.DonorOpportunity) error {
	events := opp.GetDomainEvents()
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

	opp.ClearDomainEvents()
	return nil
}
