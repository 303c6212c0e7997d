package report

import (
	"context"
	"time"

	"github.com/granada-os/backend/internal/domain/analytics"
	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/proposal"
	"go.uber.org/zap"
)

const recentPaymentLimit = 10

// UserStats summarizes the user base
type UserStats struct {
	Total    int64            `json:"total"`
	ByType   map[string]int64 `json:"by_type"`
	Banned   int64            `json:"banned"`
	Students int64            `json:"students"`
	NGOs     int64            `json:"ngos"`
}

// OpportunityStats summarizes the funding catalog
type OpportunityStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Expired  int64 `json:"expired"`
	Archived int64 `json:"archived"`
	Verified int64 `json:"verified"`
}

// ProposalStats summarizes proposals by status
type ProposalStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// CreditStats summarizes platform-wide credit movement
type CreditStats struct {
	Issued int64 `json:"issued"`
	Spent  int64 `json:"spent"`
}

// RecentPayment is one row of the dashboard payment feed
type RecentPayment struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	PackageID string `json:"package_id"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// DashboardStats is the admin dashboard aggregate
type DashboardStats struct {
	Users           UserStats        `json:"users"`
	Opportunities   OpportunityStats `json:"opportunities"`
	Proposals       ProposalStats    `json:"proposals"`
	Credits         CreditStats      `json:"credits"`
	RecentPayments  []RecentPayment  `json:"recent_payments"`
	InteractionsDay int64            `json:"interactions_24h"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// DashboardService aggregates cross-domain counters for the admin dashboard
type DashboardService struct {
	userRepo        identity.UserRepository
	oppRepo         funding.OpportunityRepository
	proposalRepo    proposal.Repository
	ledgerRepo      billing.CreditTransactionRepository
	paymentRepo     billing.PaymentRepository
	interactionRepo analytics.InteractionRepository
	logger          *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	userRepo identity.UserRepository,
	oppRepo funding.OpportunityRepository,
	proposalRepo proposal.Repository,
	ledgerRepo billing.CreditTransactionRepository,
	paymentRepo billing.PaymentRepository,
	interactionRepo analytics.InteractionRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		userRepo:        userRepo,
		oppRepo:         oppRepo,
		proposalRepo:    proposalRepo,
		ledgerRepo:      ledgerRepo,
		paymentRepo:     paymentRepo,
		interactionRepo: interactionRepo,
		logger:          logger,
	}
}

// Stats assembles the full dashboard snapshot
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	users, err := s.userStats(ctx)
	if err != nil {
		return nil, err
	}

	opportunities, err := s.opportunityStats(ctx)
	if err != nil {
		return nil, err
	}

	proposals, err := s.proposalStats(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.ledgerRepo.Totals(ctx)
	if err != nil {
		s.logger.Error("failed to load credit totals", zap.Error(err))
		return nil, err
	}

	payments, err := s.recentPayments(ctx)
	if err != nil {
		return nil, err
	}

	interactions, err := s.interactionRepo.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		s.logger.Error("failed to count interactions", zap.Error(err))
		return nil, err
	}

	return &DashboardStats{
		Users:           users,
		Opportunities:   opportunities,
		Proposals:       proposals,
		Credits:         CreditStats{Issued: totals.Issued, Spent: totals.Spent},
		RecentPayments:  payments,
		InteractionsDay: interactions,
		GeneratedAt:     time.Now(),
	}, nil
}

func (s *DashboardService) userStats(ctx context.Context) (UserStats, error) {
	byType, err := s.userRepo.CountByType(ctx)
	if err != nil {
		s.logger.Error("failed to count users by type", zap.Error(err))
		return UserStats{}, err
	}

	banned, err := s.userRepo.CountBanned(ctx)
	if err != nil {
		s.logger.Error("failed to count banned users", zap.Error(err))
		return UserStats{}, err
	}

	stats := UserStats{
		ByType:   make(map[string]int64, len(byType)),
		Banned:   banned,
		Students: byType[identity.UserTypeStudent],
		NGOs:     byType[identity.UserTypeNGO],
	}
	for userType, count := range byType {
		stats.ByType[string(userType)] = count
		stats.Total += count
	}
	return stats, nil
}

func (s *DashboardService) opportunityStats(ctx context.Context) (OpportunityStats, error) {
	byStatus, err := s.oppRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count opportunities", zap.Error(err))
		return OpportunityStats{}, err
	}

	verified, err := s.oppRepo.CountVerified(ctx)
	if err != nil {
		s.logger.Error("failed to count verified opportunities", zap.Error(err))
		return OpportunityStats{}, err
	}

	stats := OpportunityStats{
		Active:   byStatus[funding.OpportunityStatusActive],
		Expired:  byStatus[funding.OpportunityStatusExpired],
		Archived: byStatus[funding.OpportunityStatusArchived],
		Verified: verified,
	}
	for _, count := range byStatus {
		stats.Total += count
	}
	return stats, nil
}

func (s *DashboardService) proposalStats(ctx context.Context) (ProposalStats, error) {
	byStatus, err := s.proposalRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count proposals", zap.Error(err))
		return ProposalStats{}, err
	}

	stats := ProposalStats{ByStatus: make(map[string]int64, len(byStatus))}
	for status, count := range byStatus {
		stats.ByStatus[string(status)] = count
		stats.Total += count
	}
	return stats, nil
}

func (s *DashboardService) recentPayments(ctx context.Context) ([]RecentPayment, error) {
	payments, err := s.paymentRepo.FindRecent(ctx, recentPaymentLimit)
	if err != nil {
		s.logger.Error("failed to load recent payments", zap.Error(err))
		return nil, err
	}

	rows := make([]RecentPayment, len(payments))
	for i, p := range payments {
		rows[i] = RecentPayment{
			ID:        p.ID.String(),
			UserID:    p.UserID.String(),
			PackageID: p.PackageID,
			Amount:    p.Amount.Amount().StringFixed(2),
			Status:    string(p.Status),
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		}
	}
	return rows, nil
}
