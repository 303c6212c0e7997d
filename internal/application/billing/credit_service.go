package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// CreditService exposes credit balances, packages, and ledger history
type CreditService struct {
	ledgerRepo billing.CreditTransactionRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewCreditService creates a new credit service
func NewCreditService(
	ledgerRepo billing.CreditTransactionRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *CreditService {
	return &CreditService{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Packages returns the purchasable credit packages
func (s *CreditService) Packages() []PackageInfo {
	packages := billing.DefaultPackages()
	infos := make([]PackageInfo, 0, len(packages))
	for _, pkg := range packages {
		infos = append(infos, toPackageInfo(pkg))
	}
	return infos
}

// Balance returns the user's credit balance and the ledger sum. The
// two should agree; a mismatch indicates a reconciliation problem.
func (s *CreditService) Balance(ctx context.Context, userID uuid.UUID) (*BalanceInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum, err := s.ledgerRepo.SumByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sum != int64(user.Credits) {
		s.logger.Warn("Credit balance does not match ledger",
			zap.String("user_id", userID.String()),
			zap.Int("credits", user.Credits),
			zap.Int64("ledger_sum", sum))
	}

	return &BalanceInfo{Credits: user.Credits, LedgerSum: sum}, nil
}

// History returns a page of the user's ledger entries, newest first
func (s *CreditService) History(ctx context.Context, userID uuid.UUID, page, pageSize int) (*LedgerPage, error) {
	entries, total, err := s.ledgerRepo.FindByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	infos := make([]LedgerEntryInfo, 0, len(entries))
	for _, tx := range entries {
		infos = append(infos, toLedgerEntryInfo(tx))
	}
	return &LedgerPage{Entries: infos, Total: total}, nil
}

// PlatformTotals returns platform-wide issued and spent credit totals
func (s *CreditService) PlatformTotals(ctx context.Context) (billing.CreditLedgerTotals, error) {
	return s.ledgerRepo.Totals(ctx)
}
