package identity

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserAdminService handles administrative user operations
type UserAdminService struct {
	userRepo   identity.UserRepository
	ledgerRepo billing.CreditTransactionRepository
	outboxRepo shared.OutboxRepository
	blacklist  auth.TokenBlacklist
	txManager  shared.TransactionManager
	logger     *zap.Logger
}

// NewUserAdminService creates a new admin user service
func NewUserAdminService(
	userRepo identity.UserRepository,
	ledgerRepo billing.CreditTransactionRepository,
	outboxRepo shared.OutboxRepository,
	blacklist auth.TokenBlacklist,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *UserAdminService {
	return &UserAdminService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		outboxRepo: outboxRepo,
		blacklist:  blacklist,
		txManager:  txManager,
		logger:     logger,
	}
}

// List returns a page of users matching the filters
func (s *UserAdminService) List(ctx context.Context, input ListUsersInput) (*UserPage, error) {
	filter := identity.NewUserFilter().
		WithKeyword(input.Keyword).
		WithCountry(input.Country).
		WithPagination(input.Page, input.PageSize)
	if input.UserType != nil {
		filter = filter.WithUserType(*input.UserType)
	}
	if input.Banned != nil {
		filter = filter.WithBanned(*input.Banned)
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, toUserInfo(u))
	}

	return &UserPage{
		Users:    infos,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Get returns one user by ID
func (s *UserAdminService) Get(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// Ban bans a user and force-logs-out their sessions
func (s *UserAdminService) Ban(ctx context.Context, input BanUserInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := user.Ban(input.Reason); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), 0); err != nil {
		s.logger.Error("Failed to invalidate banned user's sessions", zap.Error(err))
	}

	if err := s.publishEvents(ctx, user); err != nil {
		s.logger.Error("Failed to save ban events", zap.Error(err))
	}

	s.logger.Info("User banned",
		zap.String("user_id", user.ID.String()),
		zap.String("reason", input.Reason))

	return nil
}

// Unban lifts a user's ban
func (s *UserAdminService) Unban(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.Unban(); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.publishEvents(ctx, user); err != nil {
		s.logger.Error("Failed to save unban events", zap.Error(err))
	}

	s.logger.Info("User unbanned", zap.String("user_id", userID.String()))
	return nil
}

// AdjustCredits applies a signed credit delta to a user and records
// the movement in the ledger
func (s *UserAdminService) AdjustCredits(ctx context.Context, input AdjustCreditsInput) (*AdjustCreditsResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	balanceBefore := user.Credits

	tx, err := billing.NewAdjustmentTransaction(user.ID, input.Delta, balanceBefore, input.OperatorID, input.Reason)
	if err != nil {
		return nil, err
	}

	if err := user.AdjustCredits(input.Delta); err != nil {
		return nil, err
	}

	// Balance and ledger row commit together or not at all
	err = s.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		return s.ledgerRepo.Save(txCtx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Credits adjusted",
		zap.String("user_id", user.ID.String()),
		zap.Int("delta", input.Delta),
		zap.Int("balance_after", user.Credits),
		zap.String("operator_id", input.OperatorID.String()))

	return &AdjustCreditsResult{
		BalanceBefore: balanceBefore,
		BalanceAfter:  user.Credits,
	}, nil
}

// ExportRows returns all users for the CSV export
func (s *UserAdminService) ExportRows(ctx context.Context) ([]UserInfo, error) {
	filter := identity.NewUserFilter().WithPagination(1, 100)

	var rows []UserInfo
	for {
		users, total, err := s.userRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			rows = append(rows, toUserInfo(u))
		}
		if int64(len(rows)) >= total || len(users) == 0 {
			break
		}
		filter = filter.WithPagination(filter.Page+1, filter.PageSize)
	}

	return rows, nil
}

// publishEvents saves the aggregate's domain events to the outbox
func (s *UserAdminService) publishEvents(ctx context.Context, user *identity.User) error {
	events := user.GetDomainEvents()
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

	user.ClearDomainEvents()
	return nil
}
