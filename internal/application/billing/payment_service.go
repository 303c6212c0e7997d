package billing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/billing"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PaymentService processes credit purchases through the card gateway
type PaymentService struct {
	paymentRepo billing.PaymentRepository
	userRepo    identity.UserRepository
	ledgerRepo  billing.CreditTransactionRepository
	outboxRepo  shared.OutboxRepository
	gateway     billing.CardGateway
	txManager   shared.TransactionManager
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	userRepo identity.UserRepository,
	ledgerRepo billing.CreditTransactionRepository,
	outboxRepo shared.OutboxRepository,
	gateway billing.CardGateway,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
		gateway:     gateway,
		txManager:   txManager,
		logger:      logger,
	}
}

// ProcessPayment charges the card for a credit package and grants the
// credits through the ledger. A repeated idempotency key returns the
// previously recorded payment without charging again. A declined card
// is recorded as a failed payment, not an error.
func (s *PaymentService) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*PaymentResult, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.paymentRepo.FindByIdempotencyKey(ctx, input.UserID, input.IdempotencyKey)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return &PaymentResult{Payment: toPaymentInfo(existing), Replayed: true}, nil
		}
	}

	pkg, err := billing.FindPackage(input.PackageID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := input.Card.Validate(time.Now()); err != nil {
		return nil, err
	}

	total := pkg.Price
	discount := valueobject.ZeroUSD()
	couponCode := ""
	if input.CouponCode != "" {
		coupon, err := s.validateCouponForUser(ctx, user, input.CouponCode)
		if err != nil {
			return nil, err
		}
		total, discount = coupon.Apply(pkg.Price)
		couponCode = coupon.Code
	}

	payment, err := billing.NewPaymentTransaction(
		user.ID, pkg, total, discount, couponCode, input.Card.Last4(), input.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// A concurrent request with the same key can slip past the
		// lookup above; the unique index catches it, and the stored
		// payment is replayed instead of surfacing the constraint
		if errors.Is(err, shared.ErrAlreadyExists) && input.IdempotencyKey != "" {
			existing, findErr := s.paymentRepo.FindByIdempotencyKey(ctx, input.UserID, input.IdempotencyKey)
			if findErr != nil {
				return nil, findErr
			}
			return &PaymentResult{Payment: toPaymentInfo(existing), Replayed: true}, nil
		}
		return nil, err
	}

	auth, err := s.gateway.Authorize(ctx, input.Card, total)
	if err != nil {
		if markErr := payment.MarkFailed(err.Error()); markErr != nil {
			return nil, markErr
		}
		txErr := s.txManager.InTransaction(ctx, func(txCtx context.Context) error {
			if updateErr := s.paymentRepo.Update(txCtx, payment); updateErr != nil {
				return updateErr
			}
			return s.publishEvents(txCtx, payment)
		})
		if txErr != nil {
			return nil, txErr
		}

		s.logger.Warn("Payment declined",
			zap.String("payment_id", payment.ID.String()),
			zap.String("user_id", user.ID.String()),
			zap.String("reason", err.Error()))

		return &PaymentResult{Payment: toPaymentInfo(payment)}, nil
	}

	ledgerTx, err := billing.NewPurchaseTransaction(
		user.ID, pkg.Credits, user.Credits, payment.ID,
		"Credit purchase: "+pkg.Name)
	if err != nil {
		return nil, err
	}

	if err := payment.MarkSucceeded(auth.AuthorizationID); err != nil {
		return nil, err
	}
	if err := user.AddCredits(pkg.Credits); err != nil {
		return nil, err
	}

	// The payment status, the balance, the ledger row, and the outbox
	// entries commit together. A partial grant would break the
	// balance-against-ledger reconciliation.
	err = s.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		if err := s.paymentRepo.Update(txCtx, payment); err != nil {
			return err
		}
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		if err := s.ledgerRepo.Save(txCtx, ledgerTx); err != nil {
			return err
		}
		return s.publishEvents(txCtx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment succeeded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("package", pkg.ID),
		zap.Int("credits", pkg.Credits))

	return &PaymentResult{Payment: toPaymentInfo(payment)}, nil
}

// GetPayment returns one payment visible to the actor
func (s *PaymentService) GetPayment(ctx context.Context, paymentID, actorID uuid.UUID, isAdmin bool) (*PaymentInfo, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && payment.UserID != actorID {
		return nil, shared.ErrForbidden
	}

	info := toPaymentInfo(payment)
	return &info, nil
}

// History returns a user's payment attempts, newest first
func (s *PaymentService) History(ctx context.Context, userID uuid.UUID, page, pageSize int) (*PaymentPage, error) {
	payments, total, err := s.paymentRepo.FindByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	infos := make([]PaymentInfo, 0, len(payments))
	for _, p := range payments {
		infos = append(infos, toPaymentInfo(p))
	}
	return &PaymentPage{Payments: infos, Total: total}, nil
}

// QuoteCoupon validates a coupon for the user and prices it against a
// package without charging anything
func (s *PaymentService) QuoteCoupon(ctx context.Context, userID uuid.UUID, packageID, code string) (*CouponQuote, error) {
	pkg, err := billing.FindPackage(packageID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	coupon, err := s.validateCouponForUser(ctx, user, code)
	if err != nil {
		return nil, err
	}

	total, discount := coupon.Apply(pkg.Price)
	return &CouponQuote{
		Code:            coupon.Code,
		DiscountPercent: coupon.DiscountPercent,
		Price:           pkg.Price.Amount().StringFixed(2),
		Discount:        discount.Amount().StringFixed(2),
		Total:           total.Amount().StringFixed(2),
	}, nil
}

func (s *PaymentService) validateCouponForUser(ctx context.Context, user *identity.User, code string) (billing.Coupon, error) {
	succeeded, err := s.paymentRepo.CountSucceededByUser(ctx, user.ID)
	if err != nil {
		return billing.Coupon{}, err
	}

	return billing.ValidateCoupon(code, billing.CouponContext{
		UserType:        string(user.UserType),
		IsFirstPurchase: succeeded == 0,
	})
}

func (s *PaymentService) publishEvents(ctx context.Context, payment *billing.PaymentTransaction) error {
	events := payment.GetDomainEvents()
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

	payment.ClearDomainEvents()
	return nil
}
