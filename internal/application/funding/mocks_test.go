package funding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/identity"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockOpportunityRepository is a mock implementation of funding.OpportunityRepository
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) Create(ctx context.Context, opp *funding.DonorOpportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}

func (m *MockOpportunityRepository) Update(ctx context.Context, opp *funding.DonorOpportunity) error {
	args := m.Called(ctx, opp)
	return args.Error(0)
}

func (m *MockOpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.DonorOpportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.DonorOpportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindByContentHash(ctx context.Context, hash string) (*funding.DonorOpportunity, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.DonorOpportunity), args.Error(1)
}

func (m *MockOpportunityRepository) Search(ctx context.Context, filter funding.OpportunityFilter) ([]*funding.DonorOpportunity, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*funding.DonorOpportunity), args.Get(1).(int64), args.Error(2)
}

func (m *MockOpportunityRepository) FindExpiring(ctx context.Context, cutoff time.Time, limit int) ([]*funding.DonorOpportunity, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*funding.DonorOpportunity), args.Error(1)
}

func (m *MockOpportunityRepository) CountBySameSource(ctx context.Context, sourceName, title string, excludeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sourceName, title, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOpportunityRepository) FindTitlesBySource(ctx context.Context, sourceName string, excludeID uuid.UUID, limit int) ([]string, error) {
	args := m.Called(ctx, sourceName, excludeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOpportunityRepository) CountByStatus(ctx context.Context) (map[funding.OpportunityStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[funding.OpportunityStatus]int64), args.Error(1)
}

func (m *MockOpportunityRepository) CountVerified(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockDonorRepository is a mock implementation of funding.DonorRepository
type MockDonorRepository struct {
	mock.Mock
}

func (m *MockDonorRepository) Create(ctx context.Context, donor *funding.Donor) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}

func (m *MockDonorRepository) Update(ctx context.Context, donor *funding.Donor) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}

func (m *MockDonorRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.Donor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.Donor), args.Error(1)
}

func (m *MockDonorRepository) FindByName(ctx context.Context, name string) (*funding.Donor, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.Donor), args.Error(1)
}

func (m *MockDonorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*funding.Donor, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*funding.Donor), args.Get(1).(int64), args.Error(2)
}

// MockBotRepository is a mock implementation of funding.BotRepository
type MockBotRepository struct {
	mock.Mock
}

func (m *MockBotRepository) Create(ctx context.Context, bot *funding.SearchBot) error {
	args := m.Called(ctx, bot)
	return args.Error(0)
}

func (m *MockBotRepository) Update(ctx context.Context, bot *funding.SearchBot) error {
	args := m.Called(ctx, bot)
	return args.Error(0)
}

func (m *MockBotRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.SearchBot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.SearchBot), args.Error(1)
}

func (m *MockBotRepository) FindByName(ctx context.Context, name string) (*funding.SearchBot, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.SearchBot), args.Error(1)
}

func (m *MockBotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*funding.SearchBot, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*funding.SearchBot), args.Get(1).(int64), args.Error(2)
}

func (m *MockBotRepository) SaveReward(ctx context.Context, reward *funding.BotReward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

func (m *MockBotRepository) FindRecentRewards(ctx context.Context, botID uuid.UUID, limit int) ([]*funding.BotReward, error) {
	args := m.Called(ctx, botID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*funding.BotReward), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountByType(ctx context.Context) (map[identity.UserType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[identity.UserType]int64), args.Error(1)
}

func (m *MockUserRepository) CountBanned(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockOutboxRepository is a mock implementation of shared.OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.OutboxStatus]int64), args.Error(1)
}

// stubProber returns a canned probe result
type stubProber struct {
	probe funding.URLProbe
	err   error
}

func (p *stubProber) Probe(ctx context.Context, rawURL string) (funding.URLProbe, error) {
	return p.probe, p.err
}
