package funding

import (
	"context"
	"testing"

	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDonorService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates donor with descriptive fields", func(t *testing.T) {
		donorRepo := new(MockDonorRepository)
		service := NewDonorService(donorRepo, zap.NewNop())

		donorRepo.On("FindByName", ctx, "Wellcome Trust").Return(nil, shared.ErrNotFound)
		donorRepo.On("Create", ctx, mock.MatchedBy(func(d *funding.Donor) bool {
			return d.Name == "Wellcome Trust" && d.Website == "https://wellcome.org" && d.IsActive
		})).Return(nil)

		info, err := service.Create(ctx, DonorInput{
			Name:        "Wellcome Trust",
			Type:        funding.DonorTypeFoundation,
			Country:     "United Kingdom",
			Website:     "https://wellcome.org",
			Description: "Global charitable foundation funding health research.",
		})

		require.NoError(t, err)
		assert.Equal(t, "Wellcome Trust", info.Name)
		assert.True(t, info.IsActive)
		donorRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		donorRepo := new(MockDonorRepository)
		service := NewDonorService(donorRepo, zap.NewNop())

		existing, err := funding.NewDonor("Wellcome Trust", funding.DonorTypeFoundation, "United Kingdom")
		require.NoError(t, err)
		donorRepo.On("FindByName", ctx, "Wellcome Trust").Return(existing, nil)

		_, err = service.Create(ctx, DonorInput{
			Name:    "Wellcome Trust",
			Type:    funding.DonorTypeFoundation,
			Country: "United Kingdom",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DONOR_EXISTS", domainErr.Code)
		donorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown donor type", func(t *testing.T) {
		donorRepo := new(MockDonorRepository)
		service := NewDonorService(donorRepo, zap.NewNop())

		donorRepo.On("FindByName", ctx, "Acme").Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, DonorInput{Name: "Acme", Type: "charity"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DONOR_TYPE", domainErr.Code)
	})
}

func TestDonorService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates descriptive fields", func(t *testing.T) {
		donorRepo := new(MockDonorRepository)
		service := NewDonorService(donorRepo, zap.NewNop())

		donor := newTestDonor(t)
		donorRepo.On("FindByID", ctx, donor.ID).Return(donor, nil)
		donorRepo.On("Update", ctx, donor).Return(nil)

		info, err := service.Update(ctx, donor.ID, DonorInput{
			Name:    "Wellcome Trust",
			Country: "United Kingdom",
			Website: "https://wellcome.org/grants",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://wellcome.org/grants", info.Website)
		donorRepo.AssertExpectations(t)
	})

	t.Run("unknown donor", func(t *testing.T) {
		donorRepo := new(MockDonorRepository)
		service := NewDonorService(donorRepo, zap.NewNop())

		donor := newTestDonor(t)
		donorRepo.On("FindByID", ctx, donor.ID).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, donor.ID, DonorInput{Name: "Wellcome Trust"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDonorService_SetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates and reactivates", func(t *testing.T) {
		donorRepo := new(MockDonorRepository)
		service := NewDonorService(donorRepo, zap.NewNop())

		donor := newTestDonor(t)
		donorRepo.On("FindByID", ctx, donor.ID).Return(donor, nil)
		donorRepo.On("Update", ctx, donor).Return(nil)

		require.NoError(t, service.SetActive(ctx, donor.ID, false))
		assert.False(t, donor.IsActive)

		require.NoError(t, service.SetActive(ctx, donor.ID, true))
		assert.True(t, donor.IsActive)
	})
}

func TestDonorService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("maps a page of donors", func(t *testing.T) {
		donorRepo := new(MockDonorRepository)
		service := NewDonorService(donorRepo, zap.NewNop())

		donor := newTestDonor(t)
		filter := shared.DefaultFilter()
		donorRepo.On("FindAll", ctx, filter).Return([]*funding.Donor{donor}, int64(1), nil)

		infos, total, err := service.List(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, infos, 1)
		assert.Equal(t, donor.Name, infos[0].Name)
	})
}
