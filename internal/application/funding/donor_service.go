package funding

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DonorService handles donor management
type DonorService struct {
	donorRepo funding.DonorRepository
	logger    *zap.Logger
}

// NewDonorService creates a new donor service
func NewDonorService(donorRepo funding.DonorRepository, logger *zap.Logger) *DonorService {
	return &DonorService{donorRepo: donorRepo, logger: logger}
}

// Create registers a new donor
func (s *DonorService) Create(ctx context.Context, input DonorInput) (*DonorInfo, error) {
	existing, err := s.donorRepo.FindByName(ctx, input.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DONOR_EXISTS", "A donor with this name already exists")
	}

	donor, err := funding.NewDonor(input.Name, input.Type, input.Country)
	if err != nil {
		return nil, err
	}
	donor.Website = input.Website
	donor.Description = input.Description

	if err := s.donorRepo.Create(ctx, donor); err != nil {
		return nil, err
	}

	s.logger.Info("Donor created", zap.String("donor_id", donor.ID.String()), zap.String("name", donor.Name))

	info := toDonorInfo(donor)
	return &info, nil
}

// Update edits an existing donor
func (s *DonorService) Update(ctx context.Context, id uuid.UUID, input DonorInput) (*DonorInfo, error) {
	donor, err := s.donorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := donor.Update(input.Name, input.Country, input.Website, input.Description); err != nil {
		return nil, err
	}

	if err := s.donorRepo.Update(ctx, donor); err != nil {
		return nil, err
	}

	info := toDonorInfo(donor)
	return &info, nil
}

// Get returns one donor by ID
func (s *DonorService) Get(ctx context.Context, id uuid.UUID) (*DonorInfo, error) {
	donor, err := s.donorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toDonorInfo(donor)
	return &info, nil
}

// List returns a page of donors
func (s *DonorService) List(ctx context.Context, filter shared.Filter) ([]DonorInfo, int64, error) {
	donors, total, err := s.donorRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]DonorInfo, 0, len(donors))
	for _, d := range donors {
		infos = append(infos, toDonorInfo(d))
	}
	return infos, total, nil
}

// SetActive toggles a donor's active flag
func (s *DonorService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	donor, err := s.donorRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if active {
		donor.Activate()
	} else {
		donor.Deactivate()
	}

	return s.donorRepo.Update(ctx, donor)
}
