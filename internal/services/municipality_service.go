package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

type MunicipalityService struct {
	municipalityRepo *repository.MunicipalityRepository
}

func NewMunicipalityService(municipalityRepo *repository.MunicipalityRepository) *MunicipalityService {
	return &MunicipalityService{municipalityRepo: municipalityRepo}
}

// Create creates a municipality with a unique name
func (s *MunicipalityService) Create(ctx context.Context, req *models.MunicipalityRequest) (*models.Municipality, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}

	municipality := &models.Municipality{Name: name, State: strings.TrimSpace(req.State)}
	if err := s.municipalityRepo.Create(ctx, municipality); err != nil {
		return nil, fmt.Errorf("failed to create municipality: %w", err)
	}
	return municipality, nil
}

// Get retrieves a municipality by ID
func (s *MunicipalityService) Get(ctx context.Context, id uint) (*models.Municipality, error) {
	municipality, err := s.municipalityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "municipality")
	}
	return municipality, nil
}

// Update replaces the municipality's attributes
func (s *MunicipalityService) Update(ctx context.Context, id uint, req *models.MunicipalityRequest) (*models.Municipality, error) {
	municipality, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.checkName(ctx, name, id); err != nil {
		return nil, err
	}

	municipality.Name = name
	municipality.State = strings.TrimSpace(req.State)
	if err := s.municipalityRepo.Update(ctx, municipality); err != nil {
		return nil, fmt.Errorf("failed to update municipality: %w", err)
	}
	return municipality, nil
}

// Delete soft deletes a municipality
func (s *MunicipalityService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.municipalityRepo.Delete(ctx, id)
}

// List returns a page of municipalities
func (s *MunicipalityService) List(ctx context.Context, page, pageSize int, search string) ([]models.Municipality, int64, error) {
	return s.municipalityRepo.GetAll(ctx, page, pageSize, search)
}

func (s *MunicipalityService) checkName(ctx context.Context, name string, excludeID uint) error {
	if name == "" {
		return NewValidationError("name", "must not be empty")
	}
	exists, err := s.municipalityRepo.CheckNameExists(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check municipality name: %w", err)
	}
	if exists {
		return conflictf("municipality '%s' already exists", name)
	}
	return nil
}
