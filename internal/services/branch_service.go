package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

type BranchService struct {
	branchRepo       *repository.BranchRepository
	municipalityRepo *repository.MunicipalityRepository
}

func NewBranchService(branchRepo *repository.BranchRepository, municipalityRepo *repository.MunicipalityRepository) *BranchService {
	return &BranchService{
		branchRepo:       branchRepo,
		municipalityRepo: municipalityRepo,
	}
}

// Create creates a branch in an existing municipality
func (s *BranchService) Create(ctx context.Context, req *models.BranchRequest) (*models.Branch, error) {
	branch := &models.Branch{IsActive: true}
	if err := s.apply(ctx, branch, req); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return s.Get(ctx, branch.ID)
}

// Get retrieves a branch by ID
func (s *BranchService) Get(ctx context.Context, id uint) (*models.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "branch")
	}
	return branch, nil
}

// Update replaces the branch's attributes
func (s *BranchService) Update(ctx context.Context, id uint, req *models.BranchRequest) (*models.Branch, error) {
	branch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, branch, req); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete soft deletes a branch
func (s *BranchService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.branchRepo.Delete(ctx, id)
}

// List returns a page of branches, optionally within one municipality
func (s *BranchService) List(ctx context.Context, page, pageSize int, search string, municipalityID uint) ([]models.Branch, int64, error) {
	return s.branchRepo.GetAll(ctx, page, pageSize, search, municipalityID)
}

// EnsureExist checks that every id refers to a branch
func (s *BranchService) EnsureExist(ctx context.Context, ids []uint) error {
	unique := uniqueIDs(ids)
	count, err := s.branchRepo.CountExisting(ctx, unique)
	if err != nil {
		return fmt.Errorf("failed to check branches: %w", err)
	}
	if int(count) != len(unique) {
		return NewValidationError("branch_ids", "one or more branches do not exist")
	}
	return nil
}

func (s *BranchService) apply(ctx context.Context, branch *models.Branch, req *models.BranchRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return NewValidationError("name", "must not be empty")
	}
	exists, err := s.branchRepo.CheckNameExists(ctx, name, branch.ID)
	if err != nil {
		return fmt.Errorf("failed to check branch name: %w", err)
	}
	if exists {
		return conflictf("branch '%s' already exists", name)
	}
	if _, err := s.municipalityRepo.GetByID(ctx, req.MunicipalityID); err != nil {
		if isNotFound(err) {
			return NewValidationError("municipality_id", "municipality %d does not exist", req.MunicipalityID)
		}
		return err
	}

	branch.Name = name
	branch.Address = req.Address
	branch.Phone = req.Phone
	branch.MunicipalityID = req.MunicipalityID
	branch.Municipality = nil
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}
	return nil
}

// uniqueIDs drops duplicate ids keeping the first occurrence order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
