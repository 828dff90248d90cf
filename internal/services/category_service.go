package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a category, optionally nested under a parent
func (s *CategoryService) Create(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{}
	if err := s.apply(ctx, category, req); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// Get retrieves a category by ID
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	return category, nil
}

// Update replaces the category's attributes
func (s *CategoryService) Update(ctx context.Context, id uint, req *models.CategoryRequest) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, category, req); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete soft deletes a category that has no children
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	children, err := s.categoryRepo.CountChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count subcategories: %w", err)
	}
	if children > 0 {
		return conflictf("category %d still has %d subcategories", id, children)
	}
	return s.categoryRepo.Delete(ctx, id)
}

// List returns a page of categories
func (s *CategoryService) List(ctx context.Context, page, pageSize int, search string) ([]models.Category, int64, error) {
	return s.categoryRepo.GetAll(ctx, page, pageSize, search)
}

func (s *CategoryService) apply(ctx context.Context, category *models.Category, req *models.CategoryRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return NewValidationError("name", "must not be empty")
	}
	exists, err := s.categoryRepo.CheckNameExists(ctx, name, category.ID)
	if err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if exists {
		return conflictf("category '%s' already exists", name)
	}
	if req.ParentID != nil {
		if category.ID != 0 && *req.ParentID == category.ID {
			return NewValidationError("parent_id", "a category cannot be its own parent")
		}
		if _, err := s.categoryRepo.GetByID(ctx, *req.ParentID); err != nil {
			if isNotFound(err) {
				return NewValidationError("parent_id", "category %d does not exist", *req.ParentID)
			}
			return err
		}
	}

	category.Name = name
	category.Description = req.Description
	category.ParentID = req.ParentID
	return nil
}
