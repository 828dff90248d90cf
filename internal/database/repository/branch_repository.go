package repository

import (
	"context"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"gorm.io/gorm"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// Create creates a new branch
func (r *BranchRepository) Create(ctx context.Context, branch *models.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

// GetByID retrieves a branch by ID with its municipality
func (r *BranchRepository) GetByID(ctx context.Context, id uint) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.WithContext(ctx).Preload("Municipality").First(&branch, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// CountExisting counts how many of the given ids belong to non-deleted branches
func (r *BranchRepository) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Branch{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// CheckNameExists checks if another branch already uses the name
func (r *BranchRepository) CheckNameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Branch{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Update updates a branch
func (r *BranchRepository) Update(ctx context.Context, branch *models.Branch) error {
	return r.db.WithContext(ctx).Omit("Municipality").Save(branch).Error
}

// Delete soft deletes a branch
func (r *BranchRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Branch{}, "id = ?", id).Error
}

// GetAll returns branches with search, municipality filter and pagination
func (r *BranchRepository) GetAll(ctx context.Context, page, pageSize int, search string, municipalityID uint) ([]models.Branch, int64, error) {
	var branches []models.Branch
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Branch{})
	if search != "" {
		query = query.Where("name ILIKE ? OR address ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if municipalityID != 0 {
		query = query.Where("municipality_id = ?", municipalityID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Municipality").
		Order("name ASC").
		Offset(utils.CalculateOffset(page, pageSize)).
		Limit(pageSize).
		Find(&branches).Error
	if err != nil {
		return nil, 0, err
	}
	return branches, total, nil
}
