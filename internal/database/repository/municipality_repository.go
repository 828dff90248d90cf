package repository

import (
	"context"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"gorm.io/gorm"
)

type MunicipalityRepository struct {
	db *gorm.DB
}

func NewMunicipalityRepository(db *gorm.DB) *MunicipalityRepository {
	return &MunicipalityRepository{db: db}
}

// Create creates a new municipality
func (r *MunicipalityRepository) Create(ctx context.Context, municipality *models.Municipality) error {
	return r.db.WithContext(ctx).Create(municipality).Error
}

// GetByID retrieves a municipality by ID
func (r *MunicipalityRepository) GetByID(ctx context.Context, id uint) (*models.Municipality, error) {
	var municipality models.Municipality
	err := r.db.WithContext(ctx).First(&municipality, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &municipality, nil
}

// CheckNameExists checks if another municipality already uses the name
func (r *MunicipalityRepository) CheckNameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Municipality{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Update updates a municipality
func (r *MunicipalityRepository) Update(ctx context.Context, municipality *models.Municipality) error {
	return r.db.WithContext(ctx).Save(municipality).Error
}

// Delete soft deletes a municipality
func (r *MunicipalityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Municipality{}, "id = ?", id).Error
}

// GetAll returns municipalities with search and pagination
func (r *MunicipalityRepository) GetAll(ctx context.Context, page, pageSize int, search string) ([]models.Municipality, int64, error) {
	var municipalities []models.Municipality
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Municipality{})
	if search != "" {
		query = query.Where("name ILIKE ? OR state ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("name ASC").Offset(utils.CalculateOffset(page, pageSize)).Limit(pageSize).Find(&municipalities).Error; err != nil {
		return nil, 0, err
	}
	return municipalities, total, nil
}
