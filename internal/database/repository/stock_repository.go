package repository

import (
	"context"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// Upsert sets the quantity of a product at a branch, creating the row if needed
func (r *StockRepository) Upsert(ctx context.Context, stock *models.Stock) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "branch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "min_quantity", "updated_at"}),
	}).Create(stock).Error
}

// Get retrieves the stock row of a product at a branch
func (r *StockRepository) Get(ctx context.Context, productID, branchID uint) (*models.Stock, error) {
	var stock models.Stock
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND branch_id = ?", productID, branchID).
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// Adjust moves the quantity by delta in a single statement. It reports false
// when no row matched or the result would go below zero.
func (r *StockRepository) Adjust(ctx context.Context, productID, branchID uint, delta int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Stock{}).
		Where("product_id = ? AND branch_id = ? AND quantity + ? >= 0", productID, branchID, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByBranch lists stock rows of a branch with their products
func (r *StockRepository) GetByBranch(ctx context.Context, branchID uint, lowOnly bool) ([]models.Stock, error) {
	var stocks []models.Stock
	query := r.db.WithContext(ctx).Where("branch_id = ?", branchID)
	if lowOnly {
		query = query.Where("quantity <= min_quantity")
	}
	err := query.Preload("Product").Order("product_id ASC").Find(&stocks).Error
	return stocks, err
}

// GetByProduct lists stock rows of a product across branches
func (r *StockRepository) GetByProduct(ctx context.Context, productID uint) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Preload("Branch").
		Order("branch_id ASC").
		Find(&stocks).Error
	return stocks, err
}
