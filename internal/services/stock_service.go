package services

import (
	"context"
	"fmt"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

type StockService struct {
	stockRepo   *repository.StockRepository
	productRepo *repository.ProductRepository
	branchRepo  *repository.BranchRepository
}

func NewStockService(
	stockRepo *repository.StockRepository,
	productRepo *repository.ProductRepository,
	branchRepo *repository.BranchRepository,
) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
		branchRepo:  branchRepo,
	}
}

// Set stores the absolute on-hand quantity of a product at a branch
func (s *StockService) Set(ctx context.Context, req *models.SetStockRequest) (*models.Stock, error) {
	if req.Quantity < 0 {
		return nil, NewValidationError("quantity", "must not be negative")
	}
	if err := s.checkRefs(ctx, req.ProductID, req.BranchID); err != nil {
		return nil, err
	}

	stock := &models.Stock{
		ProductID:   req.ProductID,
		BranchID:    req.BranchID,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
	}
	if err := s.stockRepo.Upsert(ctx, stock); err != nil {
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}
	return s.stockRepo.Get(ctx, req.ProductID, req.BranchID)
}

// Adjust moves the on-hand quantity by delta without letting it go negative
func (s *StockService) Adjust(ctx context.Context, req *models.AdjustStockRequest) (*models.Stock, error) {
	if req.Delta == 0 {
		return nil, NewValidationError("delta", "must not be zero")
	}
	if err := s.checkRefs(ctx, req.ProductID, req.BranchID); err != nil {
		return nil, err
	}

	ok, err := s.stockRepo.Adjust(ctx, req.ProductID, req.BranchID, req.Delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	if !ok {
		current, err := s.stockRepo.Get(ctx, req.ProductID, req.BranchID)
		if err != nil {
			return nil, notFound(err, "stock")
		}
		return nil, NewValidationError("delta", "only %d units on hand", current.Quantity)
	}
	return s.stockRepo.Get(ctx, req.ProductID, req.BranchID)
}

// ListByBranch returns the stock rows of a branch
func (s *StockService) ListByBranch(ctx context.Context, branchID uint, lowOnly bool) ([]models.Stock, error) {
	if _, err := s.branchRepo.GetByID(ctx, branchID); err != nil {
		return nil, notFound(err, "branch")
	}
	return s.stockRepo.GetByBranch(ctx, branchID, lowOnly)
}

// ListByProduct returns the stock rows of a product
func (s *StockService) ListByProduct(ctx context.Context, productID uint) ([]models.Stock, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, notFound(err, "product")
	}
	return s.stockRepo.GetByProduct(ctx, productID)
}

func (s *StockService) checkRefs(ctx context.Context, productID, branchID uint) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if isNotFound(err) {
			return NewValidationError("product_id", "product %d does not exist", productID)
		}
		return err
	}
	if _, err := s.branchRepo.GetByID(ctx, branchID); err != nil {
		if isNotFound(err) {
			return NewValidationError("branch_id", "branch %d does not exist", branchID)
		}
		return err
	}
	return nil
}
