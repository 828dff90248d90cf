package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/onegreenvn/retail-backoffice-services/internal/database/repository"
	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

type SupplierService struct {
	supplierRepo *repository.SupplierRepository
}

func NewSupplierService(supplierRepo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// Create registers a supplier with a unique tax id
func (s *SupplierService) Create(ctx context.Context, req *models.SupplierRequest) (*models.Supplier, error) {
	supplier := &models.Supplier{IsActive: true}
	if err := s.apply(ctx, supplier, req); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return supplier, nil
}

// Get retrieves a supplier by ID
func (s *SupplierService) Get(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "supplier")
	}
	return supplier, nil
}

// Update replaces the supplier's attributes
func (s *SupplierService) Update(ctx context.Context, id uint, req *models.SupplierRequest) (*models.Supplier, error) {
	supplier, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, supplier, req); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return supplier, nil
}

// Delete soft deletes a supplier
func (s *SupplierService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.supplierRepo.Delete(ctx, id)
}

// List returns a page of suppliers
func (s *SupplierService) List(ctx context.Context, page, pageSize int, search string) ([]models.Supplier, int64, error) {
	return s.supplierRepo.GetAll(ctx, page, pageSize, search)
}

func (s *SupplierService) apply(ctx context.Context, supplier *models.Supplier, req *models.SupplierRequest) error {
	taxID := strings.ToUpper(strings.TrimSpace(req.TaxID))
	if taxID == "" {
		return NewValidationError("tax_id", "must not be empty")
	}
	exists, err := s.supplierRepo.CheckTaxIDExists(ctx, taxID, supplier.ID)
	if err != nil {
		return fmt.Errorf("failed to check supplier tax id: %w", err)
	}
	if exists {
		return conflictf("supplier with tax id '%s' already exists", taxID)
	}

	supplier.Name = strings.TrimSpace(req.Name)
	supplier.TaxID = taxID
	supplier.ContactName = req.ContactName
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}
	return nil
}
