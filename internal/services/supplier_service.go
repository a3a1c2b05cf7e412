package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/internal/repositories"

	"github.com/jmoiron/sqlx"
)

// --- Supplier DTOs ---
type CreateSupplierRequest struct {
	Name    string  `json:"name" validate:"required"`
	Product string  `json:"product" validate:"required"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Product *string `json:"product" validate:"omitempty,min=1"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

// --- SupplierService Interface ---
type SupplierService interface {
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*models.Supplier, error)
	GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error)
	GetSuppliers(ctx context.Context) ([]models.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, req UpdateSupplierRequest) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
	CountSuppliers(ctx context.Context) (int64, error)
}

type supplierService struct {
	supplierRepo repositories.SupplierRepository
	db           *database.DB
}

// NewSupplierService creates a new instance of SupplierService.
func NewSupplierService(repo repositories.SupplierRepository, db *database.DB) SupplierService {
	return &supplierService{
		supplierRepo: repo,
		db:           db,
	}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*models.Supplier, error) {
	req.Email = trimmedOrNil(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Product) == "" {
		return nil, validationError("name and product cannot be blank")
	}

	supplier := &models.Supplier{
		Name:    strings.TrimSpace(req.Name),
		Product: strings.TrimSpace(req.Product),
		Phone:   trimmedOrNil(req.Phone),
		Email:   req.Email,
		Address: trimmedOrNil(req.Address),
	}
	id, err := s.supplierRepo.CreateSupplier(ctx, s.db, supplier)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier in repository: %w", err)
	}
	return s.GetSupplierByID(ctx, id)
}

func (s *supplierService) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetSupplierByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to get supplier by ID: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) GetSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers, err := s.supplierRepo.GetSuppliers(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id int64, req UpdateSupplierRequest) (*models.Supplier, error) {
	req.Email = trimmedOrNil(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	supplier, err := s.GetSupplierByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, validationError("name cannot be blank")
		}
		supplier.Name = strings.TrimSpace(*req.Name)
	}
	if req.Product != nil {
		if strings.TrimSpace(*req.Product) == "" {
			return nil, validationError("product cannot be blank")
		}
		supplier.Product = strings.TrimSpace(*req.Product)
	}
	if req.Phone != nil {
		supplier.Phone = trimmedOrNil(req.Phone)
	}
	if req.Email != nil {
		supplier.Email = req.Email
	}
	if req.Address != nil {
		supplier.Address = trimmedOrNil(req.Address)
	}

	if err := s.supplierRepo.UpdateSupplier(ctx, s.db, supplier); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	return s.GetSupplierByID(ctx, id)
}

// DeleteSupplier removes a supplier that no batch or inventory row points at.
func (s *supplierService) DeleteSupplier(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.supplierRepo.GetSupplierByID(ctx, tx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrSupplierNotFound
			}
			return fmt.Errorf("failed to find supplier for deletion: %w", err)
		}
		refs, err := s.supplierRepo.CountReferences(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to check supplier references: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("%w: supplier %d is used by %d batches or inventory items", ErrInUse, id, refs)
		}
		if err := s.supplierRepo.DeleteSupplier(ctx, tx, id); err != nil {
			if errors.Is(err, repositories.ErrForeignKey) {
				return fmt.Errorf("%w: %v", ErrInUse, err)
			}
			return fmt.Errorf("failed to delete supplier: %w", err)
		}
		return nil
	})
}

func (s *supplierService) CountSuppliers(ctx context.Context) (int64, error) {
	n, err := s.supplierRepo.CountSuppliers(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}
	return n, nil
}
