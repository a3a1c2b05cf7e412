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
	"github.com/shopspring/decimal"
)

type CreateInventoryItemRequest struct {
	SupplierID  int64   `json:"supplier_id" validate:"gt=0"`
	ItemName    string  `json:"item_name" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"required"`
	CostPerUnit float64 `json:"cost_per_unit" validate:"gte=0"`
	DateAdded   string  `json:"date_added" validate:"required,datetime=2006-01-02"`
}

type RecordFeedConsumptionRequest struct {
	BatchID         int64   `json:"batch_id" validate:"gt=0"`
	InventoryID     int64   `json:"inventory_id" validate:"gt=0"`
	QuantityUsed    float64 `json:"quantity_used" validate:"gt=0"`
	ConsumptionDate string  `json:"consumption_date" validate:"required,datetime=2006-01-02"`
	Notes           *string `json:"notes"`
}

type InventoryService interface {
	CreateItem(ctx context.Context, req CreateInventoryItemRequest) (*models.InventoryItem, error)
	GetItems(ctx context.Context) ([]models.InventoryItem, error)
	SearchItems(ctx context.Context, name string) ([]models.InventoryItem, error)
	GetStats(ctx context.Context) ([]models.InventoryStat, error)
	TotalValue(ctx context.Context) (float64, error)
	UpdateQuantity(ctx context.Context, id int64, quantity float64) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id int64) error

	// RecordFeedConsumption stores the usage and draws the quantity down from stock in one step.
	RecordFeedConsumption(ctx context.Context, req RecordFeedConsumptionRequest) (*models.FeedConsumption, error)
	GetFeedConsumption(ctx context.Context, batchID *int64) ([]models.FeedConsumption, error)
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	feedRepo      repositories.FeedConsumptionRepository
	broilerRepo   repositories.BroilerRepository
	supplierRepo  repositories.SupplierRepository
	db            *database.DB
}

func NewInventoryService(
	inventoryRepo repositories.InventoryRepository,
	feedRepo repositories.FeedConsumptionRepository,
	broilerRepo repositories.BroilerRepository,
	supplierRepo repositories.SupplierRepository,
	db *database.DB,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		feedRepo:      feedRepo,
		broilerRepo:   broilerRepo,
		supplierRepo:  supplierRepo,
		db:            db,
	}
}

func (s *inventoryService) CreateItem(ctx context.Context, req CreateInventoryItemRequest) (*models.InventoryItem, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := requireSupplier(ctx, s.db, s.supplierRepo, req.SupplierID); err != nil {
		return nil, err
	}
	item := &models.InventoryItem{
		SupplierID:  req.SupplierID,
		ItemName:    strings.TrimSpace(req.ItemName),
		Quantity:    req.Quantity,
		Unit:        strings.TrimSpace(req.Unit),
		CostPerUnit: req.CostPerUnit,
		DateAdded:   models.Date(req.DateAdded),
	}
	id, err := s.inventoryRepo.CreateItem(ctx, s.db, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return s.getItem(ctx, s.db, id)
}

func (s *inventoryService) getItem(ctx context.Context, ex repositories.SQLExecutor, id int64) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(ctx, ex, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

func (s *inventoryService) GetItems(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.inventoryRepo.GetItems(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return items, nil
}

func (s *inventoryService) SearchItems(ctx context.Context, name string) ([]models.InventoryItem, error) {
	items, err := s.inventoryRepo.SearchItems(ctx, s.db, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search inventory: %w", err)
	}
	return items, nil
}

func (s *inventoryService) GetStats(ctx context.Context) ([]models.InventoryStat, error) {
	stats, err := s.inventoryRepo.GetStats(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory stats: %w", err)
	}
	return stats, nil
}

func (s *inventoryService) TotalValue(ctx context.Context) (float64, error) {
	v, err := s.inventoryRepo.TotalValue(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get inventory value: %w", err)
	}
	return toFloat(money(v)), nil
}

func (s *inventoryService) UpdateQuantity(ctx context.Context, id int64, quantity float64) (*models.InventoryItem, error) {
	if quantity < 0 {
		return nil, validationError("quantity cannot be negative")
	}
	if err := s.inventoryRepo.UpdateQuantity(ctx, s.db, id, quantity); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to update inventory quantity: %w", err)
	}
	return s.getItem(ctx, s.db, id)
}

func (s *inventoryService) DeleteItem(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.getItem(ctx, tx, id); err != nil {
			return err
		}
		used, err := s.inventoryRepo.CountFeedReferences(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to check feed consumption of inventory item: %w", err)
		}
		if used > 0 {
			return fmt.Errorf("%w: inventory item %d has %d feed consumption records", ErrInUse, id, used)
		}
		if err := s.inventoryRepo.DeleteItem(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete inventory item: %w", err)
		}
		return nil
	})
}

func (s *inventoryService) RecordFeedConsumption(ctx context.Context, req RecordFeedConsumptionRequest) (*models.FeedConsumption, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	fc := &models.FeedConsumption{
		BatchID:         req.BatchID,
		InventoryID:     req.InventoryID,
		QuantityUsed:    req.QuantityUsed,
		ConsumptionDate: models.Date(req.ConsumptionDate),
		Notes:           trimmedOrNil(req.Notes),
	}
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.broilerRepo.GetBatchByID(ctx, tx, req.BatchID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrBatchNotFound
			}
			return fmt.Errorf("failed to get bird batch: %w", err)
		}
		item, err := s.getItem(ctx, tx, req.InventoryID)
		if err != nil {
			return err
		}

		onHand := decimal.NewFromFloat(item.Quantity)
		used := decimal.NewFromFloat(req.QuantityUsed)
		if used.GreaterThan(onHand) {
			return fmt.Errorf("%w: %s has %s %s on hand, cannot use %s",
				ErrInsufficientStock, item.ItemName, onHand.String(), item.Unit, used.String())
		}
		remaining, _ := onHand.Sub(used).Float64()

		if _, err := s.feedRepo.CreateConsumption(ctx, tx, fc); err != nil {
			return fmt.Errorf("failed to record feed consumption: %w", err)
		}
		if err := s.inventoryRepo.UpdateQuantity(ctx, tx, item.ID, remaining); err != nil {
			return fmt.Errorf("failed to draw down inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fc, nil
}

func (s *inventoryService) GetFeedConsumption(ctx context.Context, batchID *int64) ([]models.FeedConsumption, error) {
	rows, err := s.feedRepo.GetConsumption(ctx, s.db, normalizeReference(batchID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed consumption: %w", err)
	}
	return rows, nil
}
