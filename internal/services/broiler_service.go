package services

import (
	"context"
	"errors"
	"fmt"

	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/internal/repositories"

	"github.com/jmoiron/sqlx"
)

// BirdBatchRequest is used for both creating and replacing a bird batch.
type BirdBatchRequest struct {
	SupplierID       *int64  `json:"supplier_id"`
	BatchCode        *string `json:"batch_code"`
	QuantityReceived int64   `json:"quantity_received" validate:"gt=0"`
	CostPerBird      float64 `json:"cost_per_bird" validate:"gte=0"`
	DateReceived     string  `json:"date_received" validate:"required,datetime=2006-01-02"`
	Notes            *string `json:"notes"`
}

type BroilerService interface {
	CreateBatch(ctx context.Context, req BirdBatchRequest) (*models.BirdBatch, error)
	GetBatch(ctx context.Context, id int64) (*models.BirdBatch, error)
	GetBatches(ctx context.Context) ([]models.BirdBatch, error)
	GetBatchesWithAvailability(ctx context.Context) ([]models.BirdBatchAvailability, error)
	UpdateBatch(ctx context.Context, id int64, req BirdBatchRequest) (*models.BirdBatch, error)
	// DeleteBatch removes a batch with its events and feed records. Batches with sales are kept.
	DeleteBatch(ctx context.Context, id int64) error
	CountBatches(ctx context.Context) (int64, error)
	AvailableBirds(ctx context.Context, id int64) (int64, error)
}

type broilerService struct {
	broilerRepo  repositories.BroilerRepository
	eventRepo    repositories.BirdEventRepository
	feedRepo     repositories.FeedConsumptionRepository
	saleRepo     repositories.SaleRepository
	supplierRepo repositories.SupplierRepository
	db           *database.DB
}

func NewBroilerService(
	broilerRepo repositories.BroilerRepository,
	eventRepo repositories.BirdEventRepository,
	feedRepo repositories.FeedConsumptionRepository,
	saleRepo repositories.SaleRepository,
	supplierRepo repositories.SupplierRepository,
	db *database.DB,
) BroilerService {
	return &broilerService{
		broilerRepo:  broilerRepo,
		eventRepo:    eventRepo,
		feedRepo:     feedRepo,
		saleRepo:     saleRepo,
		supplierRepo: supplierRepo,
		db:           db,
	}
}

func (s *broilerService) batchFromRequest(ctx context.Context, ex repositories.SQLExecutor, req BirdBatchRequest) (*models.BirdBatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	supplierID := normalizeReference(req.SupplierID)
	if supplierID != nil {
		if err := requireSupplier(ctx, ex, s.supplierRepo, *supplierID); err != nil {
			return nil, err
		}
	}
	return &models.BirdBatch{
		SupplierID:       supplierID,
		BatchCode:        trimmedOrNil(req.BatchCode),
		QuantityReceived: req.QuantityReceived,
		CostPerBird:      req.CostPerBird,
		DateReceived:     models.Date(req.DateReceived),
		Notes:            trimmedOrNil(req.Notes),
	}, nil
}

func (s *broilerService) CreateBatch(ctx context.Context, req BirdBatchRequest) (*models.BirdBatch, error) {
	batch, err := s.batchFromRequest(ctx, s.db, req)
	if err != nil {
		return nil, err
	}
	id, err := s.broilerRepo.CreateBatch(ctx, s.db, batch)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: batch code is already used", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create bird batch: %w", err)
	}
	return s.GetBatch(ctx, id)
}

func (s *broilerService) GetBatch(ctx context.Context, id int64) (*models.BirdBatch, error) {
	batch, err := s.broilerRepo.GetBatchByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get bird batch: %w", err)
	}
	return batch, nil
}

func (s *broilerService) GetBatches(ctx context.Context) ([]models.BirdBatch, error) {
	batches, err := s.broilerRepo.GetBatches(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get bird batches: %w", err)
	}
	return batches, nil
}

func (s *broilerService) GetBatchesWithAvailability(ctx context.Context) ([]models.BirdBatchAvailability, error) {
	batches, err := s.broilerRepo.GetBatchesWithAvailability(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get bird batch availability: %w", err)
	}
	return batches, nil
}

func (s *broilerService) UpdateBatch(ctx context.Context, id int64, req BirdBatchRequest) (*models.BirdBatch, error) {
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.broilerRepo.GetBatchByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrBatchNotFound
			}
			return fmt.Errorf("failed to find bird batch for update: %w", err)
		}
		batch, err := s.batchFromRequest(ctx, tx, req)
		if err != nil {
			return err
		}
		batch.ID = id

		// The new intake must still cover every bird already removed or sold.
		available, err := s.broilerRepo.AvailableBirds(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to compute available birds: %w", err)
		}
		accounted := current.QuantityReceived - available
		if batch.QuantityReceived < accounted {
			return fmt.Errorf("%w: %d birds of batch %d are already accounted for, cannot reduce intake to %d",
				ErrInsufficientStock, accounted, id, batch.QuantityReceived)
		}

		if err := s.broilerRepo.UpdateBatch(ctx, tx, batch); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return fmt.Errorf("%w: batch code is already used", ErrDuplicate)
			}
			return fmt.Errorf("failed to update bird batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetBatch(ctx, id)
}

func (s *broilerService) DeleteBatch(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.broilerRepo.GetBatchByID(ctx, tx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrBatchNotFound
			}
			return fmt.Errorf("failed to find bird batch for deletion: %w", err)
		}
		sold, err := s.saleRepo.CountItemsReferencing(ctx, tx, models.ItemBroiler, id)
		if err != nil {
			return fmt.Errorf("failed to check sales of bird batch: %w", err)
		}
		if sold > 0 {
			return fmt.Errorf("%w: bird batch %d has %d sale items", ErrInUse, id, sold)
		}
		if _, err := s.eventRepo.DeleteEventsByBatch(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete bird events of batch: %w", err)
		}
		if _, err := s.feedRepo.DeleteConsumptionByBatch(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete feed consumption of batch: %w", err)
		}
		if err := s.broilerRepo.DeleteBatch(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete bird batch: %w", err)
		}
		return nil
	})
}

func (s *broilerService) CountBatches(ctx context.Context) (int64, error) {
	n, err := s.broilerRepo.CountBatches(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count bird batches: %w", err)
	}
	return n, nil
}

func (s *broilerService) AvailableBirds(ctx context.Context, id int64) (int64, error) {
	return availableBirds(ctx, s.db, s.broilerRepo, id)
}

// availableBirds maps a missing batch to ErrBatchNotFound.
func availableBirds(ctx context.Context, ex repositories.SQLExecutor, repo repositories.BroilerRepository, batchID int64) (int64, error) {
	n, err := repo.AvailableBirds(ctx, ex, batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, ErrBatchNotFound
		}
		return 0, fmt.Errorf("failed to compute available birds: %w", err)
	}
	return n, nil
}

func requireSupplier(ctx context.Context, ex repositories.SQLExecutor, repo repositories.SupplierRepository, id int64) error {
	if _, err := repo.GetSupplierByID(ctx, ex, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: supplier %d does not exist", ErrValidation, id)
		}
		return fmt.Errorf("failed to check supplier: %w", err)
	}
	return nil
}
