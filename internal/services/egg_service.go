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

type EggBatchRequest struct {
	SupplierID     int64   `json:"supplier_id" validate:"gt=0"`
	CratesReceived int64   `json:"crates_received" validate:"gt=0"`
	CostPerCrate   float64 `json:"cost_per_crate" validate:"gte=0"`
	DateReceived   string  `json:"date_received" validate:"required,datetime=2006-01-02"`
}

type GradeEggsRequest struct {
	EggBatchID   int64   `json:"egg_batch_id" validate:"gt=0"`
	Size         string  `json:"size" validate:"required,oneof=small medium large"`
	Quantity     int64   `json:"quantity" validate:"gt=0"`
	SellingPrice float64 `json:"selling_price" validate:"gte=0"`
}

type EggService interface {
	CreateBatch(ctx context.Context, req EggBatchRequest) (*models.EggBatch, error)
	GetBatches(ctx context.Context) ([]models.EggBatch, error)
	UpdateBatch(ctx context.Context, id int64, req EggBatchRequest) (*models.EggBatch, error)
	// DeleteBatch removes a batch with its grades and losses. Batches with sales are kept.
	DeleteBatch(ctx context.Context, id int64) error
	CountBatches(ctx context.Context) (int64, error)
	Availability(ctx context.Context, id int64) (*models.EggBatchAvailability, error)

	GradeEggs(ctx context.Context, req GradeEggsRequest) (*models.EggGrade, error)
	GetGrades(ctx context.Context, batchID *int64) ([]models.EggGrade, error)
	GradeRevenue(ctx context.Context) (float64, error)
}

type eggService struct {
	eggRepo      repositories.EggRepository
	lossRepo     repositories.EggLossRepository
	saleRepo     repositories.SaleRepository
	supplierRepo repositories.SupplierRepository
	db           *database.DB
}

func NewEggService(
	eggRepo repositories.EggRepository,
	lossRepo repositories.EggLossRepository,
	saleRepo repositories.SaleRepository,
	supplierRepo repositories.SupplierRepository,
	db *database.DB,
) EggService {
	return &eggService{
		eggRepo:      eggRepo,
		lossRepo:     lossRepo,
		saleRepo:     saleRepo,
		supplierRepo: supplierRepo,
		db:           db,
	}
}

func (s *eggService) CreateBatch(ctx context.Context, req EggBatchRequest) (*models.EggBatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := requireSupplier(ctx, s.db, s.supplierRepo, req.SupplierID); err != nil {
		return nil, err
	}
	batch := &models.EggBatch{
		SupplierID:     req.SupplierID,
		CratesReceived: req.CratesReceived,
		CostPerCrate:   req.CostPerCrate,
		DateReceived:   models.Date(req.DateReceived),
	}
	id, err := s.eggRepo.CreateBatch(ctx, s.db, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to create egg batch: %w", err)
	}
	return s.getBatch(ctx, s.db, id)
}

func (s *eggService) getBatch(ctx context.Context, ex repositories.SQLExecutor, id int64) (*models.EggBatch, error) {
	batch, err := s.eggRepo.GetBatchByID(ctx, ex, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEggBatchNotFound
		}
		return nil, fmt.Errorf("failed to get egg batch: %w", err)
	}
	return batch, nil
}

func (s *eggService) GetBatches(ctx context.Context) ([]models.EggBatch, error) {
	batches, err := s.eggRepo.GetBatches(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get egg batches: %w", err)
	}
	return batches, nil
}

func (s *eggService) UpdateBatch(ctx context.Context, id int64, req EggBatchRequest) (*models.EggBatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		avail, err := availableCrates(ctx, tx, s.eggRepo, id)
		if err != nil {
			return err
		}
		if err := requireSupplier(ctx, tx, s.supplierRepo, req.SupplierID); err != nil {
			return err
		}
		accounted := avail.LostCrates + avail.SoldCrates
		if req.CratesReceived < accounted {
			return fmt.Errorf("%w: %d crates of egg batch %d are already lost or sold, cannot reduce intake to %d",
				ErrInsufficientStock, accounted, id, req.CratesReceived)
		}
		batch := &models.EggBatch{
			ID:             id,
			SupplierID:     req.SupplierID,
			CratesReceived: req.CratesReceived,
			CostPerCrate:   req.CostPerCrate,
			DateReceived:   models.Date(req.DateReceived),
		}
		if err := s.eggRepo.UpdateBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("failed to update egg batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.getBatch(ctx, s.db, id)
}

func (s *eggService) DeleteBatch(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.getBatch(ctx, tx, id); err != nil {
			return err
		}
		sold, err := s.saleRepo.CountItemsReferencing(ctx, tx, models.ItemEgg, id)
		if err != nil {
			return fmt.Errorf("failed to check sales of egg batch: %w", err)
		}
		if sold > 0 {
			return fmt.Errorf("%w: egg batch %d has %d sale items", ErrInUse, id, sold)
		}
		if _, err := s.eggRepo.DeleteGradesByBatch(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete egg grades of batch: %w", err)
		}
		if _, err := s.lossRepo.DeleteLossesByBatch(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete egg losses of batch: %w", err)
		}
		if err := s.eggRepo.DeleteBatch(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete egg batch: %w", err)
		}
		return nil
	})
}

func (s *eggService) CountBatches(ctx context.Context) (int64, error) {
	n, err := s.eggRepo.CountBatches(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count egg batches: %w", err)
	}
	return n, nil
}

func (s *eggService) Availability(ctx context.Context, id int64) (*models.EggBatchAvailability, error) {
	return availableCrates(ctx, s.db, s.eggRepo, id)
}

func (s *eggService) GradeEggs(ctx context.Context, req GradeEggsRequest) (*models.EggGrade, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.getBatch(ctx, s.db, req.EggBatchID); err != nil {
		return nil, err
	}
	grade := &models.EggGrade{
		EggBatchID:   req.EggBatchID,
		Size:         req.Size,
		Quantity:     req.Quantity,
		SellingPrice: req.SellingPrice,
	}
	if _, err := s.eggRepo.CreateGrade(ctx, s.db, grade); err != nil {
		return nil, fmt.Errorf("failed to grade eggs: %w", err)
	}
	return grade, nil
}

func (s *eggService) GetGrades(ctx context.Context, batchID *int64) ([]models.EggGrade, error) {
	grades, err := s.eggRepo.GetGrades(ctx, s.db, normalizeReference(batchID))
	if err != nil {
		return nil, fmt.Errorf("failed to get egg grades: %w", err)
	}
	return grades, nil
}

func (s *eggService) GradeRevenue(ctx context.Context) (float64, error) {
	total, err := s.eggRepo.GradeRevenue(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to sum egg revenue: %w", err)
	}
	return toFloat(money(total)), nil
}

func availableCrates(ctx context.Context, ex repositories.SQLExecutor, repo repositories.EggRepository, batchID int64) (*models.EggBatchAvailability, error) {
	avail, err := repo.GetAvailability(ctx, ex, batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEggBatchNotFound
		}
		return nil, fmt.Errorf("failed to compute available egg crates: %w", err)
	}
	return avail, nil
}
