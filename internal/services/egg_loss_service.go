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

type RecordEggLossRequest struct {
	EggBatchID   int64   `json:"egg_batch_id" validate:"gt=0"`
	QuantityLost int64   `json:"quantity_lost" validate:"gt=0"`
	LossDate     string  `json:"loss_date" validate:"required,datetime=2006-01-02"`
	Reason       *string `json:"reason"`
	Notes        *string `json:"notes"`
}

type EggLossService interface {
	// RecordLoss rejects quantities above the crates still available in the batch.
	RecordLoss(ctx context.Context, req RecordEggLossRequest) (*models.EggLoss, error)
	GetLosses(ctx context.Context) ([]models.EggLoss, error)
	GetLossesByBatch(ctx context.Context, batchID int64) ([]models.EggLoss, error)
	GetLossesByReason(ctx context.Context, reason string) ([]models.EggLoss, error)
	TotalLoss(ctx context.Context) (int64, error)
	StatsByReason(ctx context.Context) ([]models.EggLossReasonStat, error)
	BatchStats(ctx context.Context, batchID int64) (*models.EggBatchLossStats, error)
	DeleteLoss(ctx context.Context, id int64) error
}

type eggLossService struct {
	lossRepo repositories.EggLossRepository
	eggRepo  repositories.EggRepository
	db       *database.DB
}

func NewEggLossService(lossRepo repositories.EggLossRepository, eggRepo repositories.EggRepository, db *database.DB) EggLossService {
	return &eggLossService{lossRepo: lossRepo, eggRepo: eggRepo, db: db}
}

func (s *eggLossService) RecordLoss(ctx context.Context, req RecordEggLossRequest) (*models.EggLoss, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var id int64
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		avail, err := availableCrates(ctx, tx, s.eggRepo, req.EggBatchID)
		if err != nil {
			return err
		}
		if req.QuantityLost > avail.AvailableCrates {
			return fmt.Errorf("%w: egg batch %d has %d crates available, cannot record a loss of %d",
				ErrInsufficientStock, req.EggBatchID, avail.AvailableCrates, req.QuantityLost)
		}
		loss := &models.EggLoss{
			EggBatchID:   req.EggBatchID,
			QuantityLost: req.QuantityLost,
			LossDate:     models.Date(req.LossDate),
			Reason:       trimmedOrNil(req.Reason),
			Notes:        trimmedOrNil(req.Notes),
		}
		id, err = s.lossRepo.CreateLoss(ctx, tx, loss)
		if err != nil {
			return fmt.Errorf("failed to record egg loss: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	losses, err := s.lossRepo.GetLossesByBatch(ctx, s.db, req.EggBatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload egg loss: %w", err)
	}
	for i := range losses {
		if losses[i].ID == id {
			return &losses[i], nil
		}
	}
	return nil, ErrLossNotFound
}

func (s *eggLossService) GetLosses(ctx context.Context) ([]models.EggLoss, error) {
	losses, err := s.lossRepo.GetLosses(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get egg losses: %w", err)
	}
	return losses, nil
}

func (s *eggLossService) GetLossesByBatch(ctx context.Context, batchID int64) ([]models.EggLoss, error) {
	losses, err := s.lossRepo.GetLossesByBatch(ctx, s.db, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get egg losses by batch: %w", err)
	}
	return losses, nil
}

func (s *eggLossService) GetLossesByReason(ctx context.Context, reason string) ([]models.EggLoss, error) {
	losses, err := s.lossRepo.GetLossesByReason(ctx, s.db, strings.TrimSpace(reason))
	if err != nil {
		return nil, fmt.Errorf("failed to get egg losses by reason: %w", err)
	}
	return losses, nil
}

func (s *eggLossService) TotalLoss(ctx context.Context) (int64, error) {
	n, err := s.lossRepo.TotalLoss(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to sum egg losses: %w", err)
	}
	return n, nil
}

func (s *eggLossService) StatsByReason(ctx context.Context) ([]models.EggLossReasonStat, error) {
	stats, err := s.lossRepo.StatsByReason(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get egg loss stats: %w", err)
	}
	return stats, nil
}

func (s *eggLossService) BatchStats(ctx context.Context, batchID int64) (*models.EggBatchLossStats, error) {
	stats, err := s.lossRepo.BatchStats(ctx, s.db, batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEggBatchNotFound
		}
		return nil, fmt.Errorf("failed to get egg batch loss stats: %w", err)
	}
	stats.LossPercentage = percentage(stats.TotalLoss, stats.CratesReceived)
	return stats, nil
}

func (s *eggLossService) DeleteLoss(ctx context.Context, id int64) error {
	if err := s.lossRepo.DeleteLoss(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLossNotFound
		}
		return fmt.Errorf("failed to delete egg loss: %w", err)
	}
	return nil
}
