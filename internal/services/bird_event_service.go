package services

import (
	"context"
	"errors"
	"fmt"

	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/internal/repositories"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type RecordBirdEventRequest struct {
	BatchID   int64   `json:"batch_id" validate:"gt=0"`
	EventType string  `json:"event_type" validate:"required,oneof=mortality home_use"`
	Quantity  int64   `json:"quantity" validate:"gt=0"`
	EventDate string  `json:"event_date" validate:"required,datetime=2006-01-02"`
	Notes     *string `json:"notes"`
}

type BirdEventService interface {
	// RecordEvent rejects quantities above the batch's current availability.
	RecordEvent(ctx context.Context, req RecordBirdEventRequest) (*models.BirdEvent, error)
	GetEvents(ctx context.Context) ([]models.BirdEvent, error)
	GetEventsByBatch(ctx context.Context, batchID int64) ([]models.BirdEvent, error)
	GetEventsByType(ctx context.Context, eventType string) ([]models.BirdEvent, error)
	TotalMortality(ctx context.Context, batchID *int64) (int64, error)
	TotalHomeUse(ctx context.Context, batchID *int64) (int64, error)
	AvailableBirds(ctx context.Context, batchID int64) (int64, error)
	HealthSummary(ctx context.Context, batchID int64) (*models.BirdHealthSummary, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type birdEventService struct {
	eventRepo   repositories.BirdEventRepository
	broilerRepo repositories.BroilerRepository
	db          *database.DB
}

func NewBirdEventService(eventRepo repositories.BirdEventRepository, broilerRepo repositories.BroilerRepository, db *database.DB) BirdEventService {
	return &birdEventService{
		eventRepo:   eventRepo,
		broilerRepo: broilerRepo,
		db:          db,
	}
}

func (s *birdEventService) RecordEvent(ctx context.Context, req RecordBirdEventRequest) (*models.BirdEvent, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	event := &models.BirdEvent{
		BatchID:   req.BatchID,
		EventType: req.EventType,
		Quantity:  req.Quantity,
		EventDate: models.Date(req.EventDate),
		Notes:     trimmedOrNil(req.Notes),
	}
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		available, err := availableBirds(ctx, tx, s.broilerRepo, req.BatchID)
		if err != nil {
			return err
		}
		if req.Quantity > available {
			return fmt.Errorf("%w: batch %d has %d birds available, cannot record %d",
				ErrInsufficientStock, req.BatchID, available, req.Quantity)
		}
		if _, err := s.eventRepo.CreateEvent(ctx, tx, event); err != nil {
			return fmt.Errorf("failed to record bird event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *birdEventService) GetEvents(ctx context.Context) ([]models.BirdEvent, error) {
	events, err := s.eventRepo.GetEvents(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get bird events: %w", err)
	}
	return events, nil
}

func (s *birdEventService) GetEventsByBatch(ctx context.Context, batchID int64) ([]models.BirdEvent, error) {
	events, err := s.eventRepo.GetEventsByBatch(ctx, s.db, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bird events by batch: %w", err)
	}
	return events, nil
}

func (s *birdEventService) GetEventsByType(ctx context.Context, eventType string) ([]models.BirdEvent, error) {
	if eventType != models.EventMortality && eventType != models.EventHomeUse {
		return nil, validationError("event type must be %q or %q", models.EventMortality, models.EventHomeUse)
	}
	events, err := s.eventRepo.GetEventsByType(ctx, s.db, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to get bird events by type: %w", err)
	}
	return events, nil
}

func (s *birdEventService) TotalMortality(ctx context.Context, batchID *int64) (int64, error) {
	return s.total(ctx, models.EventMortality, batchID)
}

func (s *birdEventService) TotalHomeUse(ctx context.Context, batchID *int64) (int64, error) {
	return s.total(ctx, models.EventHomeUse, batchID)
}

func (s *birdEventService) total(ctx context.Context, eventType string, batchID *int64) (int64, error) {
	n, err := s.eventRepo.TotalByType(ctx, s.db, eventType, normalizeReference(batchID))
	if err != nil {
		return 0, fmt.Errorf("failed to sum %s events: %w", eventType, err)
	}
	return n, nil
}

func (s *birdEventService) AvailableBirds(ctx context.Context, batchID int64) (int64, error) {
	return availableBirds(ctx, s.db, s.broilerRepo, batchID)
}

func (s *birdEventService) HealthSummary(ctx context.Context, batchID int64) (*models.BirdHealthSummary, error) {
	batch, err := s.broilerRepo.GetBatchByID(ctx, s.db, batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get bird batch: %w", err)
	}

	summary := &models.BirdHealthSummary{Total: batch.QuantityReceived}
	if summary.Mortality, err = s.eventRepo.TotalByType(ctx, s.db, models.EventMortality, &batchID); err != nil {
		return nil, fmt.Errorf("failed to sum mortality: %w", err)
	}
	if summary.HomeUse, err = s.eventRepo.TotalByType(ctx, s.db, models.EventHomeUse, &batchID); err != nil {
		return nil, fmt.Errorf("failed to sum home use: %w", err)
	}
	if summary.Sold, err = s.broilerRepo.SoldBirds(ctx, s.db, batchID); err != nil {
		return nil, fmt.Errorf("failed to sum sold birds: %w", err)
	}
	if summary.Available, err = availableBirds(ctx, s.db, s.broilerRepo, batchID); err != nil {
		return nil, err
	}
	summary.Accounted = summary.Mortality + summary.HomeUse + summary.Sold + summary.Available
	summary.MortalityRate = percentage(summary.Mortality, summary.Total)
	return summary, nil
}

func (s *birdEventService) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.eventRepo.DeleteEvent(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete bird event: %w", err)
	}
	return nil
}

// percentage returns part/whole*100 rounded to two decimals, 0 when whole is 0.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	p := decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(whole))
	return toFloat(p)
}
