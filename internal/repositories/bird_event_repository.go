package repositories

import (
	"context"

	"poultry_farm_backend/internal/models"
)

// BirdEventRepository defines database operations for mortality and home-use events.
type BirdEventRepository interface {
	CreateEvent(ctx context.Context, ex SQLExecutor, event *models.BirdEvent) (int64, error)
	GetEventByID(ctx context.Context, ex SQLExecutor, id int64) (*models.BirdEvent, error)
	GetEvents(ctx context.Context, ex SQLExecutor) ([]models.BirdEvent, error)
	GetEventsByBatch(ctx context.Context, ex SQLExecutor, batchID int64) ([]models.BirdEvent, error)
	GetEventsByType(ctx context.Context, ex SQLExecutor, eventType string) ([]models.BirdEvent, error)
	// TotalByType sums event quantities of one type, across all batches when batchID is nil.
	TotalByType(ctx context.Context, ex SQLExecutor, eventType string, batchID *int64) (int64, error)
	DeleteEvent(ctx context.Context, ex SQLExecutor, id int64) error
	DeleteEventsByBatch(ctx context.Context, ex SQLExecutor, batchID int64) (int64, error)
}

type birdEventRepository struct{}

// NewBirdEventRepository creates a new instance of BirdEventRepository.
func NewBirdEventRepository() BirdEventRepository {
	return &birdEventRepository{}
}

const birdEventSelect = `
	SELECT be.id, be.batch_id, be.event_type, be.quantity, be.event_date, be.notes, bb.batch_code
	FROM bird_events be
	LEFT JOIN bird_batches bb ON be.batch_id = bb.id`

func (r *birdEventRepository) CreateEvent(ctx context.Context, ex SQLExecutor, event *models.BirdEvent) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating bird event",
		`INSERT INTO bird_events (batch_id, event_type, quantity, event_date, notes) VALUES (?, ?, ?, ?, ?)`,
		event.BatchID, event.EventType, event.Quantity, event.EventDate, event.Notes,
	)
	if err != nil {
		return 0, err
	}
	event.ID = id
	return id, nil
}

func (r *birdEventRepository) GetEventByID(ctx context.Context, ex SQLExecutor, id int64) (*models.BirdEvent, error) {
	event := &models.BirdEvent{}
	if err := getOne(ctx, ex, event, "getting bird event by ID", birdEventSelect+` WHERE be.id = ?`, id); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *birdEventRepository) GetEvents(ctx context.Context, ex SQLExecutor) ([]models.BirdEvent, error) {
	events := []models.BirdEvent{}
	err := selectAll(ctx, ex, &events, "querying bird events",
		birdEventSelect+` ORDER BY be.event_date DESC, be.id DESC`)
	return events, err
}

func (r *birdEventRepository) GetEventsByBatch(ctx context.Context, ex SQLExecutor, batchID int64) ([]models.BirdEvent, error) {
	events := []models.BirdEvent{}
	err := selectAll(ctx, ex, &events, "querying bird events by batch",
		birdEventSelect+` WHERE be.batch_id = ? ORDER BY be.event_date DESC, be.id DESC`, batchID)
	return events, err
}

func (r *birdEventRepository) GetEventsByType(ctx context.Context, ex SQLExecutor, eventType string) ([]models.BirdEvent, error) {
	events := []models.BirdEvent{}
	err := selectAll(ctx, ex, &events, "querying bird events by type",
		birdEventSelect+` WHERE be.event_type = ? ORDER BY be.event_date DESC, be.id DESC`, eventType)
	return events, err
}

func (r *birdEventRepository) TotalByType(ctx context.Context, ex SQLExecutor, eventType string, batchID *int64) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM bird_events WHERE event_type = ?`
	args := []interface{}{eventType}
	if batchID != nil {
		query += ` AND batch_id = ?`
		args = append(args, *batchID)
	}
	return scalarInt(ctx, ex, "summing bird events", query, args...)
}

func (r *birdEventRepository) DeleteEvent(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, "deleting bird event", `DELETE FROM bird_events WHERE id = ?`, id)
}

func (r *birdEventRepository) DeleteEventsByBatch(ctx context.Context, ex SQLExecutor, batchID int64) (int64, error) {
	return execCount(ctx, ex, "deleting bird events of batch", `DELETE FROM bird_events WHERE batch_id = ?`, batchID)
}
