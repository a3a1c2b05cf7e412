package repositories

import (
	"context"

	"poultry_farm_backend/internal/models"
)

// BroilerRepository covers bird batches and their derived availability.
type BroilerRepository interface {
	CreateBatch(ctx context.Context, ex SQLExecutor, batch *models.BirdBatch) (int64, error)
	GetBatchByID(ctx context.Context, ex SQLExecutor, id int64) (*models.BirdBatch, error)
	GetBatches(ctx context.Context, ex SQLExecutor) ([]models.BirdBatch, error)
	GetBatchesWithAvailability(ctx context.Context, ex SQLExecutor) ([]models.BirdBatchAvailability, error)
	UpdateBatch(ctx context.Context, ex SQLExecutor, batch *models.BirdBatch) error
	DeleteBatch(ctx context.Context, ex SQLExecutor, id int64) error
	CountBatches(ctx context.Context, ex SQLExecutor) (int64, error)
	// AvailableBirds returns received minus events minus sold for the batch, or ErrNotFound.
	AvailableBirds(ctx context.Context, ex SQLExecutor, id int64) (int64, error)
	SoldBirds(ctx context.Context, ex SQLExecutor, id int64) (int64, error)
}

type broilerRepository struct{}

// NewBroilerRepository creates a new instance of BroilerRepository.
func NewBroilerRepository() BroilerRepository {
	return &broilerRepository{}
}

const (
	birdEventsForBatch = `COALESCE((SELECT SUM(quantity) FROM bird_events WHERE batch_id = bb.id), 0)`
	birdsSoldFromBatch = `COALESCE((SELECT SUM(quantity) FROM sales_items WHERE item_type = 'broiler' AND reference_id = bb.id), 0)`
)

func (r *broilerRepository) CreateBatch(ctx context.Context, ex SQLExecutor, batch *models.BirdBatch) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating bird batch",
		`INSERT INTO bird_batches (supplier_id, batch_code, quantity_received, cost_per_bird, date_received, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		batch.SupplierID, batch.BatchCode, batch.QuantityReceived, batch.CostPerBird, batch.DateReceived, batch.Notes,
	)
	if err != nil {
		return 0, err
	}
	batch.ID = id
	return id, nil
}

func (r *broilerRepository) GetBatchByID(ctx context.Context, ex SQLExecutor, id int64) (*models.BirdBatch, error) {
	batch := &models.BirdBatch{}
	err := getOne(ctx, ex, batch, "getting bird batch by ID", `
		SELECT bb.id, bb.supplier_id, bb.batch_code, bb.quantity_received, bb.cost_per_bird,
		       bb.date_received, bb.notes, bb.created_at, s.name AS supplier_name
		FROM bird_batches bb
		LEFT JOIN suppliers s ON bb.supplier_id = s.id
		WHERE bb.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *broilerRepository) GetBatches(ctx context.Context, ex SQLExecutor) ([]models.BirdBatch, error) {
	batches := []models.BirdBatch{}
	err := selectAll(ctx, ex, &batches, "querying bird batches", `
		SELECT bb.id, bb.supplier_id, bb.batch_code, bb.quantity_received, bb.cost_per_bird,
		       bb.date_received, bb.notes, bb.created_at, s.name AS supplier_name
		FROM bird_batches bb
		LEFT JOIN suppliers s ON bb.supplier_id = s.id
		ORDER BY bb.date_received DESC, bb.id DESC`)
	return batches, err
}

func (r *broilerRepository) GetBatchesWithAvailability(ctx context.Context, ex SQLExecutor) ([]models.BirdBatchAvailability, error) {
	batches := []models.BirdBatchAvailability{}
	err := selectAll(ctx, ex, &batches, "querying bird batch availability", `
		SELECT bb.id, bb.supplier_id, bb.batch_code, bb.quantity_received, bb.cost_per_bird,
		       bb.date_received, bb.notes, bb.created_at, s.name AS supplier_name,
		       bb.quantity_received - `+birdEventsForBatch+` - `+birdsSoldFromBatch+` AS available_birds,
		       COALESCE((SELECT SUM(quantity) FROM bird_events WHERE batch_id = bb.id AND event_type = 'mortality'), 0) AS mortality_count,
		       COALESCE((SELECT SUM(quantity) FROM bird_events WHERE batch_id = bb.id AND event_type = 'home_use'), 0) AS home_use_count,
		       `+birdsSoldFromBatch+` AS sold_count
		FROM bird_batches bb
		LEFT JOIN suppliers s ON bb.supplier_id = s.id
		ORDER BY bb.date_received DESC, bb.id DESC`)
	return batches, err
}

func (r *broilerRepository) UpdateBatch(ctx context.Context, ex SQLExecutor, batch *models.BirdBatch) error {
	return execAffecting(ctx, ex, "updating bird batch", `
		UPDATE bird_batches
		SET supplier_id = ?, batch_code = ?, quantity_received = ?, cost_per_bird = ?, date_received = ?, notes = ?
		WHERE id = ?`,
		batch.SupplierID, batch.BatchCode, batch.QuantityReceived, batch.CostPerBird, batch.DateReceived, batch.Notes, batch.ID,
	)
}

func (r *broilerRepository) DeleteBatch(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, "deleting bird batch", `DELETE FROM bird_batches WHERE id = ?`, id)
}

func (r *broilerRepository) CountBatches(ctx context.Context, ex SQLExecutor) (int64, error) {
	return scalarInt(ctx, ex, "counting bird batches", `SELECT COUNT(*) FROM bird_batches`)
}

func (r *broilerRepository) AvailableBirds(ctx context.Context, ex SQLExecutor, id int64) (int64, error) {
	return scalarInt(ctx, ex, "computing available birds", `
		SELECT bb.quantity_received - `+birdEventsForBatch+` - `+birdsSoldFromBatch+`
		FROM bird_batches bb
		WHERE bb.id = ?`, id)
}

func (r *broilerRepository) SoldBirds(ctx context.Context, ex SQLExecutor, id int64) (int64, error) {
	return scalarInt(ctx, ex, "counting sold birds",
		`SELECT COALESCE(SUM(quantity), 0) FROM sales_items WHERE item_type = 'broiler' AND reference_id = ?`, id)
}
