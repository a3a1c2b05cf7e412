package repositories

import (
	"context"

	"poultry_farm_backend/internal/models"
)

type EggLossRepository interface {
	CreateLoss(ctx context.Context, ex SQLExecutor, loss *models.EggLoss) (int64, error)
	GetLosses(ctx context.Context, ex SQLExecutor) ([]models.EggLoss, error)
	GetLossesByBatch(ctx context.Context, ex SQLExecutor, batchID int64) ([]models.EggLoss, error)
	GetLossesByReason(ctx context.Context, ex SQLExecutor, reason string) ([]models.EggLoss, error)
	TotalLoss(ctx context.Context, ex SQLExecutor) (int64, error)
	StatsByReason(ctx context.Context, ex SQLExecutor) ([]models.EggLossReasonStat, error)
	// BatchStats returns ErrNotFound when the egg batch does not exist.
	BatchStats(ctx context.Context, ex SQLExecutor, batchID int64) (*models.EggBatchLossStats, error)
	DeleteLoss(ctx context.Context, ex SQLExecutor, id int64) error
	DeleteLossesByBatch(ctx context.Context, ex SQLExecutor, batchID int64) (int64, error)
}

type eggLossRepository struct{}

func NewEggLossRepository() EggLossRepository {
	return &eggLossRepository{}
}

const eggLossSelect = `
	SELECT el.id, el.egg_batch_id, el.quantity_lost, el.loss_date, el.reason, el.notes, el.created_at,
	       eb.supplier_id, s.name AS supplier_name
	FROM egg_loss el
	LEFT JOIN egg_batches eb ON el.egg_batch_id = eb.id
	LEFT JOIN suppliers s ON eb.supplier_id = s.id`

func (r *eggLossRepository) CreateLoss(ctx context.Context, ex SQLExecutor, loss *models.EggLoss) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating egg loss",
		`INSERT INTO egg_loss (egg_batch_id, quantity_lost, loss_date, reason, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		loss.EggBatchID, loss.QuantityLost, loss.LossDate, loss.Reason, loss.Notes,
	)
	if err != nil {
		return 0, err
	}
	loss.ID = id
	return id, nil
}

func (r *eggLossRepository) GetLosses(ctx context.Context, ex SQLExecutor) ([]models.EggLoss, error) {
	losses := []models.EggLoss{}
	err := selectAll(ctx, ex, &losses, "querying egg losses",
		eggLossSelect+` ORDER BY el.loss_date DESC, el.id DESC`)
	return losses, err
}

func (r *eggLossRepository) GetLossesByBatch(ctx context.Context, ex SQLExecutor, batchID int64) ([]models.EggLoss, error) {
	losses := []models.EggLoss{}
	err := selectAll(ctx, ex, &losses, "querying egg losses by batch",
		eggLossSelect+` WHERE el.egg_batch_id = ? ORDER BY el.loss_date DESC, el.id DESC`, batchID)
	return losses, err
}

func (r *eggLossRepository) GetLossesByReason(ctx context.Context, ex SQLExecutor, reason string) ([]models.EggLoss, error) {
	losses := []models.EggLoss{}
	err := selectAll(ctx, ex, &losses, "querying egg losses by reason",
		eggLossSelect+` WHERE el.reason = ? ORDER BY el.loss_date DESC, el.id DESC`, reason)
	return losses, err
}

func (r *eggLossRepository) TotalLoss(ctx context.Context, ex SQLExecutor) (int64, error) {
	return scalarInt(ctx, ex, "summing egg losses", `SELECT COALESCE(SUM(quantity_lost), 0) FROM egg_loss`)
}

func (r *eggLossRepository) StatsByReason(ctx context.Context, ex SQLExecutor) ([]models.EggLossReasonStat, error) {
	stats := []models.EggLossReasonStat{}
	err := selectAll(ctx, ex, &stats, "aggregating egg losses by reason", `
		SELECT reason, COUNT(*) AS count, COALESCE(SUM(quantity_lost), 0) AS total_quantity
		FROM egg_loss
		GROUP BY reason
		ORDER BY total_quantity DESC`)
	return stats, err
}

func (r *eggLossRepository) BatchStats(ctx context.Context, ex SQLExecutor, batchID int64) (*models.EggBatchLossStats, error) {
	stats := &models.EggBatchLossStats{}
	err := getOne(ctx, ex, stats, "aggregating egg losses of batch", `
		SELECT COALESCE((SELECT SUM(quantity_lost) FROM egg_loss WHERE egg_batch_id = eb.id), 0) AS total_loss,
		       (SELECT COUNT(*) FROM egg_loss WHERE egg_batch_id = eb.id) AS loss_records,
		       eb.crates_received
		FROM egg_batches eb
		WHERE eb.id = ?`, batchID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *eggLossRepository) DeleteLoss(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, "deleting egg loss", `DELETE FROM egg_loss WHERE id = ?`, id)
}

func (r *eggLossRepository) DeleteLossesByBatch(ctx context.Context, ex SQLExecutor, batchID int64) (int64, error) {
	return execCount(ctx, ex, "deleting egg losses of batch", `DELETE FROM egg_loss WHERE egg_batch_id = ?`, batchID)
}
