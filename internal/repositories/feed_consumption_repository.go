package repositories

import (
	"context"
	"strings"

	"poultry_farm_backend/internal/models"
)

// FeedConsumptionRepository defines the interface for recording supplies used by bird batches.
type FeedConsumptionRepository interface {
	CreateConsumption(ctx context.Context, ex SQLExecutor, fc *models.FeedConsumption) (int64, error)
	GetConsumption(ctx context.Context, ex SQLExecutor, batchID, inventoryID *int64) ([]models.FeedConsumption, error)
	DeleteConsumptionByBatch(ctx context.Context, ex SQLExecutor, batchID int64) (int64, error)
}

type feedConsumptionRepository struct{}

// NewFeedConsumptionRepository creates a new instance of FeedConsumptionRepository.
func NewFeedConsumptionRepository() FeedConsumptionRepository {
	return &feedConsumptionRepository{}
}

func (r *feedConsumptionRepository) CreateConsumption(ctx context.Context, ex SQLExecutor, fc *models.FeedConsumption) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating feed consumption",
		`INSERT INTO feed_consumption (batch_id, inventory_id, quantity_used, consumption_date, notes) VALUES (?, ?, ?, ?, ?)`,
		fc.BatchID, fc.InventoryID, fc.QuantityUsed, fc.ConsumptionDate, fc.Notes,
	)
	if err != nil {
		return 0, err
	}
	fc.ID = id
	return id, nil
}

func (r *feedConsumptionRepository) GetConsumption(ctx context.Context, ex SQLExecutor, batchID, inventoryID *int64) ([]models.FeedConsumption, error) {
	rows := []models.FeedConsumption{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    fc.id, fc.batch_id, fc.inventory_id, fc.quantity_used, fc.consumption_date, fc.notes,
	    bb.batch_code, i.item_name, i.unit
	  FROM feed_consumption fc
	  LEFT JOIN bird_batches bb ON fc.batch_id = bb.id
	  LEFT JOIN inventory i ON fc.inventory_id = i.id`)

	var conditions []string
	var args []interface{}
	if batchID != nil {
		conditions = append(conditions, "fc.batch_id = ?")
		args = append(args, *batchID)
	}
	if inventoryID != nil {
		conditions = append(conditions, "fc.inventory_id = ?")
		args = append(args, *inventoryID)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY fc.consumption_date DESC, fc.id DESC")

	err := selectAll(ctx, ex, &rows, "querying feed consumption", queryBuilder.String(), args...)
	return rows, err
}

func (r *feedConsumptionRepository) DeleteConsumptionByBatch(ctx context.Context, ex SQLExecutor, batchID int64) (int64, error) {
	return execCount(ctx, ex, "deleting feed consumption of batch", `DELETE FROM feed_consumption WHERE batch_id = ?`, batchID)
}
