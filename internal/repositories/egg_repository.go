package repositories

import (
	"context"

	"poultry_farm_backend/internal/models"
)

// EggRepository covers egg batches, their grading and crate availability.
type EggRepository interface {
	CreateBatch(ctx context.Context, ex SQLExecutor, batch *models.EggBatch) (int64, error)
	GetBatchByID(ctx context.Context, ex SQLExecutor, id int64) (*models.EggBatch, error)
	GetBatches(ctx context.Context, ex SQLExecutor) ([]models.EggBatch, error)
	UpdateBatch(ctx context.Context, ex SQLExecutor, batch *models.EggBatch) error
	DeleteBatch(ctx context.Context, ex SQLExecutor, id int64) error
	CountBatches(ctx context.Context, ex SQLExecutor) (int64, error)
	// GetAvailability returns ErrNotFound when the batch does not exist.
	GetAvailability(ctx context.Context, ex SQLExecutor, id int64) (*models.EggBatchAvailability, error)

	CreateGrade(ctx context.Context, ex SQLExecutor, grade *models.EggGrade) (int64, error)
	GetGrades(ctx context.Context, ex SQLExecutor, batchID *int64) ([]models.EggGrade, error)
	DeleteGradesByBatch(ctx context.Context, ex SQLExecutor, batchID int64) (int64, error)
	GradeRevenue(ctx context.Context, ex SQLExecutor) (float64, error)
}

type eggRepository struct{}

// NewEggRepository creates a new instance of EggRepository.
func NewEggRepository() EggRepository {
	return &eggRepository{}
}

const eggBatchSelect = `
	SELECT eb.id, eb.supplier_id, eb.crates_received, eb.cost_per_crate, eb.date_received, s.name AS supplier_name
	FROM egg_batches eb
	LEFT JOIN suppliers s ON eb.supplier_id = s.id`

func (r *eggRepository) CreateBatch(ctx context.Context, ex SQLExecutor, batch *models.EggBatch) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating egg batch",
		`INSERT INTO egg_batches (supplier_id, crates_received, cost_per_crate, date_received) VALUES (?, ?, ?, ?)`,
		batch.SupplierID, batch.CratesReceived, batch.CostPerCrate, batch.DateReceived,
	)
	if err != nil {
		return 0, err
	}
	batch.ID = id
	return id, nil
}

func (r *eggRepository) GetBatchByID(ctx context.Context, ex SQLExecutor, id int64) (*models.EggBatch, error) {
	batch := &models.EggBatch{}
	if err := getOne(ctx, ex, batch, "getting egg batch by ID", eggBatchSelect+` WHERE eb.id = ?`, id); err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *eggRepository) GetBatches(ctx context.Context, ex SQLExecutor) ([]models.EggBatch, error) {
	batches := []models.EggBatch{}
	err := selectAll(ctx, ex, &batches, "querying egg batches",
		eggBatchSelect+` ORDER BY eb.date_received DESC, eb.id DESC`)
	return batches, err
}

func (r *eggRepository) UpdateBatch(ctx context.Context, ex SQLExecutor, batch *models.EggBatch) error {
	return execAffecting(ctx, ex, "updating egg batch",
		`UPDATE egg_batches SET supplier_id = ?, crates_received = ?, cost_per_crate = ?, date_received = ? WHERE id = ?`,
		batch.SupplierID, batch.CratesReceived, batch.CostPerCrate, batch.DateReceived, batch.ID,
	)
}

func (r *eggRepository) DeleteBatch(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, "deleting egg batch", `DELETE FROM egg_batches WHERE id = ?`, id)
}

func (r *eggRepository) CountBatches(ctx context.Context, ex SQLExecutor) (int64, error) {
	return scalarInt(ctx, ex, "counting egg batches", `SELECT COUNT(*) FROM egg_batches`)
}

func (r *eggRepository) GetAvailability(ctx context.Context, ex SQLExecutor, id int64) (*models.EggBatchAvailability, error) {
	avail := &models.EggBatchAvailability{}
	err := getOne(ctx, ex, avail, "computing available egg crates", `
		SELECT eb.id, eb.supplier_id, eb.crates_received, eb.cost_per_crate, eb.date_received, s.name AS supplier_name,
		       COALESCE((SELECT SUM(quantity_lost) FROM egg_loss WHERE egg_batch_id = eb.id), 0) AS lost_crates,
		       COALESCE((SELECT SUM(quantity) FROM sales_items WHERE item_type = 'egg' AND reference_id = eb.id), 0) AS sold_crates,
		       eb.crates_received
		         - COALESCE((SELECT SUM(quantity_lost) FROM egg_loss WHERE egg_batch_id = eb.id), 0)
		         - COALESCE((SELECT SUM(quantity) FROM sales_items WHERE item_type = 'egg' AND reference_id = eb.id), 0) AS available_crates
		FROM egg_batches eb
		LEFT JOIN suppliers s ON eb.supplier_id = s.id
		WHERE eb.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return avail, nil
}

func (r *eggRepository) CreateGrade(ctx context.Context, ex SQLExecutor, grade *models.EggGrade) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating egg grade",
		`INSERT INTO egg_grades (egg_batch_id, size, quantity, selling_price) VALUES (?, ?, ?, ?)`,
		grade.EggBatchID, grade.Size, grade.Quantity, grade.SellingPrice,
	)
	if err != nil {
		return 0, err
	}
	grade.ID = id
	return id, nil
}

func (r *eggRepository) GetGrades(ctx context.Context, ex SQLExecutor, batchID *int64) ([]models.EggGrade, error) {
	grades := []models.EggGrade{}
	query := `SELECT id, egg_batch_id, size, quantity, selling_price FROM egg_grades`
	var args []interface{}
	if batchID != nil {
		query += ` WHERE egg_batch_id = ?`
		args = append(args, *batchID)
	}
	err := selectAll(ctx, ex, &grades, "querying egg grades", query+` ORDER BY egg_batch_id DESC, id`, args...)
	return grades, err
}

func (r *eggRepository) DeleteGradesByBatch(ctx context.Context, ex SQLExecutor, batchID int64) (int64, error) {
	return execCount(ctx, ex, "deleting egg grades of batch", `DELETE FROM egg_grades WHERE egg_batch_id = ?`, batchID)
}

func (r *eggRepository) GradeRevenue(ctx context.Context, ex SQLExecutor) (float64, error) {
	return scalarFloat(ctx, ex, "summing egg grade revenue",
		`SELECT COALESCE(SUM(quantity * selling_price), 0) FROM egg_grades`)
}
