package repositories

import (
	"context"
	"strings"

	"poultry_farm_backend/internal/models"
)

// InventoryRepository defines the interface for supply stock operations.
type InventoryRepository interface {
	CreateItem(ctx context.Context, ex SQLExecutor, item *models.InventoryItem) (int64, error)
	GetItemByID(ctx context.Context, ex SQLExecutor, id int64) (*models.InventoryItem, error)
	GetItems(ctx context.Context, ex SQLExecutor) ([]models.InventoryItem, error)
	SearchItems(ctx context.Context, ex SQLExecutor, name string) ([]models.InventoryItem, error)
	GetStats(ctx context.Context, ex SQLExecutor) ([]models.InventoryStat, error)
	TotalValue(ctx context.Context, ex SQLExecutor) (float64, error)
	UpdateQuantity(ctx context.Context, ex SQLExecutor, id int64, quantity float64) error
	DeleteItem(ctx context.Context, ex SQLExecutor, id int64) error
	CountFeedReferences(ctx context.Context, ex SQLExecutor, id int64) (int64, error)
}

type inventoryRepository struct{}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository() InventoryRepository {
	return &inventoryRepository{}
}

const inventorySelect = `
	SELECT i.id, i.supplier_id, i.item_name, i.quantity, i.unit, i.cost_per_unit, i.date_added, i.created_at,
	       s.name AS supplier_name
	FROM inventory i
	LEFT JOIN suppliers s ON i.supplier_id = s.id`

func (r *inventoryRepository) CreateItem(ctx context.Context, ex SQLExecutor, item *models.InventoryItem) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating inventory item",
		`INSERT INTO inventory (supplier_id, item_name, quantity, unit, cost_per_unit, date_added) VALUES (?, ?, ?, ?, ?, ?)`,
		item.SupplierID, item.ItemName, item.Quantity, item.Unit, item.CostPerUnit, item.DateAdded,
	)
	if err != nil {
		return 0, err
	}
	item.ID = id
	return id, nil
}

func (r *inventoryRepository) GetItemByID(ctx context.Context, ex SQLExecutor, id int64) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	if err := getOne(ctx, ex, item, "getting inventory item by ID", inventorySelect+` WHERE i.id = ?`, id); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *inventoryRepository) GetItems(ctx context.Context, ex SQLExecutor) ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}
	err := selectAll(ctx, ex, &items, "querying inventory",
		inventorySelect+` ORDER BY i.date_added DESC, i.id DESC`)
	return items, err
}

// SearchItems matches item names case-insensitively on a substring.
func (r *inventoryRepository) SearchItems(ctx context.Context, ex SQLExecutor, name string) ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	err := selectAll(ctx, ex, &items, "searching inventory",
		inventorySelect+` WHERE LOWER(i.item_name) LIKE ? ORDER BY i.date_added DESC, i.id DESC`, pattern)
	return items, err
}

func (r *inventoryRepository) GetStats(ctx context.Context, ex SQLExecutor) ([]models.InventoryStat, error) {
	stats := []models.InventoryStat{}
	err := selectAll(ctx, ex, &stats, "aggregating inventory", `
		SELECT item_name, SUM(quantity) AS total_quantity, cost_per_unit, supplier_id
		FROM inventory
		GROUP BY item_name, cost_per_unit, supplier_id
		ORDER BY item_name`)
	return stats, err
}

func (r *inventoryRepository) TotalValue(ctx context.Context, ex SQLExecutor) (float64, error) {
	return scalarFloat(ctx, ex, "summing inventory value",
		`SELECT COALESCE(SUM(quantity * cost_per_unit), 0) FROM inventory`)
}

func (r *inventoryRepository) UpdateQuantity(ctx context.Context, ex SQLExecutor, id int64, quantity float64) error {
	return execAffecting(ctx, ex, "updating inventory quantity",
		`UPDATE inventory SET quantity = ? WHERE id = ?`, quantity, id)
}

func (r *inventoryRepository) DeleteItem(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, "deleting inventory item", `DELETE FROM inventory WHERE id = ?`, id)
}

func (r *inventoryRepository) CountFeedReferences(ctx context.Context, ex SQLExecutor, id int64) (int64, error) {
	return scalarInt(ctx, ex, "counting feed consumption of inventory item",
		`SELECT COUNT(*) FROM feed_consumption WHERE inventory_id = ?`, id)
}
