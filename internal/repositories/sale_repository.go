package repositories

import (
	"context"
	"fmt"

	"poultry_farm_backend/internal/models"
)

// SaleRepository defines the interface for sale headers and line items.
type SaleRepository interface {
	CreateSale(ctx context.Context, ex SQLExecutor, sale *models.Sale) (int64, error)
	GetSaleByID(ctx context.Context, ex SQLExecutor, id int64) (*models.Sale, error)
	GetSales(ctx context.Context, ex SQLExecutor) ([]models.Sale, error)
	UpdateSale(ctx context.Context, ex SQLExecutor, sale *models.Sale) error
	DeleteSale(ctx context.Context, ex SQLExecutor, id int64) error

	CreateItem(ctx context.Context, ex SQLExecutor, item *models.SaleItem) (int64, error)
	GetItemByID(ctx context.Context, ex SQLExecutor, id int64) (*models.SaleItem, error)
	GetItems(ctx context.Context, ex SQLExecutor) ([]models.SaleItem, error)
	GetItemsBySale(ctx context.Context, ex SQLExecutor, saleID int64) ([]models.SaleItem, error)
	GetItemDetails(ctx context.Context, ex SQLExecutor, saleID int64) ([]models.SaleItemDetail, error)
	DeleteItem(ctx context.Context, ex SQLExecutor, id int64) error
	DeleteItemsBySale(ctx context.Context, ex SQLExecutor, saleID int64) (int64, error)
	SumItemSubtotals(ctx context.Context, ex SQLExecutor, saleID int64) (float64, int64, error)
	// GetUnassignedItems lists lines of itemType whose reference is NULL or points at no batch.
	GetUnassignedItems(ctx context.Context, ex SQLExecutor, itemType string) ([]models.UnassignedItem, error)
	AssignItem(ctx context.Context, ex SQLExecutor, itemID, batchID int64) error
	CountItemsReferencing(ctx context.Context, ex SQLExecutor, itemType string, batchID int64) (int64, error)

	TotalSales(ctx context.Context, ex SQLExecutor, startDate, endDate *models.Date) (float64, error)
	TotalsByPaymentMethod(ctx context.Context, ex SQLExecutor) ([]models.PaymentMethodTotal, error)
}

type saleRepository struct{}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository() SaleRepository {
	return &saleRepository{}
}

const saleSelect = `
	SELECT id, customer_name, customer_phone, sale_date, total_amount, payment_method,
	       COALESCE(amount_paid, 0) AS amount_paid, COALESCE(change_amount, 0) AS change_amount,
	       COALESCE(debt_amount, 0) AS debt_amount, COALESCE(status, 'completed') AS status, created_at
	FROM sales`

const saleItemColumns = `id, sale_id, item_type, reference_id, quantity, unit_price, subtotal`

func (r *saleRepository) CreateSale(ctx context.Context, ex SQLExecutor, sale *models.Sale) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating sale", `
		INSERT INTO sales (customer_name, customer_phone, sale_date, total_amount, payment_method,
		                   amount_paid, change_amount, debt_amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.CustomerName, sale.CustomerPhone, sale.SaleDate, sale.TotalAmount, sale.PaymentMethod,
		sale.AmountPaid, sale.ChangeAmount, sale.DebtAmount, sale.Status,
	)
	if err != nil {
		return 0, err
	}
	sale.ID = id
	return id, nil
}

func (r *saleRepository) GetSaleByID(ctx context.Context, ex SQLExecutor, id int64) (*models.Sale, error) {
	sale := &models.Sale{}
	if err := getOne(ctx, ex, sale, fmt.Sprintf("getting sale by ID %d", id), saleSelect+` WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *saleRepository) GetSales(ctx context.Context, ex SQLExecutor) ([]models.Sale, error) {
	sales := []models.Sale{}
	err := selectAll(ctx, ex, &sales, "querying sales", saleSelect+` ORDER BY sale_date DESC, id DESC`)
	return sales, err
}

func (r *saleRepository) UpdateSale(ctx context.Context, ex SQLExecutor, sale *models.Sale) error {
	return execAffecting(ctx, ex, fmt.Sprintf("updating sale ID %d", sale.ID), `
		UPDATE sales SET
		    customer_name = ?, customer_phone = ?, sale_date = ?, total_amount = ?, payment_method = ?,
		    amount_paid = ?, change_amount = ?, debt_amount = ?, status = ?
		WHERE id = ?`,
		sale.CustomerName, sale.CustomerPhone, sale.SaleDate, sale.TotalAmount, sale.PaymentMethod,
		sale.AmountPaid, sale.ChangeAmount, sale.DebtAmount, sale.Status, sale.ID,
	)
}

func (r *saleRepository) DeleteSale(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, fmt.Sprintf("deleting sale ID %d", id), `DELETE FROM sales WHERE id = ?`, id)
}

func (r *saleRepository) CreateItem(ctx context.Context, ex SQLExecutor, item *models.SaleItem) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating sale item",
		`INSERT INTO sales_items (sale_id, item_type, reference_id, quantity, unit_price, subtotal) VALUES (?, ?, ?, ?, ?, ?)`,
		item.SaleID, item.ItemType, item.ReferenceID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return 0, err
	}
	item.ID = id
	return id, nil
}

func (r *saleRepository) GetItemByID(ctx context.Context, ex SQLExecutor, id int64) (*models.SaleItem, error) {
	item := &models.SaleItem{}
	if err := getOne(ctx, ex, item, "getting sale item by ID",
		`SELECT `+saleItemColumns+` FROM sales_items WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *saleRepository) GetItems(ctx context.Context, ex SQLExecutor) ([]models.SaleItem, error) {
	items := []models.SaleItem{}
	err := selectAll(ctx, ex, &items, "querying sale items",
		`SELECT `+saleItemColumns+` FROM sales_items ORDER BY sale_id, id`)
	return items, err
}

func (r *saleRepository) GetItemsBySale(ctx context.Context, ex SQLExecutor, saleID int64) ([]models.SaleItem, error) {
	items := []models.SaleItem{}
	err := selectAll(ctx, ex, &items, "querying sale items by sale",
		`SELECT `+saleItemColumns+` FROM sales_items WHERE sale_id = ? ORDER BY id`, saleID)
	return items, err
}

func (r *saleRepository) GetItemDetails(ctx context.Context, ex SQLExecutor, saleID int64) ([]models.SaleItemDetail, error) {
	details := []models.SaleItemDetail{}
	err := selectAll(ctx, ex, &details, "querying sale details", `
		SELECT si.id, si.sale_id, si.item_type, si.reference_id, si.quantity, si.unit_price, si.subtotal,
		       s.sale_date, s.payment_method, s.total_amount
		FROM sales_items si
		JOIN sales s ON si.sale_id = s.id
		WHERE si.sale_id = ?
		ORDER BY si.id`, saleID)
	return details, err
}

func (r *saleRepository) DeleteItem(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, "deleting sale item", `DELETE FROM sales_items WHERE id = ?`, id)
}

func (r *saleRepository) DeleteItemsBySale(ctx context.Context, ex SQLExecutor, saleID int64) (int64, error) {
	return execCount(ctx, ex, "deleting sale items of sale", `DELETE FROM sales_items WHERE sale_id = ?`, saleID)
}

func (r *saleRepository) SumItemSubtotals(ctx context.Context, ex SQLExecutor, saleID int64) (float64, int64, error) {
	var row struct {
		Total float64 `db:"total"`
		Count int64   `db:"count"`
	}
	err := getOne(ctx, ex, &row, "summing sale item subtotals",
		`SELECT COALESCE(SUM(subtotal), 0) AS total, COUNT(*) AS count FROM sales_items WHERE sale_id = ?`, saleID)
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Count, nil
}

func (r *saleRepository) GetUnassignedItems(ctx context.Context, ex SQLExecutor, itemType string) ([]models.UnassignedItem, error) {
	var batchTable string
	switch itemType {
	case models.ItemBroiler:
		batchTable = "bird_batches"
	case models.ItemEgg:
		batchTable = "egg_batches"
	default:
		return nil, fmt.Errorf("unknown sale item type %q", itemType)
	}

	items := []models.UnassignedItem{}
	err := selectAll(ctx, ex, &items, "querying unassigned sale items", `
		SELECT si.id, si.sale_id, si.quantity, si.unit_price, s.sale_date, s.customer_name, s.customer_phone
		FROM sales_items si
		JOIN sales s ON si.sale_id = s.id
		WHERE si.item_type = ?
		  AND (si.reference_id IS NULL OR NOT EXISTS (SELECT 1 FROM `+batchTable+` b WHERE b.id = si.reference_id))
		ORDER BY s.sale_date DESC, si.id DESC`, itemType)
	return items, err
}

func (r *saleRepository) AssignItem(ctx context.Context, ex SQLExecutor, itemID, batchID int64) error {
	return execAffecting(ctx, ex, "assigning sale item to batch",
		`UPDATE sales_items SET reference_id = ? WHERE id = ?`, batchID, itemID)
}

func (r *saleRepository) CountItemsReferencing(ctx context.Context, ex SQLExecutor, itemType string, batchID int64) (int64, error) {
	return scalarInt(ctx, ex, "counting sale items of batch",
		`SELECT COUNT(*) FROM sales_items WHERE item_type = ? AND reference_id = ?`, itemType, batchID)
}

func (r *saleRepository) TotalSales(ctx context.Context, ex SQLExecutor, startDate, endDate *models.Date) (float64, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM sales`
	var args []interface{}
	if startDate != nil && endDate != nil {
		query += ` WHERE sale_date BETWEEN ? AND ?`
		args = append(args, *startDate, *endDate)
	}
	return scalarFloat(ctx, ex, "summing sales", query, args...)
}

func (r *saleRepository) TotalsByPaymentMethod(ctx context.Context, ex SQLExecutor) ([]models.PaymentMethodTotal, error) {
	totals := []models.PaymentMethodTotal{}
	err := selectAll(ctx, ex, &totals, "aggregating sales by payment method", `
		SELECT payment_method, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total
		FROM sales
		GROUP BY payment_method
		ORDER BY payment_method`)
	return totals, err
}
