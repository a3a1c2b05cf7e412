package repositories

import (
	"context"

	"poultry_farm_backend/internal/models"
)

// AccountingRepository runs the read-only financial rollups.
type AccountingRepository interface {
	GetCostTotals(ctx context.Context, ex SQLExecutor) (*models.CostTotals, error)
	GetExpenseBreakdown(ctx context.Context, ex SQLExecutor) ([]models.ExpenseCategory, error)
	// MonthlyRevenue sums sale totals whose date falls in the YYYY-MM month.
	MonthlyRevenue(ctx context.Context, ex SQLExecutor, month string) (float64, error)
	RevenueByPaymentMethod(ctx context.Context, ex SQLExecutor) ([]models.RevenueByMethod, error)
}

type accountingRepository struct{}

func NewAccountingRepository() AccountingRepository {
	return &accountingRepository{}
}

func (r *accountingRepository) GetCostTotals(ctx context.Context, ex SQLExecutor) (*models.CostTotals, error) {
	totals := &models.CostTotals{}
	err := getOne(ctx, ex, totals, "computing financial totals", `
		SELECT
		    (SELECT COALESCE(SUM(quantity_received * cost_per_bird), 0) FROM bird_batches) AS broiler_costs,
		    (SELECT COALESCE(SUM(crates_received * cost_per_crate), 0) FROM egg_batches) AS egg_costs,
		    (SELECT COALESCE(SUM(quantity * cost_per_unit), 0) FROM inventory) AS inventory_costs,
		    (SELECT COALESCE(SUM(quantity * selling_price), 0) FROM egg_grades) AS egg_revenue,
		    (SELECT COALESCE(SUM(subtotal), 0) FROM sales_items WHERE item_type = 'broiler') AS broiler_revenue`)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *accountingRepository) GetExpenseBreakdown(ctx context.Context, ex SQLExecutor) ([]models.ExpenseCategory, error) {
	categories := []models.ExpenseCategory{}
	err := selectAll(ctx, ex, &categories, "computing expense breakdown", `
		SELECT 'Broiler Batches' AS category, COALESCE(SUM(quantity_received * cost_per_bird), 0) AS amount
		FROM bird_batches
		UNION ALL
		SELECT 'Egg Batches', COALESCE(SUM(crates_received * cost_per_crate), 0)
		FROM egg_batches
		UNION ALL
		SELECT 'Inventory/Supplies', COALESCE(SUM(quantity * cost_per_unit), 0)
		FROM inventory`)
	return categories, err
}

func (r *accountingRepository) MonthlyRevenue(ctx context.Context, ex SQLExecutor, month string) (float64, error) {
	return scalarFloat(ctx, ex, "summing monthly revenue",
		`SELECT COALESCE(SUM(total_amount), 0) FROM sales WHERE substr(sale_date, 1, 7) = ?`, month)
}

func (r *accountingRepository) RevenueByPaymentMethod(ctx context.Context, ex SQLExecutor) ([]models.RevenueByMethod, error) {
	rows := []models.RevenueByMethod{}
	err := selectAll(ctx, ex, &rows, "aggregating revenue by payment method", `
		SELECT payment_method, COUNT(*) AS transaction_count, COALESCE(SUM(total_amount), 0) AS amount
		FROM sales
		GROUP BY payment_method
		ORDER BY amount DESC`)
	return rows, err
}
