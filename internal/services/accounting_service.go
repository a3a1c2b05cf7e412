package services

import (
	"context"
	"fmt"

	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

type AccountingService interface {
	FinancialSummary(ctx context.Context) (*models.FinancialSummary, error)
	ExpenseBreakdown(ctx context.Context) ([]models.ExpenseCategory, error)
	MonthlyRevenue(ctx context.Context, year, month int) (float64, error)
	RevenueByPaymentMethod(ctx context.Context) ([]models.RevenueByMethod, error)
}

type accountingService struct {
	repo repositories.AccountingRepository
	db   *database.DB
}

func NewAccountingService(repo repositories.AccountingRepository, db *database.DB) AccountingService {
	return &accountingService{repo: repo, db: db}
}

func (s *accountingService) FinancialSummary(ctx context.Context) (*models.FinancialSummary, error) {
	totals, err := s.repo.GetCostTotals(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get financial totals: %w", err)
	}
	return buildSummary(totals), nil
}

// buildSummary derives profit and margin. The margin is 0 when there is no revenue.
func buildSummary(t *models.CostTotals) *models.FinancialSummary {
	broilerCosts, eggCosts, inventoryCosts := money(t.BroilerCosts), money(t.EggCosts), money(t.InventoryCosts)
	eggRevenue, broilerRevenue := money(t.EggRevenue), money(t.BroilerRevenue)

	costs := broilerCosts.Add(eggCosts).Add(inventoryCosts)
	revenue := eggRevenue.Add(broilerRevenue)
	profit := revenue.Sub(costs)
	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Mul(decimal.NewFromInt(100))
	}

	return &models.FinancialSummary{
		BroilerCosts:   toFloat(broilerCosts),
		EggCosts:       toFloat(eggCosts),
		InventoryCosts: toFloat(inventoryCosts),
		TotalCosts:     toFloat(costs),
		EggRevenue:     toFloat(eggRevenue),
		BroilerRevenue: toFloat(broilerRevenue),
		TotalRevenue:   toFloat(revenue),
		Profit:         toFloat(profit),
		ProfitMargin:   toFloat(margin),
	}
}

func (s *accountingService) ExpenseBreakdown(ctx context.Context) ([]models.ExpenseCategory, error) {
	rows, err := s.repo.GetExpenseBreakdown(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense breakdown: %w", err)
	}
	for i := range rows {
		rows[i].Amount = toFloat(money(rows[i].Amount))
	}
	return rows, nil
}

func (s *accountingService) MonthlyRevenue(ctx context.Context, year, month int) (float64, error) {
	if year < 1 || month < 1 || month > 12 {
		return 0, validationError("invalid year/month %d/%d", year, month)
	}
	total, err := s.repo.MonthlyRevenue(ctx, s.db, fmt.Sprintf("%04d-%02d", year, month))
	if err != nil {
		return 0, fmt.Errorf("failed to get monthly revenue: %w", err)
	}
	return toFloat(money(total)), nil
}

func (s *accountingService) RevenueByPaymentMethod(ctx context.Context) ([]models.RevenueByMethod, error) {
	rows, err := s.repo.RevenueByPaymentMethod(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue by payment method: %w", err)
	}
	return rows, nil
}
