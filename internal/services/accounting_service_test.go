package services

import (
	"context"
	"errors"
	"testing"

	"poultry_farm_backend/internal/models"
)

func TestBuildSummary(t *testing.T) {
	tests := []struct {
		name       string
		totals     models.CostTotals
		wantProfit float64
		wantMargin float64
	}{
		{"no revenue", models.CostTotals{BroilerCosts: 100, EggCosts: 50}, -150, 0},
		{"empty", models.CostTotals{}, 0, 0},
		{"profitable", models.CostTotals{BroilerCosts: 300, InventoryCosts: 100, EggRevenue: 200, BroilerRevenue: 300}, 100, 20},
		{"loss", models.CostTotals{EggCosts: 300, EggRevenue: 200}, -100, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSummary(&tt.totals)
			if got.Profit != tt.wantProfit || got.ProfitMargin != tt.wantMargin {
				t.Fatalf("profit/margin = %v/%v, want %v/%v", got.Profit, got.ProfitMargin, tt.wantProfit, tt.wantMargin)
			}
			if got.TotalCosts != got.BroilerCosts+got.EggCosts+got.InventoryCosts {
				t.Fatalf("total costs %v do not add up", got.TotalCosts)
			}
		})
	}
}

func TestFinancialSummaryFromStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	batch := env.birdBatch(t, 100, 2)
	if _, err := env.sales.CreateSale(ctx, SaleRequest{
		SaleDate: "2024-03-05", PaymentMethod: models.PaymentCash,
		Items: []SaleItemInput{broilerLine(batch.ID, 50, 5)},
	}); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	summary, err := env.accounting.FinancialSummary(ctx)
	if err != nil {
		t.Fatalf("FinancialSummary: %v", err)
	}
	if summary.BroilerCosts != 200 || summary.BroilerRevenue != 250 || summary.Profit != 50 || summary.ProfitMargin != 20 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	march, err := env.accounting.MonthlyRevenue(ctx, 2024, 3)
	if err != nil || march != 250 {
		t.Fatalf("MonthlyRevenue(2024, 3) = %v, %v; want 250", march, err)
	}
	april, err := env.accounting.MonthlyRevenue(ctx, 2024, 4)
	if err != nil || april != 0 {
		t.Fatalf("MonthlyRevenue(2024, 4) = %v, %v; want 0", april, err)
	}
	if _, err := env.accounting.MonthlyRevenue(ctx, 2024, 13); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	breakdown, err := env.accounting.ExpenseBreakdown(ctx)
	if err != nil || len(breakdown) != 3 {
		t.Fatalf("ExpenseBreakdown = %+v, %v", breakdown, err)
	}
	if breakdown[0].Amount != 200 {
		t.Fatalf("broiler expense = %v, want 200", breakdown[0].Amount)
	}
}
