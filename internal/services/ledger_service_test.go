package services

import (
	"context"
	"errors"
	"testing"

	"poultry_farm_backend/internal/models"
)

func TestSettlementOfCashSales(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		paid       float64
		wantChange float64
		wantDebt   float64
		wantStatus string
	}{
		{"overpaid", 100, 150, 50, 0, models.SaleStatusCompleted},
		{"underpaid", 100, 60, 0, 40, models.SaleStatusPartial},
		{"exact", 100, 100, 0, 0, models.SaleStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			sale := env.cashSale(t, tt.total, tt.paid)
			if sale.ChangeAmount != tt.wantChange || sale.DebtAmount != tt.wantDebt {
				t.Fatalf("change/debt = %v/%v, want %v/%v", sale.ChangeAmount, sale.DebtAmount, tt.wantChange, tt.wantDebt)
			}
			if sale.Status != tt.wantStatus {
				t.Fatalf("status = %q, want %q", sale.Status, tt.wantStatus)
			}
		})
	}
}

func TestCreditSaleDefaultsToNothingPaid(t *testing.T) {
	env := newTestEnv(t)
	total := 80.0
	sale, err := env.sales.CreateSale(context.Background(), SaleRequest{
		SaleDate:      "2024-03-10",
		TotalAmount:   &total,
		PaymentMethod: models.PaymentCredit,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if sale.AmountPaid != 0 || sale.DebtAmount != 80 || sale.Status != models.SaleStatusPartial {
		t.Fatalf("got paid=%v debt=%v status=%q", sale.AmountPaid, sale.DebtAmount, sale.Status)
	}
}

func TestRecordPaymentClearsDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 60)

	updated, err := env.ledger.RecordPayment(ctx, sale.ID, 40, "", nil)
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if updated.DebtAmount != 0 {
		t.Fatalf("debt = %v, want 0", updated.DebtAmount)
	}
	if updated.Status != models.SaleStatusPaid {
		t.Fatalf("status = %q, want %q", updated.Status, models.SaleStatusPaid)
	}

	history, err := env.ledger.PaymentHistory(ctx, sale.ID)
	if err != nil {
		t.Fatalf("PaymentHistory: %v", err)
	}
	if len(history) != 1 || history[0].AmountPaid != 40 || history[0].PaymentDate != "2024-03-15" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if history[0].PaymentMethod == nil || *history[0].PaymentMethod != models.PaymentCash {
		t.Fatalf("payment method = %v, want cash", history[0].PaymentMethod)
	}
}

func TestRecordPaymentPartialReducesDebt(t *testing.T) {
	env := newTestEnv(t)
	sale := env.cashSale(t, 100, 60)

	updated, err := env.ledger.RecordPayment(context.Background(), sale.ID, 15.5, models.PaymentMobileMoney, ptr("first"))
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if updated.DebtAmount != 24.5 || updated.Status != models.SaleStatusPartial {
		t.Fatalf("debt=%v status=%q, want 24.5 partial", updated.DebtAmount, updated.Status)
	}
	if updated.DebtAmount < 0 || updated.DebtAmount > updated.TotalAmount {
		t.Fatalf("debt %v outside [0, %v]", updated.DebtAmount, updated.TotalAmount)
	}
}

func TestRecordPaymentRejectionsMutateNothing(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		method string
	}{
		{"above debt", 40.01, ""},
		{"zero", 0, ""},
		{"negative", -5, ""},
		{"credit method", 10, models.PaymentCredit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			sale := env.cashSale(t, 100, 60)

			_, err := env.ledger.RecordPayment(ctx, sale.ID, tt.amount, tt.method, nil)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			after, err := env.sales.GetSaleByID(ctx, sale.ID)
			if err != nil {
				t.Fatalf("GetSaleByID: %v", err)
			}
			if after.DebtAmount != 40 || after.Status != models.SaleStatusPartial {
				t.Fatalf("sale changed: debt=%v status=%q", after.DebtAmount, after.Status)
			}
			history, _ := env.ledger.PaymentHistory(ctx, sale.ID)
			if len(history) != 0 {
				t.Fatalf("history has %d rows, want 0", len(history))
			}
		})
	}
}

func TestRecordPaymentUnknownSale(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.ledger.RecordPayment(context.Background(), 999, 10, "", nil); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("err = %v, want ErrSaleNotFound", err)
	}
}

func TestDeletePaymentThenRecordRestoresDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 60)

	if _, err := env.ledger.RecordPayment(ctx, sale.ID, 25, "", nil); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	history, _ := env.ledger.PaymentHistory(ctx, sale.ID)
	if len(history) != 1 {
		t.Fatalf("history has %d rows, want 1", len(history))
	}

	restored, err := env.ledger.DeletePayment(ctx, history[0].ID)
	if err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}
	if restored.DebtAmount != 40 || restored.Status != models.SaleStatusPartial {
		t.Fatalf("after delete debt=%v status=%q, want 40 partial", restored.DebtAmount, restored.Status)
	}

	again, err := env.ledger.RecordPayment(ctx, sale.ID, 25, "", nil)
	if err != nil {
		t.Fatalf("RecordPayment again: %v", err)
	}
	if again.DebtAmount != 15 {
		t.Fatalf("debt = %v, want 15", again.DebtAmount)
	}
}

func TestDeletePaymentBeyondTotalIsInconsistent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 60)

	if _, err := env.ledger.RecordPayment(ctx, sale.ID, 40, "", nil); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	// Simulate a balance edited outside the ledger.
	if _, err := env.db.Exec(`UPDATE sales SET debt_amount = 100 WHERE id = ?`, sale.ID); err != nil {
		t.Fatalf("update: %v", err)
	}
	history, _ := env.ledger.PaymentHistory(ctx, sale.ID)
	if _, err := env.ledger.DeletePayment(ctx, history[0].ID); !errors.Is(err, ErrLedgerInconsistent) {
		t.Fatalf("err = %v, want ErrLedgerInconsistent", err)
	}
	if rows, _ := env.ledger.PaymentHistory(ctx, sale.ID); len(rows) != 1 {
		t.Fatalf("payment row was deleted despite rejection")
	}
}

func TestEditPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 60)

	if _, err := env.ledger.RecordPayment(ctx, sale.ID, 10, "", nil); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	history, _ := env.ledger.PaymentHistory(ctx, sale.ID)
	id := history[0].ID

	updated, err := env.ledger.EditPayment(ctx, id, 40, ptr(models.PaymentBankTransfer), ptr("settled"))
	if err != nil {
		t.Fatalf("EditPayment: %v", err)
	}
	if updated.DebtAmount != 0 || updated.Status != models.SaleStatusPaid {
		t.Fatalf("debt=%v status=%q, want 0 paid", updated.DebtAmount, updated.Status)
	}

	if _, err := env.ledger.EditPayment(ctx, id, 41, nil, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("over-edit err = %v, want ErrValidation", err)
	}
	if _, err := env.ledger.EditPayment(ctx, id, 0, nil, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero edit err = %v, want ErrValidation", err)
	}
	if _, err := env.ledger.EditPayment(ctx, 12345, 5, nil, nil); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("missing payment err = %v, want ErrPaymentNotFound", err)
	}

	history, _ = env.ledger.PaymentHistory(ctx, sale.ID)
	if history[0].AmountPaid != 40 || history[0].Notes == nil || *history[0].Notes != "settled" {
		t.Fatalf("unexpected payment row: %+v", history[0])
	}
}

func TestPayDebtLegacyClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 60)

	updated, err := env.ledger.PayDebt(ctx, sale.ID, 500)
	if err != nil {
		t.Fatalf("PayDebt: %v", err)
	}
	if updated.DebtAmount != 0 || updated.Status != models.SaleStatusPaid {
		t.Fatalf("debt=%v status=%q", updated.DebtAmount, updated.Status)
	}
	if rows, _ := env.ledger.PaymentHistory(ctx, sale.ID); len(rows) != 0 {
		t.Fatalf("legacy pay wrote %d history rows", len(rows))
	}
	if _, err := env.ledger.PayDebt(ctx, sale.ID, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestChangeReturns(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 150)

	if _, err := env.ledger.RecordReturn(ctx, sale.ID, 60, nil, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("over-return err = %v, want ErrValidation", err)
	}

	updated, err := env.ledger.RecordReturn(ctx, sale.ID, 30, ptr("Amina"), nil)
	if err != nil {
		t.Fatalf("RecordReturn: %v", err)
	}
	if updated.ChangeAmount != 20 {
		t.Fatalf("change = %v, want 20", updated.ChangeAmount)
	}

	returns, err := env.ledger.ReturnHistory(ctx, sale.ID)
	if err != nil || len(returns) != 1 {
		t.Fatalf("ReturnHistory: %v, %d rows", err, len(returns))
	}
	if returns[0].ReturnedBy == nil || *returns[0].ReturnedBy != "Amina" {
		t.Fatalf("returned_by = %v", returns[0].ReturnedBy)
	}

	edited, err := env.ledger.EditReturn(ctx, returns[0].ID, 50, nil, ptr("all of it"))
	if err != nil {
		t.Fatalf("EditReturn: %v", err)
	}
	if edited.ChangeAmount != 0 {
		t.Fatalf("change = %v, want 0", edited.ChangeAmount)
	}

	restored, err := env.ledger.DeleteReturn(ctx, returns[0].ID)
	if err != nil {
		t.Fatalf("DeleteReturn: %v", err)
	}
	if restored.ChangeAmount != 50 {
		t.Fatalf("change = %v, want 50", restored.ChangeAmount)
	}

	total, err := env.ledger.TotalOutstandingChange(ctx)
	if err != nil || total != 50 {
		t.Fatalf("TotalOutstandingChange = %v, %v", total, err)
	}

	cleared, err := env.ledger.ReturnChange(ctx, sale.ID)
	if err != nil {
		t.Fatalf("ReturnChange: %v", err)
	}
	if cleared.ChangeAmount != 0 {
		t.Fatalf("change = %v, want 0", cleared.ChangeAmount)
	}
}

func TestDeleteReturnBeyondOverpaymentIsInconsistent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 150)

	if _, err := env.ledger.RecordReturn(ctx, sale.ID, 20, nil, nil); err != nil {
		t.Fatalf("RecordReturn: %v", err)
	}
	if _, err := env.db.Exec(`UPDATE sales SET change_amount = 50 WHERE id = ?`, sale.ID); err != nil {
		t.Fatalf("update: %v", err)
	}
	returns, _ := env.ledger.ReturnHistory(ctx, sale.ID)
	if _, err := env.ledger.DeleteReturn(ctx, returns[0].ID); !errors.Is(err, ErrLedgerInconsistent) {
		t.Fatalf("err = %v, want ErrLedgerInconsistent", err)
	}
}

func TestOutstandingDebts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.cashSale(t, 100, 60)
	env.cashSale(t, 50, 20)
	env.cashSale(t, 30, 30)

	rows, err := env.ledger.OutstandingDebts(ctx)
	if err != nil {
		t.Fatalf("OutstandingDebts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d outstanding sales, want 2", len(rows))
	}
	total, err := env.ledger.TotalOutstandingDebt(ctx)
	if err != nil || total != 70 {
		t.Fatalf("TotalOutstandingDebt = %v, %v; want 70", total, err)
	}
}
