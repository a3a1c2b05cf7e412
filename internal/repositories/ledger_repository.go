package repositories

import (
	"context"
	"fmt"

	"poultry_farm_backend/internal/models"
)

// LedgerRepository defines database operations for debt repayments, change returns
// and the balance columns they move on the sale row.
type LedgerRepository interface {
	CreatePayment(ctx context.Context, ex SQLExecutor, p *models.PaymentRecord) (int64, error)
	GetPaymentByID(ctx context.Context, ex SQLExecutor, id int64) (*models.PaymentRecord, error)
	GetPaymentsBySale(ctx context.Context, ex SQLExecutor, saleID int64) ([]models.PaymentRecord, error)
	UpdatePayment(ctx context.Context, ex SQLExecutor, p *models.PaymentRecord) error
	DeletePayment(ctx context.Context, ex SQLExecutor, id int64) error
	DeletePaymentsBySale(ctx context.Context, ex SQLExecutor, saleID int64) (int64, error)
	SumPayments(ctx context.Context, ex SQLExecutor, saleID int64) (float64, error)

	CreateReturn(ctx context.Context, ex SQLExecutor, r *models.ReturnRecord) (int64, error)
	GetReturnByID(ctx context.Context, ex SQLExecutor, id int64) (*models.ReturnRecord, error)
	GetReturnsBySale(ctx context.Context, ex SQLExecutor, saleID int64) ([]models.ReturnRecord, error)
	UpdateReturn(ctx context.Context, ex SQLExecutor, r *models.ReturnRecord) error
	DeleteReturn(ctx context.Context, ex SQLExecutor, id int64) error
	DeleteReturnsBySale(ctx context.Context, ex SQLExecutor, saleID int64) (int64, error)
	SumReturns(ctx context.Context, ex SQLExecutor, saleID int64) (float64, error)

	SetDebt(ctx context.Context, ex SQLExecutor, saleID int64, debt float64, status string) error
	SetChange(ctx context.Context, ex SQLExecutor, saleID int64, change float64) error

	OutstandingDebts(ctx context.Context, ex SQLExecutor) ([]models.OutstandingBalance, error)
	TotalOutstandingDebt(ctx context.Context, ex SQLExecutor) (float64, error)
	OutstandingChange(ctx context.Context, ex SQLExecutor) ([]models.OutstandingBalance, error)
	TotalOutstandingChange(ctx context.Context, ex SQLExecutor) (float64, error)
}

type ledgerRepository struct{}

// NewLedgerRepository creates a new instance of LedgerRepository.
func NewLedgerRepository() LedgerRepository {
	return &ledgerRepository{}
}

func (r *ledgerRepository) CreatePayment(ctx context.Context, ex SQLExecutor, p *models.PaymentRecord) (int64, error) {
	id, err := insertReturningID(ctx, ex, "recording debt payment",
		`INSERT INTO payment_history (sale_id, amount_paid, payment_date, payment_method, notes) VALUES (?, ?, ?, ?, ?)`,
		p.SaleID, p.AmountPaid, p.PaymentDate, p.PaymentMethod, p.Notes,
	)
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

func (r *ledgerRepository) GetPaymentByID(ctx context.Context, ex SQLExecutor, id int64) (*models.PaymentRecord, error) {
	p := &models.PaymentRecord{}
	err := getOne(ctx, ex, p, fmt.Sprintf("getting payment ID %d", id), `
		SELECT id, sale_id, amount_paid, payment_date, payment_method, notes, created_at
		FROM payment_history WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ledgerRepository) GetPaymentsBySale(ctx context.Context, ex SQLExecutor, saleID int64) ([]models.PaymentRecord, error) {
	payments := []models.PaymentRecord{}
	err := selectAll(ctx, ex, &payments, "querying payment history", `
		SELECT id, sale_id, amount_paid, payment_date, payment_method, notes, created_at
		FROM payment_history WHERE sale_id = ?
		ORDER BY payment_date DESC, id DESC`, saleID)
	return payments, err
}

func (r *ledgerRepository) UpdatePayment(ctx context.Context, ex SQLExecutor, p *models.PaymentRecord) error {
	return execAffecting(ctx, ex, fmt.Sprintf("updating payment ID %d", p.ID),
		`UPDATE payment_history SET amount_paid = ?, payment_method = ?, notes = ? WHERE id = ?`,
		p.AmountPaid, p.PaymentMethod, p.Notes, p.ID)
}

func (r *ledgerRepository) DeletePayment(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, fmt.Sprintf("deleting payment ID %d", id), `DELETE FROM payment_history WHERE id = ?`, id)
}

func (r *ledgerRepository) DeletePaymentsBySale(ctx context.Context, ex SQLExecutor, saleID int64) (int64, error) {
	return execCount(ctx, ex, "deleting payment history of sale", `DELETE FROM payment_history WHERE sale_id = ?`, saleID)
}

func (r *ledgerRepository) SumPayments(ctx context.Context, ex SQLExecutor, saleID int64) (float64, error) {
	return scalarFloat(ctx, ex, "summing payment history",
		`SELECT COALESCE(SUM(amount_paid), 0) FROM payment_history WHERE sale_id = ?`, saleID)
}

func (r *ledgerRepository) CreateReturn(ctx context.Context, ex SQLExecutor, rec *models.ReturnRecord) (int64, error) {
	id, err := insertReturningID(ctx, ex, "recording change return",
		`INSERT INTO return_history (sale_id, change_amount, return_date, returned_by, notes) VALUES (?, ?, ?, ?, ?)`,
		rec.SaleID, rec.ChangeAmount, rec.ReturnDate, rec.ReturnedBy, rec.Notes,
	)
	if err != nil {
		return 0, err
	}
	rec.ID = id
	return id, nil
}

func (r *ledgerRepository) GetReturnByID(ctx context.Context, ex SQLExecutor, id int64) (*models.ReturnRecord, error) {
	rec := &models.ReturnRecord{}
	err := getOne(ctx, ex, rec, fmt.Sprintf("getting return ID %d", id), `
		SELECT id, sale_id, change_amount, return_date, returned_by, notes, created_at
		FROM return_history WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ledgerRepository) GetReturnsBySale(ctx context.Context, ex SQLExecutor, saleID int64) ([]models.ReturnRecord, error) {
	returns := []models.ReturnRecord{}
	err := selectAll(ctx, ex, &returns, "querying return history", `
		SELECT id, sale_id, change_amount, return_date, returned_by, notes, created_at
		FROM return_history WHERE sale_id = ?
		ORDER BY return_date DESC, id DESC`, saleID)
	return returns, err
}

func (r *ledgerRepository) UpdateReturn(ctx context.Context, ex SQLExecutor, rec *models.ReturnRecord) error {
	return execAffecting(ctx, ex, fmt.Sprintf("updating return ID %d", rec.ID),
		`UPDATE return_history SET change_amount = ?, returned_by = ?, notes = ? WHERE id = ?`,
		rec.ChangeAmount, rec.ReturnedBy, rec.Notes, rec.ID)
}

func (r *ledgerRepository) DeleteReturn(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, fmt.Sprintf("deleting return ID %d", id), `DELETE FROM return_history WHERE id = ?`, id)
}

func (r *ledgerRepository) DeleteReturnsBySale(ctx context.Context, ex SQLExecutor, saleID int64) (int64, error) {
	return execCount(ctx, ex, "deleting return history of sale", `DELETE FROM return_history WHERE sale_id = ?`, saleID)
}

func (r *ledgerRepository) SumReturns(ctx context.Context, ex SQLExecutor, saleID int64) (float64, error) {
	return scalarFloat(ctx, ex, "summing return history",
		`SELECT COALESCE(SUM(change_amount), 0) FROM return_history WHERE sale_id = ?`, saleID)
}

func (r *ledgerRepository) SetDebt(ctx context.Context, ex SQLExecutor, saleID int64, debt float64, status string) error {
	return execAffecting(ctx, ex, fmt.Sprintf("updating debt of sale ID %d", saleID),
		`UPDATE sales SET debt_amount = ?, status = ? WHERE id = ?`, debt, status, saleID)
}

func (r *ledgerRepository) SetChange(ctx context.Context, ex SQLExecutor, saleID int64, change float64) error {
	return execAffecting(ctx, ex, fmt.Sprintf("updating change of sale ID %d", saleID),
		`UPDATE sales SET change_amount = ? WHERE id = ?`, change, saleID)
}

func (r *ledgerRepository) OutstandingDebts(ctx context.Context, ex SQLExecutor) ([]models.OutstandingBalance, error) {
	rows := []models.OutstandingBalance{}
	err := selectAll(ctx, ex, &rows, "querying outstanding debts", `
		SELECT id, customer_name, customer_phone, sale_date, total_amount, debt_amount, 0 AS change_amount, payment_method
		FROM sales
		WHERE debt_amount > 0
		ORDER BY sale_date DESC, id DESC`)
	return rows, err
}

func (r *ledgerRepository) TotalOutstandingDebt(ctx context.Context, ex SQLExecutor) (float64, error) {
	return scalarFloat(ctx, ex, "summing outstanding debt",
		`SELECT COALESCE(SUM(debt_amount), 0) FROM sales WHERE debt_amount > 0`)
}

func (r *ledgerRepository) OutstandingChange(ctx context.Context, ex SQLExecutor) ([]models.OutstandingBalance, error) {
	rows := []models.OutstandingBalance{}
	err := selectAll(ctx, ex, &rows, "querying outstanding change", `
		SELECT id, customer_name, customer_phone, sale_date, total_amount, 0 AS debt_amount, change_amount, payment_method
		FROM sales
		WHERE change_amount > 0
		ORDER BY sale_date DESC, id DESC`)
	return rows, err
}

func (r *ledgerRepository) TotalOutstandingChange(ctx context.Context, ex SQLExecutor) (float64, error) {
	return scalarFloat(ctx, ex, "summing outstanding change",
		`SELECT COALESCE(SUM(change_amount), 0) FROM sales WHERE change_amount > 0`)
}
