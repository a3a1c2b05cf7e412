package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/internal/repositories"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// LedgerService tracks repayments of sale debt and hand-backs of change.
// Each mutation writes its history row and the sale balance in one transaction
// and returns the sale as stored afterwards.
//
// Invariant kept by every method: 0 <= debt_amount <= total_amount and change_amount >= 0.
type LedgerService interface {
	RecordPayment(ctx context.Context, saleID int64, amount float64, method string, notes *string) (*models.Sale, error)
	DeletePayment(ctx context.Context, paymentID int64) (*models.Sale, error)
	EditPayment(ctx context.Context, paymentID int64, amount float64, method, notes *string) (*models.Sale, error)
	// PayDebt reduces debt without a history row. Kept for older clients.
	PayDebt(ctx context.Context, saleID int64, amount float64) (*models.Sale, error)
	PaymentHistory(ctx context.Context, saleID int64) ([]models.PaymentRecord, error)
	OutstandingDebts(ctx context.Context) ([]models.OutstandingBalance, error)
	TotalOutstandingDebt(ctx context.Context) (float64, error)

	RecordReturn(ctx context.Context, saleID int64, amount float64, returnedBy, notes *string) (*models.Sale, error)
	DeleteReturn(ctx context.Context, returnID int64) (*models.Sale, error)
	EditReturn(ctx context.Context, returnID int64, amount float64, returnedBy, notes *string) (*models.Sale, error)
	// ReturnChange clears the change owed without a history row. Kept for older clients.
	ReturnChange(ctx context.Context, saleID int64) (*models.Sale, error)
	ReturnHistory(ctx context.Context, saleID int64) ([]models.ReturnRecord, error)
	OutstandingChange(ctx context.Context) ([]models.OutstandingBalance, error)
	TotalOutstandingChange(ctx context.Context) (float64, error)
}

type ledgerService struct {
	ledgerRepo repositories.LedgerRepository
	saleRepo   repositories.SaleRepository
	db         *database.DB
	now        func() time.Time
}

func NewLedgerService(ledgerRepo repositories.LedgerRepository, saleRepo repositories.SaleRepository, db *database.DB) LedgerService {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		saleRepo:   saleRepo,
		db:         db,
		now:        time.Now,
	}
}

// debtStatus is paid once the balance is exactly zero.
func debtStatus(debt decimal.Decimal) string {
	if debt.IsZero() {
		return models.SaleStatusPaid
	}
	return models.SaleStatusPartial
}

func (s *ledgerService) sale(ctx context.Context, ex repositories.SQLExecutor, id int64) (*models.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(ctx, ex, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

// mutate runs fn in a transaction and reloads the sale it touched.
func (s *ledgerService) mutate(ctx context.Context, fn func(tx *sqlx.Tx) (int64, error)) (*models.Sale, error) {
	var saleID int64
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := fn(tx)
		saleID = id
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.sale(ctx, s.db, saleID)
}

// --- Debt ---

func (s *ledgerService) RecordPayment(ctx context.Context, saleID int64, amount float64, method string, notes *string) (*models.Sale, error) {
	if method == "" {
		method = models.PaymentCash
	}
	if !isValidPaymentMethod(method, false) {
		return nil, validationError("payment method %q is not accepted for repayments", method)
	}
	paid := money(amount)
	if !paid.IsPositive() {
		return nil, validationError("payment amount must be greater than zero")
	}

	return s.mutate(ctx, func(tx *sqlx.Tx) (int64, error) {
		sale, err := s.sale(ctx, tx, saleID)
		if err != nil {
			return 0, err
		}
		debt := money(sale.DebtAmount)
		if paid.GreaterThan(debt) {
			return 0, validationError("payment of %s exceeds the outstanding debt of %s",
				paid.StringFixed(2), debt.StringFixed(2))
		}

		record := &models.PaymentRecord{
			SaleID:        saleID,
			AmountPaid:    toFloat(paid),
			PaymentDate:   models.Today(s.now()),
			PaymentMethod: &method,
			Notes:         trimmedOrNil(notes),
		}
		if _, err := s.ledgerRepo.CreatePayment(ctx, tx, record); err != nil {
			return 0, fmt.Errorf("failed to record payment: %w", err)
		}
		remaining := debt.Sub(paid)
		if err := s.ledgerRepo.SetDebt(ctx, tx, saleID, toFloat(remaining), debtStatus(remaining)); err != nil {
			return 0, fmt.Errorf("failed to update sale debt: %w", err)
		}
		return saleID, nil
	})
}

func (s *ledgerService) payment(ctx context.Context, ex repositories.SQLExecutor, id int64) (*models.PaymentRecord, error) {
	p, err := s.ledgerRepo.GetPaymentByID(ctx, ex, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func (s *ledgerService) DeletePayment(ctx context.Context, paymentID int64) (*models.Sale, error) {
	return s.mutate(ctx, func(tx *sqlx.Tx) (int64, error) {
		p, err := s.payment(ctx, tx, paymentID)
		if err != nil {
			return 0, err
		}
		sale, err := s.sale(ctx, tx, p.SaleID)
		if err != nil {
			return 0, err
		}

		restored := money(sale.DebtAmount).Add(money(p.AmountPaid))
		if restored.GreaterThan(money(sale.TotalAmount)) {
			return 0, fmt.Errorf("%w: restoring payment %d would raise the debt of sale %d to %s, above its total of %s",
				ErrLedgerInconsistent, paymentID, sale.ID, restored.StringFixed(2), money(sale.TotalAmount).StringFixed(2))
		}
		if err := s.ledgerRepo.DeletePayment(ctx, tx, paymentID); err != nil {
			return 0, fmt.Errorf("failed to delete payment: %w", err)
		}
		status := models.SaleStatusCompleted
		if restored.IsPositive() {
			status = models.SaleStatusPartial
		}
		if err := s.ledgerRepo.SetDebt(ctx, tx, sale.ID, toFloat(restored), status); err != nil {
			return 0, fmt.Errorf("failed to restore sale debt: %w", err)
		}
		return sale.ID, nil
	})
}

func (s *ledgerService) EditPayment(ctx context.Context, paymentID int64, amount float64, method, notes *string) (*models.Sale, error) {
	newAmount := money(amount)
	if !newAmount.IsPositive() {
		return nil, validationError("payment amount must be greater than zero")
	}
	if method != nil && !isValidPaymentMethod(*method, false) {
		return nil, validationError("payment method %q is not accepted for repayments", *method)
	}

	return s.mutate(ctx, func(tx *sqlx.Tx) (int64, error) {
		p, err := s.payment(ctx, tx, paymentID)
		if err != nil {
			return 0, err
		}
		sale, err := s.sale(ctx, tx, p.SaleID)
		if err != nil {
			return 0, err
		}

		debt := money(sale.DebtAmount).Sub(newAmount.Sub(money(p.AmountPaid)))
		if debt.IsNegative() {
			return 0, validationError("payment of %s exceeds what is owed on sale %d", newAmount.StringFixed(2), sale.ID)
		}

		p.AmountPaid = toFloat(newAmount)
		if method != nil {
			p.PaymentMethod = method
		}
		if notes != nil {
			p.Notes = trimmedOrNil(notes)
		}
		if err := s.ledgerRepo.UpdatePayment(ctx, tx, p); err != nil {
			return 0, fmt.Errorf("failed to update payment: %w", err)
		}
		if err := s.ledgerRepo.SetDebt(ctx, tx, sale.ID, toFloat(debt), debtStatus(debt)); err != nil {
			return 0, fmt.Errorf("failed to update sale debt: %w", err)
		}
		return sale.ID, nil
	})
}

func (s *ledgerService) PayDebt(ctx context.Context, saleID int64, amount float64) (*models.Sale, error) {
	paid := money(amount)
	if !paid.IsPositive() {
		return nil, validationError("payment amount must be greater than zero")
	}
	return s.mutate(ctx, func(tx *sqlx.Tx) (int64, error) {
		sale, err := s.sale(ctx, tx, saleID)
		if err != nil {
			return 0, err
		}
		remaining := maxZero(money(sale.DebtAmount).Sub(paid))
		if err := s.ledgerRepo.SetDebt(ctx, tx, saleID, toFloat(remaining), debtStatus(remaining)); err != nil {
			return 0, fmt.Errorf("failed to update sale debt: %w", err)
		}
		return saleID, nil
	})
}

func (s *ledgerService) PaymentHistory(ctx context.Context, saleID int64) ([]models.PaymentRecord, error) {
	rows, err := s.ledgerRepo.GetPaymentsBySale(ctx, s.db, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment history: %w", err)
	}
	return rows, nil
}

func (s *ledgerService) OutstandingDebts(ctx context.Context) ([]models.OutstandingBalance, error) {
	rows, err := s.ledgerRepo.OutstandingDebts(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get outstanding debts: %w", err)
	}
	return rows, nil
}

func (s *ledgerService) TotalOutstandingDebt(ctx context.Context) (float64, error) {
	total, err := s.ledgerRepo.TotalOutstandingDebt(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding debt: %w", err)
	}
	return toFloat(money(total)), nil
}

// --- Change ---

func (s *ledgerService) RecordReturn(ctx context.Context, saleID int64, amount float64, returnedBy, notes *string) (*models.Sale, error) {
	returned := money(amount)
	if !returned.IsPositive() {
		return nil, validationError("return amount must be greater than zero")
	}

	return s.mutate(ctx, func(tx *sqlx.Tx) (int64, error) {
		sale, err := s.sale(ctx, tx, saleID)
		if err != nil {
			return 0, err
		}
		change := money(sale.ChangeAmount)
		if returned.GreaterThan(change) {
			return 0, validationError("return of %s exceeds the change owed of %s",
				returned.StringFixed(2), change.StringFixed(2))
		}

		record := &models.ReturnRecord{
			SaleID:       saleID,
			ChangeAmount: toFloat(returned),
			ReturnDate:   models.Today(s.now()),
			ReturnedBy:   trimmedOrNil(returnedBy),
			Notes:        trimmedOrNil(notes),
		}
		if _, err := s.ledgerRepo.CreateReturn(ctx, tx, record); err != nil {
			return 0, fmt.Errorf("failed to record change return: %w", err)
		}
		if err := s.ledgerRepo.SetChange(ctx, tx, saleID, toFloat(change.Sub(returned))); err != nil {
			return 0, fmt.Errorf("failed to update sale change: %w", err)
		}
		return saleID, nil
	})
}

func (s *ledgerService) changeReturn(ctx context.Context, ex repositories.SQLExecutor, id int64) (*models.ReturnRecord, error) {
	r, err := s.ledgerRepo.GetReturnByID(ctx, ex, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReturnNotFound
		}
		return nil, fmt.Errorf("failed to get change return: %w", err)
	}
	return r, nil
}

func (s *ledgerService) DeleteReturn(ctx context.Context, returnID int64) (*models.Sale, error) {
	return s.mutate(ctx, func(tx *sqlx.Tx) (int64, error) {
		r, err := s.changeReturn(ctx, tx, returnID)
		if err != nil {
			return 0, err
		}
		sale, err := s.sale(ctx, tx, r.SaleID)
		if err != nil {
			return 0, err
		}

		restored := money(sale.ChangeAmount).Add(money(r.ChangeAmount))
		overpaid := maxZero(money(sale.AmountPaid).Sub(money(sale.TotalAmount)))
		if restored.GreaterThan(overpaid) {
			return 0, fmt.Errorf("%w: restoring return %d would raise the change of sale %d to %s, above its overpayment of %s",
				ErrLedgerInconsistent, returnID, sale.ID, restored.StringFixed(2), overpaid.StringFixed(2))
		}
		if err := s.ledgerRepo.DeleteReturn(ctx, tx, returnID); err != nil {
			return 0, fmt.Errorf("failed to delete change return: %w", err)
		}
		if err := s.ledgerRepo.SetChange(ctx, tx, sale.ID, toFloat(restored)); err != nil {
			return 0, fmt.Errorf("failed to restore sale change: %w", err)
		}
		return sale.ID, nil
	})
}

func (s *ledgerService) EditReturn(ctx context.Context, returnID int64, amount float64, returnedBy, notes *string) (*models.Sale, error) {
	newAmount := money(amount)
	if !newAmount.IsPositive() {
		return nil, validationError("return amount must be greater than zero")
	}

	return s.mutate(ctx, func(tx *sqlx.Tx) (int64, error) {
		r, err := s.changeReturn(ctx, tx, returnID)
		if err != nil {
			return 0, err
		}
		sale, err := s.sale(ctx, tx, r.SaleID)
		if err != nil {
			return 0, err
		}

		change := money(sale.ChangeAmount).Sub(newAmount.Sub(money(r.ChangeAmount)))
		if change.IsNegative() {
			return 0, validationError("return of %s exceeds the change owed on sale %d", newAmount.StringFixed(2), sale.ID)
		}

		r.ChangeAmount = toFloat(newAmount)
		if returnedBy != nil {
			r.ReturnedBy = trimmedOrNil(returnedBy)
		}
		if notes != nil {
			r.Notes = trimmedOrNil(notes)
		}
		if err := s.ledgerRepo.UpdateReturn(ctx, tx, r); err != nil {
			return 0, fmt.Errorf("failed to update change return: %w", err)
		}
		if err := s.ledgerRepo.SetChange(ctx, tx, sale.ID, toFloat(change)); err != nil {
			return 0, fmt.Errorf("failed to update sale change: %w", err)
		}
		return sale.ID, nil
	})
}

func (s *ledgerService) ReturnChange(ctx context.Context, saleID int64) (*models.Sale, error) {
	return s.mutate(ctx, func(tx *sqlx.Tx) (int64, error) {
		if _, err := s.sale(ctx, tx, saleID); err != nil {
			return 0, err
		}
		if err := s.ledgerRepo.SetChange(ctx, tx, saleID, 0); err != nil {
			return 0, fmt.Errorf("failed to clear sale change: %w", err)
		}
		return saleID, nil
	})
}

func (s *ledgerService) ReturnHistory(ctx context.Context, saleID int64) ([]models.ReturnRecord, error) {
	rows, err := s.ledgerRepo.GetReturnsBySale(ctx, s.db, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get return history: %w", err)
	}
	return rows, nil
}

func (s *ledgerService) OutstandingChange(ctx context.Context) ([]models.OutstandingBalance, error) {
	rows, err := s.ledgerRepo.OutstandingChange(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get outstanding change: %w", err)
	}
	return rows, nil
}

func (s *ledgerService) TotalOutstandingChange(ctx context.Context) (float64, error) {
	total, err := s.ledgerRepo.TotalOutstandingChange(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding change: %w", err)
	}
	return toFloat(money(total)), nil
}
