package models

import "time"

const (
	ItemBroiler = "broiler"
	ItemEgg     = "egg"
)

const (
	PaymentCash         = "cash"
	PaymentMobileMoney  = "mobile_money"
	PaymentBankTransfer = "bank_transfer"
	PaymentCredit       = "credit"
)

// Sale status values. A sale is partial while a debt is outstanding and paid
// once a tracked repayment clears it.
const (
	SaleStatusCompleted = "completed"
	SaleStatusPartial   = "partial"
	SaleStatusPaid      = "paid"
)

type Sale struct {
	ID            int64      `json:"id" db:"id"`
	CustomerName  *string    `json:"customer_name" db:"customer_name"`
	CustomerPhone *string    `json:"customer_phone" db:"customer_phone"`
	SaleDate      Date       `json:"sale_date" db:"sale_date"`
	TotalAmount   float64    `json:"total_amount" db:"total_amount"`
	PaymentMethod string     `json:"payment_method" db:"payment_method"`
	AmountPaid    float64    `json:"amount_paid" db:"amount_paid"`
	ChangeAmount  float64    `json:"change_amount" db:"change_amount"`
	DebtAmount    float64    `json:"debt_amount" db:"debt_amount"`
	Status        string     `json:"status" db:"status"`
	CreatedAt     *time.Time `json:"created_at" db:"created_at"`
	Items         []SaleItem `json:"items,omitempty" db:"-"`
}

// SaleItem is one line of a sale. ReferenceID points at a bird batch for broiler
// lines and an egg batch for egg lines; nil means not yet assigned to a batch.
type SaleItem struct {
	ID          int64   `json:"id" db:"id"`
	SaleID      int64   `json:"sale_id" db:"sale_id"`
	ItemType    string  `json:"item_type" db:"item_type"`
	ReferenceID *int64  `json:"reference_id" db:"reference_id"`
	Quantity    int64   `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Subtotal    float64 `json:"subtotal" db:"subtotal"`
}

// SaleItemDetail is a sale line joined with its sale header.
type SaleItemDetail struct {
	SaleItem
	SaleDate      Date    `json:"sale_date" db:"sale_date"`
	PaymentMethod string  `json:"payment_method" db:"payment_method"`
	TotalAmount   float64 `json:"total_amount" db:"total_amount"`
}

// UnassignedItem is a sale line that does not point at an existing batch.
type UnassignedItem struct {
	ID            int64   `json:"id" db:"id"`
	SaleID        int64   `json:"sale_id" db:"sale_id"`
	Quantity      int64   `json:"quantity" db:"quantity"`
	UnitPrice     float64 `json:"unit_price" db:"unit_price"`
	SaleDate      Date    `json:"sale_date" db:"sale_date"`
	CustomerName  *string `json:"customer_name" db:"customer_name"`
	CustomerPhone *string `json:"customer_phone" db:"customer_phone"`
}

type PaymentMethodTotal struct {
	PaymentMethod string  `json:"payment_method" db:"payment_method"`
	Count         int64   `json:"count" db:"count"`
	Total         float64 `json:"total" db:"total"`
}

// OutstandingBalance is a sale that still carries debt or change.
type OutstandingBalance struct {
	ID            int64   `json:"id" db:"id"`
	CustomerName  *string `json:"customer_name" db:"customer_name"`
	CustomerPhone *string `json:"customer_phone" db:"customer_phone"`
	SaleDate      Date    `json:"sale_date" db:"sale_date"`
	TotalAmount   float64 `json:"total_amount" db:"total_amount"`
	DebtAmount    float64 `json:"debt_amount,omitempty" db:"debt_amount"`
	ChangeAmount  float64 `json:"change_amount,omitempty" db:"change_amount"`
	PaymentMethod string  `json:"payment_method" db:"payment_method"`
}

// PaymentRecord is one tracked repayment against a sale's debt.
type PaymentRecord struct {
	ID            int64      `json:"id" db:"id"`
	SaleID        int64      `json:"sale_id" db:"sale_id"`
	AmountPaid    float64    `json:"amount_paid" db:"amount_paid"`
	PaymentDate   Date       `json:"payment_date" db:"payment_date"`
	PaymentMethod *string    `json:"payment_method" db:"payment_method"`
	Notes         *string    `json:"notes" db:"notes"`
	CreatedAt     *time.Time `json:"created_at" db:"created_at"`
}

// ReturnRecord is one tracked hand-back of change owed to a customer.
type ReturnRecord struct {
	ID           int64      `json:"id" db:"id"`
	SaleID       int64      `json:"sale_id" db:"sale_id"`
	ChangeAmount float64    `json:"change_amount" db:"change_amount"`
	ReturnDate   Date       `json:"return_date" db:"return_date"`
	ReturnedBy   *string    `json:"returned_by" db:"returned_by"`
	Notes        *string    `json:"notes" db:"notes"`
	CreatedAt    *time.Time `json:"created_at" db:"created_at"`
}
