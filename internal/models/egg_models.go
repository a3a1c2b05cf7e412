package models

import "time"

const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

type EggBatch struct {
	ID             int64   `json:"id" db:"id"`
	SupplierID     int64   `json:"supplier_id" db:"supplier_id"`
	CratesReceived int64   `json:"crates_received" db:"crates_received"`
	CostPerCrate   float64 `json:"cost_per_crate" db:"cost_per_crate"`
	DateReceived   Date    `json:"date_received" db:"date_received"`
	SupplierName   *string `json:"supplier_name,omitempty" db:"supplier_name"`
}

// EggBatchAvailability is an egg batch with the crates still on hand.
type EggBatchAvailability struct {
	EggBatch
	LostCrates      int64 `json:"lost_crates" db:"lost_crates"`
	SoldCrates      int64 `json:"sold_crates" db:"sold_crates"`
	AvailableCrates int64 `json:"available_crates" db:"available_crates"`
}

// EggGrade is a priced size category split out of an egg batch.
type EggGrade struct {
	ID           int64   `json:"id" db:"id"`
	EggBatchID   int64   `json:"egg_batch_id" db:"egg_batch_id"`
	Size         string  `json:"size" db:"size"`
	Quantity     int64   `json:"quantity" db:"quantity"`
	SellingPrice float64 `json:"selling_price" db:"selling_price"`
}

// EggLoss records crates broken or spoiled before sale.
type EggLoss struct {
	ID           int64      `json:"id" db:"id"`
	EggBatchID   int64      `json:"egg_batch_id" db:"egg_batch_id"`
	QuantityLost int64      `json:"quantity_lost" db:"quantity_lost"`
	LossDate     Date       `json:"loss_date" db:"loss_date"`
	Reason       *string    `json:"reason" db:"reason"`
	Notes        *string    `json:"notes" db:"notes"`
	CreatedAt    *time.Time `json:"created_at" db:"created_at"`
	SupplierID   *int64     `json:"supplier_id,omitempty" db:"supplier_id"`
	SupplierName *string    `json:"supplier_name,omitempty" db:"supplier_name"`
}

type EggLossReasonStat struct {
	Reason        *string `json:"reason" db:"reason"`
	Count         int64   `json:"count" db:"count"`
	TotalQuantity int64   `json:"total_quantity" db:"total_quantity"`
}

type EggBatchLossStats struct {
	TotalLoss      int64   `json:"total_loss" db:"total_loss"`
	LossRecords    int64   `json:"loss_records" db:"loss_records"`
	CratesReceived int64   `json:"crates_received" db:"crates_received"`
	LossPercentage float64 `json:"loss_percentage" db:"-"`
}
