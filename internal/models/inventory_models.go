package models

import "time"

// InventoryItem is a stock of supplies such as feed or medication.
type InventoryItem struct {
	ID           int64     `json:"id" db:"id"`
	SupplierID   int64     `json:"supplier_id" db:"supplier_id"`
	ItemName     string    `json:"item_name" db:"item_name"`
	Quantity     float64   `json:"quantity" db:"quantity"`
	Unit         string    `json:"unit" db:"unit"`
	CostPerUnit  float64   `json:"cost_per_unit" db:"cost_per_unit"`
	DateAdded    Date      `json:"date_added" db:"date_added"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	SupplierName *string   `json:"supplier_name,omitempty" db:"supplier_name"` // joined
}

// InventoryStat aggregates stock by item, price and supplier.
type InventoryStat struct {
	ItemName      string  `json:"item_name" db:"item_name"`
	TotalQuantity float64 `json:"total_quantity" db:"total_quantity"`
	CostPerUnit   float64 `json:"cost_per_unit" db:"cost_per_unit"`
	SupplierID    int64   `json:"supplier_id" db:"supplier_id"`
}

// FeedConsumption records inventory used by a bird batch.
type FeedConsumption struct {
	ID              int64   `json:"id" db:"id"`
	BatchID         int64   `json:"batch_id" db:"batch_id"`
	InventoryID     int64   `json:"inventory_id" db:"inventory_id"`
	QuantityUsed    float64 `json:"quantity_used" db:"quantity_used"`
	ConsumptionDate Date    `json:"consumption_date" db:"consumption_date"`
	Notes           *string `json:"notes,omitempty" db:"notes"`
	BatchCode       *string `json:"batch_code,omitempty" db:"batch_code"`
	ItemName        *string `json:"item_name,omitempty" db:"item_name"`
	Unit            *string `json:"unit,omitempty" db:"unit"`
}
