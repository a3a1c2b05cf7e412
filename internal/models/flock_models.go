package models

import "time"

const (
	EventMortality = "mortality"
	EventHomeUse   = "home_use"
)

// BirdBatch is one intake of broilers from a supplier.
type BirdBatch struct {
	ID               int64     `json:"id" db:"id"`
	SupplierID       *int64    `json:"supplier_id" db:"supplier_id"`
	BatchCode        *string   `json:"batch_code" db:"batch_code"`
	QuantityReceived int64     `json:"quantity_received" db:"quantity_received"`
	CostPerBird      float64   `json:"cost_per_bird" db:"cost_per_bird"`
	DateReceived     Date      `json:"date_received" db:"date_received"`
	Notes            *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	SupplierName     *string   `json:"supplier_name,omitempty" db:"supplier_name"` // joined
}

// BirdBatchAvailability is a batch together with its derived counts.
type BirdBatchAvailability struct {
	BirdBatch
	AvailableBirds int64 `json:"available_birds" db:"available_birds"`
	MortalityCount int64 `json:"mortality_count" db:"mortality_count"`
	HomeUseCount   int64 `json:"home_use_count" db:"home_use_count"`
	SoldCount      int64 `json:"sold_count" db:"sold_count"`
}

// BirdEvent removes birds from a batch for a reason other than a sale.
type BirdEvent struct {
	ID        int64   `json:"id" db:"id"`
	BatchID   int64   `json:"batch_id" db:"batch_id"`
	EventType string  `json:"event_type" db:"event_type"`
	Quantity  int64   `json:"quantity" db:"quantity"`
	EventDate Date    `json:"event_date" db:"event_date"`
	Notes     *string `json:"notes,omitempty" db:"notes"`
	BatchCode *string `json:"batch_code,omitempty" db:"batch_code"` // joined
}

// BirdHealthSummary accounts for every bird received into a batch.
// The keys keep the camelCase names the desktop UI already reads.
type BirdHealthSummary struct {
	Total         int64   `json:"total"`
	Mortality     int64   `json:"mortality"`
	HomeUse       int64   `json:"homeUse"`
	Sold          int64   `json:"sold"`
	Available     int64   `json:"available"`
	Accounted     int64   `json:"accounted"`
	MortalityRate float64 `json:"mortalityRate"`
}
