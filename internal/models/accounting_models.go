package models

// FinancialSummary is the farm-wide revenue, cost and profit snapshot.
// The keys keep the camelCase names the desktop UI already reads.
type FinancialSummary struct {
	BroilerCosts   float64 `json:"broilerCosts"`
	EggCosts       float64 `json:"eggCosts"`
	InventoryCosts float64 `json:"inventoryCosts"`
	TotalCosts     float64 `json:"totalCosts"`
	EggRevenue     float64 `json:"eggRevenue"`
	BroilerRevenue float64 `json:"broilerRevenue"`
	TotalRevenue   float64 `json:"totalRevenue"`
	Profit         float64 `json:"profit"`
	ProfitMargin   float64 `json:"profitMargin"`
}

type ExpenseCategory struct {
	Category string  `json:"category" db:"category"`
	Amount   float64 `json:"amount" db:"amount"`
}

type RevenueByMethod struct {
	PaymentMethod    string  `json:"payment_method" db:"payment_method"`
	TransactionCount int64   `json:"transaction_count" db:"transaction_count"`
	Amount           float64 `json:"amount" db:"amount"`
}

// CostTotals are the raw sums the financial summary is built from.
type CostTotals struct {
	BroilerCosts   float64 `db:"broiler_costs"`
	EggCosts       float64 `db:"egg_costs"`
	InventoryCosts float64 `db:"inventory_costs"`
	EggRevenue     float64 `db:"egg_revenue"`
	BroilerRevenue float64 `db:"broiler_revenue"`
}
