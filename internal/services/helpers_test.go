package services

import (
	"context"
	"testing"
	"time"

	"poultry_farm_backend/internal/config"
	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/internal/repositories"
)

// testEnv is one fresh in-memory store with every service wired over it.
type testEnv struct {
	db         *database.DB
	suppliers  SupplierService
	broilers   BroilerService
	events     BirdEventService
	eggs       EggService
	losses     EggLossService
	inventory  InventoryService
	sales      SaleService
	ledger     *ledgerService
	accounting AccountingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenAndMigrate(context.Background(), config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	supplierRepo := repositories.NewSupplierRepository()
	broilerRepo := repositories.NewBroilerRepository()
	eventRepo := repositories.NewBirdEventRepository()
	eggRepo := repositories.NewEggRepository()
	lossRepo := repositories.NewEggLossRepository()
	inventoryRepo := repositories.NewInventoryRepository()
	feedRepo := repositories.NewFeedConsumptionRepository()
	saleRepo := repositories.NewSaleRepository()
	ledgerRepo := repositories.NewLedgerRepository()

	ledger := NewLedgerService(ledgerRepo, saleRepo, db).(*ledgerService)
	ledger.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

	return &testEnv{
		db:         db,
		suppliers:  NewSupplierService(supplierRepo, db),
		broilers:   NewBroilerService(broilerRepo, eventRepo, feedRepo, saleRepo, supplierRepo, db),
		events:     NewBirdEventService(eventRepo, broilerRepo, db),
		eggs:       NewEggService(eggRepo, lossRepo, saleRepo, supplierRepo, db),
		losses:     NewEggLossService(lossRepo, eggRepo, db),
		inventory:  NewInventoryService(inventoryRepo, feedRepo, broilerRepo, supplierRepo, db),
		sales:      NewSaleService(saleRepo, ledgerRepo, broilerRepo, eggRepo, db),
		ledger:     ledger,
		accounting: NewAccountingService(repositories.NewAccountingRepository(), db),
	}
}

func (e *testEnv) supplier(t *testing.T) *models.Supplier {
	t.Helper()
	s, err := e.suppliers.CreateSupplier(context.Background(), CreateSupplierRequest{Name: "Kuku Hatchery", Product: "chicks"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	return s
}

func (e *testEnv) birdBatch(t *testing.T, quantity int64, cost float64) *models.BirdBatch {
	t.Helper()
	sup := e.supplier(t)
	b, err := e.broilers.CreateBatch(context.Background(), BirdBatchRequest{
		SupplierID:       &sup.ID,
		QuantityReceived: quantity,
		CostPerBird:      cost,
		DateReceived:     "2024-03-01",
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	return b
}

func (e *testEnv) eggBatch(t *testing.T, crates int64, cost float64) *models.EggBatch {
	t.Helper()
	sup := e.supplier(t)
	b, err := e.eggs.CreateBatch(context.Background(), EggBatchRequest{
		SupplierID:     sup.ID,
		CratesReceived: crates,
		CostPerCrate:   cost,
		DateReceived:   "2024-03-01",
	})
	if err != nil {
		t.Fatalf("CreateBatch (eggs): %v", err)
	}
	return b
}

// cashSale records a sale with no items, so the given total stands.
func (e *testEnv) cashSale(t *testing.T, total, paid float64) *models.Sale {
	t.Helper()
	sale, err := e.sales.CreateSale(context.Background(), SaleRequest{
		SaleDate:      "2024-03-10",
		TotalAmount:   &total,
		PaymentMethod: models.PaymentCash,
		AmountPaid:    &paid,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	return sale
}

func ptr[T any](v T) *T { return &v }
