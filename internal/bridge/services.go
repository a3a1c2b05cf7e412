package bridge

import (
	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/repositories"
	"poultry_farm_backend/internal/services"
)

// NewServices wires every repository and service over one store handle.
func NewServices(db *database.DB) Services {
	// Initialize Repositories
	supplierRepo := repositories.NewSupplierRepository()
	broilerRepo := repositories.NewBroilerRepository()
	eventRepo := repositories.NewBirdEventRepository()
	eggRepo := repositories.NewEggRepository()
	lossRepo := repositories.NewEggLossRepository()
	inventoryRepo := repositories.NewInventoryRepository()
	feedRepo := repositories.NewFeedConsumptionRepository()
	saleRepo := repositories.NewSaleRepository()
	ledgerRepo := repositories.NewLedgerRepository()
	accountingRepo := repositories.NewAccountingRepository()

	// Initialize Services
	svc := Services{
		Suppliers:  services.NewSupplierService(supplierRepo, db),
		Broilers:   services.NewBroilerService(broilerRepo, eventRepo, feedRepo, saleRepo, supplierRepo, db),
		BirdEvents: services.NewBirdEventService(eventRepo, broilerRepo, db),
		Eggs:       services.NewEggService(eggRepo, lossRepo, saleRepo, supplierRepo, db),
		EggLosses:  services.NewEggLossService(lossRepo, eggRepo, db),
		Inventory:  services.NewInventoryService(inventoryRepo, feedRepo, broilerRepo, supplierRepo, db),
		Sales:      services.NewSaleService(saleRepo, ledgerRepo, broilerRepo, eggRepo, db),
		Ledger:     services.NewLedgerService(ledgerRepo, saleRepo, db),
		Accounting: services.NewAccountingService(accountingRepo, db),
		Backups:    services.NewBackupService(db),
	}
	svc.Reports = services.NewReportService(svc.Accounting, svc.Sales, svc.Broilers)
	return svc
}
