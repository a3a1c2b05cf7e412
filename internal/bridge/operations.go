package bridge

import (
	"context"

	"poultry_farm_backend/internal/services"
)

// addItemArgs is the single object sales:addItem receives.
type addItemArgs struct {
	SaleID int64 `json:"sale_id"`
	services.SaleItemInput
}

func deleted(id int64) map[string]interface{} {
	return map[string]interface{}{"id": id, "deleted": true}
}

// bind decodes argument 0 into a fresh T.
func bind[T any](args Args) (T, error) {
	var v T
	err := args.Bind(0, &v)
	return v, err
}

func operations(svc Services) []Operation {
	ops := []Operation{}
	add := func(name string, mutates bool, h HandlerFunc) {
		ops = append(ops, Operation{Name: name, Mutates: mutates, Handler: h})
	}
	read := func(name string, h HandlerFunc) { add(name, false, h) }
	write := func(name string, h HandlerFunc) { add(name, true, h) }

	// --- Suppliers ---
	write("supplier:add", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.CreateSupplierRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.Suppliers.CreateSupplier(ctx, req)
	})
	read("supplier:list", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Suppliers.GetSuppliers(ctx)
	})
	read("supplier:get", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Suppliers.GetSupplierByID(ctx, id)
	})
	write("supplier:update", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		var req services.UpdateSupplierRequest
		if err := args.Bind(1, &req); err != nil {
			return nil, err
		}
		return svc.Suppliers.UpdateSupplier(ctx, id, req)
	})
	write("supplier:delete", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		if err := svc.Suppliers.DeleteSupplier(ctx, id); err != nil {
			return nil, err
		}
		return deleted(id), nil
	})

	// --- Broilers ---
	write("broiler:addBatch", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.BirdBatchRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.Broilers.CreateBatch(ctx, req)
	})
	recordEvent := func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.RecordBirdEventRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.BirdEvents.RecordEvent(ctx, req)
	}
	write("broiler:addEvent", recordEvent)
	read("broiler:listBatches", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Broilers.GetBatches(ctx)
	})
	read("broiler:listBatchesWithAvailability", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Broilers.GetBatchesWithAvailability(ctx)
	})
	read("broiler:getBatch", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Broilers.GetBatch(ctx, id)
	})
	write("broiler:updateBatch", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		var req services.BirdBatchRequest
		if err := args.Bind(1, &req); err != nil {
			return nil, err
		}
		return svc.Broilers.UpdateBatch(ctx, id, req)
	})
	write("broiler:deleteBatch", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		if err := svc.Broilers.DeleteBatch(ctx, id); err != nil {
			return nil, err
		}
		return deleted(id), nil
	})
	availableBirds := func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Broilers.AvailableBirds(ctx, id)
	}
	read("broiler:getAvailable", availableBirds)

	// --- Eggs ---
	write("egg:addBatch", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.EggBatchRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.Eggs.CreateBatch(ctx, req)
	})
	read("egg:listBatches", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Eggs.GetBatches(ctx)
	})
	write("egg:grade", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.GradeEggsRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.Eggs.GradeEggs(ctx, req)
	})
	read("egg:listGrades", func(ctx context.Context, args Args) (interface{}, error) {
		batchID, err := args.OptionalInt64(0)
		if err != nil {
			return nil, err
		}
		return svc.Eggs.GetGrades(ctx, batchID)
	})
	write("egg:updateBatch", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		var req services.EggBatchRequest
		if err := args.Bind(1, &req); err != nil {
			return nil, err
		}
		return svc.Eggs.UpdateBatch(ctx, id, req)
	})
	write("egg:deleteBatch", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		if err := svc.Eggs.DeleteBatch(ctx, id); err != nil {
			return nil, err
		}
		return deleted(id), nil
	})
	read("egg:getAvailable", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Eggs.Availability(ctx, id)
	})

	// --- Dashboard stats ---
	read("stats:getBroilerCount", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Broilers.CountBatches(ctx)
	})
	read("stats:getEggCount", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Eggs.CountBatches(ctx)
	})
	read("stats:getSupplierCount", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Suppliers.CountSuppliers(ctx)
	})
	read("stats:getRevenue", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Eggs.GradeRevenue(ctx)
	})

	// --- Sales ---
	write("sales:add", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.SaleRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.Sales.CreateSale(ctx, req)
	})
	write("sales:addItem", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[addItemArgs](args)
		if err != nil {
			return nil, err
		}
		if req.SaleID <= 0 {
			return nil, argError(0, "needs a positive sale_id")
		}
		return svc.Sales.AddItem(ctx, req.SaleID, req.SaleItemInput)
	})
	read("sales:getAll", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Sales.GetSales(ctx)
	})
	read("sales:getDetails", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Sales.GetSaleDetails(ctx, id)
	})
	read("sales:getTotalSales", func(ctx context.Context, args Args) (interface{}, error) {
		start, err := args.OptionalString(0)
		if err != nil {
			return nil, err
		}
		end, err := args.OptionalString(1)
		if err != nil {
			return nil, err
		}
		return svc.Sales.TotalSales(ctx, start, end)
	})
	read("sales:getByPaymentMethod", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Sales.TotalsByPaymentMethod(ctx)
	})
	write("sales:update", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		var req services.SaleRequest
		if err := args.Bind(1, &req); err != nil {
			return nil, err
		}
		return svc.Sales.UpdateSale(ctx, id, req)
	})
	write("sales:delete", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		if err := svc.Sales.DeleteSale(ctx, id); err != nil {
			return nil, err
		}
		return deleted(id), nil
	})
	read("sales:getById", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Sales.GetSaleByID(ctx, id)
	})
	write("sales:deleteItem", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		if err := svc.Sales.DeleteItem(ctx, id); err != nil {
			return nil, err
		}
		return deleted(id), nil
	})
	for _, kind := range []struct{ list, assign, itemType string }{
		{"sales:getUnassignedBroilers", "sales:assignBroilerToBatch", "broiler"},
		{"sales:getUnassignedEggs", "sales:assignEggToBatch", "egg"},
	} {
		itemType := kind.itemType
		read(kind.list, func(ctx context.Context, _ Args) (interface{}, error) {
			return svc.Sales.GetUnassignedItems(ctx, itemType)
		})
		write(kind.assign, func(ctx context.Context, args Args) (interface{}, error) {
			itemID, err := args.ID(0)
			if err != nil {
				return nil, err
			}
			batchID, err := args.ID(1)
			if err != nil {
				return nil, err
			}
			return svc.Sales.AssignItemToBatch(ctx, itemType, itemID, batchID)
		})
	}

	// --- Accounting ---
	read("accounting:getFinancialSummary", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Accounting.FinancialSummary(ctx)
	})
	read("accounting:getExpenseBreakdown", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Accounting.ExpenseBreakdown(ctx)
	})
	read("accounting:getMonthlyRevenue", func(ctx context.Context, args Args) (interface{}, error) {
		year, err := args.Int64(0)
		if err != nil {
			return nil, err
		}
		month, err := args.Int64(1)
		if err != nil {
			return nil, err
		}
		return svc.Accounting.MonthlyRevenue(ctx, int(year), int(month))
	})
	read("accounting:getRevenueByPaymentMethod", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Accounting.RevenueByPaymentMethod(ctx)
	})

	// --- Inventory ---
	write("inventory:add", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.CreateInventoryItemRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.Inventory.CreateItem(ctx, req)
	})
	read("inventory:getAll", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Inventory.GetItems(ctx)
	})
	read("inventory:getStats", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Inventory.GetStats(ctx)
	})
	read("inventory:getTotalValue", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Inventory.TotalValue(ctx)
	})
	write("inventory:update", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		qty, err := args.Float64(1)
		if err != nil {
			return nil, err
		}
		return svc.Inventory.UpdateQuantity(ctx, id, qty)
	})
	write("inventory:delete", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		if err := svc.Inventory.DeleteItem(ctx, id); err != nil {
			return nil, err
		}
		return deleted(id), nil
	})
	read("inventory:search", func(ctx context.Context, args Args) (interface{}, error) {
		name, err := args.String(0)
		if err != nil {
			return nil, err
		}
		return svc.Inventory.SearchItems(ctx, name)
	})
	write("inventory:recordFeedConsumption", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.RecordFeedConsumptionRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.Inventory.RecordFeedConsumption(ctx, req)
	})
	read("inventory:listFeedConsumption", func(ctx context.Context, args Args) (interface{}, error) {
		batchID, err := args.OptionalInt64(0)
		if err != nil {
			return nil, err
		}
		return svc.Inventory.GetFeedConsumption(ctx, batchID)
	})

	// --- Bird events ---
	write("birdEvents:record", recordEvent)
	read("birdEvents:getAll", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.BirdEvents.GetEvents(ctx)
	})
	read("birdEvents:getByBatch", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.BirdEvents.GetEventsByBatch(ctx, id)
	})
	read("birdEvents:getByType", func(ctx context.Context, args Args) (interface{}, error) {
		eventType, err := args.String(0)
		if err != nil {
			return nil, err
		}
		return svc.BirdEvents.GetEventsByType(ctx, eventType)
	})
	read("birdEvents:getTotalMortality", func(ctx context.Context, args Args) (interface{}, error) {
		batchID, err := args.OptionalInt64(0)
		if err != nil {
			return nil, err
		}
		return svc.BirdEvents.TotalMortality(ctx, batchID)
	})
	read("birdEvents:getTotalHomeUse", func(ctx context.Context, args Args) (interface{}, error) {
		batchID, err := args.OptionalInt64(0)
		if err != nil {
			return nil, err
		}
		return svc.BirdEvents.TotalHomeUse(ctx, batchID)
	})
	read("birdEvents:getAvailable", availableBirds)
	read("birdEvents:getHealthSummary", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.BirdEvents.HealthSummary(ctx, id)
	})
	write("birdEvents:delete", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		if err := svc.BirdEvents.DeleteEvent(ctx, id); err != nil {
			return nil, err
		}
		return deleted(id), nil
	})

	// --- Egg losses ---
	write("eggLoss:record", func(ctx context.Context, args Args) (interface{}, error) {
		req, err := bind[services.RecordEggLossRequest](args)
		if err != nil {
			return nil, err
		}
		return svc.EggLosses.RecordLoss(ctx, req)
	})
	read("eggLoss:getAll", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.EggLosses.GetLosses(ctx)
	})
	read("eggLoss:getByBatch", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.EggLosses.GetLossesByBatch(ctx, id)
	})
	read("eggLoss:getTotalLoss", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.EggLosses.TotalLoss(ctx)
	})
	read("eggLoss:getStats", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.EggLosses.StatsByReason(ctx)
	})
	read("eggLoss:getByReason", func(ctx context.Context, args Args) (interface{}, error) {
		reason, err := args.String(0)
		if err != nil {
			return nil, err
		}
		return svc.EggLosses.GetLossesByReason(ctx, reason)
	})
	read("eggLoss:getBatchStats", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.EggLosses.BatchStats(ctx, id)
	})
	write("eggLoss:delete", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		if err := svc.EggLosses.DeleteLoss(ctx, id); err != nil {
			return nil, err
		}
		return deleted(id), nil
	})

	// --- Debt ---
	read("debt:getOutstanding", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Ledger.OutstandingDebts(ctx)
	})
	read("debt:getTotalOutstanding", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Ledger.TotalOutstandingDebt(ctx)
	})
	write("debt:pay", func(ctx context.Context, args Args) (interface{}, error) {
		saleID, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		amount, err := args.Float64(1)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.PayDebt(ctx, saleID, amount)
	})
	write("debt:recordPayment", func(ctx context.Context, args Args) (interface{}, error) {
		saleID, amount, method, notes, err := ledgerArgs(args)
		if err != nil {
			return nil, err
		}
		m := ""
		if method != nil {
			m = *method
		}
		return svc.Ledger.RecordPayment(ctx, saleID, amount, m, notes)
	})
	read("debt:getPaymentHistory", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.PaymentHistory(ctx, id)
	})
	write("debt:deletePayment", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.DeletePayment(ctx, id)
	})
	write("debt:editPayment", func(ctx context.Context, args Args) (interface{}, error) {
		paymentID, amount, method, notes, err := ledgerArgs(args)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.EditPayment(ctx, paymentID, amount, method, notes)
	})

	// --- Change ---
	read("change:getOutstanding", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Ledger.OutstandingChange(ctx)
	})
	read("change:getTotalOutstanding", func(ctx context.Context, _ Args) (interface{}, error) {
		return svc.Ledger.TotalOutstandingChange(ctx)
	})
	write("change:return", func(ctx context.Context, args Args) (interface{}, error) {
		saleID, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.ReturnChange(ctx, saleID)
	})
	write("change:recordReturn", func(ctx context.Context, args Args) (interface{}, error) {
		saleID, amount, returnedBy, notes, err := ledgerArgs(args)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.RecordReturn(ctx, saleID, amount, returnedBy, notes)
	})
	read("change:getReturnHistory", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.ReturnHistory(ctx, id)
	})
	write("change:deleteReturn", func(ctx context.Context, args Args) (interface{}, error) {
		id, err := args.ID(0)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.DeleteReturn(ctx, id)
	})
	write("change:editReturn", func(ctx context.Context, args Args) (interface{}, error) {
		returnID, amount, returnedBy, notes, err := ledgerArgs(args)
		if err != nil {
			return nil, err
		}
		return svc.Ledger.EditReturn(ctx, returnID, amount, returnedBy, notes)
	})

	// --- System ---
	write("system:backup", func(ctx context.Context, args Args) (interface{}, error) {
		path, err := args.String(0)
		if err != nil {
			return nil, err
		}
		written, err := svc.Backups.Backup(ctx, path)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"success": true, "path": written}, nil
	})
	read("reports:exportWorkbook", func(ctx context.Context, args Args) (interface{}, error) {
		path, err := args.String(0)
		if err != nil {
			return nil, err
		}
		written, err := svc.Reports.ExportWorkbook(ctx, path)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"success": true, "path": written}, nil
	})

	return ops
}

// ledgerArgs reads the (id, amount, text?, notes?) shape shared by the ledger operations.
func ledgerArgs(args Args) (int64, float64, *string, *string, error) {
	id, err := args.ID(0)
	if err != nil {
		return 0, 0, nil, nil, err
	}
	amount, err := args.Float64(1)
	if err != nil {
		return 0, 0, nil, nil, err
	}
	text, err := args.OptionalString(2)
	if err != nil {
		return 0, 0, nil, nil, err
	}
	notes, err := args.OptionalString(3)
	if err != nil {
		return 0, 0, nil, nil, err
	}
	return id, amount, text, notes, nil
}
