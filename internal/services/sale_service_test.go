package services

import (
	"context"
	"errors"
	"testing"

	"poultry_farm_backend/internal/models"
)

func broilerLine(batchID int64, qty int64, price float64) SaleItemInput {
	return SaleItemInput{ItemType: models.ItemBroiler, ReferenceID: &batchID, Quantity: qty, UnitPrice: price}
}

func TestAvailabilityAfterMortalityAndSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	batch := env.birdBatch(t, 500, 3.5)

	if _, err := env.events.RecordEvent(ctx, RecordBirdEventRequest{
		BatchID: batch.ID, EventType: models.EventMortality, Quantity: 10, EventDate: "2024-03-05",
	}); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if _, err := env.sales.CreateSale(ctx, SaleRequest{
		SaleDate:      "2024-03-06",
		PaymentMethod: models.PaymentCash,
		Items:         []SaleItemInput{broilerLine(batch.ID, 50, 8)},
	}); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	available, err := env.broilers.AvailableBirds(ctx, batch.ID)
	if err != nil {
		t.Fatalf("AvailableBirds: %v", err)
	}
	if available != 440 {
		t.Fatalf("available = %d, want 440", available)
	}
}

func TestCreateSaleRejectsOversell(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	batch := env.birdBatch(t, 20, 3)

	tests := []struct {
		name  string
		items []SaleItemInput
	}{
		{"single line", []SaleItemInput{broilerLine(batch.ID, 21, 8)}},
		{"split across lines", []SaleItemInput{broilerLine(batch.ID, 12, 8), broilerLine(batch.ID, 9, 8)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sales.CreateSale(ctx, SaleRequest{
				SaleDate:      "2024-03-06",
				PaymentMethod: models.PaymentCash,
				Items:         tt.items,
			})
			if !errors.Is(err, ErrInsufficientStock) {
				t.Fatalf("err = %v, want ErrInsufficientStock", err)
			}
		})
	}

	sales, err := env.sales.GetSales(ctx)
	if err != nil {
		t.Fatalf("GetSales: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("rejected sales were persisted: %d rows", len(sales))
	}
}

func TestCreateSaleTotalsItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	birds := env.birdBatch(t, 100, 3)
	eggs := env.eggBatch(t, 30, 10)

	paid := 100.0
	sale, err := env.sales.CreateSale(ctx, SaleRequest{
		CustomerName:  ptr("  Grace  "),
		SaleDate:      "2024-03-07",
		TotalAmount:   ptr(1.0),
		PaymentMethod: models.PaymentMobileMoney,
		AmountPaid:    &paid,
		Items: []SaleItemInput{
			broilerLine(birds.ID, 5, 8.5),
			{ItemType: models.ItemEgg, ReferenceID: &eggs.ID, Quantity: 3, UnitPrice: 12},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if sale.TotalAmount != 78.5 {
		t.Fatalf("total = %v, want 78.5", sale.TotalAmount)
	}
	if sale.ChangeAmount != 21.5 || sale.DebtAmount != 0 {
		t.Fatalf("change/debt = %v/%v, want 21.5/0", sale.ChangeAmount, sale.DebtAmount)
	}
	if sale.CustomerName == nil || *sale.CustomerName != "Grace" {
		t.Fatalf("customer name = %v", sale.CustomerName)
	}
	if len(sale.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(sale.Items))
	}

	avail, err := env.eggs.Availability(ctx, eggs.ID)
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if avail.SoldCrates != 3 || avail.AvailableCrates != 27 {
		t.Fatalf("sold/available = %d/%d, want 3/27", avail.SoldCrates, avail.AvailableCrates)
	}
}

func TestCreateSaleValidation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		req  SaleRequest
	}{
		{"bad method", SaleRequest{SaleDate: "2024-03-01", PaymentMethod: "barter"}},
		{"bad date", SaleRequest{SaleDate: "03/01/2024", PaymentMethod: models.PaymentCash}},
		{"zero quantity", SaleRequest{SaleDate: "2024-03-01", PaymentMethod: models.PaymentCash,
			Items: []SaleItemInput{{ItemType: models.ItemEgg, Quantity: 0, UnitPrice: 1}}}},
		{"unknown item type", SaleRequest{SaleDate: "2024-03-01", PaymentMethod: models.PaymentCash,
			Items: []SaleItemInput{{ItemType: "duck", Quantity: 1, UnitPrice: 1}}}},
		{"missing batch", SaleRequest{SaleDate: "2024-03-01", PaymentMethod: models.PaymentCash,
			Items: []SaleItemInput{broilerLine(404, 1, 1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.sales.CreateSale(context.Background(), tt.req); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUnassignedItemsAndAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	batch := env.birdBatch(t, 10, 3)

	// A zero reference is stored as unassigned.
	sale, err := env.sales.CreateSale(ctx, SaleRequest{
		SaleDate:      "2024-03-08",
		PaymentMethod: models.PaymentCash,
		Items: []SaleItemInput{
			{ItemType: models.ItemBroiler, ReferenceID: ptr(int64(0)), Quantity: 6, UnitPrice: 8},
			{ItemType: models.ItemBroiler, Quantity: 6, UnitPrice: 8},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	unassigned, err := env.sales.GetUnassignedItems(ctx, models.ItemBroiler)
	if err != nil {
		t.Fatalf("GetUnassignedItems: %v", err)
	}
	if len(unassigned) != 2 {
		t.Fatalf("unassigned = %d, want 2", len(unassigned))
	}

	first, second := sale.Items[0].ID, sale.Items[1].ID
	item, err := env.sales.AssignItemToBatch(ctx, models.ItemBroiler, first, batch.ID)
	if err != nil {
		t.Fatalf("AssignItemToBatch: %v", err)
	}
	if item.ReferenceID == nil || *item.ReferenceID != batch.ID {
		t.Fatalf("reference = %v, want %d", item.ReferenceID, batch.ID)
	}
	// Reassigning to the same batch counts its own quantity as available.
	if _, err := env.sales.AssignItemToBatch(ctx, models.ItemBroiler, first, batch.ID); err != nil {
		t.Fatalf("reassign to same batch: %v", err)
	}

	if _, err := env.sales.AssignItemToBatch(ctx, models.ItemBroiler, second, batch.ID); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if _, err := env.sales.AssignItemToBatch(ctx, models.ItemEgg, second, batch.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("wrong type err = %v, want ErrValidation", err)
	}
	if _, err := env.sales.AssignItemToBatch(ctx, models.ItemBroiler, second, 999); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("missing batch err = %v, want ErrBatchNotFound", err)
	}
	if _, err := env.sales.AssignItemToBatch(ctx, models.ItemBroiler, 999, batch.ID); !errors.Is(err, ErrSaleItemNotFound) {
		t.Fatalf("missing item err = %v, want ErrSaleItemNotFound", err)
	}

	unassigned, _ = env.sales.GetUnassignedItems(ctx, models.ItemBroiler)
	if len(unassigned) != 1 {
		t.Fatalf("unassigned = %d, want 1", len(unassigned))
	}
	if _, err := env.sales.GetUnassignedItems(ctx, "duck"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestUpdateSaleDeductsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 60)

	if _, err := env.ledger.RecordPayment(ctx, sale.ID, 20, "", nil); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	req := SaleRequest{
		SaleDate:      "2024-03-10",
		TotalAmount:   ptr(120.0),
		PaymentMethod: models.PaymentCash,
		AmountPaid:    ptr(60.0),
	}
	updated, err := env.sales.UpdateSale(ctx, sale.ID, req)
	if err != nil {
		t.Fatalf("UpdateSale: %v", err)
	}
	if updated.TotalAmount != 120 || updated.DebtAmount != 40 || updated.Status != models.SaleStatusPartial {
		t.Fatalf("total=%v debt=%v status=%q, want 120 40 partial", updated.TotalAmount, updated.DebtAmount, updated.Status)
	}

	req.TotalAmount = ptr(80.0)
	updated, err = env.sales.UpdateSale(ctx, sale.ID, req)
	if err != nil {
		t.Fatalf("UpdateSale: %v", err)
	}
	if updated.DebtAmount != 0 || updated.Status != models.SaleStatusPaid {
		t.Fatalf("debt=%v status=%q, want 0 paid", updated.DebtAmount, updated.Status)
	}

	// Recorded payments of 20 no longer fit under a debt of 10.
	req.TotalAmount = ptr(70.0)
	if _, err := env.sales.UpdateSale(ctx, sale.ID, req); !errors.Is(err, ErrLedgerInconsistent) {
		t.Fatalf("err = %v, want ErrLedgerInconsistent", err)
	}
	if _, err := env.sales.UpdateSale(ctx, 999, req); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("err = %v, want ErrSaleNotFound", err)
	}
}

func TestUpdateSaleWithoutAmountPaidKeepsDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sale := env.cashSale(t, 100, 60)

	updated, err := env.sales.UpdateSale(ctx, sale.ID, SaleRequest{
		SaleDate:      "2024-03-11",
		TotalAmount:   ptr(100.0),
		PaymentMethod: models.PaymentCash,
	})
	if err != nil {
		t.Fatalf("UpdateSale: %v", err)
	}
	if updated.AmountPaid != 60 || updated.DebtAmount != 40 || updated.Status != models.SaleStatusPartial {
		t.Fatalf("paid=%v debt=%v status=%q, want 60 40 partial", updated.AmountPaid, updated.DebtAmount, updated.Status)
	}
	if updated.SaleDate != "2024-03-11" {
		t.Fatalf("sale date = %q, want 2024-03-11", updated.SaleDate)
	}
}

func TestDeleteSaleCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	batch := env.birdBatch(t, 10, 3)

	sale, err := env.sales.CreateSale(ctx, SaleRequest{
		SaleDate:      "2024-03-09",
		PaymentMethod: models.PaymentCash,
		AmountPaid:    ptr(10.0),
		Items:         []SaleItemInput{broilerLine(batch.ID, 4, 5)},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if _, err := env.ledger.RecordPayment(ctx, sale.ID, 5, "", nil); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if err := env.broilers.DeleteBatch(ctx, batch.ID); !errors.Is(err, ErrInUse) {
		t.Fatalf("DeleteBatch err = %v, want ErrInUse", err)
	}

	if err := env.sales.DeleteSale(ctx, sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if _, err := env.sales.GetSaleByID(ctx, sale.ID); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("err = %v, want ErrSaleNotFound", err)
	}
	if rows, _ := env.ledger.PaymentHistory(ctx, sale.ID); len(rows) != 0 {
		t.Fatalf("payment history survived: %d rows", len(rows))
	}
	if n, _ := env.broilers.AvailableBirds(ctx, batch.ID); n != 10 {
		t.Fatalf("available = %d, want 10", n)
	}
	if err := env.broilers.DeleteBatch(ctx, batch.ID); err != nil {
		t.Fatalf("DeleteBatch after sale removal: %v", err)
	}
	if err := env.sales.DeleteSale(ctx, sale.ID); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("second delete err = %v, want ErrSaleNotFound", err)
	}
}

func TestTotalSalesRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, date := range []string{"2024-02-28", "2024-03-01", "2024-03-31"} {
		total := 10.0
		if _, err := env.sales.CreateSale(ctx, SaleRequest{SaleDate: date, TotalAmount: &total, PaymentMethod: models.PaymentCash}); err != nil {
			t.Fatalf("CreateSale: %v", err)
		}
	}

	all, err := env.sales.TotalSales(ctx, nil, nil)
	if err != nil || all != 30 {
		t.Fatalf("TotalSales(all) = %v, %v; want 30", all, err)
	}
	march, err := env.sales.TotalSales(ctx, ptr("2024-03-01"), ptr("2024-03-31"))
	if err != nil || march != 20 {
		t.Fatalf("TotalSales(march) = %v, %v; want 20", march, err)
	}
}
