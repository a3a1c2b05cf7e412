package services

import (
	"context"
	"errors"
	"testing"
)

func (e *testEnv) feedItem(t *testing.T, quantity float64) int64 {
	t.Helper()
	sup := e.supplier(t)
	item, err := e.inventory.CreateItem(context.Background(), CreateInventoryItemRequest{
		SupplierID:  sup.ID,
		ItemName:    "Starter mash",
		Quantity:    quantity,
		Unit:        "kg",
		CostPerUnit: 1.2,
		DateAdded:   "2024-03-01",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return item.ID
}

func TestFeedConsumptionDrawsDownStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	batch := env.birdBatch(t, 100, 2)
	feed := env.feedItem(t, 50)

	if _, err := env.inventory.RecordFeedConsumption(ctx, RecordFeedConsumptionRequest{
		BatchID: batch.ID, InventoryID: feed, QuantityUsed: 12.5, ConsumptionDate: "2024-03-02",
	}); err != nil {
		t.Fatalf("RecordFeedConsumption: %v", err)
	}

	items, err := env.inventory.GetItems(ctx)
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 37.5 {
		t.Fatalf("unexpected items: %+v", items)
	}

	tests := []struct {
		name string
		req  RecordFeedConsumptionRequest
		want error
	}{
		{"more than on hand", RecordFeedConsumptionRequest{BatchID: batch.ID, InventoryID: feed, QuantityUsed: 37.6, ConsumptionDate: "2024-03-03"}, ErrInsufficientStock},
		{"missing batch", RecordFeedConsumptionRequest{BatchID: 999, InventoryID: feed, QuantityUsed: 1, ConsumptionDate: "2024-03-03"}, ErrBatchNotFound},
		{"missing item", RecordFeedConsumptionRequest{BatchID: batch.ID, InventoryID: 999, QuantityUsed: 1, ConsumptionDate: "2024-03-03"}, ErrInventoryNotFound},
		{"zero used", RecordFeedConsumptionRequest{BatchID: batch.ID, InventoryID: feed, QuantityUsed: 0, ConsumptionDate: "2024-03-03"}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.inventory.RecordFeedConsumption(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	records, err := env.inventory.GetFeedConsumption(ctx, &batch.ID)
	if err != nil || len(records) != 1 {
		t.Fatalf("GetFeedConsumption = %d rows, %v; want 1", len(records), err)
	}
}

func TestDeleteInventoryItemInUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	batch := env.birdBatch(t, 10, 2)
	feed := env.feedItem(t, 5)

	if _, err := env.inventory.RecordFeedConsumption(ctx, RecordFeedConsumptionRequest{
		BatchID: batch.ID, InventoryID: feed, QuantityUsed: 1, ConsumptionDate: "2024-03-02",
	}); err != nil {
		t.Fatalf("RecordFeedConsumption: %v", err)
	}
	if err := env.inventory.DeleteItem(ctx, feed); !errors.Is(err, ErrInUse) {
		t.Fatalf("err = %v, want ErrInUse", err)
	}

	// Deleting the batch removes its feed records, which frees the item.
	if err := env.broilers.DeleteBatch(ctx, batch.ID); err != nil {
		t.Fatalf("DeleteBatch: %v", err)
	}
	if err := env.inventory.DeleteItem(ctx, feed); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := env.inventory.DeleteItem(ctx, feed); !errors.Is(err, ErrInventoryNotFound) {
		t.Fatalf("err = %v, want ErrInventoryNotFound", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	feed := env.feedItem(t, 5)

	item, err := env.inventory.UpdateQuantity(ctx, feed, 42)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if item.Quantity != 42 {
		t.Fatalf("quantity = %v, want 42", item.Quantity)
	}
	if _, err := env.inventory.UpdateQuantity(ctx, feed, -1); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if _, err := env.inventory.UpdateQuantity(ctx, 999, 1); !errors.Is(err, ErrInventoryNotFound) {
		t.Fatalf("err = %v, want ErrInventoryNotFound", err)
	}

	value, err := env.inventory.TotalValue(ctx)
	if err != nil || value != 50.4 {
		t.Fatalf("TotalValue = %v, %v; want 50.4", value, err)
	}
}
