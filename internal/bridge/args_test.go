package bridge

import (
	"encoding/json"
	"errors"
	"testing"

	"poultry_farm_backend/internal/services"
)

func rawArgs(t *testing.T, values ...string) Args {
	t.Helper()
	out := make(Args, len(values))
	for i, v := range values {
		out[i] = json.RawMessage(v)
	}
	return out
}

func TestArgsInt64(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{`7`, 7, false},
		{`"12"`, 12, false},
		{`" 3 "`, 3, false},
		{`1.5`, 0, true},
		{`"abc"`, 0, true},
		{`true`, 0, true},
		{`null`, 0, true},
	}
	for _, tt := range tests {
		got, err := rawArgs(t, tt.raw).Int64(0)
		if tt.wantErr {
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("Int64(%s) err = %v, want ErrValidation", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("Int64(%s) = %d, %v; want %d", tt.raw, got, err, tt.want)
		}
	}
}

func TestArgsID(t *testing.T) {
	if _, err := rawArgs(t, `0`).ID(0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("ID(0) err = %v, want ErrValidation", err)
	}
	if _, err := (Args{}).ID(0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing ID err = %v, want ErrValidation", err)
	}
	if id, err := rawArgs(t, `"42"`).ID(0); err != nil || id != 42 {
		t.Fatalf("ID = %d, %v; want 42", id, err)
	}
}

func TestArgsOptional(t *testing.T) {
	args := rawArgs(t, `null`, `"note"`, `5`)

	if v, err := args.OptionalString(0); err != nil || v != nil {
		t.Fatalf("OptionalString(null) = %v, %v", v, err)
	}
	if v, err := args.OptionalString(1); err != nil || v == nil || *v != "note" {
		t.Fatalf("OptionalString(note) = %v, %v", v, err)
	}
	if v, err := args.OptionalInt64(2); err != nil || v == nil || *v != 5 {
		t.Fatalf("OptionalInt64(5) = %v, %v", v, err)
	}
	if v, err := args.OptionalInt64(9); err != nil || v != nil {
		t.Fatalf("OptionalInt64(out of range) = %v, %v", v, err)
	}
	if _, err := args.OptionalString(2); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("OptionalString(5) err = %v, want ErrValidation", err)
	}
}

func TestArgsFloat64AndBind(t *testing.T) {
	args := rawArgs(t, `"12.75"`, `{"name":"Kuku","product":"feed"}`, `[1`)

	if v, err := args.Float64(0); err != nil || v != 12.75 {
		t.Fatalf("Float64 = %v, %v; want 12.75", v, err)
	}

	var req services.CreateSupplierRequest
	if err := args.Bind(1, &req); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if req.Name != "Kuku" || req.Product != "feed" {
		t.Fatalf("bound %+v", req)
	}
	if err := args.Bind(2, &req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("Bind(malformed) err = %v, want ErrValidation", err)
	}
}

func TestArgsBindAcceptsNumericStrings(t *testing.T) {
	args := rawArgs(t,
		`{"sale_date":"2024-03-15","payment_method":"cash","amount_paid":"50","customer_phone":"0712345678",
		  "items":[{"item_type":"broiler","reference_id":"3","quantity":"2","unit_price":12.5}]}`,
		`{"sale_date":"2024-03-15","payment_method":"cash","items":[{"item_type":"egg","quantity":"two"}]}`,
	)

	var req services.SaleRequest
	if err := args.Bind(0, &req); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if req.AmountPaid == nil || *req.AmountPaid != 50 {
		t.Fatalf("amount_paid = %v, want 50", req.AmountPaid)
	}
	if req.CustomerPhone == nil || *req.CustomerPhone != "0712345678" {
		t.Fatalf("customer_phone = %v, want 0712345678", req.CustomerPhone)
	}
	if len(req.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(req.Items))
	}
	item := req.Items[0]
	if item.ReferenceID == nil || *item.ReferenceID != 3 || item.Quantity != 2 || item.UnitPrice != 12.5 {
		t.Fatalf("item = %+v, want reference 3, quantity 2, price 12.5", item)
	}

	if err := args.Bind(1, &req); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("Bind(non-numeric quantity) err = %v, want ErrValidation", err)
	}
}
