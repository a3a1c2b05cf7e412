// Package bridge is the named-operation surface the desktop UI calls. Each
// operation takes positional JSON arguments and returns one JSON value.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"poultry_farm_backend/internal/services"
	"poultry_farm_backend/pkg/utils"
)

var ErrUnknownOperation = errors.New("unknown operation")

type HandlerFunc func(ctx context.Context, args Args) (interface{}, error)

type Operation struct {
	Name    string
	Mutates bool
	Handler HandlerFunc
}

// Services are the dependencies the operation table dispatches to.
type Services struct {
	Suppliers  services.SupplierService
	Broilers   services.BroilerService
	BirdEvents services.BirdEventService
	Eggs       services.EggService
	EggLosses  services.EggLossService
	Inventory  services.InventoryService
	Sales      services.SaleService
	Ledger     services.LedgerService
	Accounting services.AccountingService
	Backups    services.BackupService
	Reports    services.ReportService
}

type Bridge struct {
	ops   map[string]Operation
	names []string
}

func New(svc Services) *Bridge {
	b := &Bridge{ops: make(map[string]Operation)}
	for _, op := range operations(svc) {
		if _, dup := b.ops[op.Name]; dup {
			panic("bridge: duplicate operation " + op.Name)
		}
		b.ops[op.Name] = op
		b.names = append(b.names, op.Name)
	}
	sort.Strings(b.names)
	return b
}

// Operations returns the registered operation names in sorted order.
func (b *Bridge) Operations() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

func (b *Bridge) Lookup(name string) (Operation, bool) {
	op, ok := b.ops[name]
	return op, ok
}

// Invoke runs one operation. Errors come back unchanged; store failures are logged here.
func (b *Bridge) Invoke(ctx context.Context, name string, args Args) (interface{}, error) {
	op, ok := b.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}

	start := time.Now()
	result, err := op.Handler(ctx, args)
	fields := map[string]interface{}{
		"operation": name,
		"args":      len(args),
		"latency":   time.Since(start).String(),
	}
	if err != nil {
		if IsDomainError(err) {
			utils.LogDebug("Operation rejected: "+err.Error(), fields)
		} else {
			utils.LogError(err, "Operation failed", fields)
		}
		return nil, err
	}
	if op.Mutates {
		utils.LogInfo("Operation applied", fields)
	} else {
		utils.LogDebug("Operation served", fields)
	}
	return result, nil
}

// IsDomainError reports whether err is a rejection the caller can act on,
// as opposed to a failure of the store.
func IsDomainError(err error) bool {
	for _, target := range []error{
		services.ErrValidation,
		services.ErrNotFound,
		services.ErrInUse,
		services.ErrDuplicate,
		services.ErrInsufficientStock,
		services.ErrLedgerInconsistent,
		ErrUnknownOperation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
