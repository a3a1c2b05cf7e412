package services

import (
	"context"
	"errors"
	"fmt"

	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/internal/repositories"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SaleItemInput struct {
	ItemType    string  `json:"item_type" validate:"required,oneof=broiler egg"`
	ReferenceID *int64  `json:"reference_id"`
	Quantity    int64   `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// SaleRequest carries the header of a sale. TotalAmount is ignored when items are present.
type SaleRequest struct {
	CustomerName  *string         `json:"customer_name"`
	CustomerPhone *string         `json:"customer_phone"`
	SaleDate      string          `json:"sale_date" validate:"required,datetime=2006-01-02"`
	TotalAmount   *float64        `json:"total_amount" validate:"omitempty,gte=0"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash mobile_money bank_transfer credit"`
	AmountPaid    *float64        `json:"amount_paid" validate:"omitempty,gte=0"`
	Items         []SaleItemInput `json:"items" validate:"omitempty,dive"`
}

type SaleService interface {
	// CreateSale settles the sale (total, change, debt, status) and stores it with its items.
	CreateSale(ctx context.Context, req SaleRequest) (*models.Sale, error)
	AddItem(ctx context.Context, saleID int64, item SaleItemInput) (*models.SaleItem, error)
	GetSales(ctx context.Context) ([]models.Sale, error)
	GetSaleByID(ctx context.Context, id int64) (*models.Sale, error)
	GetSaleDetails(ctx context.Context, saleID int64) ([]models.SaleItemDetail, error)
	TotalSales(ctx context.Context, startDate, endDate *string) (float64, error)
	TotalsByPaymentMethod(ctx context.Context) ([]models.PaymentMethodTotal, error)
	// UpdateSale re-settles the header and deducts the recorded payment and return history.
	UpdateSale(ctx context.Context, id int64, req SaleRequest) (*models.Sale, error)
	DeleteSale(ctx context.Context, id int64) error
	DeleteItem(ctx context.Context, itemID int64) error

	GetUnassignedItems(ctx context.Context, itemType string) ([]models.UnassignedItem, error)
	AssignItemToBatch(ctx context.Context, itemType string, itemID, batchID int64) (*models.SaleItem, error)
}

type saleService struct {
	saleRepo    repositories.SaleRepository
	ledgerRepo  repositories.LedgerRepository
	broilerRepo repositories.BroilerRepository
	eggRepo     repositories.EggRepository
	db          *database.DB
}

func NewSaleService(
	saleRepo repositories.SaleRepository,
	ledgerRepo repositories.LedgerRepository,
	broilerRepo repositories.BroilerRepository,
	eggRepo repositories.EggRepository,
	db *database.DB,
) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		ledgerRepo:  ledgerRepo,
		broilerRepo: broilerRepo,
		eggRepo:     eggRepo,
		db:          db,
	}
}

// settlement is the computed money state of a sale header.
type settlement struct {
	total  decimal.Decimal
	paid   decimal.Decimal
	change decimal.Decimal
	debt   decimal.Decimal
}

// settle applies the sale rules: credit sales default to nothing paid, every other
// method defaults to paying the total.
func settle(total decimal.Decimal, method string, amountPaid *float64) settlement {
	paid := total
	if method == models.PaymentCredit {
		paid = decimal.Zero
	}
	if amountPaid != nil {
		paid = money(*amountPaid)
	}
	return settlement{
		total:  total,
		paid:   paid,
		change: maxZero(paid.Sub(total)),
		debt:   maxZero(total.Sub(paid)),
	}
}

func itemSubtotal(item SaleItemInput) decimal.Decimal {
	return money(item.UnitPrice).Mul(decimal.NewFromInt(item.Quantity)).Round(2)
}

type stockKey struct {
	itemType string
	batchID  int64
}

// checkStock sums requested quantities per batch and compares them with what the
// batch has left. Unassigned lines are not checked.
func (s *saleService) checkStock(ctx context.Context, ex repositories.SQLExecutor, items []models.SaleItem) error {
	requested := map[stockKey]int64{}
	var order []stockKey
	for _, item := range items {
		if item.ReferenceID == nil {
			continue
		}
		key := stockKey{item.ItemType, *item.ReferenceID}
		if _, ok := requested[key]; !ok {
			order = append(order, key)
		}
		requested[key] += item.Quantity
	}

	for _, key := range order {
		available, err := s.available(ctx, ex, key)
		if err != nil {
			return err
		}
		if requested[key] > available {
			return fmt.Errorf("%w: %s batch %d has %d available, sale requests %d",
				ErrInsufficientStock, key.itemType, key.batchID, available, requested[key])
		}
	}
	return nil
}

func (s *saleService) available(ctx context.Context, ex repositories.SQLExecutor, key stockKey) (int64, error) {
	switch key.itemType {
	case models.ItemBroiler:
		n, err := availableBirds(ctx, ex, s.broilerRepo, key.batchID)
		if errors.Is(err, ErrNotFound) {
			return 0, fmt.Errorf("%w: bird batch %d does not exist", ErrValidation, key.batchID)
		}
		return n, err
	case models.ItemEgg:
		avail, err := availableCrates(ctx, ex, s.eggRepo, key.batchID)
		if errors.Is(err, ErrNotFound) {
			return 0, fmt.Errorf("%w: egg batch %d does not exist", ErrValidation, key.batchID)
		}
		if err != nil {
			return 0, err
		}
		return avail.AvailableCrates, nil
	}
	return 0, validationError("unknown item type %q", key.itemType)
}

func toSaleItem(saleID int64, in SaleItemInput) models.SaleItem {
	return models.SaleItem{
		SaleID:      saleID,
		ItemType:    in.ItemType,
		ReferenceID: normalizeReference(in.ReferenceID),
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Subtotal:    toFloat(itemSubtotal(in)),
	}
}

func (s *saleService) CreateSale(ctx context.Context, req SaleRequest) (*models.Sale, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	total := decimal.Zero
	if len(req.Items) > 0 {
		for _, item := range req.Items {
			total = total.Add(itemSubtotal(item))
		}
	} else if req.TotalAmount != nil {
		total = money(*req.TotalAmount)
	}
	st := settle(total, req.PaymentMethod, req.AmountPaid)

	sale := &models.Sale{
		CustomerName:  trimmedOrNil(req.CustomerName),
		CustomerPhone: trimmedOrNil(req.CustomerPhone),
		SaleDate:      models.Date(req.SaleDate),
		TotalAmount:   toFloat(st.total),
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    toFloat(st.paid),
		ChangeAmount:  toFloat(st.change),
		DebtAmount:    toFloat(st.debt),
		Status:        models.SaleStatusCompleted,
	}
	if st.debt.IsPositive() {
		sale.Status = models.SaleStatusPartial
	}

	items := make([]models.SaleItem, 0, len(req.Items))
	for _, in := range req.Items {
		items = append(items, toSaleItem(0, in))
	}

	var id int64
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkStock(ctx, tx, items); err != nil {
			return err
		}
		var err error
		if id, err = s.saleRepo.CreateSale(ctx, tx, sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		for i := range items {
			items[i].SaleID = id
			if _, err := s.saleRepo.CreateItem(ctx, tx, &items[i]); err != nil {
				return fmt.Errorf("failed to create sale item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetSaleByID(ctx, id)
}

func (s *saleService) AddItem(ctx context.Context, saleID int64, in SaleItemInput) (*models.SaleItem, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	item := toSaleItem(saleID, in)
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.getSale(ctx, tx, saleID); err != nil {
			return err
		}
		if err := s.checkStock(ctx, tx, []models.SaleItem{item}); err != nil {
			return err
		}
		if _, err := s.saleRepo.CreateItem(ctx, tx, &item); err != nil {
			return fmt.Errorf("failed to add sale item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *saleService) getSale(ctx context.Context, ex repositories.SQLExecutor, id int64) (*models.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(ctx, ex, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

func (s *saleService) GetSales(ctx context.Context) ([]models.Sale, error) {
	sales, err := s.saleRepo.GetSales(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales: %w", err)
	}
	items, err := s.saleRepo.GetItems(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale items: %w", err)
	}

	bySale := make(map[int64][]models.SaleItem, len(sales))
	for _, item := range items {
		bySale[item.SaleID] = append(bySale[item.SaleID], item)
	}
	for i := range sales {
		sales[i].Items = bySale[sales[i].ID]
		if sales[i].Items == nil {
			sales[i].Items = []models.SaleItem{}
		}
	}
	return sales, nil
}

func (s *saleService) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	sale, err := s.getSale(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sale.Items, err = s.saleRepo.GetItemsBySale(ctx, s.db, id); err != nil {
		return nil, fmt.Errorf("failed to get sale items: %w", err)
	}
	return sale, nil
}

func (s *saleService) GetSaleDetails(ctx context.Context, saleID int64) ([]models.SaleItemDetail, error) {
	details, err := s.saleRepo.GetItemDetails(ctx, s.db, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale details: %w", err)
	}
	return details, nil
}

func (s *saleService) TotalSales(ctx context.Context, startDate, endDate *string) (float64, error) {
	var start, end *models.Date
	if startDate != nil && endDate != nil && *startDate != "" && *endDate != "" {
		a, b := models.Date(*startDate), models.Date(*endDate)
		start, end = &a, &b
	}
	total, err := s.saleRepo.TotalSales(ctx, s.db, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to sum sales: %w", err)
	}
	return toFloat(money(total)), nil
}

func (s *saleService) TotalsByPaymentMethod(ctx context.Context) ([]models.PaymentMethodTotal, error) {
	totals, err := s.saleRepo.TotalsByPaymentMethod(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by payment method: %w", err)
	}
	return totals, nil
}

func (s *saleService) UpdateSale(ctx context.Context, id int64, req SaleRequest) (*models.Sale, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		existing, err := s.getSale(ctx, tx, id)
		if err != nil {
			return err
		}

		subtotal, count, err := s.saleRepo.SumItemSubtotals(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to total sale items: %w", err)
		}
		total := decimal.Zero
		switch {
		case count > 0:
			total = money(subtotal)
		case req.TotalAmount != nil:
			total = money(*req.TotalAmount)
		}
		// An update without amount_paid keeps what was paid up front.
		amountPaid := req.AmountPaid
		if amountPaid == nil {
			amountPaid = &existing.AmountPaid
		}
		st := settle(total, req.PaymentMethod, amountPaid)

		paidBack, err := s.ledgerRepo.SumPayments(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to sum payment history: %w", err)
		}
		handedBack, err := s.ledgerRepo.SumReturns(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to sum return history: %w", err)
		}
		debt := st.debt.Sub(money(paidBack))
		change := st.change.Sub(money(handedBack))
		if debt.IsNegative() {
			return fmt.Errorf("%w: recorded payments of %s exceed the new debt of %s",
				ErrLedgerInconsistent, money(paidBack).StringFixed(2), st.debt.StringFixed(2))
		}
		if change.IsNegative() {
			return fmt.Errorf("%w: recorded returns of %s exceed the new change of %s",
				ErrLedgerInconsistent, money(handedBack).StringFixed(2), st.change.StringFixed(2))
		}

		sale := &models.Sale{
			ID:            id,
			CustomerName:  trimmedOrNil(req.CustomerName),
			CustomerPhone: trimmedOrNil(req.CustomerPhone),
			SaleDate:      models.Date(req.SaleDate),
			TotalAmount:   toFloat(st.total),
			PaymentMethod: req.PaymentMethod,
			AmountPaid:    toFloat(st.paid),
			ChangeAmount:  toFloat(change),
			DebtAmount:    toFloat(debt),
			Status:        models.SaleStatusCompleted,
		}
		switch {
		case debt.IsPositive():
			sale.Status = models.SaleStatusPartial
		case paidBack > 0:
			sale.Status = models.SaleStatusPaid
		}
		if err := s.saleRepo.UpdateSale(ctx, tx, sale); err != nil {
			return fmt.Errorf("failed to update sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetSaleByID(ctx, id)
}

func (s *saleService) DeleteSale(ctx context.Context, id int64) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.getSale(ctx, tx, id); err != nil {
			return err
		}
		if _, err := s.saleRepo.DeleteItemsBySale(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete sale items: %w", err)
		}
		if _, err := s.ledgerRepo.DeletePaymentsBySale(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete payment history: %w", err)
		}
		if _, err := s.ledgerRepo.DeleteReturnsBySale(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete return history: %w", err)
		}
		if err := s.saleRepo.DeleteSale(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete sale: %w", err)
		}
		return nil
	})
}

func (s *saleService) DeleteItem(ctx context.Context, itemID int64) error {
	if err := s.saleRepo.DeleteItem(ctx, s.db, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSaleItemNotFound
		}
		return fmt.Errorf("failed to delete sale item: %w", err)
	}
	return nil
}

func (s *saleService) GetUnassignedItems(ctx context.Context, itemType string) ([]models.UnassignedItem, error) {
	if itemType != models.ItemBroiler && itemType != models.ItemEgg {
		return nil, validationError("item type must be %q or %q", models.ItemBroiler, models.ItemEgg)
	}
	items, err := s.saleRepo.GetUnassignedItems(ctx, s.db, itemType)
	if err != nil {
		return nil, fmt.Errorf("failed to get unassigned %s items: %w", itemType, err)
	}
	return items, nil
}

func (s *saleService) AssignItemToBatch(ctx context.Context, itemType string, itemID, batchID int64) (*models.SaleItem, error) {
	if batchID <= 0 {
		return nil, validationError("batch id must be positive")
	}

	var item *models.SaleItem
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		item, err = s.saleRepo.GetItemByID(ctx, tx, itemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrSaleItemNotFound
			}
			return fmt.Errorf("failed to get sale item: %w", err)
		}
		if item.ItemType != itemType {
			return validationError("sale item %d is a %s item, not %s", itemID, item.ItemType, itemType)
		}

		key := stockKey{itemType, batchID}
		available, err := s.available(ctx, tx, key)
		if err != nil {
			if errors.Is(err, ErrValidation) {
				if itemType == models.ItemBroiler {
					return ErrBatchNotFound
				}
				return ErrEggBatchNotFound
			}
			return err
		}
		// A line already on this batch is counted in its sold total.
		if item.ReferenceID != nil && *item.ReferenceID == batchID {
			available += item.Quantity
		}
		if item.Quantity > available {
			return fmt.Errorf("%w: %s batch %d has %d available, item needs %d",
				ErrInsufficientStock, itemType, batchID, available, item.Quantity)
		}

		if err := s.saleRepo.AssignItem(ctx, tx, itemID, batchID); err != nil {
			return fmt.Errorf("failed to assign sale item: %w", err)
		}
		item.ReferenceID = &batchID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
