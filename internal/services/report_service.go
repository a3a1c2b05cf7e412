package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"poultry_farm_backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Summary"
	sheetSales    = "Sales"
	sheetBroilers = "Broilers"
)

type ReportService interface {
	// ExportWorkbook writes an .xlsx with the financial summary, all sales and bird batches.
	ExportWorkbook(ctx context.Context, path string) (string, error)
}

type reportService struct {
	accounting AccountingService
	sales      SaleService
	broilers   BroilerService
}

func NewReportService(accounting AccountingService, sales SaleService, broilers BroilerService) ReportService {
	return &reportService{accounting: accounting, sales: sales, broilers: broilers}
}

func (s *reportService) ExportWorkbook(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", validationError("export path is required")
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		path += ".xlsx"
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s already exists", ErrDuplicate, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to check export path: %w", err)
	}

	summary, err := s.accounting.FinancialSummary(ctx)
	if err != nil {
		return "", err
	}
	sales, err := s.sales.GetSales(ctx)
	if err != nil {
		return "", err
	}
	batches, err := s.broilers.GetBatchesWithAvailability(ctx)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return "", fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if err := writeRows(f, sheetSummary, []string{"Metric", "Amount"}, summaryRows(summary)); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(sheetSales); err != nil {
		return "", fmt.Errorf("failed to add sales sheet: %w", err)
	}
	saleRows := make([][]interface{}, 0, len(sales))
	for _, sale := range sales {
		saleRows = append(saleRows, []interface{}{
			sale.ID, string(sale.SaleDate), deref(sale.CustomerName), deref(sale.CustomerPhone),
			sale.PaymentMethod, sale.TotalAmount, sale.AmountPaid, sale.ChangeAmount, sale.DebtAmount,
			sale.Status, len(sale.Items),
		})
	}
	saleHeader := []string{"ID", "Date", "Customer", "Phone", "Payment Method", "Total", "Paid", "Change", "Debt", "Status", "Items"}
	if err := writeRows(f, sheetSales, saleHeader, saleRows); err != nil {
		return "", err
	}

	if _, err := f.NewSheet(sheetBroilers); err != nil {
		return "", fmt.Errorf("failed to add broilers sheet: %w", err)
	}
	batchRows := make([][]interface{}, 0, len(batches))
	for _, b := range batches {
		batchRows = append(batchRows, []interface{}{
			b.ID, deref(b.BatchCode), deref(b.SupplierName), string(b.DateReceived), b.QuantityReceived,
			b.CostPerBird, b.MortalityCount, b.HomeUseCount, b.SoldCount, b.AvailableBirds,
		})
	}
	batchHeader := []string{"ID", "Batch Code", "Supplier", "Received", "Quantity", "Cost/Bird", "Mortality", "Home Use", "Sold", "Available"}
	if err := writeRows(f, sheetBroilers, batchHeader, batchRows); err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

func summaryRows(s *models.FinancialSummary) [][]interface{} {
	return [][]interface{}{
		{"Broiler costs", s.BroilerCosts},
		{"Egg costs", s.EggCosts},
		{"Inventory costs", s.InventoryCosts},
		{"Total costs", s.TotalCosts},
		{"Egg revenue", s.EggRevenue},
		{"Broiler revenue", s.BroilerRevenue},
		{"Total revenue", s.TotalRevenue},
		{"Profit", s.Profit},
		{"Profit margin (%)", s.ProfitMargin},
	}
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
			}
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
