package repositories

import (
	"context"

	"poultry_farm_backend/internal/models"
)

// SupplierRepository defines the interface for supplier-related database operations.
type SupplierRepository interface {
	CreateSupplier(ctx context.Context, ex SQLExecutor, supplier *models.Supplier) (int64, error)
	GetSupplierByID(ctx context.Context, ex SQLExecutor, id int64) (*models.Supplier, error)
	GetSuppliers(ctx context.Context, ex SQLExecutor) ([]models.Supplier, error)
	UpdateSupplier(ctx context.Context, ex SQLExecutor, supplier *models.Supplier) error
	DeleteSupplier(ctx context.Context, ex SQLExecutor, id int64) error
	CountSuppliers(ctx context.Context, ex SQLExecutor) (int64, error)
	// CountReferences counts batches and inventory rows that point at the supplier.
	CountReferences(ctx context.Context, ex SQLExecutor, id int64) (int64, error)
}

type supplierRepository struct{}

// NewSupplierRepository creates a new instance of SupplierRepository.
func NewSupplierRepository() SupplierRepository {
	return &supplierRepository{}
}

const supplierColumns = `id, name, product, phone, email, address, created_at`

func (r *supplierRepository) CreateSupplier(ctx context.Context, ex SQLExecutor, supplier *models.Supplier) (int64, error) {
	id, err := insertReturningID(ctx, ex, "creating supplier",
		`INSERT INTO suppliers (name, product, phone, email, address) VALUES (?, ?, ?, ?, ?)`,
		supplier.Name, supplier.Product, supplier.Phone, supplier.Email, supplier.Address,
	)
	if err != nil {
		return 0, err
	}
	supplier.ID = id
	return id, nil
}

func (r *supplierRepository) GetSupplierByID(ctx context.Context, ex SQLExecutor, id int64) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	err := getOne(ctx, ex, supplier, "getting supplier by ID",
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *supplierRepository) GetSuppliers(ctx context.Context, ex SQLExecutor) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	err := selectAll(ctx, ex, &suppliers, "querying suppliers",
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY name ASC`)
	return suppliers, err
}

func (r *supplierRepository) UpdateSupplier(ctx context.Context, ex SQLExecutor, supplier *models.Supplier) error {
	return execAffecting(ctx, ex, "updating supplier",
		`UPDATE suppliers SET name = ?, product = ?, phone = ?, email = ?, address = ? WHERE id = ?`,
		supplier.Name, supplier.Product, supplier.Phone, supplier.Email, supplier.Address, supplier.ID,
	)
}

func (r *supplierRepository) DeleteSupplier(ctx context.Context, ex SQLExecutor, id int64) error {
	return execAffecting(ctx, ex, "deleting supplier", `DELETE FROM suppliers WHERE id = ?`, id)
}

func (r *supplierRepository) CountSuppliers(ctx context.Context, ex SQLExecutor) (int64, error) {
	return scalarInt(ctx, ex, "counting suppliers", `SELECT COUNT(*) FROM suppliers`)
}

func (r *supplierRepository) CountReferences(ctx context.Context, ex SQLExecutor, id int64) (int64, error) {
	return scalarInt(ctx, ex, "counting supplier references", `
		SELECT (SELECT COUNT(*) FROM bird_batches WHERE supplier_id = ?)
		     + (SELECT COUNT(*) FROM egg_batches WHERE supplier_id = ?)
		     + (SELECT COUNT(*) FROM inventory WHERE supplier_id = ?)`,
		id, id, id)
}
