package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type columnInfo struct {
	Name    string `db:"name"`
	NotNull bool   `db:"notnull"`
}

// Migrate applies the schema and brings stores written by older releases up to date.
// Every step is idempotent, so it runs on each startup.
func (db *DB) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if !db.IsSQLite() {
		schema = postgresSchema
	}
	for _, stmt := range splitStatements(schema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	if err := db.addMissingColumns(ctx, "sales", salesOptionalColumns); err != nil {
		return err
	}
	if err := db.addMissingColumns(ctx, "egg_loss", eggLossOptionalColumns); err != nil {
		return err
	}
	if err := db.relaxSaleItemReference(ctx); err != nil {
		return err
	}

	if err := db.clearDanglingReferences(ctx); err != nil {
		return err
	}

	for _, stmt := range indexStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	log.Debug().Msg("Database migrations applied")
	return nil
}

// danglingReferenceSweeps unassign sale items whose reference is the legacy 0 sentinel
// or names a batch that does not exist, so a batch created later under that id
// never inherits them.
var danglingReferenceSweeps = []string{
	`UPDATE sales_items SET reference_id = NULL WHERE reference_id = 0`,
	`UPDATE sales_items SET reference_id = NULL
	 WHERE item_type = 'broiler' AND reference_id IS NOT NULL
	   AND NOT EXISTS (SELECT 1 FROM bird_batches b WHERE b.id = sales_items.reference_id)`,
	`UPDATE sales_items SET reference_id = NULL
	 WHERE item_type = 'egg' AND reference_id IS NOT NULL
	   AND NOT EXISTS (SELECT 1 FROM egg_batches e WHERE e.id = sales_items.reference_id)`,
}

func (db *DB) clearDanglingReferences(ctx context.Context) error {
	var cleared int64
	for _, stmt := range danglingReferenceSweeps {
		res, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("clearing dangling sale item references: %w", err)
		}
		n, _ := res.RowsAffected()
		cleared += n
	}
	if cleared > 0 {
		log.Info().Int64("rows", cleared).Msg("Marked sale items without a batch as unassigned")
	}
	return nil
}

func (db *DB) columns(ctx context.Context, table string) (map[string]columnInfo, error) {
	var cols []columnInfo
	var err error
	if db.IsSQLite() {
		err = db.SelectContext(ctx, &cols, `SELECT name, "notnull" FROM pragma_table_info(?)`, table)
	} else {
		err = db.SelectContext(ctx, &cols,
			`SELECT column_name AS name, (is_nullable = 'NO') AS "notnull"
			 FROM information_schema.columns
			 WHERE table_schema = current_schema() AND table_name = $1`, table)
	}
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	out := make(map[string]columnInfo, len(cols))
	for _, c := range cols {
		out[c.Name] = c
	}
	return out, nil
}

func (db *DB) addMissingColumns(ctx context.Context, table string, wanted []columnDef) error {
	existing, err := db.columns(ctx, table)
	if err != nil {
		return err
	}
	for _, col := range wanted {
		if _, ok := existing[col.name]; ok {
			continue
		}
		ddl := col.ddl
		if !db.IsSQLite() {
			ddl = strings.Replace(ddl, "REAL", "DOUBLE PRECISION", 1)
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, col.name, ddl)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", table, col.name, err)
		}
		log.Info().Str("table", table).Str("column", col.name).Msg("Added missing column")
	}
	return nil
}

// relaxSaleItemReference makes sales_items.reference_id nullable on stores created
// when the column was NOT NULL and 0 meant "unassigned".
func (db *DB) relaxSaleItemReference(ctx context.Context) error {
	cols, err := db.columns(ctx, "sales_items")
	if err != nil {
		return err
	}
	ref, ok := cols["reference_id"]
	if !ok || !ref.NotNull {
		return nil
	}

	if !db.IsSQLite() {
		if _, err := db.ExecContext(ctx, `ALTER TABLE sales_items ALTER COLUMN reference_id DROP NOT NULL`); err != nil {
			return fmt.Errorf("relaxing sales_items.reference_id: %w", err)
		}
		return nil
	}

	// SQLite cannot drop a NOT NULL constraint in place, so the table is rebuilt.
	err = db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmts := []string{
			`CREATE TABLE sales_items_rebuild (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sale_id INTEGER NOT NULL,
				item_type TEXT CHECK(item_type IN ('broiler', 'egg')) NOT NULL,
				reference_id INTEGER,
				quantity INTEGER NOT NULL,
				unit_price REAL NOT NULL,
				subtotal REAL NOT NULL,
				FOREIGN KEY (sale_id) REFERENCES sales(id)
			)`,
			`INSERT INTO sales_items_rebuild (id, sale_id, item_type, reference_id, quantity, unit_price, subtotal)
			 SELECT id, sale_id, item_type, NULLIF(reference_id, 0), quantity, unit_price, subtotal FROM sales_items`,
			`DROP TABLE sales_items`,
			`ALTER TABLE sales_items_rebuild RENAME TO sales_items`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuilding sales_items: %w", err)
	}
	log.Info().Msg("Rebuilt sales_items with a nullable reference_id")
	return nil
}

func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
