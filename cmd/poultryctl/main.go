package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"poultry_farm_backend/internal/bridge"
	"poultry_farm_backend/internal/config"
	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/models"
	"poultry_farm_backend/internal/services"
	"poultry_farm_backend/pkg/utils"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

type ctxKey struct{}

var dbKey ctxKey

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db-driver",
			Usage:   "Store driver (sqlite3 or postgres)",
			EnvVars: []string{"DB_DRIVER"},
		},
		&cli.StringFlag{
			Name:    "db-path",
			Usage:   "SQLite database file",
			EnvVars: []string{"DB_PATH"},
		},
		&cli.StringFlag{
			Name:    "db-dsn",
			Usage:   "Postgres connection string",
			EnvVars: []string{"DB_DSN"},
		},
	}
}

// initDB opens and migrates the store and keeps it in the command context.
func initDB(c *cli.Context) error {
	cfg := config.Load(c.String("env-file"))
	utils.InitLogger(c.String("log-level"))

	dbCfg := cfg.Database
	if v := c.String("db-driver"); v != "" {
		dbCfg.Driver = v
	}
	if v := c.String("db-path"); v != "" {
		dbCfg.Path = v
	}
	if v := c.String("db-dsn"); v != "" {
		dbCfg.DSN = v
	}

	db, err := database.OpenAndMigrate(c.Context, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*database.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func servicesFrom(c *cli.Context) (bridge.Services, error) {
	db, ok := c.Context.Value(dbKey).(*database.DB)
	if !ok || db == nil {
		return bridge.Services{}, errors.New("store is not open")
	}
	return bridge.NewServices(db), nil
}

func main() {
	app := &cli.App{
		Name:  "poultryctl",
		Usage: "Maintenance commands for the poultry farm record store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the schema and startup migrations",
				Flags:  storeFlags(),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, "store is up to date")
					return nil
				},
			},
			{
				Name:  "backup",
				Usage: "Write a copy of the store to a new file",
				Flags: append(storeFlags(),
					&cli.StringFlag{Name: "out", Usage: "Destination file (must not exist)"},
					&cli.StringFlag{Name: "dir", Usage: "Destination directory for a timestamped file", EnvVars: []string{"BACKUP_DIR"}},
				),
				Before: initDB,
				After:  closeDB,
				Action: runBackup,
			},
			{
				Name:  "export",
				Usage: "Export summary, sales and broiler batches to an .xlsx workbook",
				Flags: append(storeFlags(),
					&cli.StringFlag{Name: "out", Usage: "Destination .xlsx file", Required: true},
				),
				Before: initDB,
				After:  closeDB,
				Action: runExport,
			},
			{
				Name:  "unassigned",
				Usage: "List sale items that are not linked to a batch",
				Flags: append(storeFlags(),
					&cli.StringFlag{Name: "type", Usage: "broiler or egg", Value: models.ItemBroiler},
				),
				Before: initDB,
				After:  closeDB,
				Action: runUnassigned,
			},
			{
				Name:  "assign",
				Usage: "Link an unassigned sale item to a batch",
				Flags: append(storeFlags(),
					&cli.StringFlag{Name: "type", Usage: "broiler or egg", Required: true},
					&cli.Int64Flag{Name: "item", Usage: "Sale item id", Required: true},
					&cli.Int64Flag{Name: "batch", Usage: "Batch id", Required: true},
				),
				Before: initDB,
				After:  closeDB,
				Action: runAssign,
			},
			{
				Name:  "hash-pin",
				Usage: "Print the bcrypt hash of a PIN for AUTH_PIN_HASH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pin", Usage: "Operator PIN", Required: true},
				},
				Action: func(c *cli.Context) error {
					hash, err := services.HashPIN(c.String("pin"))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, hash)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("poultryctl failed")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runBackup(c *cli.Context) error {
	svc, err := servicesFrom(c)
	if err != nil {
		return err
	}
	var path string
	switch {
	case c.String("out") != "":
		path, err = svc.Backups.Backup(c.Context, c.String("out"))
	case c.String("dir") != "":
		path, err = svc.Backups.BackupToDir(c.Context, c.String("dir"))
	default:
		return errors.New("either --out or --dir is required")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

func runExport(c *cli.Context) error {
	svc, err := servicesFrom(c)
	if err != nil {
		return err
	}
	path, err := svc.Reports.ExportWorkbook(c.Context, c.String("out"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

func runUnassigned(c *cli.Context) error {
	svc, err := servicesFrom(c)
	if err != nil {
		return err
	}
	items, err := svc.Sales.GetUnassignedItems(c.Context, c.String("type"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tSALE\tDATE\tQTY\tUNIT PRICE\tCUSTOMER")
	for _, it := range items {
		customer := ""
		if it.CustomerName != nil {
			customer = *it.CustomerName
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%.2f\t%s\n", it.ID, it.SaleID, it.SaleDate, it.Quantity, it.UnitPrice, customer)
	}
	return w.Flush()
}

func runAssign(c *cli.Context) error {
	svc, err := servicesFrom(c)
	if err != nil {
		return err
	}
	item, err := svc.Sales.AssignItemToBatch(c.Context, c.String("type"), c.Int64("item"), c.Int64("batch"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "sale item %d assigned to %s batch %d\n", item.ID, item.ItemType, *item.ReferenceID)
	return nil
}
