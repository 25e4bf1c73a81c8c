package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"garageQueue/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

// Open applies pending migrations itself, so "up" is opening the database.
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(d *sql.DB) error {
			v, err := db.Version(d, cfg.Database.Driver)
			if err != nil {
				return err
			}
			fmt.Printf("schema at version %d\n", v)
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(d *sql.DB) error {
			if err := db.RollbackLast(d, cfg.Database.Driver); err != nil {
				return err
			}
			v, err := db.Version(d, cfg.Database.Driver)
			if err != nil {
				return err
			}
			fmt.Printf("rolled back, schema at version %d\n", v)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(d *sql.DB) error {
			v, err := db.Version(d, cfg.Database.Driver)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		})
	},
}

func withDB(fn func(*sql.DB) error) error {
	d, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer d.Close()
	return fn(d)
}
