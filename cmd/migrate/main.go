package main

import (
	"context"
	"log"
	"os"
	"time"

	"payslip/internal/config"
	"payslip/internal/container"
	"payslip/internal/migration"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	driver, databaseURL := "postgres", os.Getenv("DATABASE_URL")
	if os.Getenv("REMOTE_STORE") == config.RemoteSQLite {
		driver, databaseURL = "sqlite3", os.Getenv("SQLITE_PATH")
	}
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	}
	if databaseURL == "" {
		log.Fatal("Usage: migrate <database_url> (or set DATABASE_URL; REMOTE_STORE=sqlite uses SQLITE_PATH)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := container.OpenDatabase(ctx, driver, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var runner migration.Migrator = migration.NewRunner()
	log.Printf("Applying schema version %s to %s (%d statements)", runner.Version(), driver, len(migration.Statements(driver)))
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migration complete")
}
