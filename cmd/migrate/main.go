package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"tribodash/internal/ledger"
	"tribodash/internal/migration"

	"github.com/joho/godotenv"
)

// Creates or upgrades the load ledger schema and prints the latest loads.
func main() {
	_ = godotenv.Load()

	driver, dsn := os.Getenv("LEDGER_DRIVER"), os.Getenv("LEDGER_DSN")
	if len(os.Args) >= 3 {
		driver, dsn = os.Args[1], os.Args[2]
	}
	if driver == "" || dsn == "" {
		log.Fatal("Usage: migrate <postgres|sqlite> <dsn> (or set LEDGER_DRIVER and LEDGER_DSN)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Printf("Migrating %s ledger to schema %s", driver, migration.NewRunner().Version())
	l, err := ledger.Open(ctx, driver, dsn)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	defer l.Close()

	entries, err := l.Recent(ctx, 10)
	if err != nil {
		log.Fatalf("Failed to read ledger: %v", err)
	}
	log.Printf("Ledger ready, %d recent loads", len(entries))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		log.Fatalf("Failed to print loads: %v", err)
	}
}
