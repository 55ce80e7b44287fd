package main

import (
	"log"

	"sales-assist-bff/internal/config"
	"sales-assist-bff/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()
	if cfg.Infra.DatabaseURL == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Infra.DatabaseURL)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Pre-Migration: gen_random_uuid() is built in from Postgres 13, older servers need pgcrypto.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	log.Println("Running AutoMigrate for recent_sessions...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: Database migration completed successfully via GORM.")
}
