package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pos-billing/internal/db"
	"pos-billing/internal/logging"
	"pos-billing/migrations"
)

// migrate applies the session store schema ahead of a deploy, so server
// instances start against a ready database.
func main() {
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("LOG_LEVEL"))
	url := os.Getenv("DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, url)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS, logger); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	logger.Info("all migrations processed")
}
