package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"plik-backend/internal/config"
	"plik-backend/internal/infrastructure/database"
	"plik-backend/internal/infrastructure/database/migrations"
	"plik-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	logger.Init(cfg.App.Environment)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("❌ Database unreachable: %v", err)
	}

	log.Printf("🗄️  Applying migrations to %s@%s/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Database)

	applied, err := database.ApplyMigrations(ctx, db, migrations.FS)
	if err != nil {
		log.Fatalf("❌ Migration failed after %d file(s): %v", applied, err)
	}

	log.Printf("✅ Migrations complete (%d applied)", applied)
}
