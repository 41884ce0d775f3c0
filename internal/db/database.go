// Package db opens the optional Postgres connection holding the
// imported shipment reports. The dashboard runs fine without it;
// shipping costs just come back as not found.
package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase connects to Postgres using either DATABASE_URL or the
// discrete DB_* variables. Returns (nil, nil) when nothing is
// configured so callers can treat the database as absent.
func NewDatabase() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		if os.Getenv("DB_HOST") == "" {
			return nil, nil
		}
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			envOrDefault("DB_PORT", "5432"),
			envOrDefault("DB_SSLMODE", "disable"),
		)
	}

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
