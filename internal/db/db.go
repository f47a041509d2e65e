package db

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/bay-scheduler/internal/config"
	"github.com/BruksfildServices01/bay-scheduler/internal/seed"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.GinMode == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("migrations applied")
	return nil
}

// Seed inserts reference data. Rows that already exist are left alone, so it
// can run on every deploy.
func Seed(ctx context.Context, db *gorm.DB, d seed.Data) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skip := clause.OnConflict{DoNothing: true}

		if len(d.Users) > 0 {
			if err := tx.Clauses(skip).Create(&d.Users).Error; err != nil {
				return fmt.Errorf("seed users: %w", err)
			}
		}
		if len(d.Vehicles) > 0 {
			if err := tx.Clauses(skip).Create(&d.Vehicles).Error; err != nil {
				return fmt.Errorf("seed vehicles: %w", err)
			}
		}
		if len(d.WorkingHours) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "day_of_week"}},
				DoNothing: true,
			}).Create(&d.WorkingHours).Error; err != nil {
				return fmt.Errorf("seed working hours: %w", err)
			}
		}

		// Bays and services have no natural key; only seed an empty table.
		var count int64
		if err := tx.Table("service_bays").Count(&count).Error; err != nil {
			return err
		}
		if count == 0 && len(d.Bays) > 0 {
			if err := tx.Create(&d.Bays).Error; err != nil {
				return fmt.Errorf("seed bays: %w", err)
			}
		}

		if err := tx.Table("services").Count(&count).Error; err != nil {
			return err
		}
		if count == 0 && len(d.Services) > 0 {
			if err := tx.Create(&d.Services).Error; err != nil {
				return fmt.Errorf("seed services: %w", err)
			}
		}

		// Explicit ids leave the sequences behind.
		for _, table := range []string{"users", "vehicles"} {
			if err := tx.Exec(fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT MAX(id) FROM %[1]s), 1))",
				table,
			)).Error; err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}

		return nil
	})
}
