package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vintervu/config"
)

// NewDatabase opens (or creates) the single-file sqlite store.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
		return nil, fmt.Errorf("failed to open database at %s: %w", cfg.Database.Path, err)
	}
	log.Info().Str("path", cfg.Database.Path).Msg("Database connection established")
	return db, nil
}
