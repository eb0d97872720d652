package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Ayush3323/printingbackend/internal/config"
	"github.com/Ayush3323/printingbackend/internal/logger"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func InitDB(cfg *config.Config) *sql.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	database, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.L().Fatal("failed to open database", zap.Error(err))
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(30 * time.Minute)

	if err = database.Ping(); err != nil {
		logger.L().Fatal("failed to ping database", zap.Error(err))
	}

	logger.L().Info("database connection established",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)
	return database
}
