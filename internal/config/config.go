package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	DesignAPIURL    string
	DesignClientID  string
	DesignSecretKey string

	KafkaBrokers     []string
	KafkaRenderTopic string
	KafkaGroupID     string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  os.Getenv("APP_ENV"),
		AppPort: os.Getenv("APP_PORT"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),

		DesignAPIURL:    os.Getenv("DESIGN_API_URL"),
		DesignClientID:  os.Getenv("DESIGN_CLIENT_ID"),
		DesignSecretKey: os.Getenv("DESIGN_SECRET_KEY"),

		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaRenderTopic: os.Getenv("KAFKA_RENDER_TOPIC"),
		KafkaGroupID:     os.Getenv("KAFKA_GROUP_ID"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.KafkaRenderTopic == "" {
		cfg.KafkaRenderTopic = "render-status"
	}
	if cfg.KafkaGroupID == "" {
		cfg.KafkaGroupID = "fulfillment-core"
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
