package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB      DBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Server  ServerConfig
	History HistoryConfig
	Risk    RiskConfig
}

type DBConfig struct {
	DBPath string // path to the SQLite file
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type KafkaConfig struct {
	Brokers          []string
	TransactionTopic string
	ConsumerGroupID  string
}

type ServerConfig struct {
	IngestionPort int
	ReviewPort    int
	GRPCPort      int
}

// HistoryConfig bounds the per-entity window. A zero MaxEntries or Horizon
// disables that half of the capacity policy.
type HistoryConfig struct {
	MaxEntries       int
	Horizon          time.Duration
	VelocityInterval time.Duration
}

// RiskConfig is the scoring threshold policy. Weights are additive and the
// combined score is clamped to [0,1].
type RiskConfig struct {
	HighAmountThreshold float64
	AmountWeight        float64
	VelocityThreshold   int
	VelocityWeight      float64
	GeoMismatchPenalty  float64
	FlagThreshold       float64
	ReviewAll           bool
}

func Load() *Config {
	// Load .env if present; fall back to plain environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		DB: DBConfig{
			DBPath: getEnv("DB_PATH", "./data/fraud_review.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers:          []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			TransactionTopic: getEnv("KAFKA_TRANSACTION_TOPIC", "transactions"),
			ConsumerGroupID:  getEnv("KAFKA_CONSUMER_GROUP", "risk-review-group"),
		},
		Server: ServerConfig{
			IngestionPort: getEnvAsInt("INGESTION_SERVICE_PORT", 8080),
			ReviewPort:    getEnvAsInt("REVIEW_SERVICE_PORT", 8081),
			GRPCPort:      getEnvAsInt("GRPC_PORT", 50051),
		},
		History: HistoryConfig{
			MaxEntries:       getEnvAsInt("HISTORY_WINDOW_SIZE", 50),
			Horizon:          time.Duration(getEnvAsInt("HISTORY_HORIZON_MINUTES", 0)) * time.Minute,
			VelocityInterval: time.Duration(getEnvAsInt("VELOCITY_INTERVAL_SECONDS", 300)) * time.Second,
		},
		Risk: RiskConfig{
			HighAmountThreshold: getEnvAsFloat("RISK_HIGH_AMOUNT_THRESHOLD", 1000.0),
			AmountWeight:        getEnvAsFloat("RISK_AMOUNT_WEIGHT", 0.75),
			VelocityThreshold:   getEnvAsInt("RISK_VELOCITY_THRESHOLD", 5),
			VelocityWeight:      getEnvAsFloat("RISK_VELOCITY_WEIGHT", 0.35),
			GeoMismatchPenalty:  getEnvAsFloat("RISK_GEO_MISMATCH_PENALTY", 0.30),
			FlagThreshold:       getEnvAsFloat("RISK_FLAG_THRESHOLD", 0.7),
			ReviewAll:           getEnvAsBool("RISK_REVIEW_ALL", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
