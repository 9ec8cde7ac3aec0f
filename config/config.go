package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type Config struct {
	ServerPort  string
	DatabaseDSN string
	RedisURL    string
	JWTSecret   string

	GoogleMapsAPIKey string
	RestaurantName   string

	// Company that receives orders placed by unauthenticated customers.
	DefaultCompanyID uint

	// Branch coordinates used as delivery origin until the places lookup
	// refreshes them.
	OriginLat float64
	OriginLon float64

	OpeningTime         string
	ClosingTime         string
	SlotIntervalMinutes int
	MaxOrdersPerSlot    int

	DeliveryRadiusBlocks float64
	BlockMeters          float64
	DefaultDeliveryFee   float64
	DefaultCourierPayout float64
}

func Load() *Config {
	// Load .env file if exists
	godotenv.Load()

	return &Config{
		ServerPort:  getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:root@tcp(localhost:3306)/casacomida?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", "casa-comida-dev-secret"),

		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		RestaurantName:   getEnv("RESTAURANT_NAME", "Casa de Comida"),

		DefaultCompanyID: uint(getEnvAsInt("DEFAULT_COMPANY_ID", 1)),

		OriginLat: getEnvAsFloat("ORIGIN_LAT", -34.6037),
		OriginLon: getEnvAsFloat("ORIGIN_LON", -58.3816),

		OpeningTime:         getEnv("OPENING_TIME", "10:00"),
		ClosingTime:         getEnv("CLOSING_TIME", "23:00"),
		SlotIntervalMinutes: getEnvAsInt("SLOT_INTERVAL_MINUTES", 15),
		MaxOrdersPerSlot:    getEnvAsInt("MAX_ORDERS_PER_SLOT", 5),

		DeliveryRadiusBlocks: getEnvAsFloat("DELIVERY_RADIUS_BLOCKS", 30),
		BlockMeters:          getEnvAsFloat("BLOCK_METERS", 80),
		DefaultDeliveryFee:   getEnvAsFloat("DEFAULT_DELIVERY_FEE", 500),
		DefaultCourierPayout: getEnvAsFloat("DEFAULT_COURIER_PAYOUT", 300),
	}
}

// InitDB opens the MySQL connection used everywhere outside tests.
func InitDB(cfg *Config) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
