package main

import (
	"errors"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/config"
	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/router"
	"github.com/casacomida/orders-app/services"
	"github.com/casacomida/orders-app/utils"
)

func main() {
	utils.InitLogger()

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Dish{},
		&models.Courier{},
		&models.Order{},
		&models.OrderItem{},
		&models.LedgerEntry{},
		&models.Setting{},
	); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := seedDefaults(db, cfg); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed defaults: %v", err)
	}

	cartStore := newCartStore(cfg)

	maps := services.NewMapsService(cfg.GoogleMapsAPIKey, cfg.RestaurantName, cfg.OriginLat, cfg.OriginLon)
	settings := services.NewSettingsService(db)
	slots := services.NewSlotService(db, cfg.OpeningTime, cfg.ClosingTime, cfg.SlotIntervalMinutes, cfg.MaxOrdersPerSlot)
	delivery := services.NewDeliveryService(maps, settings, maps, cfg.DeliveryRadiusBlocks, cfg.BlockMeters, cfg.DefaultDeliveryFee)
	orders := services.NewOrderService(db, slots, settings, cfg.DefaultCourierPayout)
	carts := services.NewCartService(cartStore)

	r := router.SetupRouter(db, cfg, router.Services{
		Maps:     maps,
		Slots:    slots,
		Delivery: delivery,
		Orders:   orders,
		Settings: settings,
		Carts:    carts,
	})

	utils.InfoLogger.Printf("Server running on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start server: %v", err)
	}
}

// newCartStore connects to Redis when a URL is configured and falls back to
// the in-process store so local development works without one.
func newCartStore(cfg *config.Config) services.CartStore {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		utils.ErrorLogger.Printf("Invalid REDIS_URL, using in-memory cart store: %v", err)
		return services.NewMemoryCartStore()
	}
	return services.NewRedisCartStore(redis.NewClient(opts))
}

// seedDefaults creates the default company and the bootstrap super admin so a
// fresh install is usable immediately. Existing rows are left alone.
func seedDefaults(db *gorm.DB, cfg *config.Config) error {
	var company models.Company
	err := db.First(&company, cfg.DefaultCompanyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		company = models.Company{Name: cfg.RestaurantName, Active: true}
		company.ID = cfg.DefaultCompanyID
		if err := db.Create(&company).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Seeded default company %q", company.Name)
	} else if err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:               "System",
		Surname:            "Administrator",
		Email:              email,
		Password:           hashed,
		Role:               models.RoleSuperAdmin,
		Active:             true,
		MustChangePassword: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded super admin %s", admin.Email)
	return nil
}
