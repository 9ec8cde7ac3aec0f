package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/casacomida/orders-app/config"
	"github.com/casacomida/orders-app/models"
	"github.com/casacomida/orders-app/router"
	"github.com/casacomida/orders-app/services"
	"github.com/casacomida/orders-app/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

var testDBSeq int64

// testNow pins the clock so the slot window is always open during tests.
var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)

type testApp struct {
	db      *gorm.DB
	router  *gin.Engine
	cfg     *config.Config
	company models.Company
	dish    models.Dish
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Dish{},
		&models.Courier{},
		&models.Order{},
		&models.OrderItem{},
		&models.LedgerEntry{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	cfg := config.Load()

	company := models.Company{Name: "Casa de Comida", Active: true}
	company.ID = cfg.DefaultCompanyID
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	dish := models.Dish{CompanyID: company.ID, Name: "Milanesa napolitana", Price: 1200, Active: true}
	if err := db.Create(&dish).Error; err != nil {
		t.Fatalf("failed to seed dish: %v", err)
	}

	// No API key: the maps service answers with example data, nothing
	// leaves the process.
	maps := services.NewMapsService("", cfg.RestaurantName, cfg.OriginLat, cfg.OriginLon)
	settings := services.NewSettingsService(db)
	slots := services.NewSlotService(db, cfg.OpeningTime, cfg.ClosingTime, cfg.SlotIntervalMinutes, cfg.MaxOrdersPerSlot)
	slots.Now = func() time.Time { return testNow }
	delivery := services.NewDeliveryService(maps, settings, maps, cfg.DeliveryRadiusBlocks, cfg.BlockMeters, cfg.DefaultDeliveryFee)
	orders := services.NewOrderService(db, slots, settings, cfg.DefaultCourierPayout)
	orders.Now = slots.Now
	carts := services.NewCartService(services.NewMemoryCartStore())

	engine := router.SetupRouter(db, cfg, router.Services{
		Maps:     maps,
		Slots:    slots,
		Delivery: delivery,
		Orders:   orders,
		Settings: settings,
		Carts:    carts,
	})

	return &testApp{db: db, router: engine, cfg: cfg, company: company, dish: dish}
}

// do runs one request through the router. Cookies carry the cart session
// between calls, the token goes in the Authorization header.
func (app *testApp) do(t *testing.T, method, path string, body interface{}, token string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func seedStaffUser(t *testing.T, db *gorm.DB, role models.Role, companyID *uint) (models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Name:     "Staff",
		Surname:  "User",
		Email:    fmt.Sprintf("staff%d@example.com", atomic.AddInt64(&testDBSeq, 1)),
		Password: hash,
		Role:     role,
		Active:   true,
	}
	user.CompanyID = companyID
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), user.CompanyID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}
