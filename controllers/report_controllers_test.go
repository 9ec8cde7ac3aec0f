package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/casacomida/orders-app/models"
)

func seedSoldDish(t *testing.T, app *testApp, companyID uint, name, category string, price float64) models.Dish {
	t.Helper()
	dish := models.Dish{CompanyID: companyID, Name: name, Category: category, Price: price, Active: true}
	if err := app.db.Create(&dish).Error; err != nil {
		t.Fatalf("failed to seed dish: %v", err)
	}
	return dish
}

func seedOrderWithItems(t *testing.T, app *testApp, companyID uint, method string, total float64, items map[uint]int) models.Order {
	t.Helper()
	order := models.Order{
		CompanyID:       companyID,
		CustomerName:    "Ana",
		CustomerSurname: "Gomez",
		TargetSlot:      time.Date(2026, 8, 30, 13, 0, 0, 0, time.Local),
		TotalAmount:     total,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentPending,
	}
	if err := app.db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	for dishID, qty := range items {
		item := models.OrderItem{OrderID: order.ID, DishID: dishID, Quantity: qty, UnitPrice: 100}
		if err := app.db.Create(&item).Error; err != nil {
			t.Fatalf("failed to seed order item: %v", err)
		}
	}
	return order
}

func TestSalesReportAggregatesOwnCompany(t *testing.T) {
	app := newTestApp(t)

	pizza := seedSoldDish(t, app, app.company.ID, "Pizza muzzarella", "pizzas", 900)
	flan := seedSoldDish(t, app, app.company.ID, "Flan casero", "postres", 400)

	other := models.Company{Name: "Ajena SRL", Active: true}
	assert.NoError(t, app.db.Create(&other).Error)
	foreign := seedSoldDish(t, app, other.ID, "Pizza ajena", "pizzas", 900)

	seedOrderWithItems(t, app, app.company.ID, "cash", 3100, map[uint]int{pizza.ID: 3, flan.ID: 1})
	seedOrderWithItems(t, app, app.company.ID, "card", 1800, map[uint]int{pizza.ID: 2})
	seedOrderWithItems(t, app, other.ID, "cash", 9000, map[uint]int{foreign.ID: 10})

	_, token := seedStaffUser(t, app.db, models.RoleCompanyAdmin, &app.company.ID)
	w := app.do(t, http.MethodGet, "/api/staff/reports/sales", nil, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})

	byCategory := data["by_category"].([]interface{})
	assert.Len(t, byCategory, 2)
	first := byCategory[0].(map[string]interface{})
	assert.Equal(t, "pizzas", first["category"])
	assert.Equal(t, float64(5), first["quantity"])
	second := byCategory[1].(map[string]interface{})
	assert.Equal(t, "postres", second["category"])
	assert.Equal(t, float64(1), second["quantity"])

	byDish := data["by_dish"].([]interface{})
	assert.Len(t, byDish, 2)
	topSeller := byDish[0].(map[string]interface{})
	assert.Equal(t, "Pizza muzzarella", topSeller["name"])
	assert.Equal(t, float64(5), topSeller["quantity"])

	payments := data["payment_methods"].([]interface{})
	assert.Len(t, payments, 2)
	cash := payments[0].(map[string]interface{})
	assert.Equal(t, "cash", cash["payment_method"])
	assert.Equal(t, float64(1), cash["orders"])
	assert.Equal(t, float64(3100), cash["total"])
	card := payments[1].(map[string]interface{})
	assert.Equal(t, "card", card["payment_method"])
	assert.Equal(t, float64(1800), card["total"])
}

func TestSalesReportRespectsDateRange(t *testing.T) {
	app := newTestApp(t)

	pizza := seedSoldDish(t, app, app.company.ID, "Pizza muzzarella", "pizzas", 900)
	seedOrderWithItems(t, app, app.company.ID, "cash", 2700, map[uint]int{pizza.ID: 3})

	_, token := seedStaffUser(t, app.db, models.RoleCompanyAdmin, &app.company.ID)

	// A window that starts after the order was created sees nothing.
	future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	w := app.do(t, http.MethodGet, "/api/staff/reports/sales?from="+future, nil, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Empty(t, data["by_category"])
	assert.Empty(t, data["by_dish"])
	assert.Empty(t, data["payment_methods"])

	w = app.do(t, http.MethodGet, "/api/staff/reports/sales?from=not-a-date", nil, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalesReportRequiresCompanyAdmin(t *testing.T) {
	app := newTestApp(t)

	_, token := seedStaffUser(t, app.db, models.RoleEmployee, &app.company.ID)
	w := app.do(t, http.MethodGet, "/api/staff/reports/sales", nil, token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
