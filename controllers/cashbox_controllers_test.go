package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/casacomida/orders-app/models"
)

func seedLedgerEntry(t *testing.T, app *testApp, companyID uint, entryType string, amount float64, courierID *uint) models.LedgerEntry {
	t.Helper()
	entry := models.LedgerEntry{
		CompanyID:  companyID,
		Type:       entryType,
		Amount:     amount,
		CourierID:  courierID,
		RecordedAt: time.Now(),
	}
	if err := app.db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed ledger entry: %v", err)
	}
	return entry
}

func TestGetLedgerBalance(t *testing.T) {
	app := newTestApp(t)

	seedLedgerEntry(t, app, app.company.ID, models.LedgerIncome, 1700, nil)
	seedLedgerEntry(t, app, app.company.ID, models.LedgerIncome, 2400, nil)
	seedLedgerEntry(t, app, app.company.ID, models.LedgerExpense, 500, nil)
	seedLedgerEntry(t, app, app.company.ID, models.LedgerCourierPayout, 300, nil)

	// Another tenant's money stays out of the numbers.
	other := models.Company{Name: "Ajena SRL", Active: true}
	assert.NoError(t, app.db.Create(&other).Error)
	seedLedgerEntry(t, app, other.ID, models.LedgerIncome, 99999, nil)

	_, token := seedStaffUser(t, app.db, models.RoleEmployee, &app.company.ID)
	w := app.do(t, http.MethodGet, "/api/staff/cashbox", nil, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 4100.0, data["income"])
	assert.Equal(t, 500.0, data["expenses"])
	assert.Equal(t, 300.0, data["courier_payouts"])
	assert.Equal(t, 3300.0, data["balance"])
	assert.Equal(t, "$ 3.300,00", data["balance_formatted"])
	assert.Len(t, data["entries"].([]interface{}), 4)
}

func TestGetLedgerDateFilter(t *testing.T) {
	app := newTestApp(t)

	old := models.LedgerEntry{
		CompanyID:  app.company.ID,
		Type:       models.LedgerIncome,
		Amount:     1000,
		RecordedAt: time.Now().AddDate(0, 0, -10),
	}
	assert.NoError(t, app.db.Create(&old).Error)

	_, token := seedStaffUser(t, app.db, models.RoleEmployee, &app.company.ID)

	// The default window is today, so the old entry is invisible.
	w := app.do(t, http.MethodGet, "/api/staff/cashbox", nil, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 0.0, data["income"])

	// A widened range picks it up.
	from := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	to := time.Now().Format("2006-01-02")
	w = app.do(t, http.MethodGet, "/api/staff/cashbox?from="+from+"&to="+to, nil, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 1000.0, data["income"])

	w = app.do(t, http.MethodGet, "/api/staff/cashbox?from=ayer", nil, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddExpense(t *testing.T) {
	app := newTestApp(t)
	_, token := seedStaffUser(t, app.db, models.RoleEmployee, &app.company.ID)

	w := app.do(t, http.MethodPost, "/api/staff/cashbox/expenses", map[string]interface{}{
		"amount":      1250.5,
		"description": "Compra de verduras",
	}, token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "expense", data["type"])
	assert.Equal(t, float64(app.company.ID), data["company_id"])

	// Zero and negative amounts are rejected.
	w = app.do(t, http.MethodPost, "/api/staff/cashbox/expenses", map[string]interface{}{
		"amount":      0,
		"description": "Nada",
	}, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourierReport(t *testing.T) {
	app := newTestApp(t)

	courier := models.Courier{CompanyID: app.company.ID, Name: "Luis", Surname: "Paz", Active: true}
	assert.NoError(t, app.db.Create(&courier).Error)
	otherCourier := models.Courier{CompanyID: app.company.ID, Name: "Mora", Surname: "Luna", Active: true}
	assert.NoError(t, app.db.Create(&otherCourier).Error)

	seedLedgerEntry(t, app, app.company.ID, models.LedgerCourierPayout, 300, &courier.ID)
	seedLedgerEntry(t, app, app.company.ID, models.LedgerCourierPayout, 300, &courier.ID)
	seedLedgerEntry(t, app, app.company.ID, models.LedgerCourierPayout, 300, &otherCourier.ID)

	_, token := seedStaffUser(t, app.db, models.RoleEmployee, &app.company.ID)
	w := app.do(t, http.MethodGet, "/api/staff/cashbox/courier-report", nil, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	rows := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, rows, 2)

	totals := map[string]float64{}
	for _, raw := range rows {
		row := raw.(map[string]interface{})
		totals[row["name"].(string)] = row["total"].(float64)
	}
	assert.Equal(t, 600.0, totals["Luis"])
	assert.Equal(t, 300.0, totals["Mora"])
}
