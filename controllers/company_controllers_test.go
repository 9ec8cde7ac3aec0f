package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casacomida/orders-app/models"
)

func TestCompanyRoutesRequireSuperAdmin(t *testing.T) {
	app := newTestApp(t)

	_, token := seedStaffUser(t, app.db, models.RoleCompanyAdmin, &app.company.ID)
	w := app.do(t, http.MethodGet, "/api/staff/companies", nil, token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/api/staff/companies",
		map[string]interface{}{"name": "Nueva SRL"}, token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompanyLifecycle(t *testing.T) {
	app := newTestApp(t)
	_, token := seedStaffUser(t, app.db, models.RoleSuperAdmin, nil)

	w := app.do(t, http.MethodPost, "/api/staff/companies", map[string]interface{}{
		"name":    "Nueva SRL",
		"phone":   "+54 11 5555-0000",
		"address": "Calle Real 456",
	}, token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)["data"].(map[string]interface{})
	companyID := uint(created["id"].(float64))

	// Duplicate names are rejected.
	w = app.do(t, http.MethodPost, "/api/staff/companies",
		map[string]interface{}{"name": "Nueva SRL"}, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPatch, fmt.Sprintf("/api/staff/companies/%d", companyID),
		map[string]interface{}{"phone": "+54 11 5555-1111"}, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "+54 11 5555-1111", updated["phone"])
	assert.Equal(t, "Nueva SRL", updated["name"])

	w = app.do(t, http.MethodGet, "/api/staff/companies", nil, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	list := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, list, 2)
}

func TestDeactivateCompanyCascadesToUsers(t *testing.T) {
	app := newTestApp(t)
	_, superToken := seedStaffUser(t, app.db, models.RoleSuperAdmin, nil)

	other := models.Company{Name: "Ajena SRL", Active: true}
	assert.NoError(t, app.db.Create(&other).Error)
	staff, _ := seedStaffUser(t, app.db, models.RoleCompanyAdmin, &other.ID)

	w := app.do(t, http.MethodDelete, fmt.Sprintf("/api/staff/companies/%d", other.ID), nil, superToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var company models.Company
	assert.NoError(t, app.db.First(&company, other.ID).Error)
	assert.False(t, company.Active)

	var user models.User
	assert.NoError(t, app.db.First(&user, staff.ID).Error)
	assert.False(t, user.Active)

	// The deactivated admin can no longer log in.
	w = app.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    staff.Email,
		"password": "secret123",
	}, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
