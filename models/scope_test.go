package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newScopeTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:scope_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&Company{}, &Dish{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	// Shared cache keeps rows across connections; start each test clean.
	db.Exec("DELETE FROM dishes")
	db.Exec("DELETE FROM companies")
	return db
}

func seedScopedDishes(t *testing.T, db *gorm.DB) (mine, other Company) {
	t.Helper()

	mine = Company{Name: "Mia SRL", Active: true}
	other = Company{Name: "Ajena SRL", Active: true}
	if err := db.Create(&mine).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	dishes := []Dish{
		{CompanyID: mine.ID, Name: "Milanesa", Price: 1200, Active: true},
		{CompanyID: mine.ID, Name: "Empanada", Price: 350, Active: true},
		{CompanyID: other.ID, Name: "Pizza", Price: 900, Active: true},
	}
	if err := db.Create(&dishes).Error; err != nil {
		t.Fatalf("failed to seed dishes: %v", err)
	}
	return mine, other
}

func TestScopeForUser(t *testing.T) {
	companyID := uint(4)

	super := ScopeForUser(RoleSuperAdmin, nil)
	assert.True(t, super.Unrestricted())
	assert.True(t, super.AllowsCompany(4))
	assert.True(t, super.AllowsCompany(9))

	admin := ScopeForUser(RoleCompanyAdmin, &companyID)
	assert.False(t, admin.Unrestricted())
	got, ok := admin.CompanyID()
	assert.True(t, ok)
	assert.Equal(t, companyID, got)
	assert.True(t, admin.AllowsCompany(4))
	assert.False(t, admin.AllowsCompany(9))

	// A scoped role without a company must see nothing at all.
	zero := uint(0)
	for _, scope := range []CompanyScope{
		ScopeForUser(RoleEmployee, nil),
		ScopeForUser(RoleCompanyAdmin, nil),
		ScopeForUser(RoleEmployee, &zero),
	} {
		assert.False(t, scope.Unrestricted())
		_, ok := scope.CompanyID()
		assert.False(t, ok)
		assert.False(t, scope.AllowsCompany(4))
	}
}

func TestScopeApplyFiltersRows(t *testing.T) {
	db := newScopeTestDB(t)
	mine, _ := seedScopedDishes(t, db)

	var count int64
	assert.NoError(t, ScopeForUser(RoleSuperAdmin, nil).
		Apply(db.Model(&Dish{})).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	assert.NoError(t, ScopeForUser(RoleEmployee, &mine.ID).
		Apply(db.Model(&Dish{})).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	assert.NoError(t, ScopeForCompany(mine.ID).
		Apply(db.Model(&Dish{})).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	assert.NoError(t, ScopeForUser(RoleEmployee, nil).
		Apply(db.Model(&Dish{})).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestScopeApplyColumnQualifier(t *testing.T) {
	db := newScopeTestDB(t)
	mine, _ := seedScopedDishes(t, db)

	var count int64
	assert.NoError(t, ScopeForCompany(mine.ID).
		ApplyColumn(db.Model(&Dish{}), "dishes.company_id").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Valid())
	assert.True(t, RoleCompanyAdmin.Valid())
	assert.True(t, RoleEmployee.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())

	assert.True(t, RoleSuperAdmin.CanManageAllCompanies())
	assert.False(t, RoleCompanyAdmin.CanManageAllCompanies())

	assert.True(t, RoleSuperAdmin.CanManageOwnCompany())
	assert.True(t, RoleCompanyAdmin.CanManageOwnCompany())
	assert.False(t, RoleEmployee.CanManageOwnCompany())
}
