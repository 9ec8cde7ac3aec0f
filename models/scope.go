package models

import "gorm.io/gorm"

// Role is a closed set. Authorization decisions go through the capability
// methods below, never through string comparison at call sites.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
	RoleEmployee     Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyAdmin, RoleEmployee:
		return true
	}
	return false
}

// CanManageAllCompanies reports whether the role bypasses company filtering.
func (r Role) CanManageAllCompanies() bool {
	return r == RoleSuperAdmin
}

// CanManageOwnCompany reports whether the role may administer catalog,
// couriers, settings and users of its own company.
func (r Role) CanManageOwnCompany() bool {
	return r == RoleSuperAdmin || r == RoleCompanyAdmin
}

type scopeMode int

const (
	scopeUnrestricted scopeMode = iota
	scopeCompany
	scopeDenied
)

// CompanyScope is the row-level filter every query on company-owned rows
// must apply. It is built once per request and passed down explicitly; no
// query re-derives the filter on its own.
type CompanyScope struct {
	mode      scopeMode
	companyID uint
}

// ScopeForUser derives the scope from an authenticated staff identity.
// A non-super_admin user without a company gets the denied scope: a
// misconfigured account must see zero rows, never someone else's.
func ScopeForUser(role Role, companyID *uint) CompanyScope {
	if role.CanManageAllCompanies() {
		return CompanyScope{mode: scopeUnrestricted}
	}
	if companyID == nil || *companyID == 0 {
		return CompanyScope{mode: scopeDenied}
	}
	return CompanyScope{mode: scopeCompany, companyID: *companyID}
}

// ScopeForCompany pins the scope to one company. Used at the public order
// boundary, where there is no staff identity and the configured default
// company applies.
func ScopeForCompany(companyID uint) CompanyScope {
	return CompanyScope{mode: scopeCompany, companyID: companyID}
}

// Unrestricted reports whether the scope filters nothing.
func (s CompanyScope) Unrestricted() bool {
	return s.mode == scopeUnrestricted
}

// CompanyID returns the pinned company id and whether one exists.
func (s CompanyScope) CompanyID() (uint, bool) {
	if s.mode == scopeCompany {
		return s.companyID, true
	}
	return 0, false
}

// Apply attaches the scope predicate to a query on a table with a
// company_id column.
func (s CompanyScope) Apply(db *gorm.DB) *gorm.DB {
	return s.ApplyColumn(db, "company_id")
}

// ApplyColumn is Apply with an explicit column reference, for joined
// queries that need a table qualifier.
func (s CompanyScope) ApplyColumn(db *gorm.DB, column string) *gorm.DB {
	switch s.mode {
	case scopeUnrestricted:
		return db
	case scopeCompany:
		return db.Where(column+" = ?", s.companyID)
	default:
		return db.Where("1 = 0")
	}
}

// AllowsCompany reports whether rows of the given company are visible.
func (s CompanyScope) AllowsCompany(companyID uint) bool {
	switch s.mode {
	case scopeUnrestricted:
		return true
	case scopeCompany:
		return s.companyID == companyID
	default:
		return false
	}
}
