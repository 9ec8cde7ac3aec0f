package services

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/casacomida/orders-app/models"
)

// SettingsService reads and writes the key/value configuration table.
// A company-scoped row overrides the global one; a missing or malformed
// value falls back to the caller-supplied default and never errors.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the raw value for a key, preferring the company override.
func (ss *SettingsService) Get(key string, companyID *uint) (string, bool) {
	var setting models.Setting

	if companyID != nil && *companyID != 0 {
		err := ss.DB.Where("`key` = ? AND company_id = ?", key, *companyID).First(&setting).Error
		if err == nil {
			return setting.Value, true
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false
		}
	}

	err := ss.DB.Where("`key` = ? AND company_id IS NULL", key).First(&setting).Error
	if err != nil {
		return "", false
	}
	return setting.Value, true
}

// GetFloat is Get with numeric parsing. Anything that cannot be parsed is
// treated the same as a missing key.
func (ss *SettingsService) GetFloat(key string, companyID *uint, defaultValue float64) float64 {
	raw, ok := ss.Get(key, companyID)
	if !ok {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// Set stores a value, overwriting an existing row for the same key and
// scope.
func (ss *SettingsService) Set(key, value string, companyID *uint) error {
	var existing models.Setting

	query := ss.DB.Where("`key` = ?", key)
	if companyID != nil && *companyID != 0 {
		query = query.Where("company_id = ?", *companyID)
	} else {
		companyID = nil
		query = query.Where("company_id IS NULL")
	}

	err := query.First(&existing).Error
	switch {
	case err == nil:
		existing.Value = value
		return ss.DB.Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ss.DB.Create(&models.Setting{Key: key, Value: value, CompanyID: companyID}).Error
	default:
		return err
	}
}
