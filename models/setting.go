package models

import "time"

// Well-known configuration keys.
const (
	SettingDeliveryFee   = "delivery_fee"
	SettingCourierPayout = "courier_payout_per_delivery"
)

// Setting is a key/value pair. CompanyID nil means the value is a global
// default; a row with the same key and a company id overrides it for that
// company. Last write wins, no history.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_settings_key_company" json:"key"`
	CompanyID *uint     `gorm:"uniqueIndex:idx_settings_key_company" json:"company_id,omitempty"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
