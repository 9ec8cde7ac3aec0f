package models

import "time"

const (
	LedgerIncome        = "income"
	LedgerExpense       = "expense"
	LedgerCourierPayout = "courier_payout"
)

// LedgerEntry is an append-only cash register record. Rows are created once
// per triggering event (order payment, manual expense) and never updated.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"index;not null" json:"company_id"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	OrderID     *uint     `gorm:"index" json:"order_id,omitempty"`
	CourierID   *uint     `gorm:"index" json:"courier_id,omitempty"`
	RecordedAt  time.Time `gorm:"index;not null" json:"recorded_at"`
}
