package models

import "time"

type Courier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CompanyID uint      `gorm:"index;not null" json:"company_id"`
	Company   Company   `gorm:"foreignKey:CompanyID" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Surname   string    `gorm:"type:varchar(255);not null" json:"surname"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
