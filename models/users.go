package models

import "time"

type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Email              string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password           string    `gorm:"type:varchar(255);not null" json:"-"`
	Name               string    `gorm:"type:varchar(255);not null" json:"name"`
	Surname            string    `gorm:"type:varchar(255);not null" json:"surname"`
	Role               Role      `gorm:"type:varchar(50);not null" json:"role"`
	CompanyID          *uint     `gorm:"index" json:"company_id,omitempty"`
	Active             bool      `gorm:"not null;default:true" json:"active"`
	MustChangePassword bool      `gorm:"not null;default:true" json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
