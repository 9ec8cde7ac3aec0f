package models

import "time"

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	CompanyID       uint        `gorm:"index;not null" json:"company_id"`
	CustomerName    string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerSurname string      `gorm:"type:varchar(255);not null" json:"customer_surname"`
	DeliveryAddress string      `gorm:"type:varchar(255)" json:"delivery_address"`
	IsDelivery      bool        `gorm:"not null" json:"is_delivery"`
	TargetSlot      time.Time   `gorm:"index;not null" json:"target_slot"`
	DeliveryFee     float64     `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	TotalAmount     float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod   string      `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentStatus   string      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaidAt          *time.Time  `json:"paid_at,omitempty"`
	CustomerLat     *float64    `json:"customer_lat,omitempty"`
	CustomerLon     *float64    `json:"customer_lon,omitempty"`
	CourierID       *uint       `gorm:"index" json:"courier_id,omitempty"`
	Courier         *Courier    `gorm:"foreignKey:CourierID" json:"courier,omitempty"`
	OrderItems      []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"not null" json:"updated_at"`
}

func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentPaid
}
