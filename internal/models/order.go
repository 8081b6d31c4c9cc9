package models

import "time"

// Order is a placed order. Amounts are snapshots taken at placement.
type Order struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	Reference         string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"reference"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	Status            string    `gorm:"type:varchar(30);index;not null" json:"status"`
	SubtotalMAD       int64     `gorm:"not null;default:0" json:"subtotal_mad"`
	DiscountAmountMAD int64     `gorm:"not null;default:0" json:"discount_amount_mad"`
	ShippingFeeMAD    int64     `gorm:"not null;default:0" json:"shipping_fee_mad"`
	TotalMAD          int64     `gorm:"not null;default:0" json:"total_mad"`
	DiscountCodeID    *uint     `gorm:"index" json:"discount_code_id,omitempty"`
	DiscountPercent   int       `gorm:"not null;default:0" json:"discount_percent"`
	FullName          string    `gorm:"type:varchar(80);not null" json:"full_name"`
	Email             string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone             string    `gorm:"type:varchar(30);not null" json:"phone"`
	Address           string    `gorm:"type:varchar(160);not null" json:"address"`
	City              string    `gorm:"type:varchar(80);not null" json:"city"`
	PostalCode        string    `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country           string    `gorm:"type:varchar(2);not null;default:'MA'" json:"country"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Items        []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	History      []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"`
	User         *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DiscountCode *DiscountCode        `gorm:"foreignKey:DiscountCodeID" json:"discount_code,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderStatusHistory is an append-only log of status changes, creation included.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	Status    string    `gorm:"type:varchar(30);not null" json:"status"`
	Note      string    `gorm:"type:varchar(255)" json:"note"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
