package models

import "time"

// OrderItem snapshots one cart line at placement time.
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	OrderID      uint      `gorm:"index;not null" json:"order_id"`
	PaintingID   uint      `gorm:"index;not null" json:"painting_id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	WidthCm      int       `gorm:"not null" json:"width_cm"`
	HeightCm     int       `gorm:"not null" json:"height_cm"`
	UnitPriceMAD int64     `gorm:"not null" json:"unit_price_mad"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
