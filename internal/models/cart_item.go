package models

import "time"

// CartItem is a persisted cart line of an authenticated user.
// Width and height are 0 when the line uses the painting's own size, which keeps
// the (user, painting, width, height) unique index meaningful for that variant.
type CartItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"user_id"`
	PaintingID   uint      `gorm:"not null;uniqueIndex:idx_cart_variant" json:"painting_id"`
	WidthCm      int       `gorm:"not null;default:0;uniqueIndex:idx_cart_variant" json:"width_cm"`
	HeightCm     int       `gorm:"not null;default:0;uniqueIndex:idx_cart_variant" json:"height_cm"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	UnitPriceMAD int64     `gorm:"not null" json:"unit_price_mad"` // price snapshot taken when the row was created
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
