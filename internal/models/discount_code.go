package models

import "time"

// DiscountCode is a percentage promo code valid inside an optional time window.
type DiscountCode struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Code      string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"` // stored upper-case
	Percent   int        `gorm:"not null" json:"percent"`
	StartsAt  *time.Time `gorm:"index" json:"starts_at"`
	EndsAt    *time.Time `gorm:"index" json:"ends_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (DiscountCode) TableName() string {
	return "discount_codes"
}
