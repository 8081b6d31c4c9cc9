package models

import "time"

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Name      string     `gorm:"type:varchar(80);not null" json:"name"`
	Email     string     `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string     `gorm:"type:varchar(40)" json:"phone,omitempty"`
	Subject   string     `gorm:"type:varchar(120);not null" json:"subject"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	ReadAt    *time.Time `gorm:"index" json:"read_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
