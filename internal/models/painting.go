package models

import (
	"time"

	"github.com/elwarcha/gallery/internal/constants"
)

// Painting is a catalog item. Prices are whole MAD.
type Painting struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Title         string    `gorm:"type:varchar(200);not null;index" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Kind          string    `gorm:"type:varchar(20);not null;index" json:"kind"` // UNIQUE / RECREATABLE
	PriceMAD      int64     `gorm:"not null;default:0;index" json:"price_mad"`
	WidthCm       int       `gorm:"not null;default:0" json:"width_cm"`
	HeightCm      int       `gorm:"not null;default:0" json:"height_cm"`
	Orientation   string    `gorm:"type:varchar(20);not null" json:"orientation"`
	Available     bool      `gorm:"not null;default:true" json:"available"`
	LeadTimeWeeks string    `gorm:"type:varchar(50)" json:"lead_time_weeks,omitempty"`
	ArtistID      *uint     `gorm:"index" json:"artist_id,omitempty"`
	StyleID       *uint     `gorm:"index" json:"style_id,omitempty"`
	TechniqueID   *uint     `gorm:"index" json:"technique_id,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Artist            *Artist            `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Style             *Style             `gorm:"foreignKey:StyleID" json:"style,omitempty"`
	Technique         *Technique         `gorm:"foreignKey:TechniqueID" json:"technique,omitempty"`
	Images            []PaintingImage    `gorm:"foreignKey:PaintingID" json:"images,omitempty"`
	RecreationOptions []RecreationOption `gorm:"foreignKey:PaintingID" json:"recreation_options,omitempty"`
}

func (Painting) TableName() string {
	return "paintings"
}

// IsUnique reports whether the painting is one-of-a-kind.
func (p *Painting) IsUnique() bool {
	return p != nil && p.Kind == constants.PaintingKindUnique
}

// PaintingImage is an ordered image of a painting.
type PaintingImage struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	PaintingID uint      `gorm:"not null;index" json:"painting_id"`
	URL        string    `gorm:"type:varchar(500);not null" json:"url"`
	Alt        string    `gorm:"type:varchar(200)" json:"alt"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PaintingImage) TableName() string {
	return "painting_images"
}

// RecreationOption overrides size and price for a custom-size order of a RECREATABLE painting.
type RecreationOption struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	PaintingID uint      `gorm:"not null;uniqueIndex:idx_recreation_variant" json:"painting_id"`
	WidthCm    int       `gorm:"not null;uniqueIndex:idx_recreation_variant" json:"width_cm"`
	HeightCm   int       `gorm:"not null;uniqueIndex:idx_recreation_variant" json:"height_cm"`
	PriceMAD   int64     `gorm:"not null" json:"price_mad"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (RecreationOption) TableName() string {
	return "recreation_options"
}
