package repository

import "time"

// PaintingListFilter filters the public catalog and the admin painting list.
type PaintingListFilter struct {
	Page          int
	PageSize      int
	Search        string
	ArtistID      uint
	StyleID       uint
	TechniqueID   uint
	Kind          string
	MinPrice      *int64
	MaxPrice      *int64
	MinWidth      *int
	MaxWidth      *int
	MinHeight     *int
	MaxHeight     *int
	OnlyAvailable bool
}

// OrderListFilter filters order lists for customers and admins.
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	Search      string // reference, customer email or name
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// DiscountListFilter filters the admin discount list.
type DiscountListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// ContactMessageListFilter filters the admin inbox.
type ContactMessageListFilter struct {
	Page       int
	PageSize   int
	UnreadOnly bool
}
