package repository

import (
	"testing"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartVariantUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	p := seedPainting(t, db, "Kasbah", constants.PaintingKindRecreatable, 500)

	require.NoError(t, repo.Create(&models.CartItem{UserID: 1, PaintingID: p.ID, Quantity: 1, UnitPriceMAD: 500}))
	require.NoError(t, repo.Create(&models.CartItem{UserID: 1, PaintingID: p.ID, WidthCm: 60, HeightCm: 80, Quantity: 2, UnitPriceMAD: 900}))
	assert.Error(t, repo.Create(&models.CartItem{UserID: 1, PaintingID: p.ID, Quantity: 1, UnitPriceMAD: 500}))

	item, err := repo.GetVariant(1, p.ID, 60, 80)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity)

	require.NoError(t, repo.UpdateQuantity(item.ID, 5))
	total, err := repo.SumQuantity(1)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)

	removed, err := repo.ClearByUser(1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	total, err = repo.SumQuantity(1)
	require.NoError(t, err)
	assert.Zero(t, total)
}
