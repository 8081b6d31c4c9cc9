package service

import (
	"context"
	"testing"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/guestcart"
	"github.com/elwarcha/gallery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUniquePaintingTwiceKeepsOneUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "amina@example.com", constants.RoleCustomer)
	painting := f.seedPainting(t, "Médina bleue", constants.PaintingKindUnique, 3000)
	scope := CartScope{UserID: user.ID}

	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID}))
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID, Quantity: 3}))

	summary, err := f.carts.GetCart(ctx, scope, 0)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.Items[0].Quantity)
	assert.Equal(t, int64(3000), summary.SubtotalMAD)
	assert.Equal(t, int64(3000), summary.TotalMAD)
}

func TestAddRecreatableSizesAsSeparateLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "amina@example.com", constants.RoleCustomer)
	painting := f.seedPainting(t, "Atlas", constants.PaintingKindRecreatable, 1200,
		models.RecreationOption{WidthCm: 40, HeightCm: 60, PriceMAD: 900},
		models.RecreationOption{WidthCm: 80, HeightCm: 120, PriceMAD: 2100},
	)
	scope := CartScope{UserID: user.ID}

	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID, Quantity: 2}))
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID, WidthCm: intPtr(40), HeightCm: intPtr(60)}))
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID, WidthCm: intPtr(40), HeightCm: intPtr(60), Quantity: 2}))

	summary, err := f.carts.GetCart(ctx, scope, 10)
	require.NoError(t, err)
	require.Len(t, summary.Items, 2)
	byKey := map[string]CartLine{}
	for _, line := range summary.Items {
		byKey[line.Key] = line
	}
	base := byKey[guestcart.LineKey(painting.ID, nil, nil)]
	assert.Equal(t, 2, base.Quantity)
	assert.Equal(t, int64(2400), base.LineTotalMAD)
	sized := byKey[guestcart.LineKey(painting.ID, intPtr(40), intPtr(60))]
	assert.Equal(t, 3, sized.Quantity)
	assert.Equal(t, int64(900), sized.UnitPriceMAD)

	assert.Equal(t, int64(5100), summary.SubtotalMAD)
	assert.Equal(t, int64(510), summary.DiscountAmountMAD)
	assert.Equal(t, int64(4590), summary.TotalMAD)

	count, err := f.carts.CartCount(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestAddToCartRejectsUnknownSizeAndPainting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "amina@example.com", constants.RoleCustomer)
	painting := f.seedPainting(t, "Atlas", constants.PaintingKindRecreatable, 1200,
		models.RecreationOption{WidthCm: 40, HeightCm: 60, PriceMAD: 900},
	)
	scope := CartScope{UserID: user.ID}

	err := f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID, WidthCm: intPtr(41), HeightCm: intPtr(60)})
	assert.ErrorIs(t, err, ErrOptionNotFound)

	err = f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID, WidthCm: intPtr(40)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.carts.AddToCart(ctx, CartScope{UserID: 4242}, AddToCartInput{PaintingID: painting.ID})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGuestCartQuantityCapsAtTwenty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	painting := f.seedPainting(t, "Atlas", constants.PaintingKindRecreatable, 100)
	store := guestcart.NewMemoryStore()
	scope := CartScope{Guest: store}

	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID, Quantity: 15}))
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID, Quantity: 15}))

	require.Len(t, store.Saved, 1)
	assert.Equal(t, constants.CartMaxQuantity, store.Saved[0].Quantity)
	assert.Equal(t, 2, store.Saves)

	summary, err := f.carts.GetCart(ctx, scope, 0)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int64(2000), summary.SubtotalMAD)
}

func TestGuestCartClampsTamperedQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	unique := f.seedPainting(t, "Médina bleue", constants.PaintingKindUnique, 3000)
	recreatable := f.seedPainting(t, "Atlas", constants.PaintingKindRecreatable, 100)

	store := guestcart.NewMemoryStore(guestcart.Line{PaintingID: unique.ID, Quantity: 5})
	scope := CartScope{Guest: store}
	summary, err := f.carts.GetCart(ctx, scope, 0)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.Items[0].Quantity)
	assert.Equal(t, int64(3000), summary.SubtotalMAD)
	count, err := f.carts.CartCount(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	store = guestcart.NewMemoryStore(
		guestcart.Line{PaintingID: recreatable.ID, Quantity: 10},
		guestcart.Line{PaintingID: recreatable.ID, Quantity: 10},
	)
	scope = CartScope{Guest: store}
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: recreatable.ID, Quantity: 5}))
	require.Len(t, store.Saved, 1)
	assert.Equal(t, constants.CartMaxQuantity, store.Saved[0].Quantity)

	summary, err = f.carts.GetCart(ctx, scope, 0)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, constants.CartMaxQuantity, summary.Items[0].Quantity)
}

func TestGuestUpdateCollapsesDuplicateLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	painting := f.seedPainting(t, "Atlas", constants.PaintingKindRecreatable, 100)
	store := guestcart.NewMemoryStore(
		guestcart.Line{PaintingID: painting.ID, Quantity: 2},
		guestcart.Line{PaintingID: painting.ID, Quantity: 3},
	)
	scope := CartScope{Guest: store}

	require.NoError(t, f.carts.UpdateCartItem(ctx, scope, guestcart.LineKey(painting.ID, nil, nil), 4))
	require.Len(t, store.Saved, 1)
	assert.Equal(t, 4, store.Saved[0].Quantity)
}

func TestGuestCartDropsUnresolvableLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	painting := f.seedPainting(t, "Atlas", constants.PaintingKindRecreatable, 1200,
		models.RecreationOption{WidthCm: 40, HeightCm: 60, PriceMAD: 900},
	)
	store := guestcart.NewMemoryStore(
		guestcart.Line{PaintingID: painting.ID, WidthCm: intPtr(40), HeightCm: intPtr(60), Quantity: 1},
		guestcart.Line{PaintingID: painting.ID, WidthCm: intPtr(99), HeightCm: intPtr(99), Quantity: 1},
		guestcart.Line{PaintingID: 9999, Quantity: 2},
	)

	summary, err := f.carts.GetCart(ctx, CartScope{Guest: store}, 0)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int64(900), summary.TotalMAD)
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "amina@example.com", constants.RoleCustomer)
	unique := f.seedPainting(t, "Unique", constants.PaintingKindUnique, 500)
	recreatable := f.seedPainting(t, "Recreatable", constants.PaintingKindRecreatable, 300)
	scope := CartScope{UserID: user.ID}
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: unique.ID}))
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: recreatable.ID}))

	uniqueKey := guestcart.LineKey(unique.ID, nil, nil)
	recreatableKey := guestcart.LineKey(recreatable.ID, nil, nil)

	require.NoError(t, f.carts.UpdateCartItem(ctx, scope, uniqueKey, 5))
	require.NoError(t, f.carts.UpdateCartItem(ctx, scope, recreatableKey, 4))
	assert.ErrorIs(t, f.carts.UpdateCartItem(ctx, scope, recreatableKey, 21), ErrInvalidInput)
	assert.ErrorIs(t, f.carts.UpdateCartItem(ctx, scope, "not-a-key", 1), ErrInvalidInput)
	assert.ErrorIs(t, f.carts.UpdateCartItem(ctx, scope, guestcart.LineKey(recreatable.ID, intPtr(10), intPtr(10)), 1), ErrNotFound)

	count, err := f.carts.CartCount(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	require.NoError(t, f.carts.RemoveCartItem(ctx, scope, recreatableKey))
	assert.ErrorIs(t, f.carts.RemoveCartItem(ctx, scope, recreatableKey), ErrNotFound)

	removed, err := f.carts.ClearCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestPersistedCartKeepsPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "amina@example.com", constants.RoleCustomer)
	painting := f.seedPainting(t, "Atlas", constants.PaintingKindRecreatable, 1000)
	scope := CartScope{UserID: user.ID}
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: painting.ID}))

	require.NoError(t, f.db.Model(&models.Painting{}).Where("id = ?", painting.ID).Update("price_mad", 1500).Error)

	summary, err := f.carts.GetCart(ctx, scope, 0)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int64(1000), summary.Items[0].UnitPriceMAD)
}

func TestMergeGuestCartIntoUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "amina@example.com", constants.RoleCustomer)
	unique := f.seedPainting(t, "Unique", constants.PaintingKindUnique, 500)
	recreatable := f.seedPainting(t, "Recreatable", constants.PaintingKindRecreatable, 300,
		models.RecreationOption{WidthCm: 30, HeightCm: 40, PriceMAD: 200},
	)
	gone := f.seedPainting(t, "Gone", constants.PaintingKindRecreatable, 100)
	scope := CartScope{UserID: user.ID}
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: unique.ID}))
	require.NoError(t, f.carts.AddToCart(ctx, scope, AddToCartInput{PaintingID: recreatable.ID, Quantity: 12}))
	require.NoError(t, f.paintingRepo.Delete(gone.ID))

	store := guestcart.NewMemoryStore(
		guestcart.Line{PaintingID: unique.ID, Quantity: 1},
		guestcart.Line{PaintingID: recreatable.ID, Quantity: 10},
		guestcart.Line{PaintingID: recreatable.ID, WidthCm: intPtr(30), HeightCm: intPtr(40), Quantity: 2},
		guestcart.Line{PaintingID: recreatable.ID, WidthCm: intPtr(31), HeightCm: intPtr(40), Quantity: 2},
		guestcart.Line{PaintingID: gone.ID, Quantity: 1},
	)

	merged, err := f.carts.MergeGuestCartIntoUser(ctx, user.ID, store)
	require.NoError(t, err)
	assert.Equal(t, 3, merged)
	assert.Empty(t, store.Saved)

	summary, err := f.carts.GetCart(ctx, scope, 0)
	require.NoError(t, err)
	quantities := map[string]int{}
	for _, line := range summary.Items {
		quantities[line.Key] = line.Quantity
	}
	assert.Equal(t, map[string]int{
		guestcart.LineKey(unique.ID, nil, nil):                     1,
		guestcart.LineKey(recreatable.ID, nil, nil):                20,
		guestcart.LineKey(recreatable.ID, intPtr(30), intPtr(40)): 2,
	}, quantities)
}

func TestMergeClearsGuestCartEvenWhenNothingMerges(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "amina@example.com", constants.RoleCustomer)
	store := guestcart.NewMemoryStore(guestcart.Line{PaintingID: 12345, Quantity: 1})

	merged, err := f.carts.MergeGuestCartIntoUser(context.Background(), user.ID, store)
	require.NoError(t, err)
	assert.Zero(t, merged)
	assert.Empty(t, store.Saved)
	assert.Equal(t, 1, store.Saves)
}
