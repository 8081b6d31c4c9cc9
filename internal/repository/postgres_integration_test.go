//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB migrates a fresh schema on TEST_POSTGRES_DSN.
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	tables := models.AllModels()
	_ = db.Migrator().DropTable(tables...)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(tables...)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresPaintingSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPaintingRepository(db)

	seedPainting(t, db, "Médina au Crépuscule", constants.PaintingKindUnique, 8500)
	seedPainting(t, db, "Vagues de l'Atlas", constants.PaintingKindRecreatable, 3200)

	items, total, err := repo.List(PaintingListFilter{Page: 1, PageSize: 10, Search: "atlas"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Vagues de l'Atlas", items[0].Title)

	minPrice := int64(5000)
	items, total, err = repo.List(PaintingListFilter{Page: 1, PageSize: 10, MinPrice: &minPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, constants.PaintingKindUnique, items[0].Kind)
}

func TestPostgresCartVariantUniqueIndex(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCartRepository(db)
	painting := seedPainting(t, db, "Atlas", constants.PaintingKindRecreatable, 3200)

	require.NoError(t, repo.Create(&models.CartItem{UserID: 1, PaintingID: painting.ID, Quantity: 1, UnitPriceMAD: 3200}))
	assert.Error(t, repo.Create(&models.CartItem{UserID: 1, PaintingID: painting.ID, Quantity: 2, UnitPriceMAD: 3200}))
	require.NoError(t, repo.Create(&models.CartItem{UserID: 1, PaintingID: painting.ID, WidthCm: 40, HeightCm: 40, Quantity: 2, UnitPriceMAD: 1800}))

	sum, err := repo.SumQuantity(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum)
}

func TestPostgresOrderSearchAndDetail(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderRepository(db)
	painting := seedPainting(t, db, "Atlas", constants.PaintingKindUnique, 3200)
	user := &models.User{Email: "amina@example.com", Name: "Amina", PasswordHash: "x", Role: constants.RoleCustomer}
	require.NoError(t, db.Create(user).Error)

	order := &models.Order{
		Reference:   "PGREF001",
		UserID:      user.ID,
		Status:      constants.OrderStatusPendingReview,
		SubtotalMAD: 3200,
		TotalMAD:    3200,
		FullName:    "Amina Benali",
		Email:       "amina@example.com",
		Phone:       "+212612345678",
		Address:     "12 rue des Arts",
		City:        "Casablanca",
		PostalCode:  "20000",
	}
	items := []models.OrderItem{{PaintingID: painting.ID, Title: painting.Title, WidthCm: 50, HeightCm: 70, UnitPriceMAD: 3200, Quantity: 1}}
	history := &models.OrderStatusHistory{Status: constants.OrderStatusPendingReview, Note: "Commande créée"}
	require.NoError(t, repo.Create(order, items, history))

	list, total, err := repo.ListAdmin(OrderListFilter{Page: 1, PageSize: 10, Search: "BENALI"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	detail, err := repo.GetByIDAndUser(order.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Len(t, detail.Items, 1)
	assert.Len(t, detail.History, 1)
}
