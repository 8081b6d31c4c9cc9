package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedPainting(t *testing.T, db *gorm.DB, title string, kind string, price int64) *models.Painting {
	t.Helper()
	painting := &models.Painting{
		Title:       title,
		Kind:        kind,
		PriceMAD:    price,
		WidthCm:     50,
		HeightCm:    70,
		Orientation: constants.OrientationPortrait,
		Available:   true,
	}
	require.NoError(t, db.Create(painting).Error)
	return painting
}
