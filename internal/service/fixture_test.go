package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)
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

// stubNotifier records notifications and optionally fails them.
type stubNotifier struct {
	mu       sync.Mutex
	placed   []uint
	statuses []string
	err      error
}

func (n *stubNotifier) NotifyOrderPlaced(orderID uint) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, orderID)
	return n.err
}

func (n *stubNotifier) NotifyOrderStatus(orderID uint, status string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, fmt.Sprintf("%d:%s", orderID, status))
	return n.err
}

type fixture struct {
	db           *gorm.DB
	paintingRepo *repository.GormPaintingRepository
	taxonomyRepo *repository.GormTaxonomyRepository
	cartRepo     *repository.GormCartRepository
	orderRepo    *repository.GormOrderRepository
	userRepo     *repository.GormUserRepository
	discountRepo *repository.GormDiscountRepository
	carts        *CartService
	discounts    *DiscountService
	checkout     *CheckoutService
	orders       *OrderService
	catalog      *CatalogService
	notifier     *stubNotifier
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	retry := models.NewRetryPolicy(0, time.Millisecond)
	f := &fixture{
		db:           db,
		paintingRepo: repository.NewPaintingRepository(db),
		taxonomyRepo: repository.NewTaxonomyRepository(db),
		cartRepo:     repository.NewCartRepository(db),
		orderRepo:    repository.NewOrderRepository(db),
		userRepo:     repository.NewUserRepository(db),
		discountRepo: repository.NewDiscountRepository(db),
		notifier:     &stubNotifier{},
		now:          time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.carts = NewCartService(db, f.cartRepo, f.paintingRepo, f.userRepo, retry)
	f.discounts = NewDiscountService(f.discountRepo, retry)
	f.discounts.now = func() time.Time { return f.now }
	f.checkout = NewCheckoutService(f.discounts)
	f.catalog = NewCatalogService(f.paintingRepo, f.taxonomyRepo, nil, config.CatalogConfig{PageSize: 2}, retry)
	f.orders = NewOrderService(OrderServiceDeps{
		DB:           db,
		OrderRepo:    f.orderRepo,
		CartRepo:     f.cartRepo,
		PaintingRepo: f.paintingRepo,
		UserRepo:     f.userRepo,
		Carts:        f.carts,
		Checkout:     f.checkout,
		Notifier:     f.notifier,
		Retry:        retry,
	})
	return f
}

func (f *fixture) seedUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test", PasswordHash: "x", Role: role}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) seedPainting(t *testing.T, title, kind string, price int64, options ...models.RecreationOption) *models.Painting {
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
	require.NoError(t, f.db.Create(painting).Error)
	if len(options) > 0 {
		require.NoError(t, f.paintingRepo.ReplaceOptions(painting.ID, options))
	}
	return painting
}

func (f *fixture) seedDiscount(t *testing.T, code string, percent int, startsAt, endsAt *time.Time) *models.DiscountCode {
	t.Helper()
	discount := &models.DiscountCode{Code: code, Percent: percent, StartsAt: startsAt, EndsAt: endsAt}
	require.NoError(t, f.db.Create(discount).Error)
	return discount
}

func intPtr(v int) *int {
	return &v
}

func timePtr(v time.Time) *time.Time {
	return &v
}

func validCheckoutInput() CheckoutInput {
	return CheckoutInput{
		FullName:   "Amina Benali",
		Email:      "Amina@Example.com",
		Phone:      "06 12 34 56 78",
		Address:    "12 rue des Arts",
		City:       "Casablanca",
		PostalCode: "20000",
	}
}

var errInjected = errors.New("injected failure")
