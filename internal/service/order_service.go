package service

import (
	"context"
	"strings"

	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/identity"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/metrics"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceOrderResult is returned once an order is committed.
type PlaceOrderResult struct {
	OrderID   uint   `json:"order_id"`
	Reference string `json:"reference"`
	Totals
}

// OrderService places orders and serves customers their own orders.
type OrderService struct {
	db           *gorm.DB
	orderRepo    repository.OrderRepository
	cartRepo     repository.CartRepository
	paintingRepo repository.PaintingRepository
	userRepo     repository.UserRepository
	carts        *CartService
	checkout     *CheckoutService
	notifier     OrderNotifier
	retry        models.RetryPolicy
	metrics      *metrics.Business
}

// OrderServiceDeps groups the collaborators of OrderService.
type OrderServiceDeps struct {
	DB           *gorm.DB
	OrderRepo    repository.OrderRepository
	CartRepo     repository.CartRepository
	PaintingRepo repository.PaintingRepository
	UserRepo     repository.UserRepository
	Carts        *CartService
	Checkout     *CheckoutService
	Notifier     OrderNotifier
	Retry        models.RetryPolicy
	Metrics      *metrics.Business
}

// NewOrderService creates the order service.
func NewOrderService(deps OrderServiceDeps) *OrderService {
	return &OrderService{
		db:           deps.DB,
		orderRepo:    deps.OrderRepo,
		cartRepo:     deps.CartRepo,
		paintingRepo: deps.PaintingRepo,
		userRepo:     deps.UserRepo,
		carts:        deps.Carts,
		checkout:     deps.Checkout,
		notifier:     deps.Notifier,
		retry:        deps.Retry,
		metrics:      deps.Metrics,
	}
}

// PlaceOrder turns the caller's cart into an order. The order, its items, its
// first history row and the cart clear are committed in one transaction; the
// confirmation email is scheduled afterwards and never fails the call.
func (s *OrderService) PlaceOrder(ctx context.Context, caller *identity.Identity, input CheckoutInput) (*PlaceOrderResult, error) {
	if caller == nil || caller.UserID == 0 {
		return nil, ErrAuthRequired
	}
	user, err := s.userRepo.GetByID(caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	checkout, err := s.checkout.ResolveCheckout(ctx, input)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetCart(ctx, CartScope{UserID: user.ID}, checkout.DiscountPercent)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var order *models.Order
	err = s.retry.Do(ctx, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			order, err = s.createOrder(tx, user.ID, checkout, cart)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_placed",
		"order_id", order.ID,
		"user_id", user.ID,
		"total_mad", order.TotalMAD,
		"items", len(cart.Items),
	)
	s.metrics.OrderPlaced(order.TotalMAD)
	s.notify("order_placed", order.ID, func() error { return s.notifier.NotifyOrderPlaced(order.ID) })

	return &PlaceOrderResult{
		OrderID:   order.ID,
		Reference: order.Reference,
		Totals:    cart.Totals,
	}, nil
}

func (s *OrderService) createOrder(tx *gorm.DB, userID uint, checkout *ResolvedCheckout, cart *CartSummary) (*models.Order, error) {
	ids := make([]uint, 0, len(cart.Items))
	for _, line := range cart.Items {
		ids = append(ids, line.PaintingID)
	}
	paintings, err := s.paintingRepo.WithTx(tx).ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Painting, len(paintings))
	for _, painting := range paintings {
		byID[painting.ID] = painting
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		painting := byID[line.PaintingID]
		width, height := painting.WidthCm, painting.HeightCm
		if line.WidthCm != nil {
			width = *line.WidthCm
		}
		if line.HeightCm != nil {
			height = *line.HeightCm
		}
		items = append(items, models.OrderItem{
			PaintingID:   line.PaintingID,
			Title:        line.Title,
			WidthCm:      width,
			HeightCm:     height,
			UnitPriceMAD: line.UnitPriceMAD,
			Quantity:     line.Quantity,
		})
	}

	order := &models.Order{
		Reference:         newOrderReference(),
		UserID:            userID,
		Status:            constants.OrderStatusPendingReview,
		SubtotalMAD:       cart.SubtotalMAD,
		DiscountAmountMAD: cart.DiscountAmountMAD,
		ShippingFeeMAD:    constants.OrderDefaultShippingFee,
		TotalMAD:          cart.TotalMAD + constants.OrderDefaultShippingFee,
		DiscountCodeID:    checkout.DiscountID,
		DiscountPercent:   checkout.DiscountPercent,
		FullName:          checkout.FullName,
		Email:             checkout.Email,
		Phone:             checkout.Phone,
		Address:           checkout.Address,
		City:              checkout.City,
		PostalCode:        checkout.PostalCode,
		Country:           constants.OrderDefaultCountry,
	}
	history := &models.OrderStatusHistory{
		Status: constants.OrderStatusPendingReview,
		Note:   constants.OrderHistoryNoteCreated,
	}
	if err := s.orderRepo.WithTx(tx).Create(order, items, history); err != nil {
		return nil, err
	}
	if _, err := s.cartRepo.WithTx(tx).ClearByUser(userID); err != nil {
		return nil, err
	}
	return order, nil
}

// ListUserOrders lists the caller's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrAuthRequired
	}
	if filter.Status != "" && !constants.IsValidOrderStatus(filter.Status) {
		return nil, 0, ErrInvalidInput
	}
	filter.UserID = userID
	var (
		orders []models.Order
		total  int64
	)
	err := s.retry.Do(ctx, func() error {
		var err error
		orders, total, err = s.orderRepo.ListByUser(filter)
		return err
	})
	return orders, total, err
}

// GetUserOrder returns one of the caller's orders.
func (s *OrderService) GetUserOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	var order *models.Order
	err := s.retry.Do(ctx, func() error {
		var err error
		order, err = s.orderRepo.GetByIDAndUser(orderID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// notify runs a best-effort notification; failures are logged only.
func (s *OrderService) notify(kind string, orderID uint, fn func() error) {
	notifyBestEffort(s.notifier, s.metrics, kind, orderID, fn)
}

func notifyBestEffort(notifier OrderNotifier, m *metrics.Business, kind string, orderID uint, fn func() error) {
	if notifier == nil {
		return
	}
	if err := fn(); err != nil {
		logger.Warnw("order_notification_enqueue_failed", "kind", kind, "order_id", orderID, "error", err)
		m.Notification(kind, "failed")
		return
	}
	m.Notification(kind, "queued")
}

func newOrderReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// OrderShortReference is the last 8 characters of a reference, upper-cased.
func OrderShortReference(reference string) string {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if len(reference) <= 8 {
		return reference
	}
	return reference[len(reference)-8:]
}
