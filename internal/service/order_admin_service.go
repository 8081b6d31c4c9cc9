package service

import (
	"context"

	"github.com/elwarcha/gallery/internal/authz"
	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/identity"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/metrics"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"

	"gorm.io/gorm"
)

// Authorizer decides whether an identity may act on an object.
type Authorizer interface {
	EnforceIdentity(id *identity.Identity, obj, act string) (bool, error)
}

// StatusUpdateResult reports the outcome of a status change.
type StatusUpdateResult struct {
	OrderID   uint   `json:"order_id"`
	Status    string `json:"status"`
	Unchanged bool   `json:"unchanged"`
}

// OrderAdminService is the back-office side of orders.
type OrderAdminService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	authz     Authorizer
	notifier  OrderNotifier
	retry     models.RetryPolicy
	metrics   *metrics.Business
}

// NewOrderAdminService creates the admin order service.
func NewOrderAdminService(db *gorm.DB, orderRepo repository.OrderRepository, authorizer Authorizer, notifier OrderNotifier, retry models.RetryPolicy, m *metrics.Business) *OrderAdminService {
	return &OrderAdminService{
		db:        db,
		orderRepo: orderRepo,
		authz:     authorizer,
		notifier:  notifier,
		retry:     retry,
		metrics:   m,
	}
}

// UpdateOrderStatus sets the status of an order and appends a history row.
// Any status may follow any other; setting the current status is a no-op.
func (s *OrderAdminService) UpdateOrderStatus(ctx context.Context, caller *identity.Identity, orderID uint, status string) (*StatusUpdateResult, error) {
	if err := s.authorize(caller, authz.ObjectOrderStatus, authz.ActionUpdate); err != nil {
		return nil, err
	}
	if orderID == 0 || !constants.IsValidOrderStatus(status) {
		return nil, ErrInvalidInput
	}

	result := &StatusUpdateResult{OrderID: orderID, Status: status}
	err := s.retry.Do(ctx, func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			repo := s.orderRepo.WithTx(tx)
			order, err := repo.GetByID(orderID)
			if err != nil {
				return err
			}
			if order == nil {
				return ErrNotFound
			}
			if order.Status == status {
				result.Unchanged = true
				return nil
			}
			if err := repo.UpdateStatus(order.ID, status); err != nil {
				return err
			}
			return repo.AppendHistory(&models.OrderStatusHistory{
				OrderID: order.ID,
				Status:  status,
				Note:    constants.OrderHistoryNoteAdmin,
			})
		})
	})
	if err != nil {
		return nil, err
	}
	if result.Unchanged {
		return result, nil
	}

	logger.Infow("order_status_updated", "order_id", orderID, "status", status, "admin_id", caller.UserID)
	s.metrics.OrderStatusChanged(status)
	notifyBestEffort(s.notifier, s.metrics, "order_status", orderID, func() error {
		return s.notifier.NotifyOrderStatus(orderID, status)
	})
	return result, nil
}

// List returns orders for the back-office.
func (s *OrderAdminService) List(ctx context.Context, caller *identity.Identity, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if err := s.authorize(caller, authz.ObjectOrders, authz.ActionRead); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !constants.IsValidOrderStatus(filter.Status) {
		return nil, 0, ErrInvalidInput
	}
	var (
		orders []models.Order
		total  int64
	)
	err := s.retry.Do(ctx, func() error {
		var err error
		orders, total, err = s.orderRepo.ListAdmin(filter)
		return err
	})
	return orders, total, err
}

// Get returns an order with items, history and customer.
func (s *OrderAdminService) Get(ctx context.Context, caller *identity.Identity, orderID uint) (*models.Order, error) {
	if err := s.authorize(caller, authz.ObjectOrder, authz.ActionRead); err != nil {
		return nil, err
	}
	var order *models.Order
	err := s.retry.Do(ctx, func() error {
		var err error
		order, err = s.orderRepo.GetByID(orderID)
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

func (s *OrderAdminService) authorize(caller *identity.Identity, object, action string) error {
	if s.authz == nil {
		if caller.IsAdmin() {
			return nil
		}
		return ErrUnauthorized
	}
	allowed, err := s.authz.EnforceIdentity(caller, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}
	return nil
}
