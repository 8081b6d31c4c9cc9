package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/provider"
	"github.com/elwarcha/gallery/internal/queue"
	"github.com/elwarcha/gallery/internal/service"

	"github.com/hibiken/asynq"
)

// OrderMailer sends the customer emails of an order.
type OrderMailer interface {
	SendConfirmation(ctx context.Context, orderID uint) error
	SendStatusUpdate(ctx context.Context, orderID uint, status string) error
}

// ContactMailer forwards contact form messages.
type ContactMailer interface {
	SendContactNotification(ctx context.Context, messageID uint) error
}

// Consumer handles asynq tasks.
type Consumer struct {
	Emails   OrderMailer
	Contacts ContactMailer
}

// NewConsumer builds a consumer from the container.
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{}
	if c != nil && c.OrderEmailService != nil {
		consumer.Emails = c.OrderEmailService
	}
	if c != nil && c.ContactEmailService != nil {
		consumer.Contacts = c.ContactEmailService
	}
	return consumer
}

// Register binds task handlers on mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskContactMessageEmail, c.handleContactMessageEmail)
}

func (c *Consumer) handleOrderConfirmationEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmation_email_skip_invalid_payload")
		return nil
	}
	if c.Emails == nil {
		logger.Warnw("worker_order_confirmation_email_skip_mailer_nil", "order_id", payload.OrderID)
		return nil
	}
	err := c.Emails.SendConfirmation(ctx, payload.OrderID)
	return c.finish("order_confirmation_email", payload.OrderID, "", err)
}

func (c *Consumer) handleOrderStatusEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	status := strings.TrimSpace(payload.Status)
	if payload.OrderID == 0 || status == "" {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID, "status", status)
		return nil
	}
	if c.Emails == nil {
		logger.Warnw("worker_order_status_email_skip_mailer_nil", "order_id", payload.OrderID)
		return nil
	}
	err := c.Emails.SendStatusUpdate(ctx, payload.OrderID, status)
	return c.finish("order_status_email", payload.OrderID, status, err)
}

func (c *Consumer) handleContactMessageEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.ContactMessageEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_contact_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.MessageID == 0 {
		logger.Debugw("worker_contact_email_skip_invalid_payload")
		return nil
	}
	if c.Contacts == nil {
		logger.Warnw("worker_contact_email_skip_mailer_nil", "message_id", payload.MessageID)
		return nil
	}
	err := c.Contacts.SendContactNotification(ctx, payload.MessageID)
	return c.finish("contact_email", payload.MessageID, "", err)
}

// finish maps a send outcome to the asynq retry contract: permanent
// failures skip retries, a vanished record is dropped.
func (c *Consumer) finish(kind string, recordID uint, status string, err error) error {
	switch {
	case err == nil:
		logger.Infow("worker_email_sent", "kind", kind, "record_id", recordID, "status", status)
		return nil
	case errors.Is(err, service.ErrNotFound):
		logger.Debugw("worker_email_skip_record_not_found", "kind", kind, "record_id", recordID)
		return nil
	case isPermanentEmailError(err):
		logger.Warnw("worker_email_dropped", "kind", kind, "record_id", recordID, "status", status, "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	default:
		logger.Warnw("worker_email_send_failed", "kind", kind, "record_id", recordID, "status", status, "error", err)
		return err
	}
}

func isPermanentEmailError(err error) bool {
	return errors.Is(err, service.ErrEmailServiceDisabled) ||
		errors.Is(err, service.ErrEmailServiceNotConfigured) ||
		errors.Is(err, service.ErrEmailRecipientRejected) ||
		errors.Is(err, service.ErrInvalidEmail)
}
