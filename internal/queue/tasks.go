package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names.
const (
	TaskOrderConfirmationEmail = "order:confirmation_email"
	TaskOrderStatusEmail       = "order:status_email"
	TaskContactMessageEmail    = "contact:message_email"
)

// Queue names.
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// OrderConfirmationEmailPayload asks the worker to mail the order recap to its customer.
type OrderConfirmationEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusEmailPayload asks the worker to mail a status change.
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// ContactMessageEmailPayload asks the worker to forward a contact message to the gallery.
type ContactMessageEmailPayload struct {
	MessageID uint `json:"message_id"`
}

func NewOrderConfirmationEmailTask(payload OrderConfirmationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmationEmail, body), nil
}

func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

func NewContactMessageEmailTask(payload ContactMessageEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactMessageEmail, body), nil
}
