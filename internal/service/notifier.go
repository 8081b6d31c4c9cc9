package service

import (
	"github.com/elwarcha/gallery/internal/queue"
)

// OrderNotifier schedules customer notifications. Implementations hand the
// work off and return without waiting for delivery.
type OrderNotifier interface {
	NotifyOrderPlaced(orderID uint) error
	NotifyOrderStatus(orderID uint, status string) error
}

// QueueNotifier enqueues notification emails on asynq.
type QueueNotifier struct {
	client *queue.Client
}

func NewQueueNotifier(client *queue.Client) *QueueNotifier {
	return &QueueNotifier{client: client}
}

func (n *QueueNotifier) NotifyOrderPlaced(orderID uint) error {
	return n.client.EnqueueOrderConfirmationEmail(queue.OrderConfirmationEmailPayload{OrderID: orderID})
}

func (n *QueueNotifier) NotifyOrderStatus(orderID uint, status string) error {
	return n.client.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{OrderID: orderID, Status: status})
}

// ContactNotifier forwards new contact messages to the gallery mailbox.
type ContactNotifier interface {
	NotifyContactMessage(messageID uint) error
}

func (n *QueueNotifier) NotifyContactMessage(messageID uint) error {
	return n.client.EnqueueContactMessageEmail(queue.ContactMessageEmailPayload{MessageID: messageID})
}
