package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/domain"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/metrics"
	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/logger"
)

// NotificationsExchange is the topic exchange notification events are
// published to.
const NotificationsExchange = "clinic.notifications"

// NotificationStore persists in-app notifications
type NotificationStore interface {
	Create(ctx context.Context, notification *domain.Notification) error
}

// EventPublisher publishes notification events to the message broker
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Dispatcher delivers a notification to a single recipient: it persists the
// in-app notification record and then publishes a broker event for real-time
// delivery. The persist is the primary effect; a publish failure is logged
// and swallowed.
type Dispatcher struct {
	store  NotificationStore
	events EventPublisher
	log    *logger.Logger
}

// NewDispatcher creates a new dispatcher. events may be nil, in which case
// no broker events are published.
func NewDispatcher(store NotificationStore, events EventPublisher, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		events: events,
		log:    log,
	}
}

// Send delivers one notification
func (d *Dispatcher) Send(ctx context.Context, notification *domain.Notification) error {
	if notification.RecipientID.IsZero() {
		return errors.New("notification has no recipient")
	}

	if err := d.store.Create(ctx, notification); err != nil {
		metrics.NotificationFailures.WithLabelValues(string(notification.Category)).Inc()
		return fmt.Errorf("persist notification: %w", err)
	}

	metrics.NotificationsSent.WithLabelValues(string(notification.Category)).Inc()

	if d.events != nil {
		d.publishEvent(notification)
	}

	return nil
}

// publishEvent publishes the broker event for a dispatched notification
func (d *Dispatcher) publishEvent(notification *domain.Notification) {
	event := domain.NotificationEvent{
		EventID:     uuid.New().String(),
		RecipientID: notification.RecipientID.Hex(),
		Title:       notification.Title,
		Category:    notification.Category,
		Timestamp:   time.Now(),
	}
	if !notification.RelatedID.IsZero() {
		event.RelatedID = notification.RelatedID.Hex()
	}

	body, err := json.Marshal(event)
	if err != nil {
		d.log.Error("Failed to marshal notification event", "error", err, "recipient", event.RecipientID)
		return
	}

	routingKey := "notification." + string(notification.Category)
	if err := d.events.Publish(NotificationsExchange, routingKey, body); err != nil {
		// Real-time delivery is best-effort; the persisted record is the
		// source of truth.
		d.log.Warn("Failed to publish notification event", "error", err, "routing_key", routingKey)
	}
}
