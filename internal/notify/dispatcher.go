// internal/notify/dispatcher.go
package notify

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"placement-workers/internal/common/errors"
	"placement-workers/internal/common/logger"
	"placement-workers/internal/common/metrics"
	"placement-workers/internal/models"
	"placement-workers/internal/store"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// EmailSender delivers one plain-text mail; implemented by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// TopicPublisher publishes to a topic; implemented by aws.SNSClient.
type TopicPublisher interface {
	Publish(ctx context.Context, topicARN, subject, message string) (string, error)
}

type Options struct {
	Email     EmailSender
	Addresses map[string]string // role -> mailbox
	SMS       TopicPublisher
	Topics    map[string]string // role -> topic ARN
	Logger    logger.Logger
}

// Dispatcher stores notifications and fans them out to the external channels
// configured for the recipient role.
type Dispatcher struct {
	store     store.NotificationStore
	email     EmailSender
	addresses map[string]string
	sms       TopicPublisher
	topics    map[string]string
	logger    logger.Logger
}

func NewDispatcher(s store.NotificationStore, opts Options) *Dispatcher {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Dispatcher{
		store:     s,
		email:     opts.Email,
		addresses: lowerKeys(opts.Addresses),
		sms:       opts.SMS,
		topics:    lowerKeys(opts.Topics),
		logger:    log,
	}
}

// Result describes what happened to one notification.
type Result struct {
	Notification models.Notification `json:"notification"`
	Deliveries   map[string]string   `json:"deliveries"`
}

// Notify persists n and then attempts delivery. Only a storage failure is an
// error; delivery failures are logged and reported in the result.
func (d *Dispatcher) Notify(ctx context.Context, n models.Notification) (*Result, error) {
	stored, err := d.store.AddNotification(ctx, n)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("add notification", err)
	}

	res := &Result{Notification: stored, Deliveries: map[string]string{}}
	var mu sync.Mutex
	record := func(channel, status string) {
		mu.Lock()
		res.Deliveries[channel] = status
		mu.Unlock()
		metrics.NotificationsDelivered.WithLabelValues(channel, status).Inc()
	}

	role := strings.ToLower(string(stored.ToRole))
	addr, emailOn := d.addresses[role]
	emailOn = emailOn && d.email != nil
	topic, smsOn := d.topics[role]
	smsOn = smsOn && d.sms != nil
	if !emailOn {
		res.Deliveries[ChannelEmail] = models.DeliveryDisabled
	}
	if !smsOn {
		res.Deliveries[ChannelSMS] = models.DeliveryDisabled
	}

	// A failed channel must not cancel the other one.
	var g errgroup.Group
	if emailOn {
		g.Go(func() error {
			if _, err := d.email.SendEmail(ctx, addr, stored.Title, body(stored)); err != nil {
				record(ChannelEmail, models.DeliveryFailed)
				return errors.NewNotificationSendFailedError(ChannelEmail, err)
			}
			record(ChannelEmail, models.DeliverySent)
			return nil
		})
	}
	if smsOn {
		g.Go(func() error {
			if _, err := d.sms.Publish(ctx, topic, stored.Title, body(stored)); err != nil {
				record(ChannelSMS, models.DeliveryFailed)
				return errors.NewNotificationSendFailedError(ChannelSMS, err)
			}
			record(ChannelSMS, models.DeliverySent)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		d.logger.Warn("notification delivery failed", map[string]interface{}{
			"notificationId": stored.ID,
			"role":           string(stored.ToRole),
			"error":          err.Error(),
		})
	}
	return res, nil
}

// NotifyAll sends the same title, body and link to each role in order.
func (d *Dispatcher) NotifyAll(ctx context.Context, roles []models.Role, title, text, link string) error {
	for _, role := range roles {
		if _, err := d.Notify(ctx, models.Notification{ToRole: role, Title: title, Body: text, Link: link}); err != nil {
			return err
		}
	}
	return nil
}

func body(n models.Notification) string {
	if n.Link == "" {
		return n.Body
	}
	if n.Body == "" {
		return n.Link
	}
	return n.Body + "\n" + n.Link
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" {
			out[strings.ToLower(k)] = v
		}
	}
	return out
}
