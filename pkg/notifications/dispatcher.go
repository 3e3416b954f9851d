// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notifications

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/canonical/inventory-service/internal/events"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/mail"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

const deliveryTimeout = 30 * time.Second

const (
	channelTask  = "task"
	channelEvent = "event"
	channelMail  = "mail"
)

// Dispatcher delivers notifications at most once on background goroutines.
// Deliveries beyond maxInFlight are dropped.
type Dispatcher struct {
	storage   StorageInterface
	mailer    mail.MailerInterface
	publisher events.PublisherInterface

	inFlight    *semaphore.Weighted
	parallelism int
	wg          sync.WaitGroup

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (d *Dispatcher) Notify(ctx context.Context, n *Notification) {
	ctx, span := d.tracer.Start(ctx, "notifications.Dispatcher.Notify")
	defer span.End()

	d.schedule(ctx, "notify", func(ctx context.Context) {
		d.deliver(ctx, n)
	})
}

func (d *Dispatcher) NotifyUser(ctx context.Context, email, subject, body string) {
	ctx, span := d.tracer.Start(ctx, "notifications.Dispatcher.NotifyUser")
	defer span.End()

	d.schedule(ctx, "notify_user", func(ctx context.Context) {
		d.send(ctx, email, subject, body)
	})
}

// Close waits for the running deliveries, or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) schedule(ctx context.Context, kind string, fn func(context.Context)) {
	if !d.inFlight.TryAcquire(1) {
		d.logger.Warnf("too many notifications in flight, dropping %s", kind)
		d.count(channelMail, "dropped")
		return
	}

	d.wg.Add(1)

	// deliveries outlive the request that triggered them
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer d.wg.Done()
		defer d.inFlight.Release(1)

		ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		defer cancel()

		fn(ctx)
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, n *Notification) {
	ctx, span := d.tracer.Start(ctx, "notifications.Dispatcher.deliver")
	defer span.End()

	task := &types.Task{
		TenantID:    n.TenantID,
		Title:       n.Subject,
		Description: n.Body,
		Urgency:     n.Urgency,
	}
	if task.Urgency == "" {
		task.Urgency = types.UrgencyLow
	}

	if _, err := d.storage.CreateTask(ctx, task); err != nil {
		d.logger.Errorf("failed to record notification task for tenant %s: %v", n.TenantID, err)
		d.count(channelTask, "failed")
	} else {
		d.count(channelTask, "delivered")
	}

	if n.Event != nil {
		if err := d.publisher.Publish(ctx, n.Event); err != nil {
			d.logger.Errorf("failed to publish %s event: %v", n.Event.Type, err)
			d.count(channelEvent, "failed")
		} else {
			d.count(channelEvent, "delivered")
		}
	}

	users, err := d.storage.ListUsers(ctx, n.TenantID)
	if err != nil {
		d.logger.Errorf("failed to list recipients for tenant %s: %v", n.TenantID, err)
		d.count(channelMail, "failed")
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(d.parallelism)

	for _, u := range recipients(users) {
		g.Go(func() error {
			d.send(ctx, u.Email, n.Subject, n.Body)
			return nil
		})
	}

	_ = g.Wait()
}

func (d *Dispatcher) send(ctx context.Context, to, subject, body string) {
	if err := d.mailer.Send(ctx, to, subject, body); err != nil {
		d.logger.Errorf("failed to e-mail %s: %v", to, err)
		d.count(channelMail, "failed")
		return
	}

	d.count(channelMail, "delivered")
}

func (d *Dispatcher) count(channel, result string) {
	if err := d.monitor.IncNotificationDelivery(map[string]string{"channel": channel, "result": result}); err != nil {
		d.logger.Debugf("failed to count notification delivery: %v", err)
	}
}

// recipients keeps the admins and managers that have an address.
func recipients(users []*types.User) []*types.User {
	out := make([]*types.User, 0, len(users))
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		if u.Role == types.RoleAdmin || u.Role == types.RoleManager {
			out = append(out, u)
		}
	}
	return out
}

func NewDispatcher(
	storage StorageInterface,
	mailer mail.MailerInterface,
	publisher events.PublisherInterface,
	maxInFlight int64,
	parallelism int,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Dispatcher {
	d := new(Dispatcher)

	d.storage = storage
	d.mailer = mailer
	d.publisher = publisher

	if maxInFlight < 1 {
		maxInFlight = 1
	}
	if parallelism < 1 {
		parallelism = 1
	}
	d.inFlight = semaphore.NewWeighted(maxInFlight)
	d.parallelism = parallelism

	d.tracer = tracer
	d.monitor = monitor
	d.logger = logger

	return d
}
