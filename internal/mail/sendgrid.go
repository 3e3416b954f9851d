// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package mail

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/tracing"
)

var ErrMissingRecipient = errors.New("recipient address is empty")

type SendGridMailer struct {
	client sendgridClient
	from   *sgmail.Email

	tracer tracing.TracingInterface
	logger logging.LoggerInterface
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	ctx, span := m.tracer.Start(ctx, "mail.SendGridMailer.Send")
	defer span.End()

	if to == "" {
		return ErrMissingRecipient
	}

	message := sgmail.NewSingleEmail(
		m.from,
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}

	if response.StatusCode >= 400 {
		m.logger.Debugf("sendgrid rejected message, status=%d body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid send failed with status %d", response.StatusCode)
	}

	return nil
}

func NewSendGridMailer(apiKey, from string, tracer tracing.TracingInterface, logger logging.LoggerInterface) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is empty")
	}

	return newSendGridMailer(sendgrid.NewSendClient(apiKey), from, tracer, logger), nil
}

func newSendGridMailer(client sendgridClient, from string, tracer tracing.TracingInterface, logger logging.LoggerInterface) *SendGridMailer {
	m := new(SendGridMailer)

	m.client = client
	m.from = sgmail.NewEmail("Inventory", from)

	m.tracer = tracer
	m.logger = logger

	return m
}
