// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package mail

import (
	"context"

	"github.com/canonical/inventory-service/internal/logging"
)

// LogMailer writes messages to the log instead of sending them, used when no
// provider is configured.
type LogMailer struct {
	logger logging.LoggerInterface
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	if to == "" {
		return ErrMissingRecipient
	}

	m.logger.Infow("mail not sent, no provider configured", "to", to, "subject", subject, "body", body)
	return nil
}

func NewLogMailer(logger logging.LoggerInterface) *LogMailer {
	return &LogMailer{logger: logger}
}
