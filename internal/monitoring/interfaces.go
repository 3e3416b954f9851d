// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package monitoring

type MonitorInterface interface {
	GetService() string
	SetResponseTimeMetric(map[string]string, float64) error
	SetDependencyAvailability(map[string]string, float64) error
	// IncIngestOutcome counts reconciled items, labels: outcome (created|merged|failed)
	IncIngestOutcome(map[string]string) error
	// IncNotificationDelivery counts notification attempts, labels: channel, result
	IncNotificationDelivery(map[string]string) error
}
