// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
)

var _ monitoring.MonitorInterface = (*Monitor)(nil)

type Monitor struct {
	service string

	responseTime           *prometheus.HistogramVec
	dependencyAvailability *prometheus.GaugeVec
	ingestOutcomes         *prometheus.CounterVec
	notificationDeliveries *prometheus.CounterVec

	logger logging.LoggerInterface
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, value float64) error {
	if m.responseTime == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.responseTime.With(tags).Observe(value)

	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, value float64) error {
	if m.dependencyAvailability == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.dependencyAvailability.With(tags).Set(value)

	return nil
}

func (m *Monitor) IncIngestOutcome(tags map[string]string) error {
	if m.ingestOutcomes == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.ingestOutcomes.With(tags).Inc()

	return nil
}

func (m *Monitor) IncNotificationDelivery(tags map[string]string) error {
	if m.notificationDeliveries == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.notificationDeliveries.With(tags).Inc()

	return nil
}

func (m *Monitor) registerHistograms() {
	m.responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_http_response_time_seconds", m.service),
			Help: "http response time in seconds",
		},
		[]string{"route", "status"},
	)

	if err := prometheus.Register(m.responseTime); err != nil {
		m.logger.Debugf("metric already registered: %v", err)
	}
}

func (m *Monitor) registerGauges() {
	m.dependencyAvailability = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_dependency_available", m.service),
			Help: "dependency availability",
		},
		[]string{"component"},
	)

	if err := prometheus.Register(m.dependencyAvailability); err != nil {
		m.logger.Debugf("metric already registered: %v", err)
	}
}

func (m *Monitor) registerCounters() {
	m.ingestOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_inventory_ingest_total", m.service),
			Help: "reconciled inventory items by outcome",
		},
		[]string{"outcome"},
	)

	m.notificationDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_notification_deliveries_total", m.service),
			Help: "notification delivery attempts by channel and result",
		},
		[]string{"channel", "result"},
	)

	for _, c := range []prometheus.Collector{m.ingestOutcomes, m.notificationDeliveries} {
		if err := prometheus.Register(c); err != nil {
			m.logger.Debugf("metric already registered: %v", err)
		}
	}
}

// NewMonitor registers the service metrics on the default prometheus registry.
// The service name is used as metric prefix so it must be a valid identifier.
func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.logger = logger

	m.registerHistograms()
	m.registerGauges()
	m.registerCounters()

	return m
}
