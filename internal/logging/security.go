// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const (
	eventSysStartup  = "sys_startup"
	eventSysShutdown = "sys_shutdown"
	eventAuthnFail   = "authn_fail"
	eventAuthzFail   = "authz_fail"
	eventAdminAction = "admin_action"
)

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("service started", zap.String("event", eventSysStartup))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("service shutting down", zap.String("event", eventSysShutdown))
}

func (s *SecurityLogger) AuthnFailure(subject, reason string) {
	s.l.Warn(
		"authentication failed",
		zap.String("event", eventAuthnFail+":"+subject),
		zap.String("reason", reason),
	)
}

func (s *SecurityLogger) AuthzFailure(subject, resource string) {
	s.l.Warn(
		"authorization failed",
		zap.String("event", eventAuthzFail+":"+subject+","+resource),
	)
}

func (s *SecurityLogger) AdminAction(actor, action, target string) {
	s.l.Info(
		"admin action",
		zap.String("event", eventAdminAction+":"+actor+","+action+","+target),
	)
}

func newSecurityLogger(l *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: l}
}
