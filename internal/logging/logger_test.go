// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugLogger(t *testing.T) {
	func() {
		_ = recover()
		NewLogger("DEBUG")
	}()
}

func TestInvalidLevel(t *testing.T) {
	func() {
		_ = recover()
		NewLogger("invalid")
	}()
}

func TestNoopLoggerSecurity(t *testing.T) {
	l := NewNoopLogger()

	// none of these must panic on the nop core
	l.Security().SystemStartup()
	l.Security().AuthnFailure("user-1", "bad password")
	l.Security().AuthzFailure("user-1", "inventory")
	l.Security().AdminAction("admin-1", "promote", "user-2")
	l.Security().SystemShutdown()
}

func TestSecurityLoggerEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := newSecurityLogger(zap.New(core))

	s.AdminAction("admin-1", "remove", "user-2")
	s.AuthzFailure("user-3", "users")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if got := entries[0].ContextMap()["event"]; got != "admin_action:admin-1,remove,user-2" {
		t.Errorf("unexpected admin event %v", got)
	}

	if got := entries[1].ContextMap()["event"]; got != "authz_fail:user-3,users" {
		t.Errorf("unexpected authz event %v", got)
	}
}
