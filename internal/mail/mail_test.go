// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/tracing"
)

type fakeSendGrid struct {
	sent     []*sgmail.SGMailV3
	response *rest.Response
	err      error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *sgmail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return f.response, f.err
}

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendGridMailerSend(t *testing.T) {
	testCases := []struct {
		name        string
		to          string
		client      *fakeSendGrid
		expectedErr bool
		expectSent  int
	}{
		{
			name:       "accepted",
			to:         "jane@acme.io",
			client:     &fakeSendGrid{response: &rest.Response{StatusCode: 202}},
			expectSent: 1,
		},
		{
			name:        "rejected status",
			to:          "jane@acme.io",
			client:      &fakeSendGrid{response: &rest.Response{StatusCode: 401, Body: "bad key"}},
			expectedErr: true,
			expectSent:  1,
		},
		{
			name:        "transport failure",
			to:          "jane@acme.io",
			client:      &fakeSendGrid{err: errors.New("dial tcp: timeout")},
			expectedErr: true,
			expectSent:  1,
		},
		{
			name:        "missing recipient",
			client:      &fakeSendGrid{},
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newSendGridMailer(tc.client, "no-reply@acme.io", tracing.NewNoopTracer(), logging.NewNoopLogger())

			err := m.Send(context.Background(), tc.to, "Inventory item created: Widget", "quantity: 10")

			if (err != nil) != tc.expectedErr {
				t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
			}
			if len(tc.client.sent) != tc.expectSent {
				t.Fatalf("expected %d messages, got %d", tc.expectSent, len(tc.client.sent))
			}
			if tc.expectSent > 0 && tc.client.sent[0].Subject != "Inventory item created: Widget" {
				t.Errorf("unexpected subject %q", tc.client.sent[0].Subject)
			}
		})
	}
}

func TestSendGridMailerDoesNotLeakResponseBody(t *testing.T) {
	client := &fakeSendGrid{response: &rest.Response{StatusCode: 403, Body: "secret account details"}}
	m := newSendGridMailer(client, "no-reply@acme.io", tracing.NewNoopTracer(), logging.NewNoopLogger())

	err := m.Send(context.Background(), "jane@acme.io", "s", "b")
	if err == nil || strings.Contains(err.Error(), "secret") {
		t.Fatalf("expected a sanitized error, got %v", err)
	}
}

func TestSESMailerSend(t *testing.T) {
	client := new(fakeSES)
	m := newSESMailer(client, "no-reply@acme.io", tracing.NewNoopTracer(), logging.NewNoopLogger())

	if err := m.Send(context.Background(), "jane@acme.io", "Subject", "Body"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("expected one call, got %d", len(client.inputs))
	}

	input := client.inputs[0]
	if *input.FromEmailAddress != "no-reply@acme.io" || input.Destination.ToAddresses[0] != "jane@acme.io" {
		t.Errorf("unexpected addressing %+v", input)
	}
	if *input.Content.Simple.Body.Text.Data != "Body" {
		t.Errorf("unexpected body %q", *input.Content.Simple.Body.Text.Data)
	}
}

func TestSESMailerError(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	m := newSESMailer(client, "no-reply@acme.io", tracing.NewNoopTracer(), logging.NewNoopLogger())

	if err := m.Send(context.Background(), "jane@acme.io", "Subject", "Body"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLogMailer(t *testing.T) {
	m := NewLogMailer(logging.NewNoopLogger())

	if err := m.Send(context.Background(), "", "s", "b"); !errors.Is(err, ErrMissingRecipient) {
		t.Fatalf("expected ErrMissingRecipient, got %v", err)
	}
	if err := m.Send(context.Background(), "jane@acme.io", "s", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
