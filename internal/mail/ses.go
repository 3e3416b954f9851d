// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/tracing"
)

type SESMailer struct {
	client sesClient
	from   string

	tracer tracing.TracingInterface
	logger logging.LoggerInterface
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	ctx, span := m.tracer.Start(ctx, "mail.SESMailer.Send")
	defer span.End()

	if to == "" {
		return ErrMissingRecipient
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	}

	output, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send error: %w", err)
	}

	if output != nil && output.MessageId != nil {
		m.logger.Debugf("ses accepted message %s", *output.MessageId)
	}

	return nil
}

// NewSESMailer uses static credentials when both keys are set and the default
// AWS credential chain otherwise.
func NewSESMailer(ctx context.Context, region, accessKey, secretKey, from string, tracer tracing.TracingInterface, logger logging.LoggerInterface) (*SESMailer, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}

	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return newSESMailer(sesv2.NewFromConfig(cfg), from, tracer, logger), nil
}

func newSESMailer(client sesClient, from string, tracer tracing.TracingInterface, logger logging.LoggerInterface) *SESMailer {
	m := new(SESMailer)

	m.client = client
	m.from = from

	m.tracer = tracer
	m.logger = logger

	return m
}
