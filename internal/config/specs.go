// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	// TracingSampleRatio is clamped to [0, 1]
	TracingSampleRatio float64 `envconfig:"tracing_sample_ratio" default:"1"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port           int      `envconfig:"port" default:"8080"`
	AllowedOrigins []string `envconfig:"allowed_origins" default:"*"`
	UploadMaxBytes int64    `envconfig:"upload_max_bytes" default:"10485760"`

	StorageBackend string `envconfig:"storage_backend" default:"postgres"`

	DSN               string        `envconfig:"DSN"`
	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	FirebaseProjectID       string `envconfig:"firebase_project_id"`
	FirebaseCredentialsFile string `envconfig:"firebase_credentials_file"`
	FirebaseAPIKey          string `envconfig:"firebase_api_key"`

	IdentityProvider     string `envconfig:"identity_provider" default:"kratos"`
	KratosAdminURL       string `envconfig:"kratos_admin_url"`
	KratosPublicURL      string `envconfig:"kratos_public_url"`
	RecoveryLinkLifetime string `envconfig:"recovery_link_lifetime" default:"1h"`

	AuthenticationEnabled bool          `envconfig:"authentication_enabled" default:"true"`
	AuthenticationMode    string        `envconfig:"authentication_mode" default:"session"`
	JWTSecret             string        `envconfig:"jwt_secret"`
	SessionLifetime       time.Duration `envconfig:"session_lifetime" default:"24h"`
	OIDCIssuer            string        `envconfig:"oidc_issuer"`
	OIDCJWKSURL           string        `envconfig:"oidc_jwks_url"`
	OIDCAllowedSubjects   []string      `envconfig:"oidc_allowed_subjects"`
	OIDCRequiredScope     string        `envconfig:"oidc_required_scope"`

	AuthorizationEnabled bool   `envconfig:"authorization_enabled" default:"false"`
	OpenfgaApiScheme     string `envconfig:"openfga_api_scheme" default:""`
	OpenfgaApiHost       string `envconfig:"openfga_api_host"`
	OpenfgaApiToken      string `envconfig:"openfga_api_token"`
	OpenfgaStoreId       string `envconfig:"openfga_store_id"`
	OpenfgaModelId       string `envconfig:"openfga_authorization_model_id" default:""`

	MailProvider   string `envconfig:"mail_provider" default:"log"`
	MailFrom       string `envconfig:"mail_from" default:"no-reply@inventory.local"`
	SendgridAPIKey string `envconfig:"sendgrid_api_key"`
	AWSRegion      string `envconfig:"aws_region" default:"eu-central-1"`
	AWSAccessKeyID string `envconfig:"aws_access_key_id"`
	AWSSecretKey   string `envconfig:"aws_secret_access_key"`

	KafkaBrokers []string `envconfig:"kafka_brokers"`
	KafkaTopic   string   `envconfig:"kafka_topic" default:"inventory-events"`

	NotifyMaxInFlight  int64 `envconfig:"notify_max_in_flight" default:"64"`
	NotifyParallelism  int   `envconfig:"notify_parallelism" default:"4"`
	SummaryRecentTasks int   `envconfig:"summary_recent_tasks" default:"10"`
}
