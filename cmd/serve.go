// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/inventory-service/internal/authorization"
	"github.com/canonical/inventory-service/internal/config"
	"github.com/canonical/inventory-service/internal/db"
	"github.com/canonical/inventory-service/internal/events"
	"github.com/canonical/inventory-service/internal/firebase"
	"github.com/canonical/inventory-service/internal/firestore"
	"github.com/canonical/inventory-service/internal/identity"
	"github.com/canonical/inventory-service/internal/kratos"
	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/mail"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/monitoring/prometheus"
	"github.com/canonical/inventory-service/internal/openfga"
	"github.com/canonical/inventory-service/internal/storage"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/pkg/accounts"
	"github.com/canonical/inventory-service/pkg/authentication"
	"github.com/canonical/inventory-service/pkg/inventory"
	"github.com/canonical/inventory-service/pkg/notifications"
	"github.com/canonical/inventory-service/pkg/reports"
	"github.com/canonical/inventory-service/pkg/tasks"
	"github.com/canonical/inventory-service/pkg/tenant"
	"github.com/canonical/inventory-service/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	// a missing .env file is fine, the process environment wins anyway
	_ = godotenv.Load()

	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		return fmt.Errorf("issues with environment sourcing: %w", err)
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("inventory-service", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, specs.TracingSampleRatio, logger))

	ctx := context.Background()

	store, tx, closeStore, err := newStorage(ctx, specs, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	identities, err := newIdentityProvider(ctx, specs, tracer, monitor, logger)
	if err != nil {
		return err
	}

	mailer, err := newMailer(ctx, specs, tracer, logger)
	if err != nil {
		return err
	}

	var publisher events.PublisherInterface = events.NewNoopPublisher()
	if len(specs.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(specs.KafkaBrokers, specs.KafkaTopic, tracer, logger)
		logger.Infof("Publishing inventory events to %s", specs.KafkaTopic)
	}
	defer publisher.Close()

	authorizer, err := newAuthorizer(specs, store, tracer, monitor, logger)
	if err != nil {
		return err
	}
	if err := authorizer.ValidateModel(ctx); err != nil {
		return fmt.Errorf("invalid authorization model provided: %w", err)
	}

	sessions, err := authentication.NewSessionManager(specs.JWTSecret, specs.SessionLifetime, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	verifier, err := authentication.NewAuthenticator(
		ctx,
		specs.AuthenticationMode,
		sessions,
		authentication.OIDCConfig{
			Issuer:          specs.OIDCIssuer,
			JWKSURL:         specs.OIDCJWKSURL,
			AllowedSubjects: specs.OIDCAllowedSubjects,
			RequiredScope:   specs.OIDCRequiredScope,
		},
		tracer,
		monitor,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	authnMiddleware := authentication.NewMiddleware(verifier, tracer, monitor, logger)
	authn := authnMiddleware.TrustedHeader()
	if specs.AuthenticationEnabled {
		authn = authnMiddleware.Authenticate()
	} else {
		logger.Warn("Authentication is disabled, caller identity is read from a trusted header")
	}

	dispatcher := notifications.NewDispatcher(
		store,
		mailer,
		publisher,
		specs.NotifyMaxInFlight,
		specs.NotifyParallelism,
		tracer,
		monitor,
		logger,
	)

	directory := tenant.NewService(store, authorizer, dispatcher, tracer, monitor, logger)
	gate := tenant.NewGate(directory, authorizer, tracer, monitor, logger)

	inventoryService := inventory.NewService(store, dispatcher, tracer, monitor, logger)
	reportsService := reports.NewService(store, uint64(specs.SummaryRecentTasks), tracer, monitor, logger)
	tasksService := tasks.NewService(store, tracer, monitor, logger)
	accountsService := accounts.NewService(identities, store, authorizer, sessions, dispatcher, tracer, monitor, logger)

	router := web.NewRouter(
		[]web.APIInterface{
			accounts.NewAPI(accountsService, tracer, monitor, logger),
		},
		[]web.APIInterface{
			inventory.NewAPI(inventoryService, gate, specs.UploadMaxBytes, tracer, monitor, logger),
			tenant.NewAPI(directory, gate, tx, tracer, monitor, logger),
			reports.NewAPI(reportsService, gate, tracer, monitor, logger),
			tasks.NewAPI(tasksService, gate, tracer, monitor, logger),
		},
		authn,
		specs.AllowedOrigins,
		store,
		tracer,
		monitor,
		logger,
	)

	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	// in-flight notifications are allowed to finish within the same deadline
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Errorf("notifications still pending at shutdown: %v", err)
	}

	return serverError
}

// newStorage opens the configured backend. The returned middleware runs a
// request in a single database transaction, it is nil for firestore.
func newStorage(ctx context.Context, specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (storage.StorageInterface, func(http.Handler) http.Handler, func(), error) {
	switch specs.StorageBackend {
	case "postgres":
		dbClient, err := db.NewDBClient(
			db.Config{
				DSN:             specs.DSN,
				MaxConns:        specs.DBMaxConns,
				MinConns:        specs.DBMinConns,
				MaxConnLifetime: specs.DBMaxConnLifetime,
				MaxConnIdleTime: specs.DBMaxConnIdleTime,
				TracingEnabled:  specs.TracingEnabled,
			},
			tracer,
			monitor,
			logger,
		)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create database client: %w", err)
		}
		return storage.NewStorage(dbClient, tracer, monitor, logger), db.TransactionMiddleware(dbClient, logger), dbClient.Close, nil
	case "firestore":
		client, err := firestore.NewClient(ctx, specs.FirebaseProjectID, specs.FirebaseCredentialsFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		store := firestore.NewStore(client, tracer, monitor, logger)
		closer := func() {
			if err := store.Close(); err != nil {
				logger.Errorf("failed to close firestore client: %v", err)
			}
		}
		return store, nil, closer, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", specs.StorageBackend)
	}
}

func newIdentityProvider(ctx context.Context, specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (identity.ProviderInterface, error) {
	switch specs.IdentityProvider {
	case "kratos":
		return kratos.NewClient(specs.KratosAdminURL, specs.KratosPublicURL, specs.RecoveryLinkLifetime, tracer, monitor, logger), nil
	case "firebase":
		p, err := firebase.NewProvider(ctx, specs.FirebaseProjectID, specs.FirebaseCredentialsFile, specs.FirebaseAPIKey, tracer, monitor, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase provider: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", specs.IdentityProvider)
	}
}

func newMailer(ctx context.Context, specs *config.EnvSpec, tracer tracing.TracingInterface, logger logging.LoggerInterface) (mail.MailerInterface, error) {
	switch specs.MailProvider {
	case "log":
		return mail.NewLogMailer(logger), nil
	case "sendgrid":
		m, err := mail.NewSendGridMailer(specs.SendgridAPIKey, specs.MailFrom, tracer, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sendgrid mailer: %w", err)
		}
		return m, nil
	case "ses":
		m, err := mail.NewSESMailer(ctx, specs.AWSRegion, specs.AWSAccessKeyID, specs.AWSSecretKey, specs.MailFrom, tracer, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create ses mailer: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", specs.MailProvider)
	}
}

func newAuthorizer(specs *config.EnvSpec, store storage.StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (authorization.AuthorizerInterface, error) {
	if !specs.AuthorizationEnabled {
		logger.Info("Using role authorizer backed by storage")
		return authorization.NewRoleAuthorizer(store, tracer, logger), nil
	}

	ofga, err := openfga.NewClient(
		openfga.NewConfig(
			specs.OpenfgaApiScheme,
			specs.OpenfgaApiHost,
			specs.OpenfgaStoreId,
			specs.OpenfgaApiToken,
			specs.OpenfgaModelId,
			specs.Debug,
			tracer,
			monitor,
			logger,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openfga client: %w", err)
	}

	logger.Info("Authorization is enabled")

	return authorization.NewAuthorizer(ofga, tracer, monitor, logger), nil
}
