package testutils

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/clock"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/observability"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/Black-And-White-Club/moto-pickem/db/bundb"
	"github.com/Black-And-White-Club/moto-pickem/integration_tests/containers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

// SeasonStart is the Monday the fake clock starts on in every test.
var SeasonStart = time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

// TestEnvironment holds the shared Postgres container for one test package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	DB            *bun.DB
	Config        *config.Config
}

// NewTestEnvironment starts Postgres and applies every migration.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	db, err := bundb.NewBunDB(ctx, dsn)
	if err != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
		cancel()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := runMigrations(ctx, db, dsn, discardLogger()); err != nil {
		db.Close()
		_ = testcontainers.TerminateContainer(pgContainer)
		cancel()
		return nil, err
	}

	cfg := &config.Config{
		Postgres: config.PostgresConfig{DSN: dsn},
		HTTP: config.HTTPConfig{
			AdminToken: "integration-admin",
			RateLimit:  1000,
			RateBurst:  1000,
		},
		League: config.LeagueConfig{
			ScoringTable: "standard",
			DisableQueue: true,
			BcryptCost:   4,
		},
		Observability: config.ObservabilityConfig{Environment: "test"},
	}

	return &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		PgContainer:   pgContainer,
		DB:            db,
		Config:        cfg,
	}, nil
}

// RunMain is the body of a package TestMain: it skips everything under
// -short, otherwise builds the environment, runs the tests and tears down.
func RunMain(m *testing.M, env **TestEnvironment) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping integration tests in short mode")
		os.Exit(0)
	}

	e, err := NewTestEnvironment()
	if err != nil {
		log.Fatalf("Failed to set up test environment: %v", err)
	}
	*env = e

	code := m.Run()
	e.Cleanup()
	os.Exit(code)
}

// NewApp resets the database and builds the full application on the shared
// connection, with time read from clk. opts adjust a copy of the config.
func (env *TestEnvironment) NewApp(t *testing.T, clk clock.Clock, opts ...func(*config.Config)) *app.App {
	t.Helper()

	if err := CleanupDatabase(env.Ctx, env.DB); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	obs := observability.Observability{
		Logger:   discardLogger(),
		Metrics:  metrics.NewPrometheusMetrics(reg),
		Registry: reg,
		Tracer:   noop.NewTracerProvider().Tracer("test"),
	}

	cfg := *env.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	a, err := app.NewAppWithDB(env.Ctx, &cfg, obs, env.DB, clk)
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Logf("app close: %v", err)
		}
	})
	return a
}

// Cleanup tears down all resources created for testing.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.DB != nil {
		env.DB.Close()
	}
	if env.PgContainer != nil {
		if err := testcontainers.TerminateContainer(env.PgContainer); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
