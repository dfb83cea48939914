package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/spendpace/internal/config"
	"github.com/klokku/spendpace/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const snapshotName = "spendpace-test-snapshot"

// TestDB is a migrated Postgres container shared by the tests of one package.
type TestDB struct {
	container *postgres.PostgresContainer
	cfg       config.Database
	Pool      *pgxpool.Pool
}

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	return runRecovering(func() (*postgres.PostgresContainer, error) {
		return postgres.Run(
			ctx, "postgres:18.1-alpine",
			postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
			postgres.WithDatabase("spendpace"),
			postgres.WithUsername("test_spendpace"),
			postgres.WithPassword("test_spendpace"),
			postgres.BasicWaitStrategies(),
		)
	})
}

// runRecovering turns a panic of the container provider (testcontainers panics when it finds no
// docker host) into an error.
func runRecovering(run func() (*postgres.PostgresContainer, error)) (container *postgres.PostgresContainer, err error) {
	defer func() {
		if r := recover(); r != nil {
			container = nil
			err = fmt.Errorf("container provider is not available: %v", r)
		}
	}()
	return run()
}

// TestWithDB starts Postgres, applies all migrations and snapshots the empty schema.
// It returns an error when no container runtime is available, callers skip their tests then.
func TestWithDB() (*TestDB, error) {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	db, err := connectContainer(ctx, container)
	if err != nil {
		if terminateErr := testcontainers.TerminateContainer(container); terminateErr != nil {
			log.Errorf("failed to terminate postgres container: %v", terminateErr)
		}
		return nil, err
	}
	return db, nil
}

func connectContainer(ctx context.Context, container *postgres.PostgresContainer) (*TestDB, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, err
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:     host,
		Port:     port.Int(),
		User:     "test_spendpace",
		Pass:     "test_spendpace",
		Name:     "spendpace",
		Schema:   "spendpace",
		MaxConns: 4,
	}
	if err := database.Migrate(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	if err := container.Snapshot(ctx, postgres.WithSnapshotName(snapshotName)); err != nil {
		return nil, fmt.Errorf("failed to snapshot postgres container: %w", err)
	}

	pool, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &TestDB{container: container, cfg: cfg, Pool: pool}, nil
}

// Reset restores the freshly migrated snapshot. The pool is reopened because the restore
// recreates the database.
func (d *TestDB) Reset(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	d.Pool.Close()
	if err := d.container.Restore(ctx, postgres.WithSnapshotName(snapshotName)); err != nil {
		t.Fatalf("failed to restore database snapshot: %v", err)
	}
	pool, err := database.Open(ctx, d.cfg)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	d.Pool = pool
}

func (d *TestDB) Close() {
	d.Pool.Close()
	if err := testcontainers.TerminateContainer(d.container); err != nil {
		log.Errorf("failed to terminate postgres container: %v", err)
	}
}

// findProjectRoot walks up until it finds go.mod or .git.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if fileExists(filepath.Join(dir, ".git")) || fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
