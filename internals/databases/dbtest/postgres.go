//go:build integration

// Package dbtest starts a migrated PostgreSQL container for integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ministryhub_backend/internals/configs"
	database "ministryhub_backend/internals/databases"
)

// StartPostgres runs a throwaway postgres with the schema migrated. The
// container is terminated when the test ends.
func StartPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("container test skipped in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "church",
				"POSTGRES_PASSWORD": "church",
				"POSTGRES_DB":       "ministryhub",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := configs.DatabaseConfig{
		Driver:   configs.DriverPostgres,
		Host:     host,
		Port:     port.Int(),
		Name:     "ministryhub",
		User:     "church",
		Password: "church",
		SSLMode:  "disable",
	}
	log := zap.NewNop()
	db, err := database.ConnectDB(cfg, log)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, configs.DriverPostgres, log))
	return db
}
