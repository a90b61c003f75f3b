package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/chillpill/chillpill/internal/store"
	"github.com/chillpill/chillpill/internal/store/storetest"
)

// postgresDSN returns a DSN from CHILLPILL_POSTGRES_DSN, or starts a throwaway
// container when CHILLPILL_DOCKER_TESTS=1. Otherwise the test is skipped.
func postgresDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("CHILLPILL_POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	if os.Getenv("CHILLPILL_DOCKER_TESTS") != "1" {
		t.Skip("CHILLPILL_POSTGRES_DSN not set and CHILLPILL_DOCKER_TESTS!=1; skipping postgres store integration test")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "chillpill",
			"POSTGRES_PASSWORD": "chillpill",
			"POSTGRES_DB":       "chillpill",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("postgres://chillpill:chillpill@%s:%s/chillpill?sslmode=disable", host, port.Port())
}

func TestPostgresStore_Compliance(t *testing.T) {
	dsn := postgresDSN(t)
	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		db, err := Open(ctx, dsn)
		if err != nil {
			t.Fatalf("postgres open: %v", err)
		}
		s, err := NewWithDB(ctx, db)
		if err != nil {
			t.Fatalf("postgres schema: %v", err)
		}
		return s
	})
}
