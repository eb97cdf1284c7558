//go:build integration

// Package testinfra starts throwaway PostGIS containers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultPostgisImage = "postgis/postgis:16-3.4"
	postgresPort        = "5432/tcp"
)

// PostgisContainer is a running PostGIS server with a fresh database.
type PostgisContainer struct {
	testcontainers.Container
	ConnectionURL string
}

// SkipIfNoDocker skips the test when no docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func NewPostgisContainer(ctx context.Context) (*PostgisContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultPostgisImage,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     "dlt",
			"POSTGRES_PASSWORD": "dlt",
			"POSTGRES_DB":       "traffic",
		},
		// the entrypoint restarts the server once after running the init scripts
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(postgresPort),
		).WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("resolve container host: %w", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("resolve container port: %w", err)
	}

	return &PostgisContainer{
		Container:     container,
		ConnectionURL: fmt.Sprintf("postgres://dlt:dlt@%s:%s/traffic?sslmode=disable", host, port.Port()),
	}, nil
}

// StartPostgis starts a container and terminates it when the test ends.
func StartPostgis(t *testing.T) *PostgisContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	postgis, err := NewPostgisContainer(ctx)
	if err != nil {
		t.Fatalf("start postgis: %v", err)
	}
	t.Cleanup(func() {
		if err := postgis.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})
	return postgis
}
