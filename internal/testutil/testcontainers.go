// Helpers for running a throwaway MariaDB behind the service, used by the
// cmd/testcontainers dev utility and by container-backed tests.
// Expects environment variables to be loaded from .env files.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/studyloop/studyplan-api/data"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultDBImage      = "mariadb:11"
	defaultDBPort       = "3306"
	defaultRootPassword = "root"
	defaultDatabase     = "studyplan"
)

// TestContainers holds the running container environment
type TestContainers struct {
	Network     *testcontainers.DockerNetwork
	DBContainer testcontainers.Container

	// Host/port the service config should point at
	DBHost string
	DBPort string
}

// Terminate tears the environment down; safe on partially built environments
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate MariaDB: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateDBContainer starts a MariaDB container, applies the embedded schema
// and privilege DDL, and returns the mapped host/port for the service config.
func CreateDBContainer(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	testContainers := &TestContainers{}

	if err := dockerAvailable(ctx); err != nil {
		return nil, fmt.Errorf("docker daemon unavailable: %w", err)
	}

	// Create a network
	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	testContainers.Network = nw

	dbImage := getenvDefault("DB_IMAGE", defaultDBImage)
	dbAlias := "studyplan-db-" + uuid.New().String()[:8]
	tcpDBPort, err := nat.NewPort("tcp", getenvDefault("DB_PORT", defaultDBPort))
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to create DB port")
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{string(tcpDBPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": getenvDefault("DB_ROOT_PASSWORD", defaultRootPassword),
				"MARIADB_DATABASE":      getenvDefault("DB_DATABASE", defaultDatabase),
			},
			WaitingFor: wait.ForListeningPort(tcpDBPort).WithStartupTimeout(60 * time.Second),
			Networks:   []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {dbAlias},
			},
		},
		Started: true,
	})
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to start MariaDB")
	}
	testContainers.DBContainer = dbContainer

	dbHost, _ := dbContainer.Host(ctx)
	dbPort, _ := dbContainer.MappedPort(ctx, tcpDBPort)
	testContainers.DBHost = dbHost
	testContainers.DBPort = dbPort.Port()

	if err := performDBInit(t, dbHost, dbPort.Port()); err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to initialize database")
	}

	logMessage(t, "DB_HOST=%s DB_PORT=%s DB_DATABASE=%s", dbHost, dbPort.Port(), getenvDefault("DB_DATABASE", defaultDatabase))

	return testContainers, nil
}

// performDBInit applies the embedded DDL to the fresh container as root
func performDBInit(t *testing.T, host, port string) error {
	dsn := fmt.Sprintf("root:%s@tcp(%s:%s)/%s?multiStatements=true",
		getenvDefault("DB_ROOT_PASSWORD", defaultRootPassword),
		host, port,
		getenvDefault("DB_DATABASE", defaultDatabase),
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open init connection: %w", err)
	}
	defer db.Close()

	// The listening port comes up slightly before the server accepts auth
	deadline := time.Now().Add(30 * time.Second)
	for {
		if err = db.Ping(); err == nil {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("database never became ready: %w", err)
		}
		time.Sleep(time.Second)
	}

	for _, ddl := range []string{data.InitdbMariaDBTables, data.InitdbMariaDBPrivileges} {
		for _, stmt := range splitStatements(ddl) {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply init DDL: %w", err)
			}
		}
	}

	logMessage(t, "Applied init DDL to %s:%s", host, port)
	return nil
}

// splitStatements breaks a DDL file into individual statements
func splitStatements(ddl string) []string {
	var stmts []string
	for _, raw := range strings.Split(ddl, ";") {
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// dockerAvailable pings the docker daemon before any container work starts
func dockerAvailable(ctx context.Context) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	defer cli.Close()

	_, err = cli.Ping(ctx)
	return err
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func logMessage(t *testing.T, format string, args ...interface{}) {
	if t != nil {
		t.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func exitWithError(t *testing.T, err error, message string) {
	if t != nil {
		t.Fatalf("%s: %v", message, err)
		return
	}
	log.Fatalf("%s: %v", message, err)
}
