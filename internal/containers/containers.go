// Package containers starts the postgres and redis dependencies in docker.
// It backs the devstack command and the database integration tests.
package containers

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Options selects images and credentials for the stack
type Options struct {
	PostgresImage string
	RedisImage    string
	Database      string
	User          string
	Password      string
	WithRedis     bool
}

// DefaultOptions returns images and credentials suitable for local development.
func DefaultOptions() Options {
	return Options{
		PostgresImage: "postgres:17-alpine",
		RedisImage:    "redis:7-alpine",
		Database:      "lexideck",
		User:          "lexideck",
		Password:      "lexideck",
		WithRedis:     true,
	}
}

// Stack is a running set of containers.
type Stack struct {
	Network  *testcontainers.DockerNetwork
	Postgres testcontainers.Container
	Redis    testcontainers.Container

	PostgresHost string
	PostgresPort string
	RedisAddr    string

	opts Options
}

// Start creates the network and containers. On error anything already started is terminated.
func Start(ctx context.Context, opts Options) (*Stack, error) {
	stack := &Stack{opts: opts}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	stack.Network = nw

	pgPort, err := nat.NewPort("tcp", "5432")
	if err != nil {
		stack.Terminate(ctx)
		return nil, err
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.PostgresImage,
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_DB":       opts.Database,
				"POSTGRES_USER":     opts.User,
				"POSTGRES_PASSWORD": opts.Password,
			},
			// postgres restarts once after init; wait for the second ready line
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
			Networks: []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {"postgres"},
			},
		},
		Started: true,
	})
	if err != nil {
		stack.Terminate(ctx)
		return nil, fmt.Errorf("failed to start postgres: %w", err)
	}
	stack.Postgres = pg

	if stack.PostgresHost, err = pg.Host(ctx); err != nil {
		stack.Terminate(ctx)
		return nil, err
	}
	mapped, err := pg.MappedPort(ctx, pgPort)
	if err != nil {
		stack.Terminate(ctx)
		return nil, err
	}
	stack.PostgresPort = mapped.Port()

	if !opts.WithRedis {
		return stack, nil
	}

	redisPort, err := nat.NewPort("tcp", "6379")
	if err != nil {
		stack.Terminate(ctx)
		return nil, err
	}
	rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.RedisImage,
			ExposedPorts: []string{string(redisPort)},
			WaitingFor:   wait.ForListeningPort(redisPort).WithStartupTimeout(30 * time.Second),
			Networks:     []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {"redis"},
			},
		},
		Started: true,
	})
	if err != nil {
		stack.Terminate(ctx)
		return nil, fmt.Errorf("failed to start redis: %w", err)
	}
	stack.Redis = rc

	redisHost, err := rc.Host(ctx)
	if err != nil {
		stack.Terminate(ctx)
		return nil, err
	}
	redisMapped, err := rc.MappedPort(ctx, redisPort)
	if err != nil {
		stack.Terminate(ctx)
		return nil, err
	}
	stack.RedisAddr = fmt.Sprintf("%s:%s", redisHost, redisMapped.Port())

	return stack, nil
}

// Config returns a configuration pointing at the stack.
func (s *Stack) Config() *config.Config {
	return &config.Config{
		DBType:            "postgres",
		DBHost:            s.PostgresHost,
		DBPort:            s.PostgresPort,
		DBDatabase:        s.opts.Database,
		DBUser:            s.opts.User,
		DBPassword:        s.opts.Password,
		DBConnectionLimit: 5,
		DBLogLevel:        "warn",
		RedisAddr:         s.RedisAddr,
		SessionSecret:     "devstack-session-secret",
		SessionTTL:        24 * time.Hour,
		BcryptCost:        10,
		ExternalTimeout:   30 * time.Second,
	}
}

// Env renders the stack as environment variables for the server.
func (s *Stack) Env() map[string]string {
	env := map[string]string{
		"DB_TYPE":     "postgres",
		"DB_HOST":     s.PostgresHost,
		"DB_PORT":     s.PostgresPort,
		"DB_DATABASE": s.opts.Database,
		"DB_USER":     s.opts.User,
		"DB_PASSWORD": s.opts.Password,
	}
	if s.RedisAddr != "" {
		env["REDIS_ADDR"] = s.RedisAddr
	}
	return env
}

// Terminate stops every container and removes the network, returning the first error.
func (s *Stack) Terminate(ctx context.Context) error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if s.Redis != nil {
		keep(s.Redis.Terminate(ctx))
	}
	if s.Postgres != nil {
		keep(s.Postgres.Terminate(ctx))
	}
	if s.Network != nil {
		keep(s.Network.Remove(ctx))
	}
	return first
}
