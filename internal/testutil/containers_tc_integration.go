//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"

	pgrepo "github.com/Gunvolt24/pos_reports/internal/repo/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v23.3.8"
	redisImage    = "redis:7-alpine"
)

var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

// StopFunc — остановка окружения, поднятого в тесте.
type StopFunc func(context.Context) error

// lifecycle — хуки testcontainers, пишущие этапы жизни контейнера в tcLogger.
func lifecycle() tc.CustomizeRequestOption {
	stage := func(name string) []tc.ContainerHook {
		return []tc.ContainerHook{func(_ context.Context, c tc.Container) error {
			id := c.GetContainerID()
			if len(id) > 12 {
				id = id[:12]
			}
			tcLogger.Printf("%-11s id=%s", name, id)
			return nil
		}}
	}
	return tc.WithLifecycleHooks(tc.ContainerLifecycleHooks{
		PreCreates: []tc.ContainerRequestHook{func(_ context.Context, req tc.ContainerRequest) error {
			tcLogger.Printf("%-11s image=%s", "create", req.Image)
			return nil
		}},
		PostStarts:     stage("started"),
		PostReadies:    stage("ready"),
		PreTerminates:  stage("terminating"),
		PostTerminates: stage("terminated"),
	})
}

// PGContainer — Postgres с DSN (для goose) и пулом.
type PGContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// StartPostgresTC — Postgres в контейнере; stop закрывает пул и удаляет контейнер.
func StartPostgresTC(ctx context.Context) (*PGContainer, StopFunc, error) {
	pg, err := postgres.Run(ctx, postgresImage,
		lifecycle(),
		postgres.WithDatabase("pos"),
		postgres.WithUsername("pos"),
		postgres.WithPassword("pos"),
		tc.WithWaitStrategy(wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(time.Minute)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	env := &PGContainer{Container: pg}
	fail := func(step string, err error) (*PGContainer, StopFunc, error) {
		_ = tc.TerminateContainer(pg)
		return nil, nil, fmt.Errorf("%s: %w", step, err)
	}

	if env.DSN, err = pg.ConnectionString(ctx, "sslmode=disable"); err != nil {
		return fail("postgres dsn", err)
	}
	if env.Pool, err = pgrepo.NewPool(ctx, env.DSN, pgrepo.PoolOptions{MaxConns: 5}); err != nil {
		return fail("postgres pool", err)
	}

	return env, func(context.Context) error {
		env.Pool.Close()
		return tc.TerminateContainer(pg)
	}, nil
}

// KafkaEnv — Redpanda в роли Kafka.
type KafkaEnv struct {
	Container *redpanda.Container
	Brokers   []string
	BaseTopic string
}

// StartKafkaTC — брокер с автосозданием топиков; BaseTopic служит префиксом для тестов.
func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, StopFunc, error) {
	rp, err := redpanda.Run(ctx, redpandaImage, lifecycle(), redpanda.WithAutoCreateTopics())
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}
	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("redpanda seed broker: %w", err)
	}
	return &KafkaEnv{Container: rp, Brokers: []string{seed}, BaseTopic: baseTopic},
		func(context.Context) error { return tc.TerminateContainer(rp) }, nil
}

// StartRedisTC — Redis в контейнере; возвращает host:port.
func StartRedisTC(ctx context.Context) (string, StopFunc, error) {
	rc, err := tcredis.Run(ctx, redisImage, lifecycle())
	if err != nil {
		return "", nil, fmt.Errorf("run redis: %w", err)
	}
	addr, err := rc.Endpoint(ctx, "")
	if err != nil {
		_ = tc.TerminateContainer(rc)
		return "", nil, fmt.Errorf("redis endpoint: %w", err)
	}
	return addr, func(context.Context) error { return tc.TerminateContainer(rc) }, nil
}
