package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/platform/config"
)

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:            "localhost",
		Port:            15432,
		User:            "user",
		Password:        "pass",
		Name:            "recruit",
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}

	poolCfg, err := BuildPoolConfig(dbCfg, zap.NewNop())
	require.NoError(t, err)

	assert.EqualValues(t, 20, poolCfg.MaxConns)
	assert.EqualValues(t, 5, poolCfg.MinConns)
	assert.Equal(t, 30*time.Minute, poolCfg.MaxConnLifetime)
	assert.Equal(t, 10*time.Minute, poolCfg.MaxConnIdleTime)
	assert.Equal(t, "recruit", poolCfg.ConnConfig.Database)
	assert.IsType(t, &QueryTracer{}, poolCfg.ConnConfig.Tracer)
}

func TestBuildPoolConfig_WithoutLogger(t *testing.T) {
	t.Parallel()

	poolCfg, err := BuildPoolConfig(config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "db", SSLMode: "disable",
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, poolCfg.ConnConfig.Tracer, "no tracer without logger")
}

func TestQueryTracer_LogsSlowAndFailedQueries(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	tracer := NewQueryTracer(zap.New(core), 100*time.Millisecond)

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	current := base
	tracer.now = func() time.Time { return current }

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT   1"})
	current = base.Add(150 * time.Millisecond)
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	ctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 2"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

	ctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 3"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "slow query", entries[0].Message)
	assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	assert.Equal(t, "query failed", entries[1].Message)
}
