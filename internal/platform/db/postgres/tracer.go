package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const maxLoggedSQLLength = 300

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// QueryTracer は失敗したクエリと閾値を超えたクエリを zap に記録する pgx.QueryTracer です。
type QueryTracer struct {
	logger    *zap.Logger
	threshold time.Duration
	now       func() time.Time
}

// NewQueryTracer は QueryTracer を生成します。threshold が 0 の場合、遅延の記録は行いません。
func NewQueryTracer(logger *zap.Logger, threshold time.Duration) *QueryTracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryTracer{logger: logger.Named("postgres"), threshold: threshold, now: time.Now}
}

// TraceQueryStart はクエリ開始時刻をコンテキストに記録します。
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: t.now()})
}

// TraceQueryEnd はエラーまたは遅延があった場合にログを出力します。
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	elapsed := t.now().Sub(start.at)
	fields := []zap.Field{
		zap.String("sql", compactSQL(start.sql)),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case data.Err != nil:
		t.logger.Debug("query failed", append(fields, zap.Error(data.Err))...)
	case t.threshold > 0 && elapsed >= t.threshold:
		t.logger.Warn("slow query", append(fields, zap.Int64("rows", data.CommandTag.RowsAffected()))...)
	}
}

func compactSQL(sql string) string {
	compact := strings.Join(strings.Fields(sql), " ")
	if len(compact) > maxLoggedSQLLength {
		return compact[:maxLoggedSQLLength] + "..."
	}
	return compact
}
