package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/laundry/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus slow query marking on
// db. It is a no-op unless telemetry.db_trace_enabled is set.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, dbSystem string, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(dbSystem)}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	if err := registerSlowQueryCallbacks(db, threshold); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", dbSystem),
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSpan(tx, threshold) }

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("laundry:trace_before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("laundry:trace_after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("laundry:trace_before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("laundry:trace_after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("laundry:trace_before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("laundry:trace_after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("laundry:trace_before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("laundry:trace_after_delete", after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("laundry:trace_before_raw", before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("laundry:trace_after_raw", after)
}

// markSpan annotates the active span with row counts, errors and a slow
// query flag
func markSpan(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
