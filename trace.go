package wcdb

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SQLTracer observes every statement a handle executes. info lists the
// bound arguments.
type SQLTracer func(tag int64, path string, handleID int64, sql string, info string)

// PerformanceInfo describes one executed statement.
type PerformanceInfo struct {
	Elapsed      time.Duration
	RowsAffected int64
	RowsScanned  int64
}

// PerformanceTracer observes the cost of every executed statement.
type PerformanceTracer func(tag int64, path string, handleID int64, sql string, info PerformanceInfo)

// ExceptionTracer observes every error before it is returned. It must not
// call back into the database that reported the error.
type ExceptionTracer func(err *Error)

type tracers struct {
	mu          sync.RWMutex
	sql         SQLTracer
	performance PerformanceTracer
	exception   ExceptionTracer
}

func (t *tracers) setSQL(cb SQLTracer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sql = cb
}

func (t *tracers) setPerformance(cb PerformanceTracer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.performance = cb
}

func (t *tracers) setException(cb ExceptionTracer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exception = cb
}

// load returns the current callbacks so they run without the lock held.
func (t *tracers) load() (SQLTracer, PerformanceTracer, ExceptionTracer) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sql, t.performance, t.exception
}

var globalTracers tracers

// GlobalTraceSQL replaces the process wide SQL tracer. nil clears it.
func GlobalTraceSQL(cb SQLTracer) {
	globalTracers.setSQL(cb)
}

// GlobalTracePerformance replaces the process wide performance tracer.
// nil clears it.
func GlobalTracePerformance(cb PerformanceTracer) {
	globalTracers.setPerformance(cb)
}

// GlobalTraceException replaces the process wide exception tracer. nil
// clears it.
func GlobalTraceException(cb ExceptionTracer) {
	globalTracers.setException(cb)
}

// TraceSQL replaces the SQL tracer of the database. nil clears it.
func (db *Database) TraceSQL(cb SQLTracer) {
	db.tracers.setSQL(cb)
}

// TracePerformance replaces the performance tracer of the database. nil
// clears it.
func (db *Database) TracePerformance(cb PerformanceTracer) {
	db.tracers.setPerformance(cb)
}

// TraceException replaces the exception tracer of the database. nil clears
// it.
func (db *Database) TraceException(cb ExceptionTracer) {
	db.tracers.setException(cb)
}

func (db *Database) traceStatement(handleID int64, sql, info string, performance PerformanceInfo, kind string) {
	recordStatement(kind, performance)
	tag := db.Tag()
	globalSQL, globalPerformance, _ := globalTracers.load()
	localSQL, localPerformance, _ := db.tracers.load()
	for _, cb := range []SQLTracer{globalSQL, localSQL} {
		if cb != nil {
			cb(tag, db.path, handleID, sql, info)
		}
	}
	for _, cb := range []PerformanceTracer{globalPerformance, localPerformance} {
		if cb != nil {
			cb(tag, db.path, handleID, sql, performance)
		}
	}
}

// report stamps err with the database identity, notifies the exception
// tracers and returns it. Non engine errors pass through untouched.
func (db *Database) report(ctx context.Context, err error) error {
	e, ok := AsError(err)
	if !ok {
		return err
	}
	if e.Path == "" {
		e.Path = db.path
	}
	e.Tag = db.Tag()
	recordError(e.Kind)
	db.logError(ctx, e)
	if e.Kind == KindCorrupt {
		db.markCorrupted(ctx)
	}
	_, _, global := globalTracers.load()
	_, _, local := db.tracers.load()
	for _, cb := range []ExceptionTracer{global, local} {
		if cb != nil {
			cb(e)
		}
	}
	return e
}

func (db *Database) logError(ctx context.Context, e *Error) {
	level, ok := slogLevel(e.Level)
	if !ok {
		return
	}
	db.Logger().Log(ctx, level, e.Message,
		slog.String("kind", e.Kind.String()),
		slog.Int("code", e.Code),
		slog.Int("extended_code", e.ExtendedCode),
		slog.String("path", e.Path),
		slog.String("sql", e.SQL),
	)
}

func slogLevel(level Level) (slog.Level, bool) {
	switch level {
	case LevelIgnore:
		return 0, false
	case LevelDebug:
		return slog.LevelDebug, true
	case LevelNotice:
		return slog.LevelInfo, true
	case LevelWarning:
		return slog.LevelWarn, true
	default:
		return slog.LevelError, true
	}
}
