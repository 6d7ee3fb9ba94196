package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold is used when no threshold is configured
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormLogger writes GORM statements through zap. Statements issued with a
// request context are logged on that request's logger, so they carry its
// request_id.
type GormLogger struct {
	base    *zap.Logger
	level   gormlogger.LogLevel
	slow    time.Duration
	sqlText bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which statements are logged as slow.
// Zero disables slow statement logging.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slow = d }
}

// WithSQLText controls whether full statements are logged. When off only the
// statement verb is recorded, keeping tenant and rent values out of the logs.
func WithSQLText(enabled bool) GormLoggerOption {
	return func(l *GormLogger) { l.sqlText = enabled }
}

// NewGormLogger creates a GORM logger backed by zap
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		base:    base.Named("gorm"),
		level:   level,
		slow:    DefaultSlowQueryThreshold,
		sqlText: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode returns a copy logging at level
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.forContext(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.forContext(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.forContext(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace logs failed and slow statements, and every statement at Info level.
// Missing rows are reported by the repositories as not-found and skipped here.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slow > 0 && elapsed > l.slow

	switch {
	case failed && l.level >= gormlogger.Error:
		l.forContext(ctx).Error("SQL Error", append(l.statementFields(fc, elapsed), zap.Error(err))...)
	case slow && l.level >= gormlogger.Warn:
		l.forContext(ctx).Warn("Slow SQL", append(l.statementFields(fc, elapsed), zap.Duration("threshold", l.slow))...)
	case !failed && l.level >= gormlogger.Info:
		l.forContext(ctx).Debug("SQL Query", l.statementFields(fc, elapsed)...)
	}
}

func (l *GormLogger) statementFields(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}
	if l.sqlText {
		return append(fields, zap.String("sql", sql))
	}
	return append(fields, zap.String("statement", statementVerb(sql)))
}

func (l *GormLogger) forContext(ctx context.Context) *zap.Logger {
	if reqLogger, ok := lookup(ctx); ok {
		return reqLogger.Named("gorm")
	}
	return l.base
}

// statementVerb returns the leading keyword of sql, upper-cased
func statementVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// MapGormLogLevel derives the GORM level from the application log level.
// "silent" turns statement logging off; unknown names fall back to warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormlogger.Silent
	case "debug", "info":
		return gormlogger.Info
	case "error", "fatal":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
