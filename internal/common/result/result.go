// Package result runs an operation behind a loading indicator and hands the
// outcome back to the caller as a value, so failures are never dropped.
package result

import (
	"context"
	"time"

	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/common/metrics"
)

// Result is either a value or an error, never silently neither.
type Result[T any] struct {
	Value    T
	Err      error
	Duration time.Duration
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap returns the pair form for callers that prefer it.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// Indicator is the loading signal shown while an operation runs.
type Indicator interface {
	Start(label string)
	Dismiss(label string, err error)
}

type logIndicator struct {
	log logger.Logger
}

// LogIndicator reports loading state through the structured log and the
// in-flight gauge.
func LogIndicator(log logger.Logger) Indicator {
	return &logIndicator{log: log}
}

func (l *logIndicator) Start(label string) {
	metrics.OperationsInFlight.WithLabelValues(label).Inc()
	l.log.Debug("operation started", map[string]interface{}{"operation": label})
}

func (l *logIndicator) Dismiss(label string, err error) {
	metrics.OperationsInFlight.WithLabelValues(label).Dec()
	if err != nil {
		l.log.Warn("operation failed", map[string]interface{}{"operation": label, "error": err.Error()})
		return
	}
	l.log.Debug("operation finished", map[string]interface{}{"operation": label})
}

// Await runs fn with the indicator active. The indicator is dismissed on
// every path, including panics, and the error is returned in the Result.
func Await[T any](ctx context.Context, label string, ind Indicator, fn func(context.Context) (T, error)) (res Result[T]) {
	start := time.Now()
	ind.Start(label)
	defer func() {
		res.Duration = time.Since(start)
		if p := recover(); p != nil {
			ind.Dismiss(label, panicError{value: p})
			panic(p)
		}
		ind.Dismiss(label, res.Err)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	res.Value, res.Err = fn(ctx)
	return res
}

type panicError struct {
	value interface{}
}

func (p panicError) Error() string {
	return "panic during awaited operation"
}
