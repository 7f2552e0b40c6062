package core

import (
	"context"
	"sort"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type telemetry struct {
	logger          Logger
	metricsRecorder MetricsRecorder
}

func newTelemetry(logger Logger, recorder MetricsRecorder) telemetry {
	if recorder == nil {
		recorder = NopMetricsRecorder{}
	}
	return telemetry{
		logger:          glog.Ensure(logger),
		metricsRecorder: recorder,
	}
}

func (t telemetry) observeRefresh(ctx context.Context, startedAt time.Time, err error) {
	status := "success"
	fields := map[string]any{
		"duration_ms": time.Since(startedAt).Milliseconds(),
	}
	if err != nil {
		status = "failure"
		fields["error"] = err.Error()
		fields["irrecoverable"] = IsRefreshIrrecoverable(err)
	}
	fields["status"] = status
	tags := map[string]string{"status": status}

	t.incCounter(ctx, MetricRefreshTotal, tags)
	t.observeHistogram(ctx, MetricRefreshDuration, float64(time.Since(startedAt).Milliseconds()), tags)

	if err != nil {
		t.logWithLevel(ctx, "error", "credential refresh failed", fields)
		return
	}
	t.logWithLevel(ctx, "info", "credential refresh succeeded", fields)
}

func (t telemetry) logDebug(ctx context.Context, message string, fields map[string]any) {
	t.logWithLevel(ctx, "debug", message, fields)
}

func (t telemetry) logInfo(ctx context.Context, message string, fields map[string]any) {
	t.logWithLevel(ctx, "info", message, fields)
}

func (t telemetry) logWarn(ctx context.Context, message string, fields map[string]any) {
	t.logWithLevel(ctx, "warn", message, fields)
}

func (t telemetry) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if t.logger == nil {
		return
	}
	logger := t.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	case "debug":
		logger.Debug(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (t telemetry) incCounter(ctx context.Context, name string, tags map[string]string) {
	if t.metricsRecorder == nil {
		return
	}
	t.metricsRecorder.IncCounter(ctx, strings.TrimSpace(name), 1, cloneTags(tags))
}

func (t telemetry) observeHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if t.metricsRecorder == nil {
		return
	}
	t.metricsRecorder.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
