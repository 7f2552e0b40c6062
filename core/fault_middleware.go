package core

import (
	"context"
)

// ResponseFaultMiddleware replays a call once after refreshing an expired
// access credential. Other faults pass through untouched.
type ResponseFaultMiddleware struct {
	coordinator *RefreshCoordinator
	telemetry   telemetry
}

func NewResponseFaultMiddleware(coordinator *RefreshCoordinator, logger Logger, recorder MetricsRecorder) *ResponseFaultMiddleware {
	return &ResponseFaultMiddleware{
		coordinator: coordinator,
		telemetry:   newTelemetry(logger, recorder),
	}
}

func (m *ResponseFaultMiddleware) Wrap(next CallFunc) CallFunc {
	return func(ctx context.Context, call *TrackedCall) (Response, error) {
		res, err := next(ctx, call)
		if err == nil {
			return res, nil
		}

		kind := FaultKindOf(err)
		fields := map[string]any{
			"call_id":    call.Call.ID,
			"method":     call.Call.Method,
			"url":        call.Call.URL,
			"fault_kind": kind.String(),
		}
		if kind != FaultExpiredAccessCredential {
			m.telemetry.incCounter(ctx, MetricFaultPassthrough, map[string]string{"fault_kind": kind.String()})
			return res, err
		}
		if call.Retried {
			m.telemetry.logWarn(ctx, "replayed call rejected again; not retrying", fields)
			return res, err
		}
		if m.coordinator == nil {
			return res, err
		}

		call.Retried = true
		token, refreshErr := m.coordinator.ObtainFreshCredential(ctx)
		if refreshErr != nil {
			fields["error"] = refreshErr.Error()
			m.telemetry.logWarn(ctx, "call not replayed; credential refresh failed", fields)
			return Response{}, refreshErr
		}

		call.Token = token
		m.telemetry.incCounter(ctx, MetricCallReplayed, nil)
		m.telemetry.logDebug(ctx, "replaying call with refreshed credential", fields)
		return next(ctx, call)
	}
}
