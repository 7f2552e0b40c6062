package core

import (
	"context"
	"strings"
)

const (
	DefaultLoginRoute      = "/auth/login"
	DefaultAuthRoutePrefix = "/auth"
)

// SessionTerminator ends a session whose refresh credential is no longer
// accepted. Navigation is skipped while the host is already on an auth route.
type SessionTerminator struct {
	store       CredentialStore
	navigator   Navigator
	loginRoute  string
	routePrefix string
	telemetry   telemetry
}

func NewSessionTerminator(
	store CredentialStore,
	navigator Navigator,
	loginRoute string,
	routePrefix string,
	logger Logger,
	recorder MetricsRecorder,
) *SessionTerminator {
	loginRoute = strings.TrimSpace(loginRoute)
	if loginRoute == "" {
		loginRoute = DefaultLoginRoute
	}
	routePrefix = strings.TrimSpace(routePrefix)
	if routePrefix == "" {
		routePrefix = DefaultAuthRoutePrefix
	}
	return &SessionTerminator{
		store:       store,
		navigator:   navigator,
		loginRoute:  loginRoute,
		routePrefix: routePrefix,
		telemetry:   newTelemetry(logger, recorder),
	}
}

func (t *SessionTerminator) Terminate(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var clearErr error
	if t.store != nil {
		clearErr = t.store.Clear(ctx)
	}

	redirected := false
	if t.navigator != nil {
		current := strings.TrimSpace(t.navigator.CurrentRoute())
		if !strings.HasPrefix(current, t.routePrefix) {
			t.navigator.Navigate(t.loginRoute)
			redirected = true
		}
	}

	fields := map[string]any{
		"login_route": t.loginRoute,
		"redirected":  redirected,
	}
	if clearErr != nil {
		fields["error"] = clearErr.Error()
	}
	t.telemetry.incCounter(ctx, MetricSessionTerminated, map[string]string{
		"redirected": boolTag(redirected),
	})
	t.telemetry.logWarn(ctx, "session terminated", fields)
	return clearErr
}

func boolTag(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
