package core

import (
	"context"
	"strings"
	"sync"
	"time"
)

const defaultRefreshTimeout = 30 * time.Second

type refreshOutcome struct {
	token string
	err   error
}

// RefreshCoordinator guarantees at most one refresh call in flight. Callers
// arriving while a refresh is running are queued and receive its outcome in
// arrival order.
type RefreshCoordinator struct {
	store      CredentialStore
	refresher  Refresher
	terminator *SessionTerminator
	timeout    time.Duration
	telemetry  telemetry

	mu       sync.Mutex
	inFlight bool
	waiters  []chan refreshOutcome

	// delivered, when set, observes each waiter notification by queue position.
	delivered func(position int)
}

type RefreshCoordinatorConfig struct {
	Store      CredentialStore
	Refresher  Refresher
	Terminator *SessionTerminator
	Timeout    time.Duration
	Logger     Logger
	Metrics    MetricsRecorder
}

func NewRefreshCoordinator(cfg RefreshCoordinatorConfig) (*RefreshCoordinator, error) {
	if cfg.Store == nil {
		return nil, internalError("core: refresh coordinator requires a credential store")
	}
	if cfg.Refresher == nil {
		return nil, internalError("core: refresh coordinator requires a refresher")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	return &RefreshCoordinator{
		store:      cfg.Store,
		refresher:  cfg.Refresher,
		terminator: cfg.Terminator,
		timeout:    timeout,
		telemetry:  newTelemetry(cfg.Logger, cfg.Metrics),
	}, nil
}

// ObtainFreshCredential returns a new access token, either by performing the
// refresh or by waiting on the one already in flight.
func (c *RefreshCoordinator) ObtainFreshCredential(ctx context.Context) (string, error) {
	if c == nil {
		return "", internalError("core: refresh coordinator is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.inFlight {
		waiter := make(chan refreshOutcome, 1)
		c.waiters = append(c.waiters, waiter)
		queued := len(c.waiters)
		c.mu.Unlock()

		c.telemetry.incCounter(ctx, MetricRefreshJoined, nil)
		c.telemetry.logDebug(ctx, "joined in-flight credential refresh", map[string]any{"queue_position": queued})
		select {
		case outcome := <-waiter:
			return outcome.token, outcome.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	c.inFlight = true
	c.mu.Unlock()

	token, err := c.refresh(ctx)
	if err != nil && IsRefreshIrrecoverable(err) && c.terminator != nil {
		if termErr := c.terminator.Terminate(context.WithoutCancel(ctx)); termErr != nil {
			c.telemetry.logWarn(ctx, "session termination incomplete", map[string]any{"error": termErr.Error()})
		}
	}
	c.settle(refreshOutcome{token: token, err: err})
	return token, err
}

// InFlight reports whether a refresh call is outstanding.
func (c *RefreshCoordinator) InFlight() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *RefreshCoordinator) refresh(ctx context.Context) (string, error) {
	startedAt := time.Now()
	// detached from the leader's cancellation; bounded by the refresh timeout
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	token, err := c.exchange(refreshCtx)
	c.telemetry.observeRefresh(ctx, startedAt, err)
	return token, err
}

func (c *RefreshCoordinator) exchange(ctx context.Context) (string, error) {
	current, ok, err := c.store.Load(ctx)
	if err != nil {
		return "", NewRefreshTransientError("core: read stored refresh token", 0, err)
	}
	refreshToken := strings.TrimSpace(current.RefreshToken)
	if !ok || refreshToken == "" {
		return "", NewRefreshIrrecoverableError("core: no refresh token stored", 0, nil)
	}

	next, err := c.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		if isRefreshError(err) {
			return "", err
		}
		return "", NewRefreshTransientError("core: refresh call failed", 0, err)
	}
	next = next.normalized()
	if err := next.Validate(); err != nil {
		return "", NewRefreshTransientError("core: refresh returned an incomplete credential", 0, err)
	}
	if err := c.store.Save(ctx, next); err != nil {
		return "", NewRefreshTransientError("core: persist refreshed credential", 0, err)
	}
	return next.AccessToken, nil
}

// settle clears the flag and swaps out the queue in one critical section, then
// notifies every waiter in arrival order.
func (c *RefreshCoordinator) settle(outcome refreshOutcome) {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.inFlight = false
	c.mu.Unlock()

	for i, waiter := range waiters {
		waiter <- outcome
		if c.delivered != nil {
			c.delivered(i + 1)
		}
	}
}
