package core

import (
	"context"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"
)

// Client issues authenticated API calls and keeps the session credential
// fresh. It is safe for concurrent use.
type Client struct {
	config        Config
	logger        Logger
	store         CredentialStore
	transport     Transport
	classifier    FaultClassifier
	authenticator *RequestAuthenticator
	coordinator   *RefreshCoordinator
	terminator    *SessionTerminator
	pipeline      CallFunc
	idGenerator   func() string
	telemetry     telemetry
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	builder := defaultClientBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("authsession", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("authsession"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.credentialStore == nil {
		builder.credentialStore = NewMemoryCredentialStore()
	}
	if builder.idGenerator == nil {
		builder.idGenerator = func() string { return uuid.NewString() }
	}
	if builder.transport == nil {
		return nil, internalError("core: client requires a transport")
	}
	if builder.refresher == nil {
		return nil, internalError("core: client requires a refresher")
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, err
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, err
	}

	terminator := NewSessionTerminator(
		builder.credentialStore,
		builder.navigator,
		finalConfig.LoginRoute,
		finalConfig.AuthRoutePrefix,
		logger,
		builder.metricsRecorder,
	)
	coordinator, err := NewRefreshCoordinator(RefreshCoordinatorConfig{
		Store:      builder.credentialStore,
		Refresher:  builder.refresher,
		Terminator: terminator,
		Timeout:    finalConfig.RefreshTimeout,
		Logger:     logger,
		Metrics:    builder.metricsRecorder,
	})
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:        finalConfig,
		logger:        logger,
		store:         builder.credentialStore,
		transport:     builder.transport,
		classifier:    NewFaultClassifier(finalConfig.ExpiredAccessTokenCode),
		authenticator: NewRequestAuthenticator(builder.credentialStore, logger),
		coordinator:   coordinator,
		terminator:    terminator,
		idGenerator:   builder.idGenerator,
		telemetry:     newTelemetry(logger, builder.metricsRecorder),
	}
	middleware := NewResponseFaultMiddleware(coordinator, logger, builder.metricsRecorder)
	client.pipeline = middleware.Wrap(client.attempt)
	return client, nil
}

func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

func (c *Client) Store() CredentialStore {
	if c == nil {
		return nil
	}
	return c.store
}

// Do sends call with the current access credential. A non-2xx response is
// returned together with a fault error describing it.
func (c *Client) Do(ctx context.Context, call Call) (Response, error) {
	if c == nil || c.pipeline == nil {
		return Response{}, internalError("core: client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(call.URL) == "" {
		return Response{}, badInputError("core: call url is required")
	}
	call = call.clone()
	if strings.TrimSpace(call.ID) == "" {
		call.ID = c.idGenerator()
	}
	return c.pipeline(ctx, &TrackedCall{Call: call})
}

func (c *Client) attempt(ctx context.Context, call *TrackedCall) (Response, error) {
	c.authenticator.Authenticate(ctx, call)
	res, err := c.transport.Do(ctx, call.Call)
	if err != nil {
		return Response{}, err
	}
	if fault := c.classifier.Fault(call.Call, res); fault != nil {
		return res, fault
	}
	return res, nil
}

// SignIn stores the credential issued by an explicit sign-in.
func (c *Client) SignIn(ctx context.Context, pair CredentialPair) error {
	if c == nil || c.store == nil {
		return internalError("core: client is not configured")
	}
	pair = pair.normalized()
	if err := pair.Validate(); err != nil {
		return badInputError(err.Error())
	}
	if err := c.store.Save(ctx, pair); err != nil {
		return err
	}
	c.telemetry.logInfo(ctx, "session started", map[string]any{
		"role":         pair.Role,
		"workspace_id": pair.WorkspaceID,
		"project_id":   pair.ProjectID,
	})
	return nil
}

// SignOut clears the stored credential without navigating.
func (c *Client) SignOut(ctx context.Context) error {
	if c == nil || c.store == nil {
		return internalError("core: client is not configured")
	}
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	c.telemetry.logInfo(ctx, "session ended", nil)
	return nil
}

func (c *Client) Session(ctx context.Context) (Session, error) {
	if c == nil || c.store == nil {
		return Session{}, internalError("core: client is not configured")
	}
	pair, ok, err := c.store.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	return sessionFromPair(pair, ok), nil
}

// Refresh obtains a fresh access token through the coordinator, joining any
// refresh already in flight.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	if c == nil || c.coordinator == nil {
		return "", internalError("core: client is not configured")
	}
	return c.coordinator.ObtainFreshCredential(ctx)
}
