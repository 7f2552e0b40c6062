package authsession

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-authsession/core"
	sqlstore "github.com/goliatone/go-authsession/store/sql"
	"github.com/goliatone/go-authsession/transport"
	persistence "github.com/goliatone/go-persistence-bun"
)

const defaultCredentialCacheTTL = time.Minute

type Config = core.Config
type StorageConfig = core.StorageConfig
type Option = core.Option

type Call = core.Call
type Response = core.Response
type CredentialPair = core.CredentialPair
type Session = core.Session
type Navigator = core.Navigator

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithCredentialStore = core.WithCredentialStore
	WithTransport       = core.WithTransport
	WithRefresher       = core.WithRefresher
	WithNavigator       = core.WithNavigator
	WithCallIDGenerator = core.WithCallIDGenerator

	IsRefreshIrrecoverable = core.IsRefreshIrrecoverable
	FaultKindOf            = core.FaultKindOf
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// Client is a core.Client wired with the REST transport, the refresh-token
// endpoint client and, when configured, a SQL-backed credential store.
type Client struct {
	*core.Client
	persistence *persistence.Client
}

// New builds a Client from cfg. Options are applied after the defaults, so a
// caller-supplied transport, refresher or store replaces the built-in one.
// Storage is opened from cfg.Storage before any config provider is consulted.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	defaults := core.DefaultConfig()
	resolved, err := core.GoOptionsResolver{}.Resolve(defaults, defaults, cfg)
	if err != nil {
		return nil, err
	}

	adapter := transport.NewRESTAdapter(nil, "")
	refresher := transport.NewRefreshClient(adapter, "")
	base := []Option{
		core.WithTransport(adapter),
		core.WithRefresher(refresher),
	}

	var persistenceClient *persistence.Client
	if driver := strings.ToLower(strings.TrimSpace(resolved.Storage.Driver)); driver != "" && driver != "memory" {
		persistenceClient, err = sqlstore.OpenPersistence(ctx, resolved.Storage)
		if err != nil {
			return nil, err
		}
		store, storeErr := newDurableStore(persistenceClient)
		if storeErr != nil {
			_ = persistenceClient.Close()
			return nil, storeErr
		}
		base = append(base, core.WithCredentialStore(store))
	}

	client, err := core.NewClient(cfg, append(base, opts...)...)
	if err != nil {
		if persistenceClient != nil {
			_ = persistenceClient.Close()
		}
		return nil, err
	}

	// the client's config includes any provider-loaded layer
	final := client.Config()
	adapter.Client = &http.Client{Timeout: final.RequestTimeout}
	adapter.BaseURL = strings.TrimSpace(final.BaseURL)
	adapter.MaxResponseBodyBytes = final.MaxResponseBodyBytes
	if path := strings.TrimSpace(final.RefreshPath); path != "" {
		refresher.Path = path
	}
	return &Client{Client: client, persistence: persistenceClient}, nil
}

func newDurableStore(persistenceClient *persistence.Client) (core.CredentialStore, error) {
	slots, err := sqlstore.NewSlotStoreFromPersistence(persistenceClient)
	if err != nil {
		return nil, err
	}
	cacheService, err := sqlstore.NewCacheService(defaultCredentialCacheTTL)
	if err != nil {
		return nil, err
	}
	return sqlstore.NewCachedCredentialStore(slots, cacheService)
}

// Close releases the storage connection, if any.
func (c *Client) Close() error {
	if c == nil || c.persistence == nil {
		return nil
	}
	return c.persistence.Close()
}
