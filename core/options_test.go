package core

import (
	"context"
	"testing"
)

type fixedConfigProvider struct {
	cfg Config
}

func (p *fixedConfigProvider) Load(context.Context, Config) (Config, error) {
	return p.cfg, nil
}

type fixedOptionsResolver struct {
	cfg Config
}

func (r *fixedOptionsResolver) Resolve(Config, Config, Config) (Config, error) {
	return r.cfg, nil
}

func TestCfgxConfigProvider_LoadsRawValuesOverDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(NewStaticConfigLoader(map[string]any{
		"base_url":    "https://api.example.com",
		"login_route": "/auth/sign-in",
	}))

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != "https://api.example.com" || cfg.LoginRoute != "/auth/sign-in" {
		t.Fatalf("expected loaded values, got %#v", cfg)
	}
	if cfg.RefreshPath != DefaultRefreshPath || cfg.ExpiredAccessTokenCode != DefaultExpiredAccessTokenCode {
		t.Fatalf("expected defaults to survive, got %#v", cfg)
	}
}

func TestCfgxConfigProvider_RejectsInvalidConfig(t *testing.T) {
	provider := NewCfgxConfigProvider(NewStaticConfigLoader(map[string]any{
		"refresh_path": "auth/refresh-token",
	}))
	if _, err := provider.Load(context.Background(), DefaultConfig()); err == nil {
		t.Fatalf("expected relative refresh path to be rejected")
	}
}

func TestGoOptionsResolver_RuntimeOverridesLoaded(t *testing.T) {
	defaults := DefaultConfig()
	loaded := defaults
	loaded.BaseURL = "https://loaded.example.com"
	loaded.LoginRoute = "/auth/from-config"

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, Config{LoginRoute: "/auth/runtime"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.BaseURL != "https://loaded.example.com" {
		t.Fatalf("expected loaded base url, got %q", resolved.BaseURL)
	}
	if resolved.LoginRoute != "/auth/runtime" {
		t.Fatalf("expected runtime login route, got %q", resolved.LoginRoute)
	}
}

func TestGoOptionsResolver_RejectsStorageWithoutDSN(t *testing.T) {
	defaults := DefaultConfig()
	_, err := GoOptionsResolver{}.Resolve(defaults, defaults, Config{Storage: StorageConfig{Driver: "postgres"}})
	if err == nil {
		t.Fatalf("expected missing dsn error")
	}
}

func TestNewClient_ConfigProviderAndResolverOverrides(t *testing.T) {
	custom := DefaultConfig()
	custom.ServiceName = "resolved"
	custom.ExpiredAccessTokenCode = "JWT_EXPIRED"

	client, err := NewClient(Config{ServiceName: "runtime"},
		WithTransport(&tokenTransport{}),
		WithRefresher(newStubRefresher(refreshedPair(), nil)),
		WithConfigProvider(&fixedConfigProvider{cfg: DefaultConfig()}),
		WithOptionsResolver(&fixedOptionsResolver{cfg: custom}),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.Config().ServiceName != "resolved" {
		t.Fatalf("expected resolver output, got %q", client.Config().ServiceName)
	}
	if client.classifier.ExpiredCode != "JWT_EXPIRED" {
		t.Fatalf("expected classifier to use resolved code, got %q", client.classifier.ExpiredCode)
	}
}

func TestNewClient_CallIDGenerator(t *testing.T) {
	transport := &idTransport{}
	client, err := NewClient(Config{},
		WithTransport(transport),
		WithRefresher(newStubRefresher(refreshedPair(), nil)),
		WithCallIDGenerator(func() string { return "call_fixed" }),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Do(context.Background(), Call{URL: "/a"}); err != nil {
		t.Fatalf("do: %v", err)
	}
	if _, err := client.Do(context.Background(), Call{ID: "call_given", URL: "/b"}); err != nil {
		t.Fatalf("do: %v", err)
	}
	if len(transport.ids) != 2 || transport.ids[0] != "call_fixed" || transport.ids[1] != "call_given" {
		t.Fatalf("unexpected call ids %#v", transport.ids)
	}
}

type idTransport struct {
	ids []string
}

func (t *idTransport) Do(_ context.Context, call Call) (Response, error) {
	t.ids = append(t.ids, call.ID)
	return Response{StatusCode: 204}, nil
}
