package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultRefreshPath          = "/auth/refresh-token"
	defaultRequestTimeout       = 30 * time.Second
	defaultMaxResponseBodyBytes = int64(10 << 20)
)

type StorageConfig struct {
	Driver string `koanf:"driver" mapstructure:"driver"`
	DSN    string `koanf:"dsn" mapstructure:"dsn"`
}

type Config struct {
	ServiceName            string        `koanf:"service_name" mapstructure:"service_name"`
	BaseURL                string        `koanf:"base_url" mapstructure:"base_url"`
	RefreshPath            string        `koanf:"refresh_path" mapstructure:"refresh_path"`
	LoginRoute             string        `koanf:"login_route" mapstructure:"login_route"`
	AuthRoutePrefix        string        `koanf:"auth_route_prefix" mapstructure:"auth_route_prefix"`
	ExpiredAccessTokenCode string        `koanf:"expired_access_token_code" mapstructure:"expired_access_token_code"`
	RequestTimeout         time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
	RefreshTimeout         time.Duration `koanf:"refresh_timeout" mapstructure:"refresh_timeout"`
	MaxResponseBodyBytes   int64         `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
	Storage                StorageConfig `koanf:"storage" mapstructure:"storage"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:            "authsession",
		RefreshPath:            DefaultRefreshPath,
		LoginRoute:             DefaultLoginRoute,
		AuthRoutePrefix:        DefaultAuthRoutePrefix,
		ExpiredAccessTokenCode: DefaultExpiredAccessTokenCode,
		RequestTimeout:         defaultRequestTimeout,
		RefreshTimeout:         defaultRefreshTimeout,
		MaxResponseBodyBytes:   defaultMaxResponseBodyBytes,
		Storage: StorageConfig{
			Driver: "memory",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if !strings.HasPrefix(strings.TrimSpace(c.RefreshPath), "/") {
		return fmt.Errorf("core: refresh_path must start with /")
	}
	if !strings.HasPrefix(strings.TrimSpace(c.LoginRoute), "/") {
		return fmt.Errorf("core: login_route must start with /")
	}
	if strings.TrimSpace(c.AuthRoutePrefix) == "" {
		return fmt.Errorf("core: auth_route_prefix is required")
	}
	if strings.TrimSpace(c.ExpiredAccessTokenCode) == "" {
		return fmt.Errorf("core: expired_access_token_code is required")
	}
	if c.RequestTimeout < 0 || c.RefreshTimeout < 0 {
		return fmt.Errorf("core: timeouts must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
	case "", "memory":
	case "sqlite", "sqlite3", "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("core: storage.dsn is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("core: unsupported storage.driver %q", c.Storage.Driver)
	}
	return nil
}
