package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// CredentialStore holds the current session credential. Load reports ok=false
// when no credential is stored. Save and Clear replace or remove the whole pair.
type CredentialStore interface {
	Load(ctx context.Context) (pair CredentialPair, ok bool, err error)
	Save(ctx context.Context, pair CredentialPair) error
	Clear(ctx context.Context) error
}

// Refresher exchanges a refresh token for a new credential pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (CredentialPair, error)
}

type Transport interface {
	Do(ctx context.Context, call Call) (Response, error)
}

// Navigator is the host application's router.
type Navigator interface {
	CurrentRoute() string
	Navigate(route string)
}

type CallFunc func(ctx context.Context, call *TrackedCall) (Response, error)

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
