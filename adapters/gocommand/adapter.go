package gocommand

import (
	"context"
	"fmt"
	"strings"

	authcommand "github.com/goliatone/go-authsession/command"
	"github.com/goliatone/go-authsession/core"
	authquery "github.com/goliatone/go-authsession/query"
	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterCommand(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// SessionHandlers are the session commands and queries exposed on the
// go-command dispatcher.
type SessionHandlers struct {
	SignIn         *authcommand.SignInCommand
	SignOut        *authcommand.SignOutCommand
	RefreshSession *authcommand.RefreshSessionCommand
	CurrentSession *authquery.CurrentSessionQuery
}

// RegisterSession subscribes every session handler. On failure the handlers
// subscribed so far are unsubscribed again.
func RegisterSession(
	adapter *RegistryAdapter,
	handlers SessionHandlers,
	runnerOpts ...runner.Option,
) ([]commanddispatcher.Subscription, error) {
	if handlers.SignIn == nil || handlers.SignOut == nil ||
		handlers.RefreshSession == nil || handlers.CurrentSession == nil {
		return nil, fmt.Errorf("gocommand: session handlers are incomplete")
	}
	subscriptions := make([]commanddispatcher.Subscription, 0, 4)
	unwind := func(err error) ([]commanddispatcher.Subscription, error) {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
		return nil, err
	}

	signIn, err := RegisterAndSubscribe[authcommand.SignInMessage](adapter, handlers.SignIn, runnerOpts...)
	if err != nil {
		return unwind(err)
	}
	subscriptions = append(subscriptions, signIn)
	signOut, err := RegisterAndSubscribe[authcommand.SignOutMessage](adapter, handlers.SignOut, runnerOpts...)
	if err != nil {
		return unwind(err)
	}
	subscriptions = append(subscriptions, signOut)
	refresh, err := RegisterAndSubscribe[authcommand.RefreshSessionMessage](adapter, handlers.RefreshSession, runnerOpts...)
	if err != nil {
		return unwind(err)
	}
	subscriptions = append(subscriptions, refresh)
	current, err := RegisterAndSubscribeQuery[authquery.CurrentSessionMessage, core.Session](
		adapter,
		handlers.CurrentSession,
		runnerOpts...,
	)
	if err != nil {
		return unwind(err)
	}
	return append(subscriptions, current), nil
}
