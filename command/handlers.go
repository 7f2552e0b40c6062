package command

import (
	"context"

	"github.com/goliatone/go-authsession/core"
	gocmd "github.com/goliatone/go-command"
)

type SessionService interface {
	SignIn(ctx context.Context, pair core.CredentialPair) error
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context) (string, error)
}

type SignInCommand struct {
	service SessionService
}

func NewSignInCommand(service SessionService) *SignInCommand {
	return &SignInCommand{service: service}
}

func (c *SignInCommand) Execute(ctx context.Context, msg SignInMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sign-in service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return c.service.SignIn(ctx, msg.Credential)
}

type SignOutCommand struct {
	service SessionService
}

func NewSignOutCommand(service SessionService) *SignOutCommand {
	return &SignOutCommand{service: service}
}

func (c *SignOutCommand) Execute(ctx context.Context, _ SignOutMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sign-out service is required")
	}
	return c.service.SignOut(ctx)
}

// RefreshSessionCommand forces a refresh through the coordinator, joining one
// already in flight. The new access token is stored as the command result.
type RefreshSessionCommand struct {
	service SessionService
}

func NewRefreshSessionCommand(service SessionService) *RefreshSessionCommand {
	return &RefreshSessionCommand{service: service}
}

func (c *RefreshSessionCommand) Execute(ctx context.Context, _ RefreshSessionMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: refresh service is required")
	}
	token, err := c.service.Refresh(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, RefreshSessionResult{AccessToken: token})
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
