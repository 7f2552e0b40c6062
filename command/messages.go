package command

import (
	"strings"

	"github.com/goliatone/go-authsession/core"
)

const (
	TypeSignIn         = "authsession.command.sign_in"
	TypeSignOut        = "authsession.command.sign_out"
	TypeRefreshSession = "authsession.command.refresh"
)

// SignInMessage carries the credential pair issued by the sign-in endpoint.
type SignInMessage struct {
	Credential core.CredentialPair
}

func (SignInMessage) Type() string { return TypeSignIn }

func (m SignInMessage) Validate() error {
	if strings.TrimSpace(m.Credential.AccessToken) == "" {
		return commandValidationError("credential.access_token", "access token is required")
	}
	if strings.TrimSpace(m.Credential.RefreshToken) == "" {
		return commandValidationError("credential.refresh_token", "refresh token is required")
	}
	return nil
}

type SignOutMessage struct{}

func (SignOutMessage) Type() string { return TypeSignOut }

func (SignOutMessage) Validate() error { return nil }

type RefreshSessionMessage struct{}

func (RefreshSessionMessage) Type() string { return TypeRefreshSession }

func (RefreshSessionMessage) Validate() error { return nil }

type RefreshSessionResult struct {
	AccessToken string
}
