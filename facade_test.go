package authsession

import (
	"context"
	"testing"

	authcommand "github.com/goliatone/go-authsession/command"
	"github.com/goliatone/go-authsession/core"
	authquery "github.com/goliatone/go-authsession/query"
	gocmd "github.com/goliatone/go-command"
)

type stubFacadeService struct {
	signedIn  core.CredentialPair
	signedOut bool
}

func (s *stubFacadeService) SignIn(_ context.Context, pair core.CredentialPair) error {
	s.signedIn = pair
	return nil
}

func (s *stubFacadeService) SignOut(context.Context) error {
	s.signedOut = true
	return nil
}

func (s *stubFacadeService) Refresh(context.Context) (string, error) {
	return "access-new", nil
}

func (s *stubFacadeService) Session(context.Context) (core.Session, error) {
	return core.Session{Authenticated: s.signedIn.AccessToken != "", Role: s.signedIn.Role}, nil
}

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	facade, err := NewFacade(&stubFacadeService{})
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	commands := facade.Commands()
	if commands.SignIn == nil || commands.SignOut == nil || commands.RefreshSession == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	if facade.Queries().CurrentSession == nil {
		t.Fatalf("expected query handlers to be wired")
	}
}

func TestFacade_CommandAndQueryDelegation(t *testing.T) {
	svc := &stubFacadeService{}
	facade, err := NewFacade(svc)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	ctx := context.Background()

	if err := facade.Commands().SignIn.Execute(ctx, authcommand.SignInMessage{
		Credential: core.CredentialPair{AccessToken: "a", RefreshToken: "r", Role: "member"},
	}); err != nil {
		t.Fatalf("execute sign-in: %v", err)
	}
	if svc.signedIn.AccessToken != "a" {
		t.Fatalf("unexpected sign-in delegation payload: %#v", svc.signedIn)
	}

	session, err := facade.Queries().CurrentSession.Query(ctx, authquery.CurrentSessionMessage{})
	if err != nil {
		t.Fatalf("query current session: %v", err)
	}
	if !session.Authenticated || session.Role != "member" {
		t.Fatalf("unexpected session: %#v", session)
	}

	collector := gocmd.NewResult[authcommand.RefreshSessionResult]()
	if err := facade.Commands().RefreshSession.Execute(
		gocmd.ContextWithResult(ctx, collector),
		authcommand.RefreshSessionMessage{},
	); err != nil {
		t.Fatalf("execute refresh: %v", err)
	}
	if result, ok := collector.Load(); !ok || result.AccessToken != "access-new" {
		t.Fatalf("unexpected refresh result: %#v", result)
	}

	if err := facade.Commands().SignOut.Execute(ctx, authcommand.SignOutMessage{}); err != nil {
		t.Fatalf("execute sign-out: %v", err)
	}
	if !svc.signedOut {
		t.Fatalf("expected sign-out delegation")
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	facade, err := NewFacade(nil)
	if err == nil {
		t.Fatalf("expected nil service error")
	}
	if facade != nil {
		t.Fatalf("expected nil facade on error")
	}
}
