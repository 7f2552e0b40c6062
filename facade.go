package authsession

import (
	"fmt"

	gocommandadapter "github.com/goliatone/go-authsession/adapters/gocommand"
	authcommand "github.com/goliatone/go-authsession/command"
	authquery "github.com/goliatone/go-authsession/query"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type CommandQueryService interface {
	authcommand.SessionService
	authquery.SessionReader
}

type Commands struct {
	SignIn         *authcommand.SignInCommand
	SignOut        *authcommand.SignOutCommand
	RefreshSession *authcommand.RefreshSessionCommand
}

type Queries struct {
	CurrentSession *authquery.CurrentSessionQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("authsession: command/query service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			SignIn:         authcommand.NewSignInCommand(service),
			SignOut:        authcommand.NewSignOutCommand(service),
			RefreshSession: authcommand.NewRefreshSessionCommand(service),
		},
		queries: Queries{
			CurrentSession: authquery.NewCurrentSessionQuery(service),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// Register exposes the facade's handlers on the go-command dispatcher.
func (f *Facade) Register(
	adapter *gocommandadapter.RegistryAdapter,
	runnerOpts ...runner.Option,
) ([]commanddispatcher.Subscription, error) {
	if f == nil {
		return nil, fmt.Errorf("authsession: facade is nil")
	}
	if adapter == nil {
		adapter = gocommandadapter.NewRegistryAdapter(nil)
	}
	return gocommandadapter.RegisterSession(adapter, gocommandadapter.SessionHandlers{
		SignIn:         f.commands.SignIn,
		SignOut:        f.commands.SignOut,
		RefreshSession: f.commands.RefreshSession,
		CurrentSession: f.queries.CurrentSession,
	}, runnerOpts...)
}
