package query

import (
	"github.com/goliatone/go-authsession/core"
	gocmd "github.com/goliatone/go-command"
)

var _ gocmd.Querier[CurrentSessionMessage, core.Session] = (*CurrentSessionQuery)(nil)
