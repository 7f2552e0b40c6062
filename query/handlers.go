package query

import (
	"context"

	"github.com/goliatone/go-authsession/core"
)

type SessionReader interface {
	Session(ctx context.Context) (core.Session, error)
}

type CurrentSessionQuery struct {
	reader SessionReader
}

func NewCurrentSessionQuery(reader SessionReader) *CurrentSessionQuery {
	return &CurrentSessionQuery{reader: reader}
}

func (q *CurrentSessionQuery) Query(ctx context.Context, _ CurrentSessionMessage) (core.Session, error) {
	if q == nil || q.reader == nil {
		return core.Session{}, queryDependencyError("query: session reader is required")
	}
	return q.reader.Session(ctx)
}
