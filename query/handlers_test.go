package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-authsession/core"
	goerrors "github.com/goliatone/go-errors"
)

type stubSessionReader struct {
	session core.Session
	err     error
}

func (s stubSessionReader) Session(context.Context) (core.Session, error) {
	return s.session, s.err
}

func TestCurrentSessionQuery_DelegatesToReader(t *testing.T) {
	expected := core.Session{Authenticated: true, Role: "admin", WorkspaceID: "ws_1", ProjectID: "proj_1"}
	q := NewCurrentSessionQuery(stubSessionReader{session: expected})

	got, err := q.Query(context.Background(), CurrentSessionMessage{})
	if err != nil {
		t.Fatalf("query session: %v", err)
	}
	if got != expected {
		t.Fatalf("unexpected session: %#v", got)
	}
}

func TestCurrentSessionQuery_NilReaderReturnsRichError(t *testing.T) {
	var q *CurrentSessionQuery
	_, err := q.Query(context.Background(), CurrentSessionMessage{})

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.ErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.ErrorInternal, rich.TextCode)
	}
}
