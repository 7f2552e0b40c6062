package query

const TypeCurrentSession = "authsession.query.session.current"

type CurrentSessionMessage struct{}

func (CurrentSessionMessage) Type() string { return TypeCurrentSession }

func (CurrentSessionMessage) Validate() error { return nil }
