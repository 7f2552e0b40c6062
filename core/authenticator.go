package core

import (
	"context"
	"strings"
)

const authorizationHeader = "Authorization"

// RequestAuthenticator attaches the access credential to outbound calls. A
// missing credential leaves the call unauthenticated; the server rejects it.
type RequestAuthenticator struct {
	store     CredentialStore
	telemetry telemetry
}

func NewRequestAuthenticator(store CredentialStore, logger Logger) *RequestAuthenticator {
	return &RequestAuthenticator{
		store:     store,
		telemetry: newTelemetry(logger, nil),
	}
}

func (a *RequestAuthenticator) Authenticate(ctx context.Context, call *TrackedCall) {
	if a == nil || call == nil {
		return
	}
	if call.Call.Headers == nil {
		call.Call.Headers = map[string]string{}
	}

	token := strings.TrimSpace(call.Token)
	if token == "" && a.store != nil {
		pair, ok, err := a.store.Load(ctx)
		if err != nil {
			a.telemetry.logWarn(ctx, "credential store read failed; sending call unauthenticated", map[string]any{
				"call_id": call.Call.ID,
				"error":   err.Error(),
			})
		}
		if ok {
			token = pair.AccessToken
		}
	}
	if token == "" {
		// only undo a bearer attached on an earlier attempt
		if call.bearer != "" && call.Call.Headers[authorizationHeader] == call.bearer {
			delete(call.Call.Headers, authorizationHeader)
		}
		call.bearer = ""
		return
	}
	call.bearer = "Bearer " + token
	call.Call.Headers[authorizationHeader] = call.bearer
}
