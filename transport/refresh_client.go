package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-authsession/core"
)

const DefaultRefreshPath = core.DefaultRefreshPath

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshEnvelope struct {
	Data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		Role         string `json:"role"`
		WorkspaceID  string `json:"wsid"`
		ProjectID    string `json:"projectId"`
	} `json:"data"`
}

// RefreshClient exchanges a refresh token for a new credential pair. It sends
// the request straight through its transport, never through the client
// pipeline, so a rejected refresh is never itself refreshed.
type RefreshClient struct {
	Transport core.Transport
	Path      string
}

func NewRefreshClient(transport core.Transport, path string) *RefreshClient {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultRefreshPath
	}
	return &RefreshClient{Transport: transport, Path: path}
}

func (c *RefreshClient) Refresh(ctx context.Context, refreshToken string) (core.CredentialPair, error) {
	if c == nil || c.Transport == nil {
		return core.CredentialPair{}, core.NewRefreshTransientError(
			"transport: refresh client requires a transport",
			http.StatusInternalServerError,
			nil,
		)
	}
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return core.CredentialPair{}, core.NewRefreshIrrecoverableError(
			"transport: refresh token is required",
			http.StatusUnauthorized,
			nil,
		)
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return core.CredentialPair{}, core.NewRefreshTransientError("transport: encode refresh request", 0, err)
	}
	res, err := c.Transport.Do(ctx, core.Call{
		Method:  http.MethodPost,
		URL:     c.Path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})
	if err != nil {
		return core.CredentialPair{}, core.NewRefreshTransientError("transport: refresh request failed", 0, err)
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return core.CredentialPair{}, core.NewRefreshIrrecoverableError(
			"transport: refresh token rejected",
			res.StatusCode,
			nil,
		)
	case res.StatusCode < 200 || res.StatusCode > 299:
		return core.CredentialPair{}, core.NewRefreshTransientError(
			"transport: refresh request returned an unexpected status",
			res.StatusCode,
			nil,
		)
	}

	var envelope refreshEnvelope
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return core.CredentialPair{}, core.NewRefreshTransientError("transport: decode refresh response", 0, err)
	}
	pair := core.CredentialPair{
		AccessToken:  strings.TrimSpace(envelope.Data.AccessToken),
		RefreshToken: strings.TrimSpace(envelope.Data.RefreshToken),
		Role:         strings.TrimSpace(envelope.Data.Role),
		WorkspaceID:  strings.TrimSpace(envelope.Data.WorkspaceID),
		ProjectID:    strings.TrimSpace(envelope.Data.ProjectID),
	}
	if err := pair.Validate(); err != nil {
		return core.CredentialPair{}, core.NewRefreshTransientError("transport: incomplete refresh response", 0, err)
	}
	return pair, nil
}

var _ core.Refresher = (*RefreshClient)(nil)
