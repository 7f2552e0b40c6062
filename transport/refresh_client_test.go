package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-authsession/core"
)

func newRefreshServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var sent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != DefaultRefreshPath {
			t.Errorf("unexpected refresh request %s %s", r.Method, r.URL.Path)
		}
		var payload refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode refresh payload: %v", err)
		}
		sent = payload.RefreshToken
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &sent
}

func TestRefreshClient_ExchangesRefreshToken(t *testing.T) {
	server, sent := newRefreshServer(t, http.StatusOK,
		`{"data":{"accessToken":"access-new","refreshToken":"refresh-new","role":"admin","wsid":"ws_1","projectId":"proj_1"}}`)
	client := NewRefreshClient(NewRESTAdapter(server.Client(), server.URL), "")

	pair, err := client.Refresh(context.Background(), "refresh-old")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if *sent != "refresh-old" {
		t.Fatalf("expected refresh token in body, got %q", *sent)
	}
	want := core.CredentialPair{
		AccessToken:  "access-new",
		RefreshToken: "refresh-new",
		Role:         "admin",
		WorkspaceID:  "ws_1",
		ProjectID:    "proj_1",
	}
	if pair != want {
		t.Fatalf("unexpected pair %#v", pair)
	}
}

func TestRefreshClient_ClassifiesFailures(t *testing.T) {
	cases := []struct {
		name          string
		status        int
		body          string
		irrecoverable bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"code":"INVALID_REFRESH_TOKEN"}`, irrecoverable: true},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`, irrecoverable: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "malformed body", status: http.StatusOK, body: `not json`},
		{name: "incomplete pair", status: http.StatusOK, body: `{"data":{"accessToken":"a"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server, _ := newRefreshServer(t, tc.status, tc.body)
			client := NewRefreshClient(NewRESTAdapter(server.Client(), server.URL), DefaultRefreshPath)

			_, err := client.Refresh(context.Background(), "refresh-old")
			if err == nil {
				t.Fatalf("expected refresh failure")
			}
			if got := core.IsRefreshIrrecoverable(err); got != tc.irrecoverable {
				t.Fatalf("expected irrecoverable=%v, got %v (%v)", tc.irrecoverable, got, err)
			}
		})
	}
}

func TestRefreshClient_NetworkFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewRefreshClient(NewRESTAdapter(nil, url), "")
	_, err := client.Refresh(context.Background(), "refresh-old")
	if err == nil || core.IsRefreshIrrecoverable(err) {
		t.Fatalf("expected transient failure, got %v", err)
	}
}

func TestRefreshClient_EmptyTokenIsIrrecoverable(t *testing.T) {
	client := NewRefreshClient(NewRESTAdapter(nil, "http://127.0.0.1:1"), "")
	if _, err := client.Refresh(context.Background(), " "); !core.IsRefreshIrrecoverable(err) {
		t.Fatalf("expected irrecoverable failure, got %v", err)
	}
}
