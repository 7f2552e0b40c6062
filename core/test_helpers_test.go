package core

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"
)

type stubRefresher struct {
	mu      sync.Mutex
	calls   int
	tokens  []string
	gate    chan struct{}
	result  CredentialPair
	err     error
	started chan struct{}
}

func newStubRefresher(result CredentialPair, err error) *stubRefresher {
	return &stubRefresher{result: result, err: err, started: make(chan struct{}, 16)}
}

func (r *stubRefresher) Refresh(ctx context.Context, refreshToken string) (CredentialPair, error) {
	r.mu.Lock()
	r.calls++
	r.tokens = append(r.tokens, refreshToken)
	gate := r.gate
	r.mu.Unlock()

	select {
	case r.started <- struct{}{}:
	default:
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return CredentialPair{}, ctx.Err()
		}
	}
	if r.err != nil {
		return CredentialPair{}, r.err
	}
	return r.result, nil
}

func (r *stubRefresher) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type recordingNavigator struct {
	mu      sync.Mutex
	current string
	visits  []string
}

func (n *recordingNavigator) CurrentRoute() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visits = append(n.visits, route)
	n.current = route
}

func (n *recordingNavigator) navigations() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visits...)
}

type recordedCall struct {
	method string
	url    string
	auth   string
}

// tokenTransport accepts calls bearing the valid token and rejects others with
// the configured status and body.
type tokenTransport struct {
	mu         sync.Mutex
	validToken string
	rejectCode int
	rejectBody string
	calls      []recordedCall
}

func (t *tokenTransport) Do(_ context.Context, call Call) (Response, error) {
	auth := call.Headers[authorizationHeader]
	t.mu.Lock()
	t.calls = append(t.calls, recordedCall{method: call.Method, url: call.URL, auth: auth})
	valid := t.validToken
	t.mu.Unlock()

	if auth == "Bearer "+valid {
		return Response{StatusCode: http.StatusOK, Body: []byte(`{"ok":true}`)}, nil
	}
	return Response{StatusCode: t.rejectCode, Body: []byte(t.rejectBody)}, nil
}

func (t *tokenTransport) recorded() []recordedCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]recordedCall(nil), t.calls...)
}

func (t *tokenTransport) countWithAuth(auth string) int {
	count := 0
	for _, call := range t.recorded() {
		if call.auth == auth {
			count++
		}
	}
	return count
}

type counterCall struct {
	name string
	tags map[string]string
}

type capturingMetrics struct {
	mu       sync.Mutex
	counters []counterCall
}

func (m *capturingMetrics) IncCounter(_ context.Context, name string, _ int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, counterCall{name: name, tags: tags})
}

func (m *capturingMetrics) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func (m *capturingMetrics) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, call := range m.counters {
		if call.name == name {
			total++
		}
	}
	return total
}

const expiredBody = `{"code":"INVALID_EXPIRED_ACCESS_TOKEN","message":"jwt expired"}`

func seededStore(t *testing.T) *MemoryCredentialStore {
	t.Helper()
	store := NewMemoryCredentialStore()
	if err := store.Save(context.Background(), CredentialPair{
		AccessToken:  "access-old",
		RefreshToken: "refresh-old",
		Role:         "admin",
		WorkspaceID:  "ws_1",
		ProjectID:    "proj_1",
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func refreshedPair() CredentialPair {
	return CredentialPair{
		AccessToken:  "access-new",
		RefreshToken: "refresh-new",
		Role:         "admin",
		WorkspaceID:  "ws_1",
		ProjectID:    "proj_1",
	}
}

func waitForWaiters(t *testing.T, coordinator *RefreshCoordinator, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		coordinator.mu.Lock()
		queued := len(coordinator.waiters)
		coordinator.mu.Unlock()
		if queued >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d queued refresh waiters", n)
}

func waitForStarted(t *testing.T, refresher *stubRefresher) {
	t.Helper()
	select {
	case <-refresher.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for refresh call to start")
	}
}
