package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	SlotUser = "user"
	SlotRole = "role"
)

// CredentialPair is the session credential held by a CredentialStore. A pair is
// either complete (both tokens present) or absent.
type CredentialPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role,omitempty"`
	WorkspaceID  string `json:"workspaceId,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
}

func (p CredentialPair) IsZero() bool {
	return strings.TrimSpace(p.AccessToken) == "" &&
		strings.TrimSpace(p.RefreshToken) == "" &&
		strings.TrimSpace(p.Role) == "" &&
		strings.TrimSpace(p.WorkspaceID) == "" &&
		strings.TrimSpace(p.ProjectID) == ""
}

func (p CredentialPair) Validate() error {
	if strings.TrimSpace(p.AccessToken) == "" {
		return fmt.Errorf("core: access token is required")
	}
	if strings.TrimSpace(p.RefreshToken) == "" {
		return fmt.Errorf("core: refresh token is required")
	}
	return nil
}

func (p CredentialPair) normalized() CredentialPair {
	return CredentialPair{
		AccessToken:  strings.TrimSpace(p.AccessToken),
		RefreshToken: strings.TrimSpace(p.RefreshToken),
		Role:         strings.TrimSpace(p.Role),
		WorkspaceID:  strings.TrimSpace(p.WorkspaceID),
		ProjectID:    strings.TrimSpace(p.ProjectID),
	}
}

type FaultKind int

const (
	FaultOther FaultKind = iota
	FaultUnrelatedAuth
	FaultExpiredAccessCredential
)

func (k FaultKind) String() string {
	switch k {
	case FaultExpiredAccessCredential:
		return "expired_access_credential"
	case FaultUnrelatedAuth:
		return "unrelated_auth_fault"
	default:
		return "other_fault"
	}
}

// Call is one outbound API request. URL may be absolute or relative to the
// configured base URL.
type Call struct {
	ID       string
	Method   string
	URL      string
	Headers  map[string]string
	Query    map[string]string
	Body     []byte
	Metadata map[string]any
	Timeout  time.Duration
}

func (c Call) clone() Call {
	cloned := c
	cloned.Headers = copyStringMap(c.Headers)
	cloned.Query = copyStringMap(c.Query)
	cloned.Body = append([]byte(nil), c.Body...)
	cloned.Metadata = copyAnyMap(c.Metadata)
	return cloned
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

func (r Response) Succeeded() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TrackedCall wraps a logical call with its replay marker. It is built once per
// logical call; Token overrides the stored access token when set.
type TrackedCall struct {
	Call    Call
	Retried bool
	Token   string

	bearer string
}

type Session struct {
	Authenticated bool
	Role          string
	WorkspaceID   string
	ProjectID     string
}

func sessionFromPair(pair CredentialPair, ok bool) Session {
	if !ok {
		return Session{}
	}
	return Session{
		Authenticated: true,
		Role:          pair.Role,
		WorkspaceID:   pair.WorkspaceID,
		ProjectID:     pair.ProjectID,
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
