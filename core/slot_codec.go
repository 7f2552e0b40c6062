package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SlotCodec maps a CredentialPair onto the named durable slots. The "user"
// slot holds the tokens and workspace attributes; the "role" slot holds the role.
type SlotCodec interface {
	Encode(pair CredentialPair) (map[string]string, error)
	Decode(slots map[string]string) (CredentialPair, bool, error)
}

type JSONSlotCodec struct{}

type userSlotPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	WorkspaceID  string `json:"wsid,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
}

func (JSONSlotCodec) Encode(pair CredentialPair) (map[string]string, error) {
	pair = pair.normalized()
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(userSlotPayload{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		WorkspaceID:  pair.WorkspaceID,
		ProjectID:    pair.ProjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("core: encode user slot: %w", err)
	}
	return map[string]string{
		SlotUser: string(encoded),
		SlotRole: pair.Role,
	}, nil
}

// Decode treats a missing or empty "user" slot as no credential. A user slot
// without both tokens is rejected rather than surfaced as a partial pair.
func (JSONSlotCodec) Decode(slots map[string]string) (CredentialPair, bool, error) {
	raw := strings.TrimSpace(slots[SlotUser])
	if raw == "" {
		return CredentialPair{}, false, nil
	}
	decoded := userSlotPayload{}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return CredentialPair{}, false, fmt.Errorf("core: decode user slot: %w", err)
	}
	pair := CredentialPair{
		AccessToken:  decoded.AccessToken,
		RefreshToken: decoded.RefreshToken,
		Role:         slots[SlotRole],
		WorkspaceID:  decoded.WorkspaceID,
		ProjectID:    decoded.ProjectID,
	}.normalized()
	if err := pair.Validate(); err != nil {
		return CredentialPair{}, false, fmt.Errorf("core: stored credential is incomplete: %w", err)
	}
	return pair, true, nil
}
