package sqlstore

import "github.com/goliatone/go-authsession/core"

var (
	_ core.CredentialStore = (*SlotStore)(nil)
	_ core.CredentialStore = (*CachedCredentialStore)(nil)
)
