package core

import (
	"context"
	"sync"
)

// MemoryCredentialStore keeps the credential slots in process memory.
type MemoryCredentialStore struct {
	mu    sync.RWMutex
	slots map[string]string
	codec SlotCodec
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		slots: map[string]string{},
		codec: JSONSlotCodec{},
	}
}

func (s *MemoryCredentialStore) Load(_ context.Context) (CredentialPair, bool, error) {
	if s == nil {
		return CredentialPair{}, false, internalError("core: memory credential store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codec.Decode(s.slots)
}

func (s *MemoryCredentialStore) Save(_ context.Context, pair CredentialPair) error {
	if s == nil {
		return internalError("core: memory credential store is nil")
	}
	encoded, err := s.codec.Encode(pair)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = encoded
	return nil
}

func (s *MemoryCredentialStore) Clear(_ context.Context) error {
	if s == nil {
		return internalError("core: memory credential store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = map[string]string{}
	return nil
}

// Slot returns the raw value of a named slot.
func (s *MemoryCredentialStore) Slot(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.slots[name]
	return value, ok
}

