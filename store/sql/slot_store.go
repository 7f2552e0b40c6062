package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-authsession/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

var sessionSlots = []string{core.SlotUser, core.SlotRole}

// SlotStore persists the credential pair in the session_slots table. Saves and
// clears replace both slots in a single transaction.
type SlotStore struct {
	db    *bun.DB
	repo  repository.Repository[*slotRecord]
	codec core.SlotCodec
}

func NewSlotStore(db *bun.DB) (*SlotStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*slotRecord](db, slotHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid slot repository wiring: %w", err)
		}
	}
	return &SlotStore{db: db, repo: repo, codec: core.JSONSlotCodec{}}, nil
}

func (s *SlotStore) Load(ctx context.Context) (core.CredentialPair, bool, error) {
	if s == nil || s.repo == nil {
		return core.CredentialPair{}, false, fmt.Errorf("sqlstore: slot store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.OrderBy("slot ASC"),
	)
	if err != nil {
		return core.CredentialPair{}, false, err
	}
	slots := make(map[string]string, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		slots[record.Slot] = record.Value
	}
	return s.codec.Decode(slots)
}

func (s *SlotStore) Save(ctx context.Context, pair core.CredentialPair) error {
	if s == nil || s.repo == nil || s.db == nil {
		return fmt.Errorf("sqlstore: slot store is not configured")
	}
	encoded, err := s.codec.Encode(pair)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := deleteSlots(ctx, tx); err != nil {
			return err
		}
		for _, slot := range sessionSlots {
			if _, createErr := s.repo.CreateTx(ctx, tx, newSlotRecord(slot, encoded[slot], now)); createErr != nil {
				return createErr
			}
		}
		return nil
	})
}

func (s *SlotStore) Clear(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: slot store is not configured")
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return deleteSlots(ctx, tx)
	})
}

func deleteSlots(ctx context.Context, tx bun.Tx) error {
	_, err := tx.NewDelete().
		Model((*slotRecord)(nil)).
		Where("slot IN (?)", bun.In(sessionSlots)).
		Exec(ctx)
	return err
}
