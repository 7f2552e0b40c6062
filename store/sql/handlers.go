package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func slotHandlers() repository.ModelHandlers[*slotRecord] {
	return repository.ModelHandlers[*slotRecord]{
		NewRecord: func() *slotRecord {
			return &slotRecord{}
		},
		GetID: func(record *slotRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *slotRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "slot"
		},
		GetIdentifierValue: func(record *slotRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.Slot)
		},
	}
}

func newRecordID() string {
	return uuid.NewString()
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
