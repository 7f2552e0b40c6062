package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

// slotRecord is one named durable session slot ("user" or "role").
type slotRecord struct {
	bun.BaseModel `bun:"table:session_slots,alias:ss"`

	ID        string    `bun:"id,pk"`
	Slot      string    `bun:"slot,notnull,unique"`
	Value     string    `bun:"value,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newSlotRecord(slot string, value string, now time.Time) *slotRecord {
	return &slotRecord{
		ID:        newRecordID(),
		Slot:      slot,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
