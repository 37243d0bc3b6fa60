package audit

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EntityTypeAccount  = "ACCOUNT"
	EntityTypeTransfer = "TRANSFER"
	EntityTypeLedger   = "LEDGER"
)

const (
	ActionCreate   = "CREATE"
	ActionDeposit  = "DEPOSIT"
	ActionWithdraw = "WITHDRAW"
	ActionTransfer = "TRANSFER"
	ActionInterest = "INTEREST"
	ActionClose    = "CLOSE"
)

// Entry is one audit record. Old and new values are opaque JSON snapshots
// taken by the caller.
type Entry struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Trail is an in-memory, append-only audit log. It is thread-safe and never
// returns internal slices to callers.
type Trail struct {
	mu      sync.Mutex
	entries []Entry
}

func NewTrail() *Trail {
	return &Trail{entries: make([]Entry, 0)}
}

// Record appends one entry, assigning its ID and timestamp.
func (t *Trail) Record(entityType, entityID, action string, oldValue, newValue json.RawMessage) Entry {
	entry := Entry{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValue:   oldValue,
		NewValue:   newValue,
		CreatedAt:  time.Now(),
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
	return entry
}

// ByEntity returns the entries for one entity in recording order.
func (t *Trail) ByEntity(entityType, entityID string) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Entry
	for _, e := range t.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out
}

// All returns a copy of every entry in recording order.
func (t *Trail) All() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
