package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEvent is a lightweight export notification for a transaction. It
// carries only the ID and version; the worker fetches the full row from the
// store before exporting.
type LedgerEvent struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Deleted   bool      `json:"deleted,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an export event for a created or updated transaction.
func NewLedgerEvent(id, version int64) *LedgerEvent {
	return &LedgerEvent{ID: id, Version: version, Timestamp: time.Now()}
}

// NewLedgerDeleteEvent creates an export event for a deleted transaction.
func NewLedgerDeleteEvent(id int64) *LedgerEvent {
	return &LedgerEvent{ID: id, Deleted: true, Timestamp: time.Now()}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
