package amqp

import (
	"testing"
	"time"
)

func TestLedgerEventJSON(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerEvent{ID: 12345, Version: 2, Timestamp: timestamp}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := LedgerEventFromJSON(body)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON() error = %v", err)
	}

	if parsed.ID != msg.ID || parsed.Version != msg.Version || parsed.Deleted {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
	if !parsed.Timestamp.Equal(timestamp) {
		t.Fatalf("timestamp mismatch: %v", parsed.Timestamp)
	}
}

func TestLedgerDeleteEvent(t *testing.T) {
	msg := NewLedgerDeleteEvent(7)
	if !msg.Deleted || msg.ID != 7 || msg.Version != 0 {
		t.Fatalf("unexpected delete event: %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("delete event timestamp should be set")
	}
}

func TestLedgerEventInvalidJSON(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte(`{"id": "not_a_number"}`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
