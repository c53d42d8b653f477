package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTransferEvent(t *testing.T) {
	e := NewTransferEvent("alice", "bob", "100.5", "Gift")

	if e.Type != TypeTransfer {
		t.Errorf("Type = %v, want %v", e.Type, TypeTransfer)
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", e.ID, err)
	}
	if e.Login != "alice" || e.Counterparty != "bob" || e.Amount != "100.5" || e.Category != "Gift" {
		t.Errorf("unexpected event: %+v", e)
	}
	if time.Since(e.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
	if NewTransferEvent("a", "b", "1", "c").ID == e.ID {
		t.Error("event IDs must be unique")
	}
}

func TestEvent_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e := &Event{
		ID:           "3f1c2b1e-0000-4000-8000-000000000000",
		Type:         TypeImport,
		Login:        "alice",
		Transactions: 3,
		Budgets:      1,
		Timestamp:    timestamp,
	}

	data, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var parsed Event
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if parsed.ID != e.ID || parsed.Type != e.Type || parsed.Transactions != 3 || parsed.Budgets != 1 {
		t.Errorf("parsed = %+v, want %+v", parsed, e)
	}
	if !parsed.Timestamp.Equal(timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, timestamp)
	}
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	r := &Recorder{}
	if err := r.Publish(ctx, NewImportEvent("alice", 2, 0)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(r.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(r.Events))
	}

	r.Err = errors.New("broker down")
	if err := r.Publish(ctx, NewImportEvent("alice", 2, 0)); err == nil {
		t.Fatal("expected error")
	}
	if len(r.Events) != 1 {
		t.Fatalf("failed publish must not record, got %d events", len(r.Events))
	}

	if err := (Nop{}).Publish(ctx, nil); err != nil {
		t.Fatalf("Nop.Publish() error = %v", err)
	}
}
