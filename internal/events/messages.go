package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type names the ledger change an Event describes.
type Type string

const (
	TypeTransfer Type = "transfer"
	TypeImport   Type = "import"
)

// Event is published after a ledger change is durably committed. Amount is
// kept as a decimal string so consumers never see float rounding.
type Event struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	Login        string    `json:"login"`
	Counterparty string    `json:"counterparty,omitempty"`
	Amount       string    `json:"amount,omitempty"`
	Category     string    `json:"category,omitempty"`
	Transactions int       `json:"transactions,omitempty"`
	Budgets      int       `json:"budgets,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewTransferEvent describes a committed transfer from login to counterparty.
func NewTransferEvent(login, counterparty, amount, category string) *Event {
	return &Event{
		ID:           uuid.NewString(),
		Type:         TypeTransfer,
		Login:        login,
		Counterparty: counterparty,
		Amount:       amount,
		Category:     category,
		Timestamp:    time.Now(),
	}
}

// NewImportEvent describes a committed CSV import into login's wallet.
func NewImportEvent(login string, transactions, budgets int) *Event {
	return &Event{
		ID:           uuid.NewString(),
		Type:         TypeImport,
		Login:        login,
		Transactions: transactions,
		Budgets:      budgets,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
