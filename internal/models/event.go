package models

import "time"

// TransferEvent is published once a transfer reaches a terminal state.
type TransferEvent struct {
	EventID     string              `json:"event_id"`
	Type        string              `json:"type"`
	OccurredAt  time.Time           `json:"occurred_at"`
	Transaction TransactionSnapshot `json:"transaction"`
}

// Event types.
const (
	EventTransferCommitted  = "transfer.committed"
	EventTransferRolledBack = "transfer.rolled_back"
)

// EventTypeFor returns the event type matching a terminal state.
func EventTypeFor(state TransactionState) string {
	if state == StateCommitted {
		return EventTransferCommitted
	}
	return EventTransferRolledBack
}
