package domain

import "time"

// Outbox event types.
const (
	EventTransferPosted = "TRANSFER_POSTED"

	AggregateTransfer = "transfer"
)

// OutboxEvent is a domain event staged in the same transaction as the state
// change it describes, for later publication by a background worker.
type OutboxEvent struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// TransferPostedEvent builds the outbox event for a posted transfer.
func TransferPostedEvent(t *Transfer, at time.Time) *OutboxEvent {
	return &OutboxEvent{
		AggregateType: AggregateTransfer,
		AggregateID:   t.ID,
		EventType:     EventTransferPosted,
		Payload: map[string]any{
			"transfer_id":     t.ID,
			"from_account_id": t.FromAccountID,
			"to_account_id":   t.ToAccountID,
			"amount":          t.Amount,
			"fee":             t.Fee,
			"currency":        t.Currency,
		},
		CreatedAt: at,
	}
}
