package event

import (
	"time"
)

// EventType represents the type of event emitted by the system
type EventType string

// Task lifecycle events, emitted by the task manager as a task moves through
// posting, fulfilment, refund and rating.
const (
	TaskPosted           EventType = "task:posted"
	ReceiptFound         EventType = "task:receipt_found"
	FailureReceiptFound  EventType = "task:failure_receipt_found"
	ReceiptPollAttempt   EventType = "task:receipt_poll_attempt"
	ReceiptPollExhausted EventType = "task:receipt_poll_exhausted"
	RefundClaimed        EventType = "task:refund_claimed"
)

const (
	RatingCommitted EventType = "rating:committed"
	RatingRevealed  EventType = "rating:revealed"
)

// Transaction events, emitted for every transaction the manager hands to the wallet.
const (
	TxSigned    EventType = "tx:signed"
	TxSubmitted EventType = "tx:submitted"
	TxRejected  EventType = "tx:rejected"
	TxConflict  EventType = "tx:conflict"
)

// EventData is a map of event data attributes using standardized keys
type EventData map[EventDataKey]any

// Event represents an event emitted by the system
type Event struct {
	Type      EventType // Type of event
	TaskID    string    // Box id of the task the event concerns, if known
	TxID      string    // Transaction id, if one was submitted
	Timestamp time.Time // When the event occurred
	Data      EventData // Additional contextual data
}

func NewEvent(eventType EventType, taskID, txID string, data EventData) Event {
	if data == nil {
		data = make(EventData)
	}

	return Event{
		Type:      eventType,
		TaskID:    taskID,
		TxID:      txID,
		Timestamp: time.Now(),
		Data:      data,
	}
}
