package event

// EventDataKey defines standard keys used in event data
type EventDataKey string

const (
	// Common data keys
	KeyError     EventDataKey = "error"
	KeyMessage   EventDataKey = "message"
	KeyOperation EventDataKey = "operation"
	KeyHeight    EventDataKey = "height"

	// Task specific keys
	KeyDeadline     EventDataKey = "deadline"
	KeyAmount       EventDataKey = "amount"
	KeyTokenID      EventDataKey = "token_id"
	KeyReceiptID    EventDataKey = "receipt_id"
	KeyAttempt      EventDataKey = "attempt"
	KeyMaxAttempts  EventDataKey = "max_attempts"
	KeyRefundTarget EventDataKey = "refund_target"

	// Rating specific keys
	KeyRatingBoxID EventDataKey = "rating_box_id"
	KeyCommitment  EventDataKey = "commitment"
	KeyRating      EventDataKey = "rating"
)
