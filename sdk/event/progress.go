package event

// ProgressInfo summarises where a task stands in its lifecycle
type ProgressInfo struct {
	Percentage   int        // Percentage complete (0-100)
	Status       TaskStatus // Current status
	CurrentEvent EventType  // The current event type
	IsErrorState bool       // Whether this is an error state
}

// TaskStatus represents the client-side view of a task's lifecycle
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusPosted    TaskStatus = "POSTED"
	StatusFulfilled TaskStatus = "FULFILLED"
	StatusFailed    TaskStatus = "FAILED"
	StatusRefunded  TaskStatus = "REFUNDED"
	StatusRated     TaskStatus = "RATED"
)

// eventProgressMap maps lifecycle events to their progress percentages
var eventProgressMap = map[EventType]int{
	TaskPosted:           25,
	ReceiptPollAttempt:   30,
	ReceiptPollExhausted: 30,
	ReceiptFound:         50,
	FailureReceiptFound:  50,
	RatingCommitted:      75,
	RatingRevealed:       100,
	RefundClaimed:        100,
}

// GetProgressFromEvent calculates progress information from a single event.
// Transaction events carry no lifecycle progress of their own.
func GetProgressFromEvent(e EventType) ProgressInfo {
	percentage := eventProgressMap[e]

	status := StatusPosted
	isError := false

	switch e {
	case ReceiptFound, RatingCommitted:
		status = StatusFulfilled
	case FailureReceiptFound:
		status = StatusFailed
		isError = true
	case RefundClaimed:
		status = StatusRefunded
	case RatingRevealed:
		status = StatusRated
	case TxRejected, TxConflict:
		isError = true
	}

	return ProgressInfo{
		Percentage:   percentage,
		Status:       status,
		CurrentEvent: e,
		IsErrorState: isError,
	}
}

// GetLatestProgress calculates progress info from the most recent lifecycle
// event in a list. Transaction events are skipped.
func GetLatestProgress(events []Event) ProgressInfo {
	for i := len(events) - 1; i >= 0; i-- {
		if _, ok := eventProgressMap[events[i].Type]; ok {
			return GetProgressFromEvent(events[i].Type)
		}
	}

	return ProgressInfo{
		Percentage: 0,
		Status:     StatusPending,
	}
}
