package logtrace

// Fields is a type alias for structured log fields
type Fields map[string]interface{}

const (
	FieldCorrelationID = "correlation_id"
	FieldMethod        = "method"
	FieldModule        = "module"
	FieldError         = "error"
	FieldStatus        = "status"
	FieldBlockHeight   = "block_height"
	FieldLimit         = "limit"
	FieldOffset        = "offset"
	FieldURL           = "url"
	FieldBoxID         = "box_id"
	FieldTxID          = "tx_id"
	FieldTaskID        = "task_id"
	FieldAddress       = "address"
	FieldTokenID       = "token_id"

	ValueExplorer  = "explorer"
	ValueSaltStore = "salt-store"
)
