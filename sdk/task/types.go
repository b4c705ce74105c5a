package task

import (
	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
)

// PostTaskParams describe a task to escrow.
type PostTaskParams struct {
	// ServiceHash identifies the requested service. When empty it is derived
	// from ServiceName.
	ServiceHash []byte
	ServiceName string

	// Input is the task input. Only its salted commitment goes on-ledger.
	Input []byte
	// Salt is generated when empty. The caller must keep it.
	Salt []byte

	PaymentAmount uint64
	// PayInToken pays PaymentAmount units of PaymentToken, or of the
	// configured payment token when PaymentToken is empty.
	PayInToken   bool
	PaymentToken string

	MinReputation int32
	DeadlineBlock int32

	// ClientKey receives refunds. When empty it is taken from the wallet's
	// change address, which must then be a P2PK address.
	ClientKey []byte
}

// TaskRef is a posted task.
type TaskRef struct {
	TxID string
	// OutputIndex locates the Task box within the transaction.
	OutputIndex int
	Salt        []byte
	Commitment  []byte
	// Task is the posted record as built. Its BoxID is empty until the
	// transaction is indexed; see ResolveBoxID.
	Task boxes.Task
}

// TxRef is a submitted transaction.
type TxRef struct {
	TxID string
}

// RatingCommitParams describe a phase-1 rating.
type RatingCommitParams struct {
	TaskID   string
	Rating   int
	Salt     []byte // generated when empty
	RaterKey []byte
}

// RatingCommitRef is a submitted rating commitment.
type RatingCommitRef struct {
	TxID       string
	Commitment []byte
	Salt       []byte
}

// Status is the lifecycle state of a task as read from the ledger.
type Status string

const (
	// StatusOpen: unspent, before its deadline, no receipt.
	StatusOpen Status = "open"
	// StatusFulfilled: a Receipt references the task.
	StatusFulfilled Status = "fulfilled"
	// StatusFailed: a FailureReceipt references the task.
	StatusFailed Status = "failed"
	// StatusRefundable: unspent, deadline elapsed, no receipt.
	StatusRefundable Status = "refundable"
	// StatusClosed: spent without a receipt, e.g. refunded.
	StatusClosed Status = "closed"
)
