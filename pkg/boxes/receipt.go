package boxes

import (
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

// Receipt records a node's successful completion of a task.
//
//	R4 taskId         Coll[Byte]
//	R5 outputHash     Coll[Byte]
//	R6 nodeKey        Coll[Byte]
//	R7 executionBlock Int
type Receipt struct {
	BoxID          string
	TransactionID  string
	Value          uint64
	CreationHeight int32
	Spent          bool

	TaskID         string
	OutputHash     []byte
	NodeKey        []byte
	ExecutionBlock int32
}

// ParseReceipt validates and decodes a Receipt record.
func ParseReceipt(rec RawRecord) (Receipt, error) {
	r := registerReader{entity: "Receipt", rec: rec}

	taskID, err := r.boxID(R4)
	if err != nil {
		return Receipt{}, err
	}
	outputHash, err := r.coll(R5)
	if err != nil {
		return Receipt{}, err
	}
	nodeKey, err := r.coll(R6)
	if err != nil {
		return Receipt{}, err
	}
	block, err := r.int(R7)
	if err != nil {
		return Receipt{}, err
	}

	return Receipt{
		BoxID:          rec.BoxID,
		TransactionID:  rec.TransactionID,
		Value:          rec.Value,
		CreationHeight: rec.CreationHeight,
		Spent:          rec.Spent(),
		TaskID:         taskID,
		OutputHash:     outputHash,
		NodeKey:        nodeKey,
		ExecutionBlock: block,
	}, nil
}

// ReceiptParams are the construction parameters of a new Receipt box.
type ReceiptParams struct {
	TaskID         string
	OutputHash     []byte
	NodeKey        []byte
	ExecutionBlock int32
}

// MaterializeReceipt builds the register set of a new Receipt box.
func MaterializeReceipt(p ReceiptParams) (Candidate, error) {
	taskID, err := DecodeBoxID("taskId", p.TaskID)
	if err != nil {
		return Candidate{}, err
	}
	if err := requireBytes("outputHash", p.OutputHash); err != nil {
		return Candidate{}, err
	}
	if err := requireBytes("nodeKey", p.NodeKey); err != nil {
		return Candidate{}, err
	}
	if p.ExecutionBlock <= 0 {
		return Candidate{}, errors.InvalidParameter("executionBlock", "> 0", strconv.Itoa(int(p.ExecutionBlock)))
	}

	regs := registerWriter{}
	regs.coll(R4, taskID)
	regs.coll(R5, p.OutputHash)
	regs.coll(R6, p.NodeKey)
	regs.int(R7, p.ExecutionBlock)
	return Candidate{Value: MinBoxValue, Registers: Registers(regs)}, nil
}

// FailureReceipt records a node's declared inability to complete a task.
//
//	R4 taskId            Coll[Byte]
//	R5 failureReasonHash Coll[Byte]
//	R6 nodeKey           Coll[Byte]
//	R7 failureBlock      Int
type FailureReceipt struct {
	BoxID          string
	TransactionID  string
	Value          uint64
	CreationHeight int32
	Spent          bool

	TaskID            string
	FailureReasonHash []byte
	NodeKey           []byte
	FailureBlock      int32
}

// ParseFailureReceipt validates and decodes a FailureReceipt record.
func ParseFailureReceipt(rec RawRecord) (FailureReceipt, error) {
	r := registerReader{entity: "FailureReceipt", rec: rec}

	taskID, err := r.boxID(R4)
	if err != nil {
		return FailureReceipt{}, err
	}
	reason, err := r.coll(R5)
	if err != nil {
		return FailureReceipt{}, err
	}
	nodeKey, err := r.coll(R6)
	if err != nil {
		return FailureReceipt{}, err
	}
	block, err := r.int(R7)
	if err != nil {
		return FailureReceipt{}, err
	}

	return FailureReceipt{
		BoxID:             rec.BoxID,
		TransactionID:     rec.TransactionID,
		Value:             rec.Value,
		CreationHeight:    rec.CreationHeight,
		Spent:             rec.Spent(),
		TaskID:            taskID,
		FailureReasonHash: reason,
		NodeKey:           nodeKey,
		FailureBlock:      block,
	}, nil
}

// FailureReceiptParams are the construction parameters of a new FailureReceipt box.
type FailureReceiptParams struct {
	TaskID            string
	FailureReasonHash []byte
	NodeKey           []byte
	FailureBlock      int32
}

// MaterializeFailureReceipt builds the register set of a new FailureReceipt box.
func MaterializeFailureReceipt(p FailureReceiptParams) (Candidate, error) {
	taskID, err := DecodeBoxID("taskId", p.TaskID)
	if err != nil {
		return Candidate{}, err
	}
	if err := requireBytes("failureReasonHash", p.FailureReasonHash); err != nil {
		return Candidate{}, err
	}
	if err := requireBytes("nodeKey", p.NodeKey); err != nil {
		return Candidate{}, err
	}
	if p.FailureBlock <= 0 {
		return Candidate{}, errors.InvalidParameter("failureBlock", "> 0", strconv.Itoa(int(p.FailureBlock)))
	}

	regs := registerWriter{}
	regs.coll(R4, taskID)
	regs.coll(R5, p.FailureReasonHash)
	regs.coll(R6, p.NodeKey)
	regs.int(R7, p.FailureBlock)
	return Candidate{Value: MinBoxValue, Registers: Registers(regs)}, nil
}
