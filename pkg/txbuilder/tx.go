// Package txbuilder assembles unsigned transactions in the EIP-12 shape
// handed to the Signing Gateway.
package txbuilder

import (
	"encoding/json"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
)

// FeeErgoTree is the miner fee guard script.
const FeeErgoTree = "1005040004000e36100204a00b08cd0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798ea02d192a39a8cc7a701730073011001020402d19683030193a38cc7b2a57300000193c2b2a57301007473027303830108cdeeac93b1a57304"

// Input is a box being spent, carried in full so the signer can evaluate it.
type Input struct {
	BoxID               string            `json:"boxId"`
	TransactionID       string            `json:"transactionId"`
	Index               int               `json:"index"`
	Value               uint64            `json:"value,string"`
	ErgoTree            string            `json:"ergoTree"`
	CreationHeight      int32             `json:"creationHeight"`
	Assets              []boxes.Asset     `json:"assets"`
	AdditionalRegisters boxes.Registers   `json:"additionalRegisters"`
	Extension           map[string]string `json:"extension"`
}

// InputFromRecord converts a ledger record into a spendable input.
func InputFromRecord(rec boxes.RawRecord) Input {
	return Input{
		BoxID:               rec.BoxID,
		TransactionID:       rec.TransactionID,
		Index:               rec.Index,
		Value:               rec.Value,
		ErgoTree:            rec.ErgoTree,
		CreationHeight:      rec.CreationHeight,
		Assets:              append([]boxes.Asset{}, rec.Assets...),
		AdditionalRegisters: rec.SerializedRegisters(),
		Extension:           map[string]string{},
	}
}

// DataInput is a box read, but not spent, by the transaction.
type DataInput struct {
	BoxID string `json:"boxId"`
}

// Output is a box created by the transaction.
type Output struct {
	Value               uint64          `json:"value,string"`
	ErgoTree            string          `json:"ergoTree"`
	CreationHeight      int32           `json:"creationHeight"`
	Assets              []boxes.Asset   `json:"assets"`
	AdditionalRegisters boxes.Registers `json:"additionalRegisters"`
}

// OutputFromCandidate places a candidate box under a guard script.
func OutputFromCandidate(c boxes.Candidate, ergoTree string, height int32) Output {
	regs := boxes.Registers{}
	for id, v := range c.Registers {
		regs[id] = v
	}
	return Output{
		Value:               c.Value,
		ErgoTree:            ergoTree,
		CreationHeight:      height,
		Assets:              append([]boxes.Asset{}, c.Assets...),
		AdditionalRegisters: regs,
	}
}

// UnsignedTx is a transaction awaiting signatures.
type UnsignedTx struct {
	Inputs     []Input     `json:"inputs"`
	DataInputs []DataInput `json:"dataInputs"`
	Outputs    []Output    `json:"outputs"`
}

// InputIDs returns the ids of the spent boxes in order.
func (tx *UnsignedTx) InputIDs() []string {
	ids := make([]string, len(tx.Inputs))
	for i, in := range tx.Inputs {
		ids[i] = in.BoxID
	}
	return ids
}

// Fee returns the value sent to the miner fee script.
func (tx *UnsignedTx) Fee() uint64 {
	var fee uint64
	for _, o := range tx.Outputs {
		if o.ErgoTree == FeeErgoTree {
			fee += o.Value
		}
	}
	return fee
}

// SignedTx is an opaque signed transaction as returned by the signer.
type SignedTx struct {
	ID  string          `json:"id"`
	Raw json.RawMessage `json:"raw,omitempty"`
}
