// Package boxes maps raw ledger records onto the marketplace entities
// (Task, Receipt, FailureReceipt, Bond, Rating, VerificationBounty) and builds
// the register sets for new boxes.
package boxes

import (
	"encoding/hex"
	"sort"

	"github.com/agenticaihome/agenticaihome-v2/pkg/codec"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

// MinBoxValue is the smallest value a box may lock, in nanoERG.
const MinBoxValue uint64 = 1_000_000

// BoxIDSize is the length of a box id in bytes.
const BoxIDSize = 32

// RegisterID names one of the non-mandatory registers.
type RegisterID string

const (
	R4 RegisterID = "R4"
	R5 RegisterID = "R5"
	R6 RegisterID = "R6"
	R7 RegisterID = "R7"
	R8 RegisterID = "R8"
	R9 RegisterID = "R9"
)

// Register is the Explorer representation of one register.
type Register struct {
	SerializedValue string `json:"serializedValue"`
	SigmaType       string `json:"sigmaType,omitempty"`
	RenderedValue   string `json:"renderedValue,omitempty"`
}

// Asset is a token amount held by a box.
type Asset struct {
	TokenID string `json:"tokenId"`
	Amount  uint64 `json:"amount"`
}

// RawRecord is a box as returned by the Ledger Gateway.
type RawRecord struct {
	BoxID               string                  `json:"boxId"`
	TransactionID       string                  `json:"transactionId"`
	BlockID             string                  `json:"blockId,omitempty"`
	Value               uint64                  `json:"value"`
	Index               int                     `json:"index"`
	CreationHeight      int32                   `json:"creationHeight"`
	SettlementHeight    int32                   `json:"settlementHeight,omitempty"`
	ErgoTree            string                  `json:"ergoTree"`
	Address             string                  `json:"address,omitempty"`
	Assets              []Asset                 `json:"assets"`
	AdditionalRegisters map[RegisterID]Register `json:"additionalRegisters"`
	SpentTransactionID  *string                 `json:"spentTransactionId"`
}

// Spent reports whether the box has been consumed by a transaction.
func (r RawRecord) Spent() bool {
	return r.SpentTransactionID != nil && *r.SpentTransactionID != ""
}

// SerializedRegisters returns the hex register values keyed by id.
func (r RawRecord) SerializedRegisters() Registers {
	regs := make(Registers, len(r.AdditionalRegisters))
	for id, reg := range r.AdditionalRegisters {
		regs[id] = reg.SerializedValue
	}
	return regs
}

// TokenAmount returns the amount of tokenID held by the box.
func (r RawRecord) TokenAmount(tokenID string) uint64 {
	var total uint64
	for _, a := range r.Assets {
		if a.TokenID == tokenID {
			total += a.Amount
		}
	}
	return total
}

// Registers maps register ids to hex serialized values, the shape used by
// unsigned transaction outputs.
type Registers map[RegisterID]string

// IDs returns the populated register ids in ascending order.
func (r Registers) IDs() []RegisterID {
	ids := make([]RegisterID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Candidate is a box about to be created: everything but its guard script
// and creation height.
type Candidate struct {
	Value     uint64
	Assets    []Asset
	Registers Registers
}

// Record returns the RawRecord the candidate becomes once it is included in
// a transaction under the given guard script.
func (c Candidate) Record(boxID, txID string, index int, ergoTree string, height int32) RawRecord {
	regs := make(map[RegisterID]Register, len(c.Registers))
	for id, v := range c.Registers {
		regs[id] = Register{SerializedValue: v}
	}
	return RawRecord{
		BoxID:               boxID,
		TransactionID:       txID,
		Value:               c.Value,
		Index:               index,
		CreationHeight:      height,
		ErgoTree:            ergoTree,
		Assets:              copyAssets(c.Assets),
		AdditionalRegisters: regs,
	}
}

// registerWriter accumulates encoded register values in order.
type registerWriter Registers

func (w registerWriter) coll(id RegisterID, b []byte) {
	w[id] = hex.EncodeToString(codec.EncodeColl(b))
}

func (w registerWriter) int(id RegisterID, v int32) {
	w[id] = hex.EncodeToString(codec.EncodeInt(v))
}

func (w registerWriter) long(id RegisterID, v int64) {
	w[id] = hex.EncodeToString(codec.EncodeLong(v))
}

// registerReader decodes registers of one record, attributing failures to
// the entity and register.
type registerReader struct {
	entity string
	rec    RawRecord
}

var errMissingRegister = errors.New("register missing")

func (r registerReader) present(id RegisterID) bool {
	reg, ok := r.rec.AdditionalRegisters[id]
	return ok && reg.SerializedValue != ""
}

func (r registerReader) value(id RegisterID, want codec.Kind) (codec.Value, error) {
	if !r.present(id) {
		return codec.Value{}, errors.Decode(r.entity, string(id), errMissingRegister)
	}
	v, err := codec.DecodeHex(r.rec.AdditionalRegisters[id].SerializedValue)
	if err != nil {
		return codec.Value{}, errors.Decode(r.entity, string(id), err)
	}
	if v.Kind != want {
		return codec.Value{}, errors.Decode(r.entity, string(id), errors.Errorf("%w: want %s, got %s", codec.ErrKindMismatch, want, v.Kind))
	}
	return v, nil
}

func (r registerReader) coll(id RegisterID) ([]byte, error) {
	v, err := r.value(id, codec.KindColl)
	return v.Bytes, err
}

func (r registerReader) int(id RegisterID) (int32, error) {
	v, err := r.value(id, codec.KindInt)
	return v.Int, err
}

func (r registerReader) long(id RegisterID) (int64, error) {
	v, err := r.value(id, codec.KindLong)
	return v.Long, err
}

// amount reads a Long register that must not be negative.
func (r registerReader) amount(id RegisterID) (uint64, error) {
	v, err := r.long(id)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.Decode(r.entity, string(id), errors.Errorf("negative amount %d", v))
	}
	return uint64(v), nil
}

// boxID reads a Coll register holding a referenced box id and returns it as hex.
func (r registerReader) boxID(id RegisterID) (string, error) {
	b, err := r.coll(id)
	if err != nil {
		return "", err
	}
	if len(b) != BoxIDSize {
		return "", errors.Decode(r.entity, string(id), errors.Errorf("box id is %d bytes", len(b)))
	}
	return hex.EncodeToString(b), nil
}

// DecodeBoxID validates a hex box id and returns its raw bytes.
func DecodeBoxID(field, id string) ([]byte, error) {
	b, err := hex.DecodeString(id)
	if err != nil || len(b) != BoxIDSize {
		return nil, errors.InvalidParameter(field, "64 hex characters", id)
	}
	return b, nil
}

// CanonicalBoxID validates id and returns it in the lower-case form parsed
// records carry.
func CanonicalBoxID(field, id string) (string, error) {
	b, err := DecodeBoxID(field, id)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func requireBytes(field string, b []byte) error {
	if len(b) == 0 {
		return errors.InvalidParameter(field, "non-empty", "empty")
	}
	return nil
}

func copyAssets(assets []Asset) []Asset {
	if len(assets) == 0 {
		return nil
	}
	return append([]Asset(nil), assets...)
}
