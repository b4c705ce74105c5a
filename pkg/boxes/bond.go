package boxes

import (
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

// MinBondAmount is the smallest stake a node may bond, in nanoERG.
const MinBondAmount uint64 = 1_000_000_000

// Bond is a node's staked collateral and reputation. It is reissued, never
// mutated, whenever its counters change.
//
//	R4 nodeKey         Coll[Byte]
//	R5 bondAmount      Long
//	R6 activeTaskCount Int
//	R7 reputationScore Int
type Bond struct {
	BoxID          string
	Value          uint64
	CreationHeight int32
	Spent          bool

	NodeKey         []byte
	BondAmount      uint64
	ActiveTaskCount int32
	ReputationScore int32
}

// ParseBond validates and decodes a Bond record.
func ParseBond(rec RawRecord) (Bond, error) {
	r := registerReader{entity: "Bond", rec: rec}

	nodeKey, err := r.coll(R4)
	if err != nil {
		return Bond{}, err
	}
	amount, err := r.amount(R5)
	if err != nil {
		return Bond{}, err
	}
	active, err := r.int(R6)
	if err != nil {
		return Bond{}, err
	}
	if active < 0 {
		return Bond{}, errors.Decode("Bond", string(R6), errors.Errorf("negative active task count %d", active))
	}
	reputation, err := r.int(R7)
	if err != nil {
		return Bond{}, err
	}

	return Bond{
		BoxID:           rec.BoxID,
		Value:           rec.Value,
		CreationHeight:  rec.CreationHeight,
		Spent:           rec.Spent(),
		NodeKey:         nodeKey,
		BondAmount:      amount,
		ActiveTaskCount: active,
		ReputationScore: reputation,
	}, nil
}

// BondParams are the construction parameters of a new or reissued Bond box.
type BondParams struct {
	NodeKey         []byte
	BondAmount      uint64
	ActiveTaskCount int32
	ReputationScore int32
}

// MaterializeBond builds the register set of a Bond box locking BondAmount.
func MaterializeBond(p BondParams) (Candidate, error) {
	if err := requireBytes("nodeKey", p.NodeKey); err != nil {
		return Candidate{}, err
	}
	if p.BondAmount < MinBondAmount || p.BondAmount > 1<<63-1 {
		return Candidate{}, errors.InvalidParameter("bondAmount", ">= "+strconv.FormatUint(MinBondAmount, 10), strconv.FormatUint(p.BondAmount, 10))
	}
	if p.ActiveTaskCount < 0 {
		return Candidate{}, errors.InvalidParameter("activeTaskCount", ">= 0", strconv.Itoa(int(p.ActiveTaskCount)))
	}

	regs := registerWriter{}
	regs.coll(R4, p.NodeKey)
	regs.long(R5, int64(p.BondAmount))
	regs.int(R6, p.ActiveTaskCount)
	regs.int(R7, p.ReputationScore)
	return Candidate{Value: p.BondAmount, Registers: Registers(regs)}, nil
}

// Reissue returns the parameters of the bond that replaces b after its
// active task count changes by delta.
func (b Bond) Reissue(delta int32, reputation int32) (BondParams, error) {
	active := b.ActiveTaskCount + delta
	if active < 0 {
		return BondParams{}, errors.InvalidParameter("activeTaskCount", ">= 0", strconv.Itoa(int(active)))
	}
	return BondParams{
		NodeKey:         b.NodeKey,
		BondAmount:      b.BondAmount,
		ActiveTaskCount: active,
		ReputationScore: reputation,
	}, nil
}
