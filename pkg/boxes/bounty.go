package boxes

import (
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

// VerificationBounty rewards third-party verification of a task result.
//
//	R4 taskId               Coll[Byte]
//	R5 bountyAmount         Long
//	R6 verificationDeadline Int
type VerificationBounty struct {
	BoxID          string
	Value          uint64
	CreationHeight int32
	Spent          bool

	TaskID               string
	BountyAmount         uint64
	VerificationDeadline int32
}

// Claimable reports whether the bounty can still be claimed at height.
func (b VerificationBounty) Claimable(height int32) bool {
	return !b.Spent && height < b.VerificationDeadline
}

// ParseBounty validates and decodes a VerificationBounty record.
func ParseBounty(rec RawRecord) (VerificationBounty, error) {
	r := registerReader{entity: "VerificationBounty", rec: rec}

	taskID, err := r.boxID(R4)
	if err != nil {
		return VerificationBounty{}, err
	}
	amount, err := r.amount(R5)
	if err != nil {
		return VerificationBounty{}, err
	}
	deadline, err := r.int(R6)
	if err != nil {
		return VerificationBounty{}, err
	}

	return VerificationBounty{
		BoxID:                rec.BoxID,
		Value:                rec.Value,
		CreationHeight:       rec.CreationHeight,
		Spent:                rec.Spent(),
		TaskID:               taskID,
		BountyAmount:         amount,
		VerificationDeadline: deadline,
	}, nil
}

// BountyParams are the construction parameters of a new VerificationBounty box.
type BountyParams struct {
	TaskID               string
	BountyAmount         uint64
	VerificationDeadline int32
}

// MaterializeBounty builds the register set of a bounty box locking BountyAmount.
func MaterializeBounty(p BountyParams) (Candidate, error) {
	taskID, err := DecodeBoxID("taskId", p.TaskID)
	if err != nil {
		return Candidate{}, err
	}
	if p.BountyAmount < MinBoxValue || p.BountyAmount > 1<<63-1 {
		return Candidate{}, errors.InvalidParameter("bountyAmount", ">= "+strconv.FormatUint(MinBoxValue, 10), strconv.FormatUint(p.BountyAmount, 10))
	}
	if p.VerificationDeadline <= 0 {
		return Candidate{}, errors.InvalidParameter("verificationDeadline", "> 0", strconv.Itoa(int(p.VerificationDeadline)))
	}

	regs := registerWriter{}
	regs.coll(R4, taskID)
	regs.long(R5, int64(p.BountyAmount))
	regs.int(R6, p.VerificationDeadline)
	return Candidate{Value: p.BountyAmount, Registers: Registers(regs)}, nil
}
