package boxes

import (
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/crypto"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

// RatingPhase is the commit-reveal stage of a Rating box.
type RatingPhase int32

const (
	PhaseCommit RatingPhase = 1
	PhaseReveal RatingPhase = 2
)

func (p RatingPhase) String() string {
	switch p {
	case PhaseCommit:
		return "commit"
	case PhaseReveal:
		return "reveal"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// Rating is one side's commit-reveal rating of a completed task.
//
//	R4 taskId           Coll[Byte]
//	R5 ratingCommitment Coll[Byte]
//	R6 raterKey         Coll[Byte]
//	R7 phase            Int, absent means commit
//	R8 revealedRating   Int, only in the reveal phase
type Rating struct {
	BoxID          string
	TransactionID  string
	Value          uint64
	CreationHeight int32
	Spent          bool

	TaskID         string
	Commitment     []byte
	RaterKey       []byte
	Phase          RatingPhase
	RevealedRating int // zero until revealed
}

// ParseRating validates and decodes a Rating record.
func ParseRating(rec RawRecord) (Rating, error) {
	r := registerReader{entity: "Rating", rec: rec}

	taskID, err := r.boxID(R4)
	if err != nil {
		return Rating{}, err
	}
	commitment, err := r.coll(R5)
	if err != nil {
		return Rating{}, err
	}
	raterKey, err := r.coll(R6)
	if err != nil {
		return Rating{}, err
	}

	phase := PhaseCommit
	if r.present(R7) {
		p, err := r.int(R7)
		if err != nil {
			return Rating{}, err
		}
		phase = RatingPhase(p)
	}

	rating := Rating{
		BoxID:          rec.BoxID,
		TransactionID:  rec.TransactionID,
		Value:          rec.Value,
		CreationHeight: rec.CreationHeight,
		Spent:          rec.Spent(),
		TaskID:         taskID,
		Commitment:     commitment,
		RaterKey:       raterKey,
		Phase:          phase,
	}

	switch phase {
	case PhaseCommit:
		if r.present(R8) {
			return Rating{}, errors.Decode("Rating", string(R8), errors.New("revealed rating present in commit phase"))
		}
	case PhaseReveal:
		revealed, err := r.int(R8)
		if err != nil {
			return Rating{}, err
		}
		if crypto.ValidateRating(int(revealed)) != nil {
			return Rating{}, errors.Decode("Rating", string(R8), errors.Errorf("revealed rating %d out of range", revealed))
		}
		rating.RevealedRating = int(revealed)
	default:
		return Rating{}, errors.Decode("Rating", string(R7), errors.Errorf("unknown phase %d", phase))
	}

	return rating, nil
}

// RatingCommitParams are the construction parameters of a phase-1 Rating box.
type RatingCommitParams struct {
	TaskID     string
	Commitment []byte
	RaterKey   []byte
}

// MaterializeRatingCommit builds the register set of a commit-phase Rating box.
func MaterializeRatingCommit(p RatingCommitParams) (Candidate, error) {
	taskID, err := DecodeBoxID("taskId", p.TaskID)
	if err != nil {
		return Candidate{}, err
	}
	if len(p.Commitment) != crypto.DigestSize {
		return Candidate{}, errors.InvalidParameter("commitment", strconv.Itoa(crypto.DigestSize)+" bytes", strconv.Itoa(len(p.Commitment))+" bytes")
	}
	if err := requireBytes("raterKey", p.RaterKey); err != nil {
		return Candidate{}, err
	}

	regs := registerWriter{}
	regs.coll(R4, taskID)
	regs.coll(R5, p.Commitment)
	regs.coll(R6, p.RaterKey)
	regs.int(R7, int32(PhaseCommit))
	return Candidate{Value: MinBoxValue, Registers: Registers(regs)}, nil
}

// MaterializeRatingReveal builds the reveal-phase successor of a commit-phase
// Rating record. R4..R6 are carried over byte for byte; the value and tokens
// of the commit box move to the successor.
func MaterializeRatingReveal(commit RawRecord, rating int) (Candidate, error) {
	if err := crypto.ValidateRating(rating); err != nil {
		return Candidate{}, err
	}
	parsed, err := ParseRating(commit)
	if err != nil {
		return Candidate{}, err
	}
	if parsed.Phase != PhaseCommit {
		return Candidate{}, errors.Precondition("Rating", "commit-phase", PhaseCommit.String(), parsed.Phase.String())
	}

	regs := registerWriter{}
	for _, id := range []RegisterID{R4, R5, R6} {
		regs[id] = commit.AdditionalRegisters[id].SerializedValue
	}
	regs.int(R7, int32(PhaseReveal))
	regs.int(R8, int32(rating))
	return Candidate{Value: commit.Value, Assets: copyAssets(commit.Assets), Registers: Registers(regs)}, nil
}
