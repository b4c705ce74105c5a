package boxes

import (
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/crypto"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

// Task is an escrowed request for work.
//
//	R4 serviceHash     Coll[Byte]
//	R5 inputCommitment Coll[Byte]
//	R6 paymentAmount   Long
//	R7 minReputation   Int
//	R8 deadlineBlock   Int
//	R9 clientKey       Coll[Byte]
type Task struct {
	BoxID          string
	TransactionID  string
	Value          uint64
	Assets         []Asset
	CreationHeight int32
	Spent          bool

	ServiceHash     []byte
	InputCommitment []byte
	PaymentAmount   uint64
	MinReputation   int32
	DeadlineBlock   int32
	ClientKey       []byte
}

// Expired reports whether the deadline has passed at height.
func (t Task) Expired(height int32) bool {
	return height > t.DeadlineBlock
}

// PaidInToken reports whether the payment is carried by a token rather than
// the box value.
func (t Task) PaidInToken() bool {
	return len(t.Assets) > 0
}

// ParseTask validates and decodes a Task record.
func ParseTask(rec RawRecord) (Task, error) {
	r := registerReader{entity: "Task", rec: rec}

	serviceHash, err := r.coll(R4)
	if err != nil {
		return Task{}, err
	}
	commitment, err := r.coll(R5)
	if err != nil {
		return Task{}, err
	}
	payment, err := r.amount(R6)
	if err != nil {
		return Task{}, err
	}
	minRep, err := r.int(R7)
	if err != nil {
		return Task{}, err
	}
	deadline, err := r.int(R8)
	if err != nil {
		return Task{}, err
	}
	clientKey, err := r.coll(R9)
	if err != nil {
		return Task{}, err
	}

	return Task{
		BoxID:           rec.BoxID,
		TransactionID:   rec.TransactionID,
		Value:           rec.Value,
		Assets:          copyAssets(rec.Assets),
		CreationHeight:  rec.CreationHeight,
		Spent:           rec.Spent(),
		ServiceHash:     serviceHash,
		InputCommitment: commitment,
		PaymentAmount:   payment,
		MinReputation:   minRep,
		DeadlineBlock:   deadline,
		ClientKey:       clientKey,
	}, nil
}

// TaskParams are the construction parameters of a new Task box.
type TaskParams struct {
	ServiceHash     []byte
	InputCommitment []byte
	PaymentAmount   uint64
	MinReputation   int32
	DeadlineBlock   int32
	ClientKey       []byte
	// PaymentToken, when set, carries the payment instead of the box value.
	PaymentToken string
}

// Validate checks the parameters that do not depend on ledger state.
func (p TaskParams) Validate() error {
	if err := p.ValidateTerms(); err != nil {
		return err
	}
	return requireBytes("clientKey", p.ClientKey)
}

// ValidateTerms checks every parameter except the client key, which callers
// may still have to resolve.
func (p TaskParams) ValidateTerms() error {
	if err := requireBytes("serviceHash", p.ServiceHash); err != nil {
		return err
	}
	if len(p.InputCommitment) != crypto.DigestSize {
		return errors.InvalidParameter("inputCommitment", strconv.Itoa(crypto.DigestSize)+" bytes", strconv.Itoa(len(p.InputCommitment))+" bytes")
	}
	if p.PaymentAmount == 0 || p.PaymentAmount > 1<<63-1 {
		return errors.InvalidParameter("paymentAmount", "positive Long", strconv.FormatUint(p.PaymentAmount, 10))
	}
	if p.PaymentToken == "" && p.PaymentAmount < MinBoxValue {
		return errors.InvalidParameter("paymentAmount", ">= "+strconv.FormatUint(MinBoxValue, 10), strconv.FormatUint(p.PaymentAmount, 10))
	}
	if p.MinReputation < 0 {
		return errors.InvalidParameter("minReputation", ">= 0", strconv.Itoa(int(p.MinReputation)))
	}
	if p.DeadlineBlock <= 0 {
		return errors.InvalidParameter("deadlineBlock", "> 0", strconv.Itoa(int(p.DeadlineBlock)))
	}
	return nil
}

// MaterializeTask builds the register set and value of a new Task box.
func MaterializeTask(p TaskParams) (Candidate, error) {
	if err := p.Validate(); err != nil {
		return Candidate{}, err
	}

	regs := registerWriter{}
	regs.coll(R4, p.ServiceHash)
	regs.coll(R5, p.InputCommitment)
	regs.long(R6, int64(p.PaymentAmount))
	regs.int(R7, p.MinReputation)
	regs.int(R8, p.DeadlineBlock)
	regs.coll(R9, p.ClientKey)

	c := Candidate{Value: p.PaymentAmount, Registers: Registers(regs)}
	if p.PaymentToken != "" {
		c.Value = MinBoxValue
		c.Assets = []Asset{{TokenID: p.PaymentToken, Amount: p.PaymentAmount}}
	}
	return c, nil
}
