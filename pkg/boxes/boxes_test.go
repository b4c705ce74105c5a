package boxes

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticaihome/agenticaihome-v2/pkg/codec"
	"github.com/agenticaihome/agenticaihome-v2/pkg/crypto"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
)

const (
	testTaskID = "aa00000000000000000000000000000000000000000000000000000000000001"
	testBoxID  = "bb00000000000000000000000000000000000000000000000000000000000002"
	testTree   = "100204a00b08cd"
)

func testKey(b byte) []byte {
	return append([]byte{0x02}, bytes.Repeat([]byte{b}, 32)...)
}

func record(t *testing.T, c Candidate) RawRecord {
	t.Helper()
	return c.Record(testBoxID, "tx01", 0, testTree, 1000)
}

func TestTaskRoundTrip(t *testing.T) {
	params := TaskParams{
		ServiceHash:     crypto.ServiceHash("text-summarization"),
		InputCommitment: crypto.Commit([]byte("input"), []byte("salt")),
		PaymentAmount:   100_000_000,
		MinReputation:   10,
		DeadlineBlock:   2000,
		ClientKey:       testKey(0x01),
	}

	c, err := MaterializeTask(params)
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000), c.Value)
	assert.Empty(t, c.Assets)
	assert.Equal(t, []RegisterID{R4, R5, R6, R7, R8, R9}, c.Registers.IDs())

	task, err := ParseTask(record(t, c))
	require.NoError(t, err)
	assert.Equal(t, params.ServiceHash, task.ServiceHash)
	assert.Equal(t, params.InputCommitment, task.InputCommitment)
	assert.Equal(t, params.PaymentAmount, task.PaymentAmount)
	assert.Equal(t, params.MinReputation, task.MinReputation)
	assert.Equal(t, params.DeadlineBlock, task.DeadlineBlock)
	assert.Equal(t, params.ClientKey, task.ClientKey)
	assert.Equal(t, task.Value, task.PaymentAmount)
	assert.False(t, task.PaidInToken())

	assert.False(t, task.Expired(2000))
	assert.True(t, task.Expired(2001))
}

func TestTaskPaidInToken(t *testing.T) {
	c, err := MaterializeTask(TaskParams{
		ServiceHash:     []byte{1},
		InputCommitment: make([]byte, crypto.DigestSize),
		PaymentAmount:   2500,
		DeadlineBlock:   10,
		ClientKey:       testKey(0x02),
		PaymentToken:    "03faf2cb329f2e90d6d23b58d91bbb6c046aa143261cc21f52fbe2824bfcbf04",
	})
	require.NoError(t, err)
	assert.Equal(t, MinBoxValue, c.Value)
	require.Len(t, c.Assets, 1)
	assert.Equal(t, uint64(2500), c.Assets[0].Amount)

	task, err := ParseTask(record(t, c))
	require.NoError(t, err)
	assert.True(t, task.PaidInToken())
	assert.Equal(t, uint64(2500), task.PaymentAmount)
}

func TestTaskParamsValidation(t *testing.T) {
	valid := TaskParams{
		ServiceHash:     []byte{1},
		InputCommitment: make([]byte, crypto.DigestSize),
		PaymentAmount:   MinBoxValue,
		DeadlineBlock:   10,
		ClientKey:       testKey(0x03),
	}

	tests := map[string]func(p *TaskParams){
		"empty service hash":    func(p *TaskParams) { p.ServiceHash = nil },
		"short commitment":      func(p *TaskParams) { p.InputCommitment = []byte{1, 2} },
		"zero payment":          func(p *TaskParams) { p.PaymentAmount = 0 },
		"payment below minimum": func(p *TaskParams) { p.PaymentAmount = MinBoxValue - 1 },
		"negative reputation":   func(p *TaskParams) { p.MinReputation = -1 },
		"zero deadline":         func(p *TaskParams) { p.DeadlineBlock = 0 },
		"missing client key":    func(p *TaskParams) { p.ClientKey = nil },
	}

	require.NoError(t, valid.Validate())
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := valid
			mutate(&p)
			_, err := MaterializeTask(p)
			assert.ErrorIs(t, err, errors.ErrInvalidParameters)
		})
	}
}

func TestParseIsIdempotent(t *testing.T) {
	c, err := MaterializeReceipt(ReceiptParams{
		TaskID:         testTaskID,
		OutputHash:     crypto.Hash([]byte("output")),
		NodeKey:        testKey(0x04),
		ExecutionBlock: 1500,
	})
	require.NoError(t, err)
	rec := record(t, c)

	first, err := ParseReceipt(rec)
	require.NoError(t, err)
	second, err := ParseReceipt(rec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, testTaskID, first.TaskID)
	assert.Equal(t, int32(1500), first.ExecutionBlock)
}

func TestFailureReceiptRoundTrip(t *testing.T) {
	c, err := MaterializeFailureReceipt(FailureReceiptParams{
		TaskID:            testTaskID,
		FailureReasonHash: crypto.Hash([]byte("model unavailable")),
		NodeKey:           testKey(0x05),
		FailureBlock:      1600,
	})
	require.NoError(t, err)

	f, err := ParseFailureReceipt(record(t, c))
	require.NoError(t, err)
	assert.Equal(t, testTaskID, f.TaskID)
	assert.Equal(t, int32(1600), f.FailureBlock)
	assert.Equal(t, testKey(0x05), f.NodeKey)

	_, err = MaterializeFailureReceipt(FailureReceiptParams{TaskID: "zz", FailureReasonHash: []byte{1}, NodeKey: []byte{1}, FailureBlock: 1})
	assert.ErrorIs(t, err, errors.ErrInvalidParameters)
}

func TestBond(t *testing.T) {
	c, err := MaterializeBond(BondParams{NodeKey: testKey(0x06), BondAmount: MinBondAmount, ActiveTaskCount: 2, ReputationScore: 40})
	require.NoError(t, err)
	assert.Equal(t, MinBondAmount, c.Value)

	bond, err := ParseBond(record(t, c))
	require.NoError(t, err)
	assert.Equal(t, int32(2), bond.ActiveTaskCount)
	assert.Equal(t, int32(40), bond.ReputationScore)

	next, err := bond.Reissue(-2, 45)
	require.NoError(t, err)
	assert.Equal(t, int32(0), next.ActiveTaskCount)
	assert.Equal(t, int32(45), next.ReputationScore)

	_, err = bond.Reissue(-3, 45)
	assert.ErrorIs(t, err, errors.ErrInvalidParameters)

	_, err = MaterializeBond(BondParams{NodeKey: testKey(0x06), BondAmount: MinBondAmount - 1})
	assert.ErrorIs(t, err, errors.ErrInvalidParameters)

	rec := record(t, c)
	rec.AdditionalRegisters[R6] = Register{SerializedValue: hex.EncodeToString(codec.EncodeInt(-1))}
	_, err = ParseBond(rec)
	assert.ErrorIs(t, err, errors.ErrDecode)
}

func TestRatingCommitAndReveal(t *testing.T) {
	salt := []byte("rating-salt")
	commitment, err := crypto.RatingCommitment(4, salt)
	require.NoError(t, err)

	c, err := MaterializeRatingCommit(RatingCommitParams{TaskID: testTaskID, Commitment: commitment, RaterKey: testKey(0x07)})
	require.NoError(t, err)
	commitRec := record(t, c)

	committed, err := ParseRating(commitRec)
	require.NoError(t, err)
	assert.Equal(t, PhaseCommit, committed.Phase)
	assert.Zero(t, committed.RevealedRating)

	revealed, err := MaterializeRatingReveal(commitRec, 4)
	require.NoError(t, err)
	for _, id := range []RegisterID{R4, R5, R6} {
		assert.Equal(t, c.Registers[id], revealed.Registers[id], "register %s must carry over", id)
	}
	assert.Equal(t, commitRec.Value, revealed.Value)

	rating, err := ParseRating(revealed.Record(testBoxID, "tx02", 0, testTree, 1100))
	require.NoError(t, err)
	assert.Equal(t, PhaseReveal, rating.Phase)
	assert.Equal(t, 4, rating.RevealedRating)
	assert.Equal(t, committed.TaskID, rating.TaskID)
	assert.Equal(t, committed.Commitment, rating.Commitment)
	assert.Equal(t, committed.RaterKey, rating.RaterKey)

	_, err = MaterializeRatingReveal(revealed.Record(testBoxID, "tx02", 0, testTree, 1100), 4)
	assert.ErrorIs(t, err, errors.ErrPreconditionFailed)

	_, err = MaterializeRatingReveal(commitRec, 6)
	assert.ErrorIs(t, err, errors.ErrInvalidParameters)
}

func TestRatingPhaseDefaultsToCommit(t *testing.T) {
	c, err := MaterializeRatingCommit(RatingCommitParams{TaskID: testTaskID, Commitment: make([]byte, 32), RaterKey: []byte{1}})
	require.NoError(t, err)

	rec := record(t, c)
	delete(rec.AdditionalRegisters, R7)

	rating, err := ParseRating(rec)
	require.NoError(t, err)
	assert.Equal(t, PhaseCommit, rating.Phase)
}

func TestParseRatingRejectsInconsistentPhase(t *testing.T) {
	c, err := MaterializeRatingCommit(RatingCommitParams{TaskID: testTaskID, Commitment: make([]byte, 32), RaterKey: []byte{1}})
	require.NoError(t, err)

	intReg := func(v int32) Register {
		return Register{SerializedValue: hex.EncodeToString(codec.EncodeInt(v))}
	}

	tests := map[string]struct {
		r7, r8   *Register
		register string
	}{
		"unknown phase":          {r7: ptr(intReg(3)), register: "R7"},
		"reveal without rating":  {r7: ptr(intReg(2)), register: "R8"},
		"reveal rating too high": {r7: ptr(intReg(2)), r8: ptr(intReg(6)), register: "R8"},
		"reveal rating zero":     {r7: ptr(intReg(2)), r8: ptr(intReg(0)), register: "R8"},
		"commit with rating":     {r7: ptr(intReg(1)), r8: ptr(intReg(3)), register: "R8"},
		"phase encoded as long":  {r7: &Register{SerializedValue: hex.EncodeToString(codec.EncodeLong(1))}, register: "R7"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rec := record(t, c)
			if tc.r7 != nil {
				rec.AdditionalRegisters[R7] = *tc.r7
			}
			if tc.r8 != nil {
				rec.AdditionalRegisters[R8] = *tc.r8
			}

			_, err := ParseRating(rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrDecode)

			var sdkErr *errors.Error
			require.True(t, errors.As(err, &sdkErr))
			assert.Equal(t, "Rating", sdkErr.Entity)
			assert.Equal(t, tc.register, sdkErr.Field)
		})
	}
}

func TestDecodeErrorNamesRegister(t *testing.T) {
	c, err := MaterializeTask(TaskParams{
		ServiceHash:     []byte{1},
		InputCommitment: make([]byte, crypto.DigestSize),
		PaymentAmount:   MinBoxValue,
		DeadlineBlock:   10,
		ClientKey:       []byte{1},
	})
	require.NoError(t, err)

	tests := map[string]struct {
		register RegisterID
		value    string
		drop     bool
	}{
		"missing deadline":     {register: R8, drop: true},
		"truncated payment":    {register: R6, value: "05ff"},
		"payment wrong kind":   {register: R6, value: "0402"},
		"negative payment":     {register: R6, value: hex.EncodeToString(codec.EncodeLong(-5))},
		"garbage client key":   {register: R9, value: "zz"},
		"truncated commitment": {register: R5, value: "0e20aa"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rec := record(t, c)
			if tc.drop {
				delete(rec.AdditionalRegisters, tc.register)
			} else {
				rec.AdditionalRegisters[tc.register] = Register{SerializedValue: tc.value}
			}

			_, err := ParseTask(rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrDecode)

			var sdkErr *errors.Error
			require.True(t, errors.As(err, &sdkErr))
			assert.Equal(t, string(tc.register), sdkErr.Field)
		})
	}
}

func TestBounty(t *testing.T) {
	c, err := MaterializeBounty(BountyParams{TaskID: testTaskID, BountyAmount: 5 * MinBoxValue, VerificationDeadline: 3000})
	require.NoError(t, err)

	b, err := ParseBounty(record(t, c))
	require.NoError(t, err)
	assert.Equal(t, 5*MinBoxValue, b.BountyAmount)
	assert.True(t, b.Claimable(2999))
	assert.False(t, b.Claimable(3000))

	_, err = MaterializeBounty(BountyParams{TaskID: testTaskID, BountyAmount: 1, VerificationDeadline: 3000})
	assert.ErrorIs(t, err, errors.ErrInvalidParameters)
}

func TestReceiptRejectsShortTaskID(t *testing.T) {
	rec := RawRecord{
		BoxID: testBoxID,
		AdditionalRegisters: map[RegisterID]Register{
			R4: {SerializedValue: hex.EncodeToString(codec.EncodeColl([]byte{1, 2, 3}))},
		},
	}
	_, err := ParseReceipt(rec)
	assert.ErrorIs(t, err, errors.ErrDecode)
}

func TestRawRecordHelpers(t *testing.T) {
	spent := "tx99"
	rec := RawRecord{
		Assets:             []Asset{{TokenID: "t1", Amount: 3}, {TokenID: "t2", Amount: 4}, {TokenID: "t1", Amount: 5}},
		SpentTransactionID: &spent,
	}
	assert.True(t, rec.Spent())
	assert.Equal(t, uint64(8), rec.TokenAmount("t1"))
	assert.Zero(t, rec.TokenAmount("t3"))

	empty := ""
	rec.SpentTransactionID = &empty
	assert.False(t, rec.Spent())
}

func TestCanonicalBoxID(t *testing.T) {
	id, err := CanonicalBoxID("taskId", strings.ToUpper(testTaskID))
	require.NoError(t, err)
	assert.Equal(t, testTaskID, id)

	_, err = CanonicalBoxID("taskId", "AA01")
	assert.ErrorIs(t, err, errors.ErrInvalidParameters)
}

func ptr[T any](v T) *T { return &v }
