package task

import (
	"context"
	"encoding/hex"
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/crypto"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/storage/saltstore"
	"github.com/agenticaihome/agenticaihome-v2/pkg/txbuilder"
	"github.com/agenticaihome/agenticaihome-v2/sdk/event"
)

// PostTask escrows a new task. Parameters are validated before any ledger or
// wallet call; the deadline must lie strictly above the current height.
func (m *ManagerImpl) PostTask(ctx context.Context, p PostTaskParams) (*TaskRef, error) {
	ctx = m.begin(ctx, "PostTask", "payment", p.PaymentAmount, "deadline", p.DeadlineBlock)

	serviceHash := p.ServiceHash
	if len(serviceHash) == 0 && p.ServiceName != "" {
		serviceHash = crypto.ServiceHash(p.ServiceName)
	}
	if len(p.Input) == 0 {
		return nil, errors.InvalidParameter("input", "non-empty", "empty")
	}

	salt := p.Salt
	if len(salt) == 0 {
		var err error
		if salt, err = crypto.NewSalt(); err != nil {
			return nil, err
		}
	}

	params := boxes.TaskParams{
		ServiceHash:     serviceHash,
		InputCommitment: m.scheme.Commit(p.Input, salt),
		PaymentAmount:   p.PaymentAmount,
		MinReputation:   p.MinReputation,
		DeadlineBlock:   p.DeadlineBlock,
		ClientKey:       p.ClientKey,
	}
	if p.PayInToken || p.PaymentToken != "" {
		params.PaymentToken = p.PaymentToken
		if params.PaymentToken == "" {
			params.PaymentToken = m.config.PaymentTokenID
		}
	}
	if err := params.ValidateTerms(); err != nil {
		return nil, err
	}

	height, err := m.currentHeight(ctx)
	if err != nil {
		return nil, err
	}
	if p.DeadlineBlock <= height {
		return nil, errors.InvalidParameter("deadlineBlock", "> "+strconv.Itoa(int(height)), strconv.Itoa(int(p.DeadlineBlock)))
	}

	change, changeTree, err := m.changeAddress(ctx)
	if err != nil {
		return nil, err
	}
	if len(params.ClientKey) == 0 {
		pk, ok := change.PublicKey()
		if !ok {
			return nil, errors.InvalidParameter("clientKey", "explicit key or P2PK change address", "non-P2PK change address")
		}
		params.ClientKey = pk
	}

	candidate, err := boxes.MaterializeTask(params)
	if err != nil {
		return nil, err
	}

	var tokenAmount uint64
	if params.PaymentToken != "" {
		tokenAmount = params.PaymentAmount
	}
	inputs, err := m.selectInputs(ctx, candidate.Value+m.config.TxFee+m.config.MinBoxValue, params.PaymentToken, tokenAmount)
	if err != nil {
		return nil, err
	}

	tx, err := txbuilder.New(height).
		From(inputs...).
		To(txbuilder.OutputFromCandidate(candidate, m.contracts.task.tree, height)).
		PayFee(m.config.TxFee).
		SendChangeTo(changeTree).
		WithMinBoxValue(m.config.MinBoxValue).
		Build()
	if err != nil {
		return nil, err
	}

	txID, err := m.signAndSubmit(ctx, "PostTask", tx, nil)
	if err != nil {
		return nil, err
	}

	task, err := boxes.ParseTask(candidate.Record("", txID, 0, m.contracts.task.tree, height))
	if err != nil {
		return nil, err
	}

	m.rememberSalt(ctx, saltstore.Entry{
		Commitment: hex.EncodeToString(params.InputCommitment),
		Kind:       saltstore.KindInput,
		TxID:       txID,
		Salt:       salt,
	})

	m.logger.Info(ctx, "Task posted", "txID", txID, "deadline", p.DeadlineBlock, "height", height)
	m.emit(ctx, event.TaskPosted, "", txID, event.EventData{
		event.KeyAmount:   params.PaymentAmount,
		event.KeyTokenID:  params.PaymentToken,
		event.KeyDeadline: params.DeadlineBlock,
		event.KeyHeight:   height,
	})

	return &TaskRef{
		TxID:        txID,
		OutputIndex: 0,
		Salt:        salt,
		Commitment:  params.InputCommitment,
		Task:        task,
	}, nil
}

// rememberSalt stores e in the salt vault, if one is configured. The
// transaction is already submitted, so a failure is only logged.
func (m *ManagerImpl) rememberSalt(ctx context.Context, e saltstore.Entry) {
	if m.salts == nil {
		return
	}
	if err := m.salts.Put(ctx, e); err != nil {
		m.logger.Warn(ctx, "Failed to store salt", "commitment", e.Commitment, "error", err)
	}
}
