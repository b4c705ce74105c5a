package task

import (
	"context"
	"encoding/hex"
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/address"
	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/txbuilder"
	"github.com/agenticaihome/agenticaihome-v2/sdk/event"
)

// ClaimRefund returns an expired, unfulfilled task's escrow to its client.
// Preconditions are checked in order: the task exists and is unspent, no
// receipt of either kind references it, and the current height is above its
// deadline.
func (m *ManagerImpl) ClaimRefund(ctx context.Context, taskID string) (*TxRef, error) {
	ctx = m.begin(ctx, "ClaimRefund", "taskID", taskID)
	if err := canonicalID("taskId", &taskID); err != nil {
		return nil, err
	}

	rec, task, err := m.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Spent {
		return nil, errors.Precondition("Task", "task-unspent", "unspent", "spent by "+*rec.SpentTransactionID)
	}

	s, err := m.settlementOf(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.check(taskID); err != nil {
		m.logger.Error(ctx, "Conflicting receipts for task", "taskID", taskID, "error", err)
		return nil, err
	}
	if !s.empty() {
		return nil, errors.Precondition("Task", "no-receipt", "none", s.describe())
	}

	height, err := m.currentHeight(ctx)
	if err != nil {
		return nil, err
	}
	if !task.Expired(height) {
		return nil, errors.Precondition("Task", "deadline-elapsed",
			"height > "+strconv.Itoa(int(task.DeadlineBlock)), strconv.Itoa(int(height)))
	}

	_, changeTree, err := m.changeAddress(ctx)
	if err != nil {
		return nil, err
	}
	refundTree := changeTree
	if address.IsCompressedPublicKey(task.ClientKey) {
		refundTree = hex.EncodeToString(address.P2PKTree(task.ClientKey))
	} else {
		m.logger.Warn(ctx, "Client key is not a compressed public key, refunding to change address", "taskID", taskID)
	}

	// The escrow goes back whole; the fee comes from the wallet.
	feeInputs, err := m.selectInputs(ctx, m.config.TxFee+m.config.MinBoxValue, "", 0)
	if err != nil {
		return nil, err
	}

	refund := txbuilder.Output{
		Value:               rec.Value,
		ErgoTree:            refundTree,
		CreationHeight:      height,
		Assets:              append([]boxes.Asset{}, rec.Assets...),
		AdditionalRegisters: boxes.Registers{},
	}

	tx, err := txbuilder.New(height).
		From(txbuilder.InputFromRecord(*rec)).
		From(feeInputs...).
		To(refund).
		PayFee(m.config.TxFee).
		SendChangeTo(changeTree).
		WithMinBoxValue(m.config.MinBoxValue).
		Build()
	if err != nil {
		return nil, err
	}

	txID, err := m.signAndSubmit(ctx, "ClaimRefund", tx, &target{entity: "Task", boxID: taskID, taskID: taskID})
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "Refund claimed", "taskID", taskID, "txID", txID, "value", rec.Value)
	m.emit(ctx, event.RefundClaimed, taskID, txID, event.EventData{
		event.KeyAmount:       rec.Value,
		event.KeyHeight:       height,
		event.KeyRefundTarget: refundTree,
	})
	return &TxRef{TxID: txID}, nil
}

// TaskStatus reads the lifecycle state of a task from the ledger.
func (m *ManagerImpl) TaskStatus(ctx context.Context, taskID string) (Status, error) {
	ctx = m.begin(ctx, "TaskStatus", "taskID", taskID)
	if err := canonicalID("taskId", &taskID); err != nil {
		return "", err
	}

	_, task, err := m.loadTask(ctx, taskID)
	if err != nil {
		return "", err
	}

	s, err := m.settlementOf(ctx, taskID)
	if err != nil {
		return "", err
	}
	if err := s.check(taskID); err != nil {
		return "", err
	}
	switch {
	case len(s.receipts) > 0:
		return StatusFulfilled, nil
	case len(s.failures) > 0:
		return StatusFailed, nil
	case task.Spent:
		return StatusClosed, nil
	}

	height, err := m.currentHeight(ctx)
	if err != nil {
		return "", err
	}
	if task.Expired(height) {
		return StatusRefundable, nil
	}
	return StatusOpen, nil
}

// loadTask fetches and parses a Task box guarded by the task contract.
func (m *ManagerImpl) loadTask(ctx context.Context, taskID string) (*boxes.RawRecord, boxes.Task, error) {
	rec, err := m.gateway.GetBox(ctx, taskID)
	if err != nil {
		return nil, boxes.Task{}, err
	}
	if rec == nil {
		return nil, boxes.Task{}, errors.NotFound("Task", taskID)
	}
	if !m.contracts.task.owns(rec.ErgoTree) {
		return nil, boxes.Task{}, errors.Precondition("Task", "task-guard", m.contracts.task.address, "box "+taskID+" has another guard script")
	}

	task, err := boxes.ParseTask(*rec)
	if err != nil {
		return nil, boxes.Task{}, err
	}
	return rec, task, nil
}
