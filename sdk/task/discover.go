package task

import (
	"bytes"
	"context"
	"iter"
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/explorer"
)

// DiscoverTasks lists unspent Task boxes, optionally only those whose service
// hash equals serviceHash. The sequence is lazy and each range over it
// queries the ledger from the start. Malformed boxes are skipped; a query
// failure is yielded once and ends the sequence.
func (m *ManagerImpl) DiscoverTasks(ctx context.Context, serviceHash []byte) iter.Seq2[boxes.Task, error] {
	return m.tasks(ctx, "DiscoverTasks", explorer.ByAddress(m.gateway, m.contracts.task.address), serviceHash)
}

// DiscoverTokenTasks lists unspent Task boxes holding tokenID, or the
// configured payment token when tokenID is empty.
func (m *ManagerImpl) DiscoverTokenTasks(ctx context.Context, tokenID string, serviceHash []byte) iter.Seq2[boxes.Task, error] {
	if tokenID == "" {
		tokenID = m.config.PaymentTokenID
	}
	return m.tasks(ctx, "DiscoverTokenTasks", explorer.ByTokenID(m.gateway, tokenID), serviceHash)
}

func (m *ManagerImpl) tasks(ctx context.Context, operation string, fetch explorer.PageFunc, serviceHash []byte) iter.Seq2[boxes.Task, error] {
	return func(yield func(boxes.Task, error) bool) {
		ctx := m.begin(ctx, operation)

		for rec, err := range explorer.Paginate(ctx, fetch, m.config.PageSize) {
			if err != nil {
				yield(boxes.Task{}, err)
				return
			}
			if !m.contracts.task.owns(rec.ErgoTree) {
				continue
			}
			task, perr := boxes.ParseTask(rec)
			if perr != nil {
				m.logger.Warn(ctx, "Skipping malformed task box", "boxID", rec.BoxID, "error", perr)
				continue
			}
			if len(serviceHash) > 0 && !bytes.Equal(task.ServiceHash, serviceHash) {
				continue
			}
			if !yield(task, nil) {
				return
			}
		}
	}
}

// FindBonds returns the unspent Bond boxes of a node.
func (m *ManagerImpl) FindBonds(ctx context.Context, nodeKey []byte) ([]boxes.Bond, error) {
	ctx = m.begin(ctx, "FindBonds")
	if err := m.contracts.bond.require(); err != nil {
		return nil, err
	}
	if len(nodeKey) == 0 {
		return nil, errors.InvalidParameter("nodeKey", "non-empty", "empty")
	}

	var bonds []boxes.Bond
	for rec, err := range explorer.Paginate(ctx, explorer.ByAddress(m.gateway, m.contracts.bond.address), m.config.PageSize) {
		if err != nil {
			return nil, err
		}
		bond, perr := boxes.ParseBond(rec)
		if perr != nil {
			m.logger.Warn(ctx, "Skipping malformed bond box", "boxID", rec.BoxID, "error", perr)
			continue
		}
		if bytes.Equal(bond.NodeKey, nodeKey) {
			bonds = append(bonds, bond)
		}
	}
	return bonds, nil
}

// CheckNodeReputation reports whether a node holds a bond of at least
// MinBondAmount with a reputation score of at least minReputation. When the
// node has several bond boxes, the most recently created one counts.
func (m *ManagerImpl) CheckNodeReputation(ctx context.Context, nodeKey []byte, minReputation int32) (bool, error) {
	bonds, err := m.FindBonds(ctx, nodeKey)
	if err != nil {
		return false, err
	}
	if len(bonds) == 0 {
		return false, nil
	}

	latest := bonds[0]
	for _, b := range bonds[1:] {
		if b.CreationHeight > latest.CreationHeight {
			latest = b
		}
	}
	return latest.BondAmount >= boxes.MinBondAmount && latest.ReputationScore >= minReputation, nil
}

// FindBounties returns the unspent verification bounties attached to a task.
func (m *ManagerImpl) FindBounties(ctx context.Context, taskID string) ([]boxes.VerificationBounty, error) {
	ctx = m.begin(ctx, "FindBounties", "taskID", taskID)
	if err := m.contracts.bounty.require(); err != nil {
		return nil, err
	}
	if err := canonicalID("taskId", &taskID); err != nil {
		return nil, err
	}

	var bounties []boxes.VerificationBounty
	for rec, err := range explorer.Paginate(ctx, explorer.ByAddress(m.gateway, m.contracts.bounty.address), m.config.PageSize) {
		if err != nil {
			return nil, err
		}
		bounty, perr := boxes.ParseBounty(rec)
		if perr != nil {
			m.logger.Warn(ctx, "Skipping malformed bounty box", "boxID", rec.BoxID, "error", perr)
			continue
		}
		if bounty.TaskID == taskID {
			bounties = append(bounties, bounty)
		}
	}
	return bounties, nil
}

// ResolveBoxID returns the id of output outputIndex of a confirmed transaction.
func (m *ManagerImpl) ResolveBoxID(ctx context.Context, txID string, outputIndex int) (string, error) {
	ctx = m.begin(ctx, "ResolveBoxID", "txID", txID, "outputIndex", outputIndex)

	tx, err := m.gateway.GetTransaction(ctx, txID)
	if err != nil {
		return "", err
	}
	if tx == nil {
		return "", errors.NotFound("Transaction", txID)
	}
	if outputIndex < 0 || outputIndex >= len(tx.Outputs) {
		return "", errors.InvalidParameter("outputIndex", "0.."+strconv.Itoa(len(tx.Outputs)-1), strconv.Itoa(outputIndex))
	}
	return tx.Outputs[outputIndex].BoxID, nil
}
