package task

import (
	"context"
	"fmt"
	"strconv"

	"github.com/agenticaihome/agenticaihome-v2/pkg/address"
	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/txbuilder"
	"github.com/agenticaihome/agenticaihome-v2/pkg/wallet"
	"github.com/agenticaihome/agenticaihome-v2/sdk/event"
)

// target is the protocol box a transaction spends, re-read when submission
// fails to tell a lost race from any other rejection.
type target struct {
	entity string
	boxID  string
	taskID string
}

func (m *ManagerImpl) currentHeight(ctx context.Context) (int32, error) {
	height, err := m.gateway.GetCurrentHeight(ctx)
	if err != nil {
		m.logger.Error(ctx, "Failed to read current height", "error", err)
		return 0, fmt.Errorf("read current height: %w", err)
	}
	return height, nil
}

// changeAddress returns the wallet's change address decoded, and its ErgoTree hex.
func (m *ManagerImpl) changeAddress(ctx context.Context) (address.Address, string, error) {
	addr, err := m.wallet.ChangeAddress(ctx)
	if err != nil {
		return address.Address{}, "", fmt.Errorf("read change address: %w", err)
	}
	decoded, err := address.Decode(addr)
	if err != nil {
		return address.Address{}, "", fmt.Errorf("change address: %w", err)
	}
	tree, err := decoded.ErgoTreeHex()
	if err != nil {
		return address.Address{}, "", fmt.Errorf("change address: %w", err)
	}
	return decoded, tree, nil
}

// selectInputs asks the wallet for boxes covering amount nanoERG plus
// tokenAmount of tokenID.
func (m *ManagerImpl) selectInputs(ctx context.Context, amount uint64, tokenID string, tokenAmount uint64) ([]txbuilder.Input, error) {
	inputs, err := m.wallet.UTXOs(ctx, amount, tokenID, tokenAmount)
	if errors.Is(err, wallet.ErrInsufficientFunds) {
		return nil, &errors.Error{
			Kind:     errors.ErrPreconditionFailed,
			Entity:   "Wallet",
			Field:    "sufficient-funds",
			Expected: ">= " + strconv.FormatUint(amount, 10),
			Err:      err,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("select wallet inputs: %w", err)
	}
	if len(inputs) == 0 {
		return nil, errors.Precondition("Wallet", "sufficient-funds", ">= "+strconv.FormatUint(amount, 10), "no inputs")
	}
	return inputs, nil
}

// signAndSubmit hands tx to the wallet. A rejected submission is reported as
// Conflict when an input was already spent, and as a transport failure
// otherwise. Nothing is retried.
func (m *ManagerImpl) signAndSubmit(ctx context.Context, operation string, tx *txbuilder.UnsignedTx, tgt *target) (string, error) {
	taskID := ""
	if tgt != nil {
		taskID = tgt.taskID
	}

	signed, err := m.wallet.Sign(ctx, tx)
	if err != nil {
		m.logger.Warn(ctx, "Transaction signing failed", "operation", operation, "error", err)
		m.emit(ctx, event.TxRejected, taskID, "", event.EventData{event.KeyOperation: operation, event.KeyError: err.Error()})
		return "", fmt.Errorf("%s: sign: %w", operation, err)
	}
	m.emit(ctx, event.TxSigned, taskID, signed.ID, event.EventData{event.KeyOperation: operation})

	txID, err := m.wallet.Submit(ctx, signed)
	if err != nil {
		err = m.classifySubmitError(ctx, tx, tgt, err)
		eventType := event.TxRejected
		if errors.Is(err, errors.ErrConflict) {
			eventType = event.TxConflict
		}
		m.logger.Warn(ctx, "Transaction submission failed", "operation", operation, "error", err)
		m.emit(ctx, eventType, taskID, signed.ID, event.EventData{event.KeyOperation: operation, event.KeyError: err.Error()})
		return "", fmt.Errorf("%s: submit: %w", operation, err)
	}

	m.logger.Info(ctx, "Transaction submitted", "operation", operation, "txID", txID)
	m.emit(ctx, event.TxSubmitted, taskID, txID, event.EventData{event.KeyOperation: operation})
	return txID, nil
}

func (m *ManagerImpl) classifySubmitError(ctx context.Context, tx *txbuilder.UnsignedTx, tgt *target, err error) error {
	if errors.Is(err, wallet.ErrInputSpent) {
		if tgt != nil {
			return errors.Conflict(tgt.entity, tgt.boxID, err)
		}
		return errors.Conflict("Input", firstInput(tx), err)
	}

	if tgt != nil {
		rec, rerr := m.gateway.GetBox(ctx, tgt.boxID)
		if rerr == nil && rec != nil && rec.Spent() {
			return errors.Conflict(tgt.entity, tgt.boxID, err)
		}
	}
	return errors.Transport("wallet", err)
}

func firstInput(tx *txbuilder.UnsignedTx) string {
	if ids := tx.InputIDs(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// canonicalID validates a box id and rewrites it in the lower-case form
// parsed records carry, so lookups and comparisons agree.
func canonicalID(field string, id *string) error {
	c, err := boxes.CanonicalBoxID(field, *id)
	if err != nil {
		return err
	}
	*id = c
	return nil
}
