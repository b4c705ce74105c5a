package task

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/explorer"
	"github.com/agenticaihome/agenticaihome-v2/sdk/event"
)

var errReceiptPending = stderrors.New("receipt not yet produced")

// FindReceipt returns the unspent Receipt referencing taskID, or nil when
// there is none yet.
func (m *ManagerImpl) FindReceipt(ctx context.Context, taskID string) (*boxes.Receipt, error) {
	ctx = m.begin(ctx, "FindReceipt", "taskID", taskID)
	if err := canonicalID("taskId", &taskID); err != nil {
		return nil, err
	}
	return m.findReceipt(ctx, taskID)
}

func (m *ManagerImpl) findReceipt(ctx context.Context, taskID string) (*boxes.Receipt, error) {
	for rec, err := range explorer.Paginate(ctx, explorer.ByAddress(m.gateway, m.contracts.receipt.address), m.config.PageSize) {
		if err != nil {
			return nil, err
		}
		receipt, perr := boxes.ParseReceipt(rec)
		if perr != nil {
			m.logger.Warn(ctx, "Skipping malformed receipt box", "boxID", rec.BoxID, "error", perr)
			continue
		}
		if receipt.TaskID == taskID {
			return &receipt, nil
		}
	}
	return nil, nil
}

// AwaitReceipt polls for a Receipt at most maxAttempts times, interval apart.
// A maxAttempts of zero selects the configured poll attempts and interval.
// Exhausting the attempts yields nil, nil. Query failures end the poll and
// are returned; so is cancellation of ctx.
func (m *ManagerImpl) AwaitReceipt(ctx context.Context, taskID string, maxAttempts int, interval time.Duration) (*boxes.Receipt, error) {
	if maxAttempts == 0 {
		maxAttempts, interval = m.config.Poll.Attempts, m.config.Poll.Interval
	}
	ctx = m.begin(ctx, "AwaitReceipt", "taskID", taskID, "maxAttempts", maxAttempts, "interval", interval)
	if maxAttempts < 0 {
		return nil, errors.InvalidParameter("maxAttempts", ">= 0", strconv.Itoa(maxAttempts))
	}
	if interval < 0 {
		return nil, errors.InvalidParameter("interval", ">= 0", interval.String())
	}
	if err := canonicalID("taskId", &taskID); err != nil {
		return nil, err
	}

	var (
		found   *boxes.Receipt
		attempt int
	)
	poll := func() error {
		attempt++
		m.emit(ctx, event.ReceiptPollAttempt, taskID, "", event.EventData{event.KeyAttempt: attempt, event.KeyMaxAttempts: maxAttempts})

		receipt, err := m.findReceipt(ctx, taskID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if receipt == nil {
			return errReceiptPending
		}
		found = receipt
		return nil
	}

	schedule := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(maxAttempts-1)),
		ctx,
	)

	err := backoff.Retry(poll, schedule)
	switch {
	case err == nil:
		m.logger.Info(ctx, "Receipt found", "taskID", taskID, "receiptID", found.BoxID, "attempts", attempt)
		m.emit(ctx, event.ReceiptFound, taskID, found.TransactionID, event.EventData{event.KeyReceiptID: found.BoxID})
		return found, nil
	case stderrors.Is(err, errReceiptPending):
		m.logger.Info(ctx, "No receipt after polling", "taskID", taskID, "attempts", attempt)
		m.emit(ctx, event.ReceiptPollExhausted, taskID, "", event.EventData{event.KeyAttempt: attempt})
		return nil, nil
	default:
		m.logger.Error(ctx, "Receipt poll failed", "taskID", taskID, "attempt", attempt, "error", err)
		return nil, err
	}
}

// settlement is every receipt of either kind referencing one task.
type settlement struct {
	receipts []boxes.Receipt
	failures []boxes.FailureReceipt
}

// check returns DataIntegrity when both kinds reference the task.
func (s settlement) check(taskID string) error {
	if len(s.receipts) > 0 && len(s.failures) > 0 {
		return errors.DataIntegrity("Task", taskID,
			"Receipt "+s.receipts[0].BoxID+" and FailureReceipt "+s.failures[0].BoxID+" both reference the task")
	}
	return nil
}

func (s settlement) empty() bool {
	return len(s.receipts) == 0 && len(s.failures) == 0
}

// describe names the first settling record.
func (s settlement) describe() string {
	if len(s.receipts) > 0 {
		return "Receipt " + s.receipts[0].BoxID
	}
	if len(s.failures) > 0 {
		return "FailureReceipt " + s.failures[0].BoxID
	}
	return "none"
}

// settlementOf scans every page of both receipt kinds for records referencing taskID.
func (m *ManagerImpl) settlementOf(ctx context.Context, taskID string) (settlement, error) {
	var s settlement

	for rec, err := range explorer.Paginate(ctx, explorer.ByAddress(m.gateway, m.contracts.receipt.address), m.config.PageSize) {
		if err != nil {
			return settlement{}, err
		}
		receipt, perr := boxes.ParseReceipt(rec)
		if perr != nil {
			m.logger.Warn(ctx, "Skipping malformed receipt box", "boxID", rec.BoxID, "error", perr)
			continue
		}
		if receipt.TaskID == taskID {
			s.receipts = append(s.receipts, receipt)
		}
	}

	for rec, err := range explorer.Paginate(ctx, explorer.ByAddress(m.gateway, m.contracts.failureReceipt.address), m.config.PageSize) {
		if err != nil {
			return settlement{}, err
		}
		failure, perr := boxes.ParseFailureReceipt(rec)
		if perr != nil {
			m.logger.Warn(ctx, "Skipping malformed failure receipt box", "boxID", rec.BoxID, "error", perr)
			continue
		}
		if failure.TaskID == taskID {
			s.failures = append(s.failures, failure)
		}
	}

	return s, nil
}
