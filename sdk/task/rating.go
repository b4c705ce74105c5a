package task

import (
	"context"
	"encoding/hex"

	"github.com/agenticaihome/agenticaihome-v2/pkg/boxes"
	"github.com/agenticaihome/agenticaihome-v2/pkg/crypto"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/storage/saltstore"
	"github.com/agenticaihome/agenticaihome-v2/pkg/txbuilder"
	"github.com/agenticaihome/agenticaihome-v2/sdk/event"
)

// SubmitRatingCommit creates a phase-1 Rating box committing to p.Rating.
// Whether the task exists is left to the guard script.
func (m *ManagerImpl) SubmitRatingCommit(ctx context.Context, p RatingCommitParams) (*RatingCommitRef, error) {
	ctx = m.begin(ctx, "SubmitRatingCommit", "taskID", p.TaskID)

	if err := crypto.ValidateRating(p.Rating); err != nil {
		return nil, err
	}
	if len(p.RaterKey) == 0 {
		return nil, errors.InvalidParameter("raterKey", "non-empty", "empty")
	}
	if err := canonicalID("taskId", &p.TaskID); err != nil {
		return nil, err
	}

	salt := p.Salt
	if len(salt) == 0 {
		var err error
		if salt, err = crypto.NewSalt(); err != nil {
			return nil, err
		}
	}
	commitment, err := m.scheme.RatingCommitment(p.Rating, salt)
	if err != nil {
		return nil, err
	}

	candidate, err := boxes.MaterializeRatingCommit(boxes.RatingCommitParams{
		TaskID:     p.TaskID,
		Commitment: commitment,
		RaterKey:   p.RaterKey,
	})
	if err != nil {
		return nil, err
	}

	height, err := m.currentHeight(ctx)
	if err != nil {
		return nil, err
	}
	_, changeTree, err := m.changeAddress(ctx)
	if err != nil {
		return nil, err
	}
	inputs, err := m.selectInputs(ctx, candidate.Value+m.config.TxFee+m.config.MinBoxValue, "", 0)
	if err != nil {
		return nil, err
	}

	tx, err := txbuilder.New(height).
		From(inputs...).
		To(txbuilder.OutputFromCandidate(candidate, m.contracts.rating.tree, height)).
		PayFee(m.config.TxFee).
		SendChangeTo(changeTree).
		WithMinBoxValue(m.config.MinBoxValue).
		Build()
	if err != nil {
		return nil, err
	}

	txID, err := m.signAndSubmit(ctx, "SubmitRatingCommit", tx, nil)
	if err != nil {
		return nil, err
	}

	commitmentHex := hex.EncodeToString(commitment)
	m.rememberSalt(ctx, saltstore.Entry{
		Commitment: commitmentHex,
		Kind:       saltstore.KindRating,
		TaskID:     p.TaskID,
		TxID:       txID,
		Salt:       salt,
		Rating:     p.Rating,
	})

	m.logger.Info(ctx, "Rating committed", "taskID", p.TaskID, "txID", txID)
	m.emit(ctx, event.RatingCommitted, p.TaskID, txID, event.EventData{event.KeyCommitment: commitmentHex})

	return &RatingCommitRef{TxID: txID, Commitment: commitment, Salt: salt}, nil
}

// SubmitRatingReveal spends a phase-1 Rating box into its phase-2 successor.
// The revealed (rating, salt) must hash to the stored commitment; otherwise
// CommitmentMismatch is returned and nothing is built.
func (m *ManagerImpl) SubmitRatingReveal(ctx context.Context, ratingBoxID string, rating int, salt []byte) (*TxRef, error) {
	ctx = m.begin(ctx, "SubmitRatingReveal", "ratingBoxID", ratingBoxID)

	if err := crypto.ValidateRating(rating); err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		return nil, errors.InvalidParameter("salt", "non-empty", "empty")
	}
	if err := canonicalID("ratingBoxId", &ratingBoxID); err != nil {
		return nil, err
	}

	rec, parsed, err := m.loadCommitPhaseRating(ctx, ratingBoxID)
	if err != nil {
		return nil, err
	}
	if err := m.scheme.VerifyRating(parsed.Commitment, rating, salt); err != nil {
		m.logger.Warn(ctx, "Rating reveal does not match commitment", "ratingBoxID", ratingBoxID)
		return nil, err
	}

	candidate, err := boxes.MaterializeRatingReveal(*rec, rating)
	if err != nil {
		return nil, err
	}

	height, err := m.currentHeight(ctx)
	if err != nil {
		return nil, err
	}
	_, changeTree, err := m.changeAddress(ctx)
	if err != nil {
		return nil, err
	}
	feeInputs, err := m.selectInputs(ctx, m.config.TxFee+m.config.MinBoxValue, "", 0)
	if err != nil {
		return nil, err
	}

	tx, err := txbuilder.New(height).
		From(txbuilder.InputFromRecord(*rec)).
		From(feeInputs...).
		To(txbuilder.OutputFromCandidate(candidate, rec.ErgoTree, height)).
		PayFee(m.config.TxFee).
		SendChangeTo(changeTree).
		WithMinBoxValue(m.config.MinBoxValue).
		Build()
	if err != nil {
		return nil, err
	}

	txID, err := m.signAndSubmit(ctx, "SubmitRatingReveal", tx, &target{entity: "Rating", boxID: ratingBoxID, taskID: parsed.TaskID})
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "Rating revealed", "taskID", parsed.TaskID, "ratingBoxID", ratingBoxID, "txID", txID)
	m.emit(ctx, event.RatingRevealed, parsed.TaskID, txID, event.EventData{
		event.KeyRatingBoxID: ratingBoxID,
		event.KeyRating:      rating,
	})
	return &TxRef{TxID: txID}, nil
}

// SubmitRatingRevealStored reveals a rating using the rating and salt kept
// in the salt vault when it was committed.
func (m *ManagerImpl) SubmitRatingRevealStored(ctx context.Context, ratingBoxID string) (*TxRef, error) {
	ctx = m.begin(ctx, "SubmitRatingRevealStored", "ratingBoxID", ratingBoxID)

	if m.salts == nil {
		return nil, errors.InvalidParameter("saltVault", "configured", "none")
	}
	if err := canonicalID("ratingBoxId", &ratingBoxID); err != nil {
		return nil, err
	}

	_, parsed, err := m.loadCommitPhaseRating(ctx, ratingBoxID)
	if err != nil {
		return nil, err
	}
	entry, err := m.salts.Get(ctx, hex.EncodeToString(parsed.Commitment))
	if err != nil {
		return nil, err
	}
	if entry.Kind != saltstore.KindRating {
		return nil, errors.DataIntegrity("Salt", entry.Commitment, "stored entry is not a rating commitment")
	}

	return m.SubmitRatingReveal(ctx, ratingBoxID, entry.Rating, entry.Salt)
}

// loadCommitPhaseRating fetches a Rating box and requires it to be unspent
// and still in the commit phase.
func (m *ManagerImpl) loadCommitPhaseRating(ctx context.Context, ratingBoxID string) (*boxes.RawRecord, boxes.Rating, error) {
	rec, err := m.gateway.GetBox(ctx, ratingBoxID)
	if err != nil {
		return nil, boxes.Rating{}, err
	}
	if rec == nil {
		return nil, boxes.Rating{}, errors.NotFound("Rating", ratingBoxID)
	}
	if !m.contracts.rating.owns(rec.ErgoTree) {
		return nil, boxes.Rating{}, errors.Precondition("Rating", "rating-guard", m.contracts.rating.address, "box "+ratingBoxID+" has another guard script")
	}

	parsed, err := boxes.ParseRating(*rec)
	if err != nil {
		return nil, boxes.Rating{}, err
	}
	if parsed.Spent {
		return nil, boxes.Rating{}, errors.Precondition("Rating", "rating-unspent", "unspent", "spent by "+*rec.SpentTransactionID)
	}
	if parsed.Phase != boxes.PhaseCommit {
		return nil, boxes.Rating{}, errors.Precondition("Rating", "commit-phase", boxes.PhaseCommit.String(), parsed.Phase.String())
	}
	return rec, parsed, nil
}
