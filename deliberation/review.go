package deliberation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cfp/apperrors"
	"cfp/logging"
	"cfp/models"
	"cfp/permissions"
	"cfp/reviews"
	"cfp/validation"

	"github.com/flowchartsman/retry"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewOutcome is the caller's saved review and the proposal average it
// produced.
type ReviewOutcome struct {
	Review  models.Review `json:"review"`
	Average *float64      `json:"average"`
}

// AddReview creates or overwrites the caller's review of a proposal and
// recomputes the proposal's cached average from every scored review, all in
// one transaction. Transactions that lose a serialization race are retried a
// bounded number of times.
func (s *Service) AddReview(ctx context.Context, teamSlug, eventSlug string, proposalID, callerID uint, input models.ReviewInput) (*ReviewOutcome, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanReviewEventProposals)
	if err != nil {
		return nil, err
	}
	if !access.Event.ReviewEnabled {
		return nil, apperrors.ErrReviewDisabled
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.Feeling == models.FeelingNoOpinion {
		input.Note = nil
	}

	var outcome *ReviewOutcome
	var failure error
	attempts := 0

	retrier := retry.NewRetrier(s.opts.MaxAttempts, s.opts.RetryDelay, 10*s.opts.RetryDelay)
	err = retrier.RunContext(ctx, func(ctx context.Context) error {
		attempts++
		out, err := s.saveReview(ctx, access.Event.ID, proposalID, callerID, input)
		if err == nil {
			outcome = out
			return nil
		}
		if isTransient(err) {
			logging.LogEvent("review_write_conflict", logrus.Fields{
				"proposal_id": proposalID,
				"user_id":     callerID,
				"attempt":     attempts,
			})
			return err
		}
		failure = err
		return retry.Stop(err)
	})
	if failure != nil {
		return nil, failure
	}
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransientFailure, fmt.Sprintf("review not saved after %d attempts", attempts), err)
	}
	return outcome, nil
}

func (s *Service) saveReview(ctx context.Context, eventID, proposalID, userID uint, input models.ReviewInput) (*ReviewOutcome, error) {
	var txOpts []*sql.TxOptions
	if s.opts.Serializable {
		txOpts = append(txOpts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	var outcome ReviewOutcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND event_id = ?", proposalID, eventID).
			First(&proposal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProposalNotFound
		}
		if err != nil {
			return err
		}

		review := models.Review{
			UserID:     userID,
			ProposalID: proposalID,
			Feeling:    input.Feeling,
			Note:       input.Note,
			Comment:    input.Comment,
			UpdatedAt:  time.Now(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "proposal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"feeling", "note", "comment", "updated_at"}),
		}).Create(&review).Error
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND proposal_id = ?", userID, proposalID).First(&outcome.Review).Error; err != nil {
			return err
		}

		var scored []models.Review
		if err := tx.Where("proposal_id = ? AND feeling <> ?", proposalID, models.FeelingNoOpinion).Find(&scored).Error; err != nil {
			return err
		}
		outcome.Average = reviews.Average(scored)

		return tx.Model(&models.Proposal{}).
			Where("id = ?", proposalID).
			Update("avg_rate_for_sort", outcome.Average).Error
	}, txOpts...)
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// isTransient reports errors a retried transaction may get past: postgres
// serialization failures and deadlocks.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
