package deliberation

import (
	"context"
	"fmt"

	"cfp/models"
	"cfp/permissions"
	"cfp/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatusInput struct {
	ProposalIDs []uint                    `json:"proposal_ids" validate:"required,min=1"`
	Status      models.DeliberationStatus `json:"status" validate:"required,oneof=PENDING ACCEPTED REJECTED"`
}

type statusRow struct {
	ID                 uint
	DeliberationStatus models.DeliberationStatus
	PublicationStatus  models.PublicationStatus
}

// BulkUpdateStatus moves the listed proposals of the event to a new
// deliberation status. Ids that do not exist, or belong to another event,
// are skipped. A proposal whose decision changes goes back to unpublished
// and unconfirmed. It returns how many proposals changed.
func (s *Service) BulkUpdateStatus(ctx context.Context, teamSlug, eventSlug string, callerID uint, input StatusInput) (int64, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanChangeProposalStatus)
	if err != nil {
		return 0, err
	}
	if err := validation.Struct(input); err != nil {
		return 0, err
	}

	eventID := access.Event.ID
	var changes []models.StatusChange
	var updated int64

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []statusRow
		err := tx.Model(&models.Proposal{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "deliberation_status").
			Where("event_id = ? AND id IN ? AND deliberation_status <> ?", eventID, input.ProposalIDs, input.Status).
			Order("id").
			Find(&rows).Error
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
			changes = append(changes, models.StatusChange{
				ProposalID: r.ID,
				EventID:    eventID,
				Kind:       models.StatusChangeDeliberation,
				OldStatus:  string(r.DeliberationStatus),
				NewStatus:  string(input.Status),
			})
		}

		res := tx.Model(&models.Proposal{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"deliberation_status": input.Status,
				"publication_status":  models.PublicationNotPublished,
				"confirmation_status": models.ConfirmationPending,
			})
		updated = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("update proposal status: %w", err)
	}

	s.publish(ctx, changes)
	return updated, nil
}

// PublishResults reveals every decided, unpublished proposal of the event to
// its speakers. Accepted proposals wait for the speaker's confirmation again.
// It returns how many proposals were published.
func (s *Service) PublishResults(ctx context.Context, teamSlug, eventSlug string, callerID uint) (int64, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanPublishEventResults)
	if err != nil {
		return 0, err
	}

	eventID := access.Event.ID
	decided := []models.DeliberationStatus{models.DeliberationAccepted, models.DeliberationRejected}
	var changes []models.StatusChange
	var published int64

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []statusRow
		err := tx.Model(&models.Proposal{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "deliberation_status", "publication_status").
			Where("event_id = ? AND publication_status = ? AND deliberation_status IN ?", eventID, models.PublicationNotPublished, decided).
			Order("id").
			Find(&rows).Error
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
			changes = append(changes, models.StatusChange{
				ProposalID: r.ID,
				EventID:    eventID,
				Kind:       models.StatusChangePublication,
				OldStatus:  string(r.PublicationStatus),
				NewStatus:  string(models.PublicationPublished),
			})
		}

		confirmation := gorm.Expr("CASE WHEN deliberation_status = ? THEN ? ELSE confirmation_status END",
			models.DeliberationAccepted, models.ConfirmationPending)
		res := tx.Model(&models.Proposal{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"publication_status":  models.PublicationPublished,
				"confirmation_status": confirmation,
			})
		published = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("publish results: %w", err)
	}

	s.publish(ctx, changes)
	return published, nil
}
