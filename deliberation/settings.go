package deliberation

import (
	"context"
	"errors"
	"fmt"

	"cfp/apperrors"
	"cfp/logging"
	"cfp/models"
	"cfp/permissions"
	"cfp/validation"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettingsInput toggles the event's review policy. Nil fields are left as
// they are.
type SettingsInput struct {
	ReviewEnabled            *bool `json:"review_enabled"`
	DisplayProposalsReviews  *bool `json:"display_proposals_reviews"`
	DisplayProposalsSpeakers *bool `json:"display_proposals_speakers"`
}

type RenameInput struct {
	Slug string `json:"slug" validate:"required,max=100,slug"`
}

func (s *Service) UpdateReviewSettings(ctx context.Context, teamSlug, eventSlug string, callerID uint, input SettingsInput) (*models.Event, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanEditEvent)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.ReviewEnabled != nil {
		updates["review_enabled"] = *input.ReviewEnabled
	}
	if input.DisplayProposalsReviews != nil {
		updates["display_proposals_reviews"] = *input.DisplayProposalsReviews
	}
	if input.DisplayProposalsSpeakers != nil {
		updates["display_proposals_speakers"] = *input.DisplayProposalsSpeakers
	}
	if len(updates) == 0 {
		return access.Event, nil
	}

	event := access.Event
	if err := s.db.WithContext(ctx).Model(event).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update settings of event %s: %w", eventSlug, err)
	}

	logging.LogEvent("event_settings_updated", logrus.Fields{
		"event_id": event.ID,
		"user_id":  callerID,
		"changes":  updates,
	})
	return event, nil
}

// RegenerateAPIKey replaces the public API key; the previous key stops
// working at once.
func (s *Service) RegenerateAPIKey(ctx context.Context, teamSlug, eventSlug string, callerID uint) (string, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanEditEvent)
	if err != nil {
		return "", err
	}

	key := models.GenerateAPIKey()
	if err := s.db.WithContext(ctx).Model(access.Event).Update("api_key", key).Error; err != nil {
		return "", fmt.Errorf("rotate api key of event %s: %w", eventSlug, err)
	}

	logging.LogEvent("event_api_key_rotated", logrus.Fields{"event_id": access.Event.ID, "user_id": callerID})
	return key, nil
}

func (s *Service) RenameEvent(ctx context.Context, teamSlug, eventSlug string, callerID uint, input RenameInput) (*models.Event, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanEditEvent)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	event := access.Event
	if input.Slug == event.Slug {
		return event, nil
	}

	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Where("slug = ?", input.Slug).Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("check slug %s: %w", input.Slug, err)
	}
	if taken > 0 {
		return nil, apperrors.ErrSlugAlreadyExists
	}

	if err := s.db.WithContext(ctx).Model(event).Update("slug", input.Slug).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrSlugAlreadyExists
		}
		return nil, fmt.Errorf("rename event %s: %w", eventSlug, err)
	}
	return event, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
