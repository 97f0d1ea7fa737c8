// Package store holds the gorm-backed lookups the engine consumes: team
// memberships, events and speaker surveys.
package store

import (
	"context"
	"errors"
	"fmt"

	"cfp/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("find %s: %w", what, err)
}

type Memberships struct {
	db *gorm.DB
}

func NewMemberships(db *gorm.DB) *Memberships {
	return &Memberships{db: db}
}

// FindMembership returns userID's membership in the team named by teamSlug.
// When roles are given, only a membership holding one of them matches.
func (s *Memberships) FindMembership(ctx context.Context, userID uint, teamSlug string, roles ...models.Role) (*models.TeamMember, error) {
	query := s.db.WithContext(ctx).
		Preload("Team").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ? AND teams.slug = ?", userID, teamSlug)
	if len(roles) > 0 {
		query = query.Where("team_members.role IN ?", roles)
	}

	var member models.TeamMember
	if err := query.First(&member).Error; err != nil {
		return nil, notFound(err, "membership")
	}
	return &member, nil
}

type Events struct {
	db *gorm.DB
}

func NewEvents(db *gorm.DB) *Events {
	return &Events{db: db}
}

// FindTeamEvent returns the event only when it belongs to teamID.
func (s *Events) FindTeamEvent(ctx context.Context, teamID uint, eventSlug string) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND slug = ?", teamID, eventSlug).
		First(&event).Error
	if err != nil {
		return nil, notFound(err, "event")
	}
	return &event, nil
}

func (s *Events) FindBySlug(ctx context.Context, eventSlug string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("slug = ?", eventSlug).First(&event).Error; err != nil {
		return nil, notFound(err, "event")
	}
	return &event, nil
}

type Surveys struct {
	db *gorm.DB
}

func NewSurveys(db *gorm.DB) *Surveys {
	return &Surveys{db: db}
}

// FindSurvey returns the most recent answers userID gave for the event.
func (s *Surveys) FindSurvey(ctx context.Context, eventID, userID uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Order("updated_at DESC").Order("id DESC").
		First(&survey).Error
	if err != nil {
		return nil, notFound(err, "survey")
	}
	return &survey, nil
}
