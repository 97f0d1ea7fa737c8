// Package deliberation serves the team side of reviewing: listing and
// reading proposals, scoring them, navigating a review session, changing
// and publishing decisions, exporting, and the event's review settings.
//
// Every operation starts with an authorization gate call carrying the
// capability it needs.
package deliberation

import (
	"context"
	"time"

	"cfp/authz"
	"cfp/logging"
	"cfp/models"
	"cfp/notify"
	"cfp/proposals"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SurveyStore interface {
	FindSurvey(ctx context.Context, eventID, userID uint) (*models.Survey, error)
}

type Options struct {
	// Serializable runs review writes under serializable isolation.
	Serializable bool
	// MaxAttempts bounds retries of a review write that lost a
	// serialization race.
	MaxAttempts int
	RetryDelay  time.Duration
}

type Service struct {
	db       *gorm.DB
	gate     *authz.Gate
	surveys  SurveyStore
	notifier notify.Notifier
	opts     Options
}

func NewService(db *gorm.DB, gate *authz.Gate, surveys SurveyStore, notifier notify.Notifier, opts Options) *Service {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 20 * time.Millisecond
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{db: db, gate: gate, surveys: surveys, notifier: notifier, opts: opts}
}

func (s *Service) search(access *authz.EventAccess, filters models.Filters) *proposals.Search {
	return proposals.NewSearch(s.db, access.Event, access.Member.UserID, filters)
}

func loadOptions(access *authz.EventAccess) proposals.LoadOptions {
	return proposals.LoadOptions{
		Speakers:    access.CanSeeSpeakers(),
		TeamReviews: access.CanSeeTeamReviews(),
	}
}

// publish hands committed changes to the notifier. Delivery problems are
// logged; the status change itself already happened.
func (s *Service) publish(ctx context.Context, changes []models.StatusChange) {
	if len(changes) == 0 {
		return
	}
	if err := s.notifier.Notify(ctx, changes); err != nil {
		logging.LogError("notify_status_change", err, logrus.Fields{"changes": len(changes)})
	}
}
