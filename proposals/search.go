// Package proposals turns a set of filters into the ordered cohort of
// an event's proposals, and reads counts, ids, pages and full exports from
// that single ordering.
//
// Every order ends with "proposals.id ASC" so two independent queries over
// the same rows always agree on positions; review navigation relies on it.
package proposals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cfp/apperrors"
	"cfp/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// PageSize is the number of proposals per listing page.
const PageSize = 20

type Statistics struct {
	Total    int64 `json:"total"`
	Reviewed int64 `json:"reviewed"`
}

// LoadOptions selects which associations are loaded on full records.
type LoadOptions struct {
	// Speakers loads speaker users. Ignored when the event hides speakers.
	Speakers bool
	// TeamReviews loads every review. Otherwise only the viewer's own review
	// is loaded.
	TeamReviews bool
	// ReviewAuthors also loads the user behind each loaded review.
	ReviewAuthors bool
}

// Search is one cohort: an event, a viewer and a set of filters.
type Search struct {
	db      *gorm.DB
	event   *models.Event
	userID  uint
	filters models.Filters
}

func NewSearch(db *gorm.DB, event *models.Event, userID uint, filters models.Filters) *Search {
	return &Search{db: db, event: event, userID: userID, filters: filters}
}

// Statistics counts the cohort ignoring the reviews filter, and how many of
// those the viewer has reviewed.
func (s *Search) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.base(gctx).Count(&stats.Total).Error
	})
	g.Go(func() error {
		return s.reviewedBy(s.base(gctx), true).Count(&stats.Reviewed).Error
	})
	if err := g.Wait(); err != nil {
		return Statistics{}, fmt.Errorf("count proposals: %w", err)
	}
	return stats, nil
}

// ProposalIDs returns the whole cohort in order, unpaged.
func (s *Search) ProposalIDs(ctx context.Context) ([]uint, error) {
	ids := []uint{}
	if err := s.ordered(s.filtered(ctx)).Pluck("proposals.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list proposal ids: %w", err)
	}
	return ids, nil
}

// Page returns the 1-based page of the cohort. Pages past the end are empty.
func (s *Search) Page(ctx context.Context, page, size int, opts LoadOptions) ([]models.Proposal, error) {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}

	query := s.preload(s.ordered(s.filtered(ctx)), opts).
		Offset((page - 1) * size).
		Limit(size)

	proposals := []models.Proposal{}
	if err := query.Find(&proposals).Error; err != nil {
		return nil, fmt.Errorf("load proposals page %d: %w", page, err)
	}
	return proposals, nil
}

// All returns the whole cohort with associations, for exports.
func (s *Search) All(ctx context.Context, opts LoadOptions) ([]models.Proposal, error) {
	proposals := []models.Proposal{}
	if err := s.preload(s.ordered(s.filtered(ctx)), opts).Find(&proposals).Error; err != nil {
		return nil, fmt.Errorf("load proposals: %w", err)
	}
	return proposals, nil
}

// Proposal loads one proposal of the cohort with its associations.
func (s *Search) Proposal(ctx context.Context, id uint, opts LoadOptions) (*models.Proposal, error) {
	var p models.Proposal
	err := s.preload(s.filtered(ctx), opts).Where("proposals.id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrProposalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load proposal %d: %w", id, err)
	}
	return &p, nil
}

// PageCount is ceil(total/size), never below 1.
func PageCount(total int64, size int) int {
	if size <= 0 {
		size = PageSize
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		return 1
	}
	return pages
}

// base applies every filter except reviews.
func (s *Search) base(ctx context.Context) *gorm.DB {
	query := s.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("proposals.event_id = ?", s.event.ID)

	query = s.matching(query)
	query = s.withStatus(query)

	if s.filters.Formats != 0 {
		query = query.Where("EXISTS (SELECT 1 FROM proposal_formats pf WHERE pf.proposal_id = proposals.id AND pf.format_id = ?)", s.filters.Formats)
	}
	if s.filters.Categories != 0 {
		query = query.Where("EXISTS (SELECT 1 FROM proposal_categories pc WHERE pc.proposal_id = proposals.id AND pc.category_id = ?)", s.filters.Categories)
	}
	return query
}

func (s *Search) filtered(ctx context.Context) *gorm.DB {
	query := s.base(ctx)
	switch s.filters.Reviews {
	case models.ReviewsReviewed:
		query = s.reviewedBy(query, true)
	case models.ReviewsNotReviewed:
		query = s.reviewedBy(query, false)
	}
	return query
}

func (s *Search) reviewedBy(query *gorm.DB, reviewed bool) *gorm.DB {
	const exists = "EXISTS (SELECT 1 FROM reviews r WHERE r.proposal_id = proposals.id AND r.user_id = ?)"
	if reviewed {
		return query.Where(exists, s.userID)
	}
	return query.Where("NOT "+exists, s.userID)
}

// matching is a case-insensitive substring match on title, abstract, and
// speaker display names (email when the name is empty) when the event
// discloses speakers.
func (s *Search) matching(query *gorm.DB) *gorm.DB {
	text := strings.TrimSpace(s.filters.Query)
	if text == "" {
		return query
	}
	like := "%" + escapeLike(strings.ToLower(text)) + "%"

	cond := `LOWER(proposals.title) LIKE ? ESCAPE '\' OR LOWER(proposals.abstract) LIKE ? ESCAPE '\'`
	args := []any{like, like}
	if s.event.DisplayProposalsSpeakers {
		cond += ` OR EXISTS (SELECT 1 FROM proposal_speakers ps JOIN users u ON u.id = ps.user_id
			WHERE ps.proposal_id = proposals.id AND LOWER(COALESCE(NULLIF(u.name, ''), u.email)) LIKE ? ESCAPE '\')`
		args = append(args, like)
	}
	return query.Where("("+cond+")", args...)
}

func (s *Search) withStatus(query *gorm.DB) *gorm.DB {
	const published = "proposals.deliberation_status = ? AND proposals.publication_status = ? AND proposals.confirmation_status = ?"

	switch s.filters.Status {
	case models.StatusPending:
		return query.Where("proposals.deliberation_status = ?", models.DeliberationPending)
	case models.StatusAccepted:
		return query.Where("proposals.deliberation_status = ?", models.DeliberationAccepted)
	case models.StatusRejected:
		return query.Where("proposals.deliberation_status = ?", models.DeliberationRejected)
	case models.StatusNotAnswered:
		return query.Where(published, models.DeliberationAccepted, models.PublicationPublished, models.ConfirmationPending)
	case models.StatusConfirmed:
		return query.Where(published, models.DeliberationAccepted, models.PublicationPublished, models.ConfirmationConfirmed)
	case models.StatusDeclined:
		return query.Where(published, models.DeliberationAccepted, models.PublicationPublished, models.ConfirmationDeclined)
	}
	return query
}

func (s *Search) ordered(query *gorm.DB) *gorm.DB {
	switch s.filters.SortOrDefault() {
	case models.SortOldest:
		query = query.Order("proposals.created_at ASC")
	case models.SortHighest:
		query = query.Order("proposals.avg_rate_for_sort DESC NULLS LAST")
	case models.SortLowest:
		query = query.Order("proposals.avg_rate_for_sort ASC NULLS LAST")
	default:
		query = query.Order("proposals.created_at DESC")
	}
	return query.Order("proposals.id ASC")
}

func (s *Search) preload(query *gorm.DB, opts LoadOptions) *gorm.DB {
	query = query.Preload("Formats").Preload("Categories")

	if opts.Speakers && s.event.DisplayProposalsSpeakers {
		query = query.Preload("Speakers")
	}

	if opts.TeamReviews {
		query = query.Preload("Reviews")
	} else {
		query = query.Preload("Reviews", "user_id = ?", s.userID)
	}
	if opts.ReviewAuthors {
		query = query.Preload("Reviews.User")
	}
	return query
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
