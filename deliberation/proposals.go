package deliberation

import (
	"context"
	"errors"
	"fmt"

	"cfp/apperrors"
	"cfp/models"
	"cfp/permissions"
	"cfp/proposals"
	"cfp/store"
	"cfp/validation"

	"golang.org/x/sync/errgroup"
)

// ListProposals returns one page of the event's proposals with the
// reviewed/total progress of the caller.
func (s *Service) ListProposals(ctx context.Context, teamSlug, eventSlug string, callerID uint, filters models.Filters, page int) (*Listing, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanAccessEvent)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(filters); err != nil {
		return nil, err
	}

	search := s.search(access, filters)
	stats, err := search.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	pageCount := proposals.PageCount(stats.Total, proposals.PageSize)
	if page < 1 {
		page = 1
	}

	rows, err := search.Page(ctx, page, proposals.PageSize, loadOptions(access))
	if err != nil {
		return nil, err
	}

	results := make([]ListItem, 0, len(rows))
	for i := range rows {
		p := &rows[i]
		results = append(results, ListItem{
			ID:                 p.ID,
			Title:              p.Title,
			CreatedAt:          p.CreatedAt,
			DeliberationStatus: p.DeliberationStatus,
			PublicationStatus:  p.PublicationStatus,
			ConfirmationStatus: p.ConfirmationStatus,
			Speakers:           speakerSummaries(p, access.CanSeeSpeakers()),
			Reviews:            reviewsView(p, callerID, access.CanSeeTeamReviews(), false),
		})
	}

	return &Listing{
		Filters:    filters,
		Statistics: stats,
		Pagination: Pagination{Current: page, Total: pageCount},
		Results:    results,
	}, nil
}

// GetProposal returns the review screen of one proposal.
func (s *Service) GetProposal(ctx context.Context, teamSlug, eventSlug string, proposalID, callerID uint) (*ProposalDetail, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanAccessEvent)
	if err != nil {
		return nil, err
	}
	if !access.Event.ReviewEnabled {
		return nil, apperrors.ErrReviewDisabled
	}

	team := access.CanSeeTeamReviews()
	opts := loadOptions(access)
	opts.ReviewAuthors = team

	p, err := s.search(access, models.Filters{}).Proposal(ctx, proposalID, opts)
	if err != nil {
		return nil, err
	}

	return &ProposalDetail{
		ID:                 p.ID,
		Title:              p.Title,
		Abstract:           p.Abstract,
		Level:              p.Level,
		Languages:          languages(p),
		References:         p.References,
		Comments:           p.Comments,
		CreatedAt:          p.CreatedAt,
		DeliberationStatus: p.DeliberationStatus,
		PublicationStatus:  p.PublicationStatus,
		ConfirmationStatus: p.ConfirmationStatus,
		Formats:            namedFormats(p.Formats),
		Categories:         namedCategories(p.Categories),
		Speakers:           speakerSummaries(p, access.CanSeeSpeakers()),
		Reviews:            reviewsView(p, callerID, team, true),
	}, nil
}

// GetSpeakerInfo discloses the full profile of the proposal's speakers, with
// their latest survey answers for the event.
func (s *Service) GetSpeakerInfo(ctx context.Context, teamSlug, eventSlug string, proposalID, callerID uint) ([]SpeakerInfo, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanViewSpeakerInfo)
	if err != nil {
		return nil, err
	}
	if !access.CanSeeSpeakers() {
		return nil, apperrors.ErrForbiddenOperation
	}

	p, err := s.search(access, models.Filters{}).Proposal(ctx, proposalID, proposals.LoadOptions{Speakers: true})
	if err != nil {
		return nil, err
	}

	infos := make([]SpeakerInfo, 0, len(p.Speakers))
	for i := range p.Speakers {
		info := speakerInfo(&p.Speakers[i])

		survey, err := s.surveys.FindSurvey(ctx, access.Event.ID, info.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("load survey of speaker %d: %w", info.ID, err)
		default:
			info.Survey = []byte(survey.Answers)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetPreviousAndNext places proposalID inside the cohort selected by filters.
// There is no wraparound: the first proposal has no previous one and the
// last has no next one. A proposal that dropped out of the cohort (e.g. it
// was just reviewed under a not-reviewed filter) reports position 0 and
// points next to the head of the cohort.
func (s *Service) GetPreviousAndNext(ctx context.Context, teamSlug, eventSlug string, proposalID, callerID uint, filters models.Filters) (*Navigation, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanAccessEvent)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(filters); err != nil {
		return nil, err
	}

	search := s.search(access, filters)

	var stats proposals.Statistics
	var ids []uint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = search.Statistics(gctx)
		return err
	})
	g.Go(func() (err error) {
		ids, err = search.ProposalIDs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return navigate(ids, proposalID, stats), nil
}

func navigate(ids []uint, proposalID uint, stats proposals.Statistics) *Navigation {
	index := -1
	for i, id := range ids {
		if id == proposalID {
			index = i
			break
		}
	}

	nav := &Navigation{Total: stats.Total, Reviewed: stats.Reviewed, Current: index + 1}
	if index > 0 {
		prev := ids[index-1]
		nav.PreviousID = &prev
	}
	if index+1 < len(ids) {
		next := ids[index+1]
		nav.NextID = &next
	}
	return nav
}
