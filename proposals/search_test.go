package proposals

import (
	"context"
	"testing"

	"cfp/apperrors"
	"cfp/models"
	"cfp/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type cohortFixture struct {
	db       *gorm.DB
	fx       *testutil.Fixtures
	event    *models.Event
	reviewer *models.User
	other    *models.User
	talk     *models.Format
	backend  *models.Category
	// created oldest to newest
	p []*models.Proposal
}

func newCohortFixture(t *testing.T, eventOpts ...func(*models.Event)) *cohortFixture {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)

	team := fx.Team("team")
	event := fx.Event(team, "conf", eventOpts...)
	speaker := fx.User("Grace Hopper")
	c := &cohortFixture{
		db:       db,
		fx:       fx,
		event:    event,
		reviewer: fx.User("reviewer"),
		other:    fx.User("other"),
		talk:     fx.Format(event, "Talk"),
		backend:  fx.Category(event, "Backend"),
	}

	c.p = append(c.p,
		fx.Proposal(event, "Go concurrency", func(p *models.Proposal) {
			p.AvgRateForSort = testutil.Rate(3)
			p.Formats = []models.Format{*c.talk}
		}),
		fx.Proposal(event, "Rust for gophers", func(p *models.Proposal) {
			p.AvgRateForSort = testutil.Rate(4.5)
			p.DeliberationStatus = models.DeliberationAccepted
			p.PublicationStatus = models.PublicationPublished
			p.Categories = []models.Category{*c.backend}
		}),
		fx.Proposal(event, "CSS tricks", func(p *models.Proposal) {
			p.Speakers = []models.User{*speaker}
			p.DeliberationStatus = models.DeliberationRejected
		}),
		fx.Proposal(event, "100% uptime", func(p *models.Proposal) {
			p.AvgRateForSort = testutil.Rate(3)
			p.DeliberationStatus = models.DeliberationAccepted
			p.PublicationStatus = models.PublicationPublished
			p.ConfirmationStatus = models.ConfirmationConfirmed
		}),
	)

	fx.Review(c.reviewer, c.p[0], models.FeelingNeutral, testutil.Note(3))
	fx.Review(c.reviewer, c.p[1], models.FeelingPositive, testutil.Note(5))
	fx.Review(c.other, c.p[2], models.FeelingNegative, testutil.Note(1))

	// noise from another event
	otherEvent := fx.Event(team, "other-conf")
	fx.Proposal(otherEvent, "Go concurrency again")

	return c
}

func (c *cohortFixture) search(filters models.Filters) *Search {
	return NewSearch(c.db, c.event, c.reviewer.ID, filters)
}

func (c *cohortFixture) ids(idx ...int) []uint {
	out := make([]uint, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.p[i].ID)
	}
	return out
}

func TestProposalIDsDefaultNewestFirst(t *testing.T) {
	c := newCohortFixture(t)

	ids, err := c.search(models.Filters{}).ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.ids(3, 2, 1, 0), ids)

	ids, err = c.search(models.Filters{Sort: models.SortOldest}).ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.ids(0, 1, 2, 3), ids)
}

func TestProposalIDsByRateNullsLastTiesById(t *testing.T) {
	c := newCohortFixture(t)

	ids, err := c.search(models.Filters{Sort: models.SortHighest}).ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.ids(1, 0, 3, 2), ids)

	ids, err = c.search(models.Filters{Sort: models.SortLowest}).ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.ids(0, 3, 1, 2), ids)
}

func TestProposalIDsAreDeterministic(t *testing.T) {
	c := newCohortFixture(t)
	s := c.search(models.Filters{Sort: models.SortHighest})

	first, err := s.ProposalIDs(context.Background())
	require.NoError(t, err)
	second, err := s.ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQueryFilter(t *testing.T) {
	c := newCohortFixture(t)
	ctx := context.Background()

	ids, err := c.search(models.Filters{Query: "GO"}).ProposalIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ids(1, 0), ids, "title match is case-insensitive")

	ids, err = c.search(models.Filters{Query: "tricks ABSTRACT"}).ProposalIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ids(2), ids)

	ids, err = c.search(models.Filters{Query: "hopper"}).ProposalIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ids(2), ids, "speaker names are searched")

	ids, err = c.search(models.Filters{Query: "100%"}).ProposalIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ids(3), ids, "wildcards are literal")
}

func TestQueryFilterSkipsHiddenSpeakers(t *testing.T) {
	c := newCohortFixture(t, func(e *models.Event) { e.DisplayProposalsSpeakers = false })

	ids, err := c.search(models.Filters{Query: "hopper"}).ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestQueryFilterMatchesEmailOfUnnamedSpeakers(t *testing.T) {
	c := newCohortFixture(t)
	anon := &models.User{Email: "ada@lovelace.dev"}
	require.NoError(t, c.db.Create(anon).Error)
	p := c.fx.Proposal(c.event, "Analytical engines", func(p *models.Proposal) {
		p.Speakers = []models.User{*anon}
	})

	ids, err := c.search(models.Filters{Query: "LOVELACE"}).ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{p.ID}, ids)
}

func TestStatusFilter(t *testing.T) {
	c := newCohortFixture(t)
	cases := map[models.StatusFilter][]uint{
		models.StatusPending:     c.ids(0),
		models.StatusAccepted:    c.ids(3, 1),
		models.StatusRejected:    c.ids(2),
		models.StatusNotAnswered: c.ids(1),
		models.StatusConfirmed:   c.ids(3),
		models.StatusDeclined:    {},
	}
	for status, want := range cases {
		ids, err := c.search(models.Filters{Status: status}).ProposalIDs(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, ids, string(status))
	}
}

func TestFormatAndCategoryFilters(t *testing.T) {
	c := newCohortFixture(t)

	ids, err := c.search(models.Filters{Formats: c.talk.ID}).ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.ids(0), ids)

	ids, err = c.search(models.Filters{Categories: c.backend.ID}).ProposalIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c.ids(1), ids)
}

func TestReviewsFilterAndStatistics(t *testing.T) {
	c := newCohortFixture(t)
	ctx := context.Background()

	reviewed := c.search(models.Filters{Reviews: models.ReviewsReviewed})
	ids, err := reviewed.ProposalIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ids(1, 0), ids)

	notReviewed := c.search(models.Filters{Reviews: models.ReviewsNotReviewed})
	ids, err = notReviewed.ProposalIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ids(3, 2), ids)

	for _, s := range []*Search{reviewed, notReviewed, c.search(models.Filters{})} {
		stats, err := s.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, Statistics{Total: 4, Reviewed: 2}, stats)
	}

	stats, err := c.search(models.Filters{Status: models.StatusAccepted}).Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, Statistics{Total: 2, Reviewed: 1}, stats)
}

func TestPagination(t *testing.T) {
	c := newCohortFixture(t)
	ctx := context.Background()
	s := c.search(models.Filters{Sort: models.SortHighest})

	all, err := s.ProposalIDs(ctx)
	require.NoError(t, err)

	var paged []uint
	for page := 1; page <= PageCount(int64(len(all)), 3); page++ {
		proposals, err := s.Page(ctx, page, 3, LoadOptions{})
		require.NoError(t, err)
		for _, p := range proposals {
			paged = append(paged, p.ID)
		}
	}
	assert.Equal(t, all, paged)

	beyond, err := s.Page(ctx, 5, 3, LoadOptions{})
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 20))
	assert.Equal(t, 1, PageCount(20, 20))
	assert.Equal(t, 2, PageCount(21, 20))
	assert.Equal(t, 1, PageCount(5, 0))
}

func TestPageLoadsAssociationsByVisibility(t *testing.T) {
	c := newCohortFixture(t)
	ctx := context.Background()
	s := c.search(models.Filters{Sort: models.SortOldest})

	own, err := s.Page(ctx, 1, PageSize, LoadOptions{Speakers: true})
	require.NoError(t, err)
	require.Len(t, own, 4)
	assert.Len(t, own[0].Formats, 1)
	assert.Len(t, own[2].Speakers, 1)
	assert.Empty(t, own[2].Reviews, "only the viewer's reviews without team visibility")
	assert.Len(t, own[0].Reviews, 1)

	team, err := s.All(ctx, LoadOptions{TeamReviews: true, ReviewAuthors: true})
	require.NoError(t, err)
	require.Len(t, team[2].Reviews, 1)
	require.NotNil(t, team[2].Reviews[0].User)
	assert.Equal(t, "other", team[2].Reviews[0].User.Name)
	assert.Empty(t, team[2].Speakers)
}

func TestProposalLoadsOneCohortMember(t *testing.T) {
	c := newCohortFixture(t)
	ctx := context.Background()
	s := c.search(models.Filters{})

	p, err := s.Proposal(ctx, c.p[2].ID, LoadOptions{Speakers: true, TeamReviews: true, ReviewAuthors: true})
	require.NoError(t, err)
	assert.Equal(t, "CSS tricks", p.Title)
	assert.Len(t, p.Speakers, 1)
	require.Len(t, p.Reviews, 1)
	require.NotNil(t, p.Reviews[0].User)

	var foreign models.Proposal
	require.NoError(t, c.db.Where("title = ?", "Go concurrency again").First(&foreign).Error)
	_, err = s.Proposal(ctx, foreign.ID, LoadOptions{})
	assert.ErrorIs(t, err, apperrors.ErrProposalNotFound)
}

func TestHiddenSpeakersAreNeverLoaded(t *testing.T) {
	c := newCohortFixture(t, func(e *models.Event) { e.DisplayProposalsSpeakers = false })

	proposals, err := c.search(models.Filters{}).All(context.Background(), LoadOptions{Speakers: true})
	require.NoError(t, err)
	for _, p := range proposals {
		assert.Empty(t, p.Speakers)
	}
}
