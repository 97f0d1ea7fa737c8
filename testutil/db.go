// Package testutil provides an in-memory database and fixture builders for
// package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"cfp/database"
	"cfp/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh migrated sqlite database private to the test. It holds
// a single connection so the in-memory database outlives individual queries;
// code under test must run transactional work on the transaction handle.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Fixtures creates rows with sensible defaults and fails the test on error.
type Fixtures struct {
	t     testing.TB
	DB    *gorm.DB
	clock time.Time
}

func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, DB: db, clock: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *Fixtures) create(v any) {
	f.t.Helper()
	require.NoError(f.t, f.DB.Create(v).Error)
}

func (f *Fixtures) User(name string) *models.User {
	u := &models.User{
		Name:    name,
		Email:   fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Picture: name + ".png",
		Bio:     name + " bio",
		Company: name + " Inc",
		Socials: map[string]any{"github": name},
	}
	f.create(u)
	return u
}

func (f *Fixtures) Team(slug string) *models.Team {
	team := &models.Team{Slug: slug, Name: slug}
	f.create(team)
	return team
}

func (f *Fixtures) Member(team *models.Team, user *models.User, role models.Role) *models.TeamMember {
	m := &models.TeamMember{TeamID: team.ID, UserID: user.ID, Role: role}
	f.create(m)
	return m
}

// Event creates an open event: reviews enabled, reviews and speakers shown.
func (f *Fixtures) Event(team *models.Team, slug string, opts ...func(*models.Event)) *models.Event {
	e := &models.Event{
		Slug:                     slug,
		Name:                     slug,
		TeamID:                   team.ID,
		ReviewEnabled:            true,
		DisplayProposalsReviews:  true,
		DisplayProposalsSpeakers: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	f.create(e)
	return e
}

func (f *Fixtures) Format(event *models.Event, name string) *models.Format {
	format := &models.Format{EventID: event.ID, Name: name}
	f.create(format)
	return format
}

func (f *Fixtures) Category(event *models.Event, name string) *models.Category {
	category := &models.Category{EventID: event.ID, Name: name}
	f.create(category)
	return category
}

// Proposal creates a pending proposal. Each call is one minute younger than
// the previous one so creation order is also newest-last order.
func (f *Fixtures) Proposal(event *models.Event, title string, opts ...func(*models.Proposal)) *models.Proposal {
	f.clock = f.clock.Add(time.Minute)
	p := &models.Proposal{
		EventID:   event.ID,
		Title:     title,
		Abstract:  title + " abstract",
		Languages: []string{"en"},
		CreatedAt: f.clock,
	}
	for _, opt := range opts {
		opt(p)
	}
	f.create(p)
	return p
}

func (f *Fixtures) Review(user *models.User, proposal *models.Proposal, feeling models.Feeling, note *int) *models.Review {
	r := &models.Review{UserID: user.ID, ProposalID: proposal.ID, Feeling: feeling, Note: note}
	f.create(r)
	return r
}

func (f *Fixtures) Survey(event *models.Event, user *models.User, answers string) *models.Survey {
	s := &models.Survey{EventID: event.ID, UserID: user.ID, Answers: []byte(answers)}
	f.create(s)
	return s
}

func Note(n int) *int {
	return &n
}

func Rate(v float64) *float64 {
	return &v
}
