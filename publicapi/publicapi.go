// Package publicapi serves an event's proposals to outside consumers
// (websites, schedule apps) holding the event's API key. It never goes
// through team membership and never exposes review data.
package publicapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"cfp/apperrors"
	"cfp/models"
	"cfp/proposals"
	"cfp/store"
	"cfp/validation"

	"gorm.io/gorm"
)

type EventStore interface {
	FindBySlug(ctx context.Context, eventSlug string) (*models.Event, error)
}

type Speaker struct {
	Name    string         `json:"name"`
	Bio     string         `json:"bio"`
	Company string         `json:"company"`
	Picture string         `json:"picture"`
	Socials map[string]any `json:"socials"`
}

type Proposal struct {
	Title      string        `json:"title"`
	Abstract   string        `json:"abstract"`
	Level      *models.Level `json:"level"`
	Formats    []string      `json:"formats"`
	Categories []string      `json:"categories"`
	Languages  []string      `json:"languages"`
	Speakers   []Speaker     `json:"speakers"`
}

type Response struct {
	Name      string     `json:"name"`
	Proposals []Proposal `json:"proposals"`
}

type Service struct {
	db     *gorm.DB
	events EventStore
}

func NewService(db *gorm.DB, events EventStore) *Service {
	return &Service{db: db, events: events}
}

// Proposals resolves the event, checks the key, then returns the filtered
// cohort. An unknown event is reported before a wrong key.
func (s *Service) Proposals(ctx context.Context, eventSlug, apiKey string, filters models.Filters) (*Response, error) {
	event, err := s.events.FindBySlug(ctx, eventSlug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find event %s: %w", eventSlug, err)
	}
	if !validKey(event.APIKey, apiKey) {
		return nil, apperrors.ErrAPIKeyInvalid
	}

	filters = filters.WithoutReviews()
	if err := validation.Struct(filters); err != nil {
		return nil, err
	}

	rows, err := proposals.NewSearch(s.db, event, 0, filters).All(ctx, proposals.LoadOptions{Speakers: true})
	if err != nil {
		return nil, err
	}

	out := &Response{Name: event.Name, Proposals: make([]Proposal, 0, len(rows))}
	for i := range rows {
		p := &rows[i]
		item := Proposal{
			Title:      p.Title,
			Abstract:   p.Abstract,
			Level:      p.Level,
			Formats:    p.FormatNames(),
			Categories: p.CategoryNames(),
			Languages:  []string(p.Languages),
			Speakers:   []Speaker{},
		}
		if item.Languages == nil {
			item.Languages = []string{}
		}
		if event.DisplayProposalsSpeakers {
			for _, u := range p.Speakers {
				item.Speakers = append(item.Speakers, Speaker{
					Name:    u.DisplayName(),
					Bio:     u.Bio,
					Company: u.Company,
					Picture: u.Picture,
					Socials: u.Socials,
				})
			}
		}
		out.Proposals = append(out.Proposals, item)
	}
	return out, nil
}

func validKey(expected, given string) bool {
	if expected == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
