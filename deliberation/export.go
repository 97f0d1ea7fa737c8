package deliberation

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cfp/authz"
	"cfp/models"
	"cfp/permissions"
	"cfp/proposals"
	"cfp/reviews"
	"cfp/validation"
)

type ExportedSpeaker struct {
	Name       string         `json:"name"`
	Bio        string         `json:"bio"`
	Company    string         `json:"company"`
	Picture    string         `json:"picture"`
	Email      string         `json:"email"`
	Location   string         `json:"location"`
	References string         `json:"references"`
	Socials    map[string]any `json:"socials"`
}

type ExportedProposal struct {
	ID                 uint                      `json:"id"`
	Title              string                    `json:"title"`
	Abstract           string                    `json:"abstract"`
	Level              *models.Level             `json:"level"`
	Languages          []string                  `json:"languages"`
	References         string                    `json:"references"`
	Comments           string                    `json:"comments"`
	DeliberationStatus models.DeliberationStatus `json:"deliberation_status"`
	PublicationStatus  models.PublicationStatus  `json:"publication_status"`
	ConfirmationStatus models.ConfirmationStatus `json:"confirmation_status"`
	Formats            []string                  `json:"formats"`
	Categories         []string                  `json:"categories"`
	Speakers           []ExportedSpeaker         `json:"speakers"`
	Reviews            *reviews.Summary          `json:"reviews,omitempty"`
}

type Card struct {
	Name       string        `json:"name"`
	Level      *models.Level `json:"level"`
	Formats    []string      `json:"formats"`
	Categories []string      `json:"categories"`
	Languages  []string      `json:"languages"`
	Speakers   []string      `json:"speakers"`
}

// ExportJSON returns the whole filtered cohort with the same speaker and
// review visibility as the review screens.
func (s *Service) ExportJSON(ctx context.Context, teamSlug, eventSlug string, callerID uint, filters models.Filters) ([]ExportedProposal, error) {
	access, rows, err := s.exportCohort(ctx, teamSlug, eventSlug, callerID, filters)
	if err != nil {
		return nil, err
	}

	out := make([]ExportedProposal, 0, len(rows))
	for i := range rows {
		p := &rows[i]
		exported := ExportedProposal{
			ID:                 p.ID,
			Title:              p.Title,
			Abstract:           p.Abstract,
			Level:              p.Level,
			Languages:          languages(p),
			References:         p.References,
			Comments:           p.Comments,
			DeliberationStatus: p.DeliberationStatus,
			PublicationStatus:  p.PublicationStatus,
			ConfirmationStatus: p.ConfirmationStatus,
			Formats:            p.FormatNames(),
			Categories:         p.CategoryNames(),
			Speakers:           []ExportedSpeaker{},
		}
		if access.CanSeeSpeakers() {
			for _, u := range p.Speakers {
				exported.Speakers = append(exported.Speakers, ExportedSpeaker{
					Name:       u.DisplayName(),
					Bio:        u.Bio,
					Company:    u.Company,
					Picture:    u.Picture,
					Email:      u.Email,
					Location:   u.Location,
					References: u.References,
					Socials:    u.Socials,
				})
			}
		}
		if access.CanSeeTeamReviews() {
			summary := reviews.Summarize(p.Reviews)
			exported.Reviews = &summary
		}
		out = append(out, exported)
	}
	return out, nil
}

// ExportCards returns the short form used to print program cards.
func (s *Service) ExportCards(ctx context.Context, teamSlug, eventSlug string, callerID uint, filters models.Filters) ([]Card, error) {
	access, rows, err := s.exportCohort(ctx, teamSlug, eventSlug, callerID, filters)
	if err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(rows))
	for i := range rows {
		p := &rows[i]
		speakers := []string{}
		if access.CanSeeSpeakers() {
			speakers = p.SpeakerNames()
		}
		cards = append(cards, Card{
			Name:       p.Title,
			Level:      p.Level,
			Formats:    p.FormatNames(),
			Categories: p.CategoryNames(),
			Languages:  languages(p),
			Speakers:   speakers,
		})
	}
	return cards, nil
}

// ExportCSV writes the cohort as CSV. Review and speaker columns are present
// only when the caller may see them.
func (s *Service) ExportCSV(ctx context.Context, teamSlug, eventSlug string, callerID uint, filters models.Filters, w io.Writer) error {
	access, rows, err := s.exportCohort(ctx, teamSlug, eventSlug, callerID, filters)
	if err != nil {
		return err
	}

	team := access.CanSeeTeamReviews()
	speakers := access.CanSeeSpeakers()

	header := []string{"id", "title", "level", "formats", "categories", "languages", "deliberation_status", "confirmation_status"}
	if team {
		header = append(header, "average", "positives", "negatives")
	}
	if speakers {
		header = append(header, "speakers")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range rows {
		p := &rows[i]
		level := ""
		if p.Level != nil {
			level = string(*p.Level)
		}
		record := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Title,
			level,
			strings.Join(p.FormatNames(), ", "),
			strings.Join(p.CategoryNames(), ", "),
			strings.Join(languages(p), ", "),
			string(p.DeliberationStatus),
			string(p.ConfirmationStatus),
		}
		if team {
			summary := reviews.Summarize(p.Reviews)
			average := ""
			if summary.Average != nil {
				average = strconv.FormatFloat(*summary.Average, 'f', 1, 64)
			}
			record = append(record, average, strconv.Itoa(summary.Positives), strconv.Itoa(summary.Negatives))
		}
		if speakers {
			record = append(record, strings.Join(p.SpeakerNames(), ", "))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", p.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *Service) exportCohort(ctx context.Context, teamSlug, eventSlug string, callerID uint, filters models.Filters) (*authz.EventAccess, []models.Proposal, error) {
	access, err := s.gate.RequireEventCapability(ctx, callerID, teamSlug, eventSlug, permissions.CanExportEventProposals)
	if err != nil {
		return nil, nil, err
	}
	if err := validation.Struct(filters); err != nil {
		return nil, nil, err
	}

	rows, err := s.search(access, filters).All(ctx, proposals.LoadOptions{
		Speakers:    access.CanSeeSpeakers(),
		TeamReviews: access.CanSeeTeamReviews(),
	})
	if err != nil {
		return nil, nil, err
	}
	return access, rows, nil
}
