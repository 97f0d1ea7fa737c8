package deliberation

import (
	"encoding/json"
	"time"

	"cfp/models"
	"cfp/proposals"
	"cfp/reviews"
)

type NamedItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SpeakerSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Company string `json:"company"`
	Bio     string `json:"bio"`
}

type SpeakerInfo struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Picture    string          `json:"picture"`
	Bio        string          `json:"bio"`
	Company    string          `json:"company"`
	Location   string          `json:"location"`
	References string          `json:"references"`
	Socials    map[string]any  `json:"socials"`
	Survey     json.RawMessage `json:"survey,omitempty"`
}

type ReviewsView struct {
	You     reviews.UserReview     `json:"you"`
	Summary *reviews.Summary       `json:"summary,omitempty"`
	Members []reviews.MemberReview `json:"members,omitempty"`
}

// ProposalDetail is the single-proposal review screen.
type ProposalDetail struct {
	ID                 uint                      `json:"id"`
	Title              string                    `json:"title"`
	Abstract           string                    `json:"abstract"`
	Level              *models.Level             `json:"level"`
	Languages          []string                  `json:"languages"`
	References         string                    `json:"references"`
	Comments           string                    `json:"comments"`
	CreatedAt          time.Time                 `json:"created_at"`
	DeliberationStatus models.DeliberationStatus `json:"deliberation_status"`
	PublicationStatus  models.PublicationStatus  `json:"publication_status"`
	ConfirmationStatus models.ConfirmationStatus `json:"confirmation_status"`
	Formats            []NamedItem               `json:"formats"`
	Categories         []NamedItem               `json:"categories"`
	Speakers           []SpeakerSummary          `json:"speakers"`
	Reviews            ReviewsView               `json:"reviews"`
}

type ListItem struct {
	ID                 uint                      `json:"id"`
	Title              string                    `json:"title"`
	CreatedAt          time.Time                 `json:"created_at"`
	DeliberationStatus models.DeliberationStatus `json:"deliberation_status"`
	PublicationStatus  models.PublicationStatus  `json:"publication_status"`
	ConfirmationStatus models.ConfirmationStatus `json:"confirmation_status"`
	Speakers           []SpeakerSummary          `json:"speakers"`
	Reviews            ReviewsView               `json:"reviews"`
}

type Pagination struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type Listing struct {
	Filters    models.Filters       `json:"filters"`
	Statistics proposals.Statistics `json:"statistics"`
	Pagination Pagination           `json:"pagination"`
	Results    []ListItem           `json:"results"`
}

type Navigation struct {
	Total      int64 `json:"total"`
	Reviewed   int64 `json:"reviewed"`
	Current    int   `json:"current"`
	PreviousID *uint `json:"previous_id"`
	NextID     *uint `json:"next_id"`
}

func namedFormats(formats []models.Format) []NamedItem {
	out := make([]NamedItem, 0, len(formats))
	for _, f := range formats {
		out = append(out, NamedItem{ID: f.ID, Name: f.Name})
	}
	return out
}

func namedCategories(categories []models.Category) []NamedItem {
	out := make([]NamedItem, 0, len(categories))
	for _, c := range categories {
		out = append(out, NamedItem{ID: c.ID, Name: c.Name})
	}
	return out
}

// speakerSummaries returns an empty, never nil, list when speakers are
// hidden; partial speaker objects are never built.
func speakerSummaries(p *models.Proposal, visible bool) []SpeakerSummary {
	out := []SpeakerSummary{}
	if !visible {
		return out
	}
	for _, u := range p.Speakers {
		out = append(out, SpeakerSummary{ID: u.ID, Name: u.DisplayName(), Picture: u.Picture, Company: u.Company, Bio: u.Bio})
	}
	return out
}

func speakerInfo(u *models.User) SpeakerInfo {
	return SpeakerInfo{
		ID:         u.ID,
		Name:       u.DisplayName(),
		Email:      u.Email,
		Picture:    u.Picture,
		Bio:        u.Bio,
		Company:    u.Company,
		Location:   u.Location,
		References: u.References,
		Socials:    u.Socials,
	}
}

func reviewsView(p *models.Proposal, userID uint, team, members bool) ReviewsView {
	view := ReviewsView{You: reviews.OfUser(p.Reviews, userID)}
	if team {
		summary := reviews.Summarize(p.Reviews)
		view.Summary = &summary
	}
	if team && members {
		view.Members = reviews.OfMembers(p.Reviews)
	}
	return view
}

func languages(p *models.Proposal) []string {
	if p.Languages == nil {
		return []string{}
	}
	return p.Languages
}
