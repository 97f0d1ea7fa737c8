package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is a conference call for papers owned by a team. The review policy
// flags decide who may score and what the team sees in listings and exports.
type Event struct {
	ID                       uint       `gorm:"primaryKey" json:"id"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
	Slug                     string     `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Name                     string     `gorm:"not null;size:200" json:"name"`
	TeamID                   uint       `gorm:"not null;index" json:"team_id"`
	Team                     *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	ReviewEnabled            bool       `gorm:"not null" json:"review_enabled"`
	DisplayProposalsReviews  bool       `gorm:"not null" json:"display_proposals_reviews"`
	DisplayProposalsSpeakers bool       `gorm:"not null" json:"display_proposals_speakers"`
	APIKey                   string     `gorm:"uniqueIndex;not null;size:64" json:"-"`
	Formats                  []Format   `gorm:"foreignKey:EventID" json:"formats,omitempty"`
	Categories               []Category `gorm:"foreignKey:EventID" json:"categories,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.APIKey == "" {
		e.APIKey = GenerateAPIKey()
	}
	return nil
}

func GenerateAPIKey() string {
	return uuid.NewString()
}

type Format struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	EventID     uint   `gorm:"not null;index" json:"event_id"`
	Name        string `gorm:"not null;size:200" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	EventID     uint   `gorm:"not null;index" json:"event_id"`
	Name        string `gorm:"not null;size:200" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Survey holds the answers a speaker gave to an event's survey.
type Survey struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	EventID   uint           `gorm:"not null;index:idx_survey_event_user" json:"event_id"`
	UserID    uint           `gorm:"not null;index:idx_survey_event_user" json:"user_id"`
	Answers   datatypes.JSON `json:"answers"`
}
