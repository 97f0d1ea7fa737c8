package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

type DeliberationStatus string

const (
	DeliberationPending  DeliberationStatus = "PENDING"
	DeliberationAccepted DeliberationStatus = "ACCEPTED"
	DeliberationRejected DeliberationStatus = "REJECTED"
)

type PublicationStatus string

const (
	PublicationNotPublished PublicationStatus = "NOT_PUBLISHED"
	PublicationPublished    PublicationStatus = "PUBLISHED"
)

type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "PENDING"
	ConfirmationConfirmed ConfirmationStatus = "CONFIRMED"
	ConfirmationDeclined  ConfirmationStatus = "DECLINED"
)

// Proposal is a talk submitted by one or more speakers to an event.
//
// AvgRateForSort caches the review average so listings can sort on it. It is
// recomputed from the review rows on every review write and never patched.
type Proposal struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
	EventID            uint                        `gorm:"not null;index" json:"event_id"`
	Event              *Event                      `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Title              string                      `gorm:"not null;size:300" json:"title"`
	Abstract           string                      `gorm:"type:text" json:"abstract"`
	Level              *Level                      `gorm:"size:20" json:"level"`
	Languages          datatypes.JSONSlice[string] `json:"languages"`
	References         string                      `gorm:"type:text" json:"references"`
	Comments           string                      `gorm:"type:text" json:"comments"`
	DeliberationStatus DeliberationStatus          `gorm:"not null;size:20;index" json:"deliberation_status"`
	PublicationStatus  PublicationStatus           `gorm:"not null;size:20" json:"publication_status"`
	ConfirmationStatus ConfirmationStatus          `gorm:"not null;size:20" json:"confirmation_status"`
	AvgRateForSort     *float64                    `json:"avg_rate_for_sort"`
	Speakers           []User                      `gorm:"many2many:proposal_speakers" json:"speakers,omitempty"`
	Formats            []Format                    `gorm:"many2many:proposal_formats" json:"formats,omitempty"`
	Categories         []Category                  `gorm:"many2many:proposal_categories" json:"categories,omitempty"`
	Reviews            []Review                    `gorm:"foreignKey:ProposalID" json:"reviews,omitempty"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.DeliberationStatus == "" {
		p.DeliberationStatus = DeliberationPending
	}
	if p.PublicationStatus == "" {
		p.PublicationStatus = PublicationNotPublished
	}
	if p.ConfirmationStatus == "" {
		p.ConfirmationStatus = ConfirmationPending
	}
	return nil
}

func (p *Proposal) FormatNames() []string {
	names := make([]string, 0, len(p.Formats))
	for _, f := range p.Formats {
		names = append(names, f.Name)
	}
	return names
}

func (p *Proposal) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return names
}

func (p *Proposal) SpeakerNames() []string {
	names := make([]string, 0, len(p.Speakers))
	for i := range p.Speakers {
		names = append(names, p.Speakers[i].DisplayName())
	}
	return names
}

// StatusChange is the domain event emitted when a proposal moves between
// deliberation, publication or confirmation states.
type StatusChange struct {
	ProposalID uint   `json:"proposal_id"`
	EventID    uint   `json:"event_id"`
	Kind       string `json:"kind"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
}

const (
	StatusChangeDeliberation = "deliberation"
	StatusChangePublication  = "publication"
	StatusChangeConfirmation = "confirmation"
)
