package models

import (
	"time"
)

type Feeling string

const (
	FeelingPositive  Feeling = "POSITIVE"
	FeelingNeutral   Feeling = "NEUTRAL"
	FeelingNegative  Feeling = "NEGATIVE"
	FeelingNoOpinion Feeling = "NO_OPINION"
)

// Review is one user's score for one proposal. There is at most one row per
// (user, proposal); later submissions overwrite it.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_review_user_proposal" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProposalID uint      `gorm:"not null;uniqueIndex:idx_review_user_proposal;index" json:"proposal_id"`
	Feeling    Feeling   `gorm:"not null;size:20" json:"feeling"`
	Note       *int      `json:"note"`
	Comment    *string   `gorm:"type:text" json:"comment"`
}

// ReviewInput is what a team member submits when scoring a proposal.
type ReviewInput struct {
	Feeling Feeling `json:"feeling" validate:"required,oneof=POSITIVE NEUTRAL NEGATIVE NO_OPINION"`
	Note    *int    `json:"note" validate:"required_unless=Feeling NO_OPINION,omitempty,min=0,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=5000"`
}
