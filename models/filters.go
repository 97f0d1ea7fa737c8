package models

type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortHighest SortOrder = "highest"
	SortLowest  SortOrder = "lowest"
)

type ReviewsFilter string

const (
	ReviewsReviewed    ReviewsFilter = "reviewed"
	ReviewsNotReviewed ReviewsFilter = "not-reviewed"
)

type StatusFilter string

const (
	StatusPending     StatusFilter = "pending"
	StatusAccepted    StatusFilter = "accepted"
	StatusRejected    StatusFilter = "rejected"
	StatusNotAnswered StatusFilter = "not-answered"
	StatusConfirmed   StatusFilter = "confirmed"
	StatusDeclined    StatusFilter = "declined"
)

// Filters narrows and orders the proposals of one event. It decodes from the
// query string of list, export and review navigation requests.
type Filters struct {
	Query      string        `schema:"query" json:"query,omitempty" validate:"max=200"`
	Sort       SortOrder     `schema:"sort" json:"sort,omitempty" validate:"omitempty,oneof=newest oldest highest lowest"`
	Reviews    ReviewsFilter `schema:"reviews" json:"reviews,omitempty" validate:"omitempty,oneof=reviewed not-reviewed"`
	Status     StatusFilter  `schema:"status" json:"status,omitempty" validate:"omitempty,oneof=pending accepted rejected not-answered confirmed declined"`
	Formats    uint          `schema:"formats" json:"formats,omitempty"`
	Categories uint          `schema:"categories" json:"categories,omitempty"`
}

// SortOrDefault returns the requested order, newest first when unset.
func (f Filters) SortOrDefault() SortOrder {
	if f.Sort == "" {
		return SortNewest
	}
	return f.Sort
}

// WithoutReviews drops the reviewed/not-reviewed constraint, keeping the rest.
func (f Filters) WithoutReviews() Filters {
	f.Reviews = ""
	return f
}
