// Package reviews computes review summaries. Everything here is pure: callers
// load the rows, these functions only fold them.
package reviews

import (
	"math"
	"sort"

	"cfp/models"
)

type Summary struct {
	Average   *float64 `json:"average"`
	Positives int      `json:"positives"`
	Negatives int      `json:"negatives"`
}

// Summarize averages the notes of every review that expresses an opinion,
// rounded to one decimal. Positives and negatives count feelings only.
func Summarize(reviews []models.Review) Summary {
	var s Summary
	var total, count int
	for _, r := range reviews {
		switch r.Feeling {
		case models.FeelingPositive:
			s.Positives++
		case models.FeelingNegative:
			s.Negatives++
		}
		if r.Feeling == models.FeelingNoOpinion || r.Note == nil {
			continue
		}
		total += *r.Note
		count++
	}
	if count > 0 {
		avg := roundOne(float64(total) / float64(count))
		s.Average = &avg
	}
	return s
}

// Average is the value cached in Proposal.AvgRateForSort.
func Average(reviews []models.Review) *float64 {
	return Summarize(reviews).Average
}

type UserReview struct {
	Feeling *models.Feeling `json:"feeling"`
	Note    *int            `json:"note"`
	Comment *string         `json:"comment"`
}

// OfUser returns userID's own review, all nil when they have not scored.
func OfUser(reviews []models.Review, userID uint) UserReview {
	for _, r := range reviews {
		if r.UserID != userID {
			continue
		}
		feeling := r.Feeling
		return UserReview{Feeling: &feeling, Note: r.Note, Comment: r.Comment}
	}
	return UserReview{}
}

type MemberReview struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	Picture string         `json:"picture"`
	Feeling models.Feeling `json:"feeling"`
	Note    *int           `json:"note"`
	Comment *string        `json:"comment"`
}

// OfMembers lists every review with its author, best notes first. Reviews
// without a note go last; equal notes are ordered by author name. The author
// is read from Review.User, which callers preload.
func OfMembers(reviews []models.Review) []MemberReview {
	out := make([]MemberReview, 0, len(reviews))
	for _, r := range reviews {
		m := MemberReview{ID: r.UserID, Feeling: r.Feeling, Note: r.Note, Comment: r.Comment}
		if r.User != nil {
			m.Name = r.User.DisplayName()
			m.Picture = r.User.Picture
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Note == nil && b.Note != nil:
			return false
		case a.Note != nil && b.Note == nil:
			return true
		case a.Note != nil && b.Note != nil && *a.Note != *b.Note:
			return *a.Note > *b.Note
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
