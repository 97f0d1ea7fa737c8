package validation

import (
	"testing"

	"cfp/apperrors"
	"cfp/models"

	"github.com/stretchr/testify/assert"
)

func note(n int) *int { return &n }

func TestReviewInput(t *testing.T) {
	assert.NoError(t, Struct(models.ReviewInput{Feeling: models.FeelingPositive, Note: note(5)}))
	assert.NoError(t, Struct(models.ReviewInput{Feeling: models.FeelingNeutral, Note: note(0)}))
	assert.NoError(t, Struct(models.ReviewInput{Feeling: models.FeelingNoOpinion}))

	err := Struct(models.ReviewInput{Feeling: models.FeelingPositive})
	assert.ErrorIs(t, err, apperrors.New(apperrors.CodeValidationFailed, ""))
	assert.Contains(t, err.Error(), "note is required")

	err = Struct(models.ReviewInput{Feeling: models.FeelingPositive, Note: note(6)})
	assert.Contains(t, err.Error(), "note must be at most 5")

	err = Struct(models.ReviewInput{Feeling: "LOVE", Note: note(3)})
	assert.Contains(t, err.Error(), "feeling must be one of")
}

func TestFilters(t *testing.T) {
	assert.NoError(t, Struct(models.Filters{}))
	assert.NoError(t, Struct(models.Filters{Sort: models.SortLowest, Status: models.StatusNotAnswered, Reviews: models.ReviewsNotReviewed}))

	err := Struct(models.Filters{Sort: "random"})
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "sort must be one of")
}

func TestSlug(t *testing.T) {
	type rename struct {
		Slug string `validate:"required,slug"`
	}

	assert.NoError(t, Struct(rename{Slug: "devfest-2025"}))
	assert.Error(t, Struct(rename{Slug: "Dev Fest"}))
	assert.Error(t, Struct(rename{Slug: "-devfest"}))
	assert.Error(t, Struct(rename{Slug: ""}))
}
