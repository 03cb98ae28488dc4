package response

import (
	"encoding/json"
	"testing"

	"tempest-reviews/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFromReviews(t *testing.T) {
	assert.Equal(t, ReviewStats{}, StatsFromReviews(nil))

	reviews := []*entity.ReviewDetail{
		{Review: entity.Review{Quality: 5, Fun: 1}},
		{Review: entity.Review{Quality: 4, Fun: 2}},
		{Review: entity.Review{Quality: 4, Fun: 2}},
	}
	stats := StatsFromReviews(reviews)

	assert.Equal(t, 3, stats.ReviewCount)
	assert.Equal(t, 4.33, stats.AverageQuality)
	assert.Equal(t, 1.67, stats.AverageFun)
}

func TestMovieToResponse_CamelCaseAndEmptyReviews(t *testing.T) {
	movie := &entity.Movie{Base: entity.Base{ID: uuid.New()}, Title: "Heat"}

	body, err := json.Marshal(MovieToResponse(movie, nil))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, []any{}, decoded["reviews"])
	assert.Contains(t, decoded, "createdAt")
	assert.Contains(t, decoded["stats"], "reviewCount")
}
