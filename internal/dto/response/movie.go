package response

import (
	"time"

	"tempest-reviews/internal/data/entity"
)

type MovieResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Synopsis  string           `json:"synopsis"`
	Reviews   []ReviewResponse `json:"reviews"`
	Stats     ReviewStats      `json:"stats"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie, reviews []*entity.ReviewDetail) MovieResponse {
	return MovieResponse{
		ID:        movie.ID.String(),
		Title:     movie.Title,
		Synopsis:  movie.Synopsis,
		Reviews:   ReviewsToResponse(reviews),
		Stats:     StatsFromReviews(reviews),
		CreatedAt: movie.CreatedAt,
		UpdatedAt: movie.UpdatedAt,
	}
}
