package response

import (
	"math"
	"time"

	"tempest-reviews/internal/data/entity"
)

// ReviewAuthor holds the public fields of a review's author.
type ReviewAuthor struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
}

type ReviewResponse struct {
	ID         string       `json:"id"`
	MovieID    string       `json:"movieId"`
	MovieTitle string       `json:"movieTitle,omitempty"`
	Content    string       `json:"content"`
	Quality    int          `json:"quality"`
	Fun        int          `json:"fun"`
	User       ReviewAuthor `json:"user"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

type ReviewStats struct {
	ReviewCount    int     `json:"reviewCount"`
	AverageQuality float64 `json:"averageQuality"`
	AverageFun     float64 `json:"averageFun"`
}

// Helper converters
func ReviewToResponse(review *entity.ReviewDetail) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID.String(),
		MovieID:    review.MovieID.String(),
		MovieTitle: review.MovieTitle,
		Content:    review.Content,
		Quality:    review.Quality,
		Fun:        review.Fun,
		User: ReviewAuthor{
			ID:    review.UserID.String(),
			Email: review.AuthorEmail,
			Name:  review.AuthorName,
		},
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func ReviewsToResponse(reviews []*entity.ReviewDetail) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, review := range reviews {
		out[i] = ReviewToResponse(review)
	}
	return out
}

// StatsFromReviews averages are rounded to two decimals; zero reviews give zeros.
func StatsFromReviews(reviews []*entity.ReviewDetail) ReviewStats {
	stats := ReviewStats{ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		return stats
	}

	var quality, fun int
	for _, review := range reviews {
		quality += review.Quality
		fun += review.Fun
	}
	n := float64(len(reviews))
	stats.AverageQuality = round2(float64(quality) / n)
	stats.AverageFun = round2(float64(fun) / n)
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
