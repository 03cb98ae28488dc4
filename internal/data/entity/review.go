package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	UserID  uuid.UUID `db:"user_id"`
	MovieID uuid.UUID `db:"movie_id"`
	Content string    `db:"content"`
	Quality int       `db:"quality"` // 1-5
	Fun     int       `db:"fun"`     // 1-5
}

// ReviewDetail is a review joined with its author and movie.
type ReviewDetail struct {
	Review
	AuthorEmail string  `db:"author_email"`
	AuthorName  *string `db:"author_name"`
	MovieTitle  string  `db:"movie_title"`
}
