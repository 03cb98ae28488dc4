package repository

import (
	"context"

	"tempest-reviews/pkg/database"

	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Repository struct {
	User   UserRepository
	Movie  MovieRepository
	Review ReviewRepository

	pinger Pinger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:   NewUserRepository(db, log),
		Movie:  NewMovieRepository(db, log),
		Review: NewReviewRepository(db, log),
		pinger: db,
	}
}

// Ping checks the backing store. Stores without a connection always succeed.
func (r *Repository) Ping(ctx context.Context) error {
	if r.pinger == nil {
		return nil
	}
	return r.pinger.Ping(ctx)
}
