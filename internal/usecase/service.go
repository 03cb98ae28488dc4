package usecase

import (
	"fmt"

	"tempest-reviews/internal/data/repository"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Movie  MovieService
	Review ReviewService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) (*Service, error) {
	auth, err := NewAuthService(repo.User, AuthConfigFrom(config), log)
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	return &Service{
		Auth:   auth,
		User:   NewUserService(repo.User, log),
		Movie:  NewMovieService(repo, log),
		Review: NewReviewService(repo, log),
	}, nil
}

// parseID treats a malformed id like an unknown one.
func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", kind, raw, utils.ErrNotFound)
	}
	return id, nil
}
