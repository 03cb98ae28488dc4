package usecase

import (
	"context"
	"fmt"

	"tempest-reviews/internal/authz"
	"tempest-reviews/internal/data/repository"
	"tempest-reviews/internal/dto/response"
	"tempest-reviews/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, identity *authz.Identity) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, identity *authz.Identity) (*response.UserResponse, error) {
	if identity == nil {
		return nil, utils.ErrInvalidToken
	}

	user, err := us.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	// a valid token can outlive its user only if the store was reset
	if user == nil {
		us.log.Warn("Token for unknown user", zap.String("user_id", identity.UserID.String()))
		return nil, fmt.Errorf("user %s: %w", identity.UserID, utils.ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
