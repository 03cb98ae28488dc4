package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"tempest-reviews/internal/authz"
	"tempest-reviews/internal/data/entity"
	"tempest-reviews/internal/data/repository"
	"tempest-reviews/internal/dto/request"
	"tempest-reviews/internal/dto/response"
	"tempest-reviews/pkg/token"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	// Verify checks signature and expiry only; tokens are not stored.
	Verify(ctx context.Context, raw string) (*authz.Identity, error)
}

// AuthConfig is everything the authenticator needs, passed in explicitly.
type AuthConfig struct {
	JWTSecret   string
	AdminSecret string
	Issuer      string
	SignupTTL   time.Duration
	LoginTTL    time.Duration
	BcryptCost  int
}

func AuthConfigFrom(config *utils.Config) AuthConfig {
	return AuthConfig{
		JWTSecret:   config.Auth.JWTSecret,
		AdminSecret: config.Auth.AdminSecret,
		Issuer:      config.App.Name,
		SignupTTL:   config.Auth.SignupTTL,
		LoginTTL:    config.Auth.LoginTTL,
		BcryptCost:  config.Auth.BcryptCost,
	}
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	config   AuthConfig
	log      *zap.Logger

	// compared against when the email is unknown so both login failures cost one bcrypt run
	dummyHash string
}

func NewAuthService(
	userRepo repository.UserRepository,
	config AuthConfig,
	log *zap.Logger,
	opts ...token.Option,
) (AuthService, error) {
	opts = append([]token.Option{token.WithIssuer(config.Issuer)}, opts...)
	tokens, err := token.NewManager(config.JWTSecret, opts...)
	if err != nil {
		return nil, err
	}

	dummyHash, err := utils.HashPassword("tempest-reviews-dummy", config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		config:    config,
		log:       log.With(zap.String("service", "auth")),
		dummyHash: dummyHash,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	req.Email = normalizeEmail(req.Email)
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Check email is free
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("signup %s: %w", req.Email, utils.ErrDuplicateEmail)
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Decide role
	role := entity.RoleUser
	if s.isAdminCode(req.AdminCode) {
		role = entity.RoleAdmin
	}

	var name *string
	if req.Name != nil {
		if trimmed := strings.TrimSpace(*req.Name); trimmed != "" {
			name = &trimmed
		}
	}

	// 5. Save user; the unique index settles concurrent signups
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         name,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	// 6. Issue token
	resp, err := s.issue(user, s.config.SignupTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	req.Email = normalizeEmail(req.Email)
	if err := utils.Validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Find user
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 3. Check password; unknown email and wrong password are indistinguishable
	if user == nil {
		utils.CheckPasswordHash(req.Password, s.dummyHash)
		s.log.Warn("Login failed", zap.String("reason", "unknown email"))
		return nil, utils.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login failed",
			zap.String("reason", "wrong password"),
			zap.String("user_id", user.ID.String()))
		return nil, utils.ErrInvalidCredentials
	}

	// 4. Issue token
	resp, err := s.issue(user, s.config.LoginTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return resp, nil
}

func (s *authService) Verify(_ context.Context, raw string) (*authz.Identity, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", utils.ErrInvalidToken)
	}
	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", utils.ErrInvalidToken, claims.Role)
	}

	return &authz.Identity{UserID: userID, Role: role}, nil
}

func (s *authService) isAdminCode(code string) bool {
	if code == "" || s.config.AdminSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.config.AdminSecret)) == 1
}

func (s *authService) issue(user *entity.User, ttl time.Duration) (*response.AuthResponse, error) {
	signed, expiresAt, err := s.tokens.Issue(user.ID, string(user.Role), ttl)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}
	resp := response.AuthToResponse(user, signed, expiresAt)
	return &resp, nil
}
