package usecase

import (
	"context"
	"testing"
	"time"

	"tempest-reviews/internal/authz"
	"tempest-reviews/internal/data/entity"
	"tempest-reviews/internal/data/repository"
	"tempest-reviews/internal/data/repository/memory"
	"tempest-reviews/internal/dto/request"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testAdminCode = "let-me-in"

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{Name: "tempest-reviews-test", Store: utils.StoreMemory},
		Auth: utils.AuthConfig{
			JWTSecret:   "test-secret",
			AdminSecret: testAdminCode,
			SignupTTL:   24 * time.Hour,
			LoginTTL:    time.Hour,
			BcryptCost:  bcrypt.MinCost,
		},
	}
}

func newTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	svc, err := NewService(repo, testConfig(), zap.NewNop())
	require.NoError(t, err)
	return svc, repo
}

// signup registers email and returns the verified identity behind its token.
func signup(t *testing.T, svc *Service, email, adminCode string) *authz.Identity {
	t.Helper()
	ctx := context.Background()

	resp, err := svc.Auth.Signup(ctx, &request.SignupRequest{
		Email:     email,
		Password:  "password123",
		AdminCode: adminCode,
	})
	require.NoError(t, err)

	identity, err := svc.Auth.Verify(ctx, resp.Token)
	require.NoError(t, err)
	return identity
}

func createMovie(t *testing.T, svc *Service, admin *authz.Identity, title string) string {
	t.Helper()
	movie, err := svc.Movie.CreateMovie(context.Background(), admin, &request.MovieRequest{
		Title:    title,
		Synopsis: "A synopsis.",
	})
	require.NoError(t, err)
	return movie.ID
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func nonAdmin() *authz.Identity {
	return &authz.Identity{UserID: uuid.New(), Role: entity.RoleUser}
}
