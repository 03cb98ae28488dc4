package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"tempest-reviews/internal/data/entity"
	"tempest-reviews/pkg/database"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// openTestRepository connects to TEST_DATABASE_URL or skips the test.
func openTestRepository(t *testing.T) *Repository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, url, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.EnsureSchema(ctx, db))
	return NewRepository(db, zap.NewNop())
}

func testBase() entity.Base {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func TestPostgres_UserEmailUnique(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	email := "pg-" + uuid.NewString() + "@example.com"
	user := &entity.User{Base: testBase(), Email: email, PasswordHash: "x", Role: entity.RoleUser}
	require.NoError(t, repo.User.Create(ctx, user))

	dup := &entity.User{Base: testBase(), Email: email, PasswordHash: "y", Role: entity.RoleAdmin}
	assert.ErrorIs(t, repo.User.Create(ctx, dup), utils.ErrDuplicateEmail)

	found, err := repo.User.FindByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, entity.RoleUser, found.Role)

	missing, err := repo.User.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgres_ReviewLifecycleAndCascade(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	name := "Pat"
	user := &entity.User{
		Base:         testBase(),
		Email:        "pg-" + uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Name:         &name,
		Role:         entity.RoleUser,
	}
	require.NoError(t, repo.User.Create(ctx, user))

	movie := &entity.Movie{Base: testBase(), Title: "Alien", Synopsis: "In space."}
	require.NoError(t, repo.Movie.Create(ctx, movie))

	orphan := &entity.Review{Base: testBase(), UserID: user.ID, MovieID: uuid.New(), Content: "?", Quality: 3, Fun: 3}
	assert.ErrorIs(t, repo.Review.Create(ctx, orphan), utils.ErrNotFound)

	review := &entity.Review{Base: testBase(), UserID: user.ID, MovieID: movie.ID, Content: "tense", Quality: 5, Fun: 4}
	require.NoError(t, repo.Review.Create(ctx, review))

	detail, err := repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, user.Email, detail.AuthorEmail)
	require.NotNil(t, detail.AuthorName)
	assert.Equal(t, "Pat", *detail.AuthorName)
	assert.Equal(t, "Alien", detail.MovieTitle)

	review.Content = "still tense"
	review.Fun = 2
	require.NoError(t, repo.Review.Update(ctx, review))

	grouped, err := repo.Review.FindByMovieIDs(ctx, []uuid.UUID{movie.ID})
	require.NoError(t, err)
	require.Len(t, grouped[movie.ID], 1)
	assert.Equal(t, "still tense", grouped[movie.ID][0].Content)
	assert.Equal(t, 2, grouped[movie.ID][0].Fun)

	n, err := repo.Movie.Delete(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	gone, err := repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, repo.Movie.Update(ctx, movie), utils.ErrNotFound)
}
