package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"tempest-reviews/internal/data/entity"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *entity.User {
	now := time.Now()
	return &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		PasswordHash: "hash",
		Role:         entity.RoleUser,
	}
}

func newMovie(title string) *entity.Movie {
	now := time.Now()
	return &entity.Movie{
		Base:  entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title: title,
	}
}

func newReview(userID, movieID uuid.UUID) *entity.Review {
	now := time.Now()
	return &entity.Review{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:  userID,
		MovieID: movieID,
		Content: "good",
		Quality: 4,
		Fun:     5,
	}
}

func TestUserStore_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	require.NoError(t, repo.User.Create(ctx, newUser("a@example.com")))
	err := repo.User.Create(ctx, newUser("A@example.com "))
	assert.ErrorIs(t, err, utils.ErrDuplicateEmail)

	found, err := repo.User.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := repo.User.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserStore_ConcurrentSignupsKeepOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.User.Create(ctx, newUser("race@example.com")); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestReviewStore_RequiresExistingUserAndMovie(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	user := newUser("u@example.com")
	require.NoError(t, repo.User.Create(ctx, user))

	err := repo.Review.Create(ctx, newReview(user.ID, uuid.New()))
	assert.ErrorIs(t, err, utils.ErrNotFound)

	movie := newMovie("Heat")
	require.NoError(t, repo.Movie.Create(ctx, movie))
	err = repo.Review.Create(ctx, newReview(uuid.New(), movie.ID))
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestMovieStore_DeleteCascadesReviews(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	user := newUser("u@example.com")
	require.NoError(t, repo.User.Create(ctx, user))
	keep, drop := newMovie("Keep"), newMovie("Drop")
	require.NoError(t, repo.Movie.Create(ctx, keep))
	require.NoError(t, repo.Movie.Create(ctx, drop))

	kept := newReview(user.ID, keep.ID)
	dropped := newReview(user.ID, drop.ID)
	require.NoError(t, repo.Review.Create(ctx, kept))
	require.NoError(t, repo.Review.Create(ctx, dropped))

	n, err := repo.Movie.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Movie.Delete(ctx, drop.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	gone, err := repo.Review.FindByID(ctx, dropped.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	still, err := repo.Review.FindByID(ctx, kept.ID)
	require.NoError(t, err)
	require.NotNil(t, still)
	assert.Equal(t, "Keep", still.MovieTitle)
	assert.Equal(t, "u@example.com", still.AuthorEmail)

	movies, err := repo.Movie.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, keep.ID, movies[0].ID)
}

func TestReviewStore_GroupsByMovieInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	user := newUser("u@example.com")
	require.NoError(t, repo.User.Create(ctx, user))
	a, b := newMovie("A"), newMovie("B")
	require.NoError(t, repo.Movie.Create(ctx, a))
	require.NoError(t, repo.Movie.Create(ctx, b))

	first := newReview(user.ID, a.ID)
	second := newReview(user.ID, b.ID)
	third := newReview(user.ID, a.ID)
	for _, r := range []*entity.Review{first, second, third} {
		require.NoError(t, repo.Review.Create(ctx, r))
	}

	grouped, err := repo.Review.FindByMovieIDs(ctx, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, grouped[a.ID], 2)
	assert.Equal(t, first.ID, grouped[a.ID][0].ID)
	assert.Equal(t, third.ID, grouped[a.ID][1].ID)
	assert.Len(t, grouped[b.ID], 1)

	mine, err := repo.Review.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, third.ID, mine[0].ID)
}

func TestReviewStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	user := newUser("u@example.com")
	movie := newMovie("A")
	require.NoError(t, repo.User.Create(ctx, user))
	require.NoError(t, repo.Movie.Create(ctx, movie))
	review := newReview(user.ID, movie.ID)
	require.NoError(t, repo.Review.Create(ctx, review))

	review.Content = "changed"
	review.Quality = 1
	require.NoError(t, repo.Review.Update(ctx, review))

	got, err := repo.Review.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Content)
	assert.Equal(t, 1, got.Quality)

	missing := newReview(user.ID, movie.ID)
	assert.ErrorIs(t, repo.Review.Update(ctx, missing), utils.ErrNotFound)

	n, err := repo.Review.Delete(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, repo.Ping(ctx))
}
