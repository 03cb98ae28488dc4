// Package memory is a process-local implementation of the repository
// interfaces. It enforces the same constraints as the Postgres schema:
// unique emails, review foreign keys and cascading movie deletes.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tempest-reviews/internal/data/entity"
	"tempest-reviews/internal/data/repository"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
)

type store struct {
	mu sync.RWMutex

	users       map[uuid.UUID]entity.User
	emails      map[string]uuid.UUID
	movies      map[uuid.UUID]entity.Movie
	movieOrder  []uuid.UUID
	reviews     map[uuid.UUID]entity.Review
	reviewOrder []uuid.UUID
}

// NewRepository returns a Repository whose three stores share one lock.
func NewRepository() *repository.Repository {
	s := &store{
		users:   make(map[uuid.UUID]entity.User),
		emails:  make(map[string]uuid.UUID),
		movies:  make(map[uuid.UUID]entity.Movie),
		reviews: make(map[uuid.UUID]entity.Review),
	}
	return &repository.Repository{
		User:   &userStore{s},
		Movie:  &movieStore{s},
		Review: &reviewStore{s},
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// detail must be called with the lock held.
func (s *store) detail(r entity.Review) *entity.ReviewDetail {
	d := &entity.ReviewDetail{Review: r}
	if u, ok := s.users[r.UserID]; ok {
		d.AuthorEmail = u.Email
		if u.Name != nil {
			name := *u.Name
			d.AuthorName = &name
		}
	}
	if m, ok := s.movies[r.MovieID]; ok {
		d.MovieTitle = m.Title
	}
	return d
}

type userStore struct{ s *store }

func (us *userStore) Create(_ context.Context, user *entity.User) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := us.s.emails[key]; taken {
		return fmt.Errorf("create user %s: %w", user.Email, utils.ErrDuplicateEmail)
	}
	us.s.users[user.ID] = *user
	us.s.emails[key] = user.ID
	return nil
}

func (us *userStore) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	u, ok := us.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (us *userStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	id, ok := us.s.emails[emailKey(email)]
	if !ok {
		return nil, nil
	}
	u := us.s.users[id]
	return &u, nil
}

type movieStore struct{ s *store }

func (ms *movieStore) Create(_ context.Context, movie *entity.Movie) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	if _, exists := ms.s.movies[movie.ID]; exists {
		return fmt.Errorf("create movie: id %s already exists", movie.ID)
	}
	ms.s.movies[movie.ID] = *movie
	ms.s.movieOrder = append(ms.s.movieOrder, movie.ID)
	return nil
}

func (ms *movieStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	ms.s.mu.RLock()
	defer ms.s.mu.RUnlock()

	m, ok := ms.s.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (ms *movieStore) FindAll(_ context.Context) ([]*entity.Movie, error) {
	ms.s.mu.RLock()
	defer ms.s.mu.RUnlock()

	movies := make([]*entity.Movie, 0, len(ms.s.movieOrder))
	for _, id := range ms.s.movieOrder {
		m := ms.s.movies[id]
		movies = append(movies, &m)
	}
	return movies, nil
}

func (ms *movieStore) Update(_ context.Context, movie *entity.Movie) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	current, ok := ms.s.movies[movie.ID]
	if !ok {
		return fmt.Errorf("movie %s: %w", movie.ID, utils.ErrNotFound)
	}
	current.Title = movie.Title
	current.Synopsis = movie.Synopsis
	current.UpdatedAt = movie.UpdatedAt
	ms.s.movies[movie.ID] = current
	return nil
}

func (ms *movieStore) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	if _, ok := ms.s.movies[id]; !ok {
		return 0, nil
	}
	delete(ms.s.movies, id)
	ms.s.movieOrder = removeID(ms.s.movieOrder, id)

	// cascade
	kept := ms.s.reviewOrder[:0]
	for _, rid := range ms.s.reviewOrder {
		if ms.s.reviews[rid].MovieID == id {
			delete(ms.s.reviews, rid)
			continue
		}
		kept = append(kept, rid)
	}
	ms.s.reviewOrder = kept
	return 1, nil
}

type reviewStore struct{ s *store }

func (rs *reviewStore) Create(_ context.Context, review *entity.Review) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	if _, ok := rs.s.users[review.UserID]; !ok {
		return fmt.Errorf("create review: user %s: %w", review.UserID, utils.ErrNotFound)
	}
	if _, ok := rs.s.movies[review.MovieID]; !ok {
		return fmt.Errorf("create review for movie %s: %w", review.MovieID, utils.ErrNotFound)
	}
	if _, exists := rs.s.reviews[review.ID]; exists {
		return fmt.Errorf("create review: id %s already exists", review.ID)
	}
	rs.s.reviews[review.ID] = *review
	rs.s.reviewOrder = append(rs.s.reviewOrder, review.ID)
	return nil
}

func (rs *reviewStore) FindByID(_ context.Context, id uuid.UUID) (*entity.ReviewDetail, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	r, ok := rs.s.reviews[id]
	if !ok {
		return nil, nil
	}
	return rs.s.detail(r), nil
}

func (rs *reviewStore) FindByMovieID(_ context.Context, movieID uuid.UUID) ([]*entity.ReviewDetail, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	reviews := []*entity.ReviewDetail{}
	for _, id := range rs.s.reviewOrder {
		if r := rs.s.reviews[id]; r.MovieID == movieID {
			reviews = append(reviews, rs.s.detail(r))
		}
	}
	return reviews, nil
}

func (rs *reviewStore) FindByMovieIDs(_ context.Context, movieIDs []uuid.UUID) (map[uuid.UUID][]*entity.ReviewDetail, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	wanted := make(map[uuid.UUID]struct{}, len(movieIDs))
	for _, id := range movieIDs {
		wanted[id] = struct{}{}
	}

	grouped := make(map[uuid.UUID][]*entity.ReviewDetail, len(movieIDs))
	for _, id := range rs.s.reviewOrder {
		r := rs.s.reviews[id]
		if _, ok := wanted[r.MovieID]; ok {
			grouped[r.MovieID] = append(grouped[r.MovieID], rs.s.detail(r))
		}
	}
	return grouped, nil
}

// FindByUserID returns newest first, like the Postgres store.
func (rs *reviewStore) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.ReviewDetail, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	reviews := []*entity.ReviewDetail{}
	for i := len(rs.s.reviewOrder) - 1; i >= 0; i-- {
		if r := rs.s.reviews[rs.s.reviewOrder[i]]; r.UserID == userID {
			reviews = append(reviews, rs.s.detail(r))
		}
	}
	return reviews, nil
}

func (rs *reviewStore) Update(_ context.Context, review *entity.Review) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	current, ok := rs.s.reviews[review.ID]
	if !ok {
		return fmt.Errorf("review %s: %w", review.ID, utils.ErrNotFound)
	}
	current.Content = review.Content
	current.Quality = review.Quality
	current.Fun = review.Fun
	current.UpdatedAt = review.UpdatedAt
	rs.s.reviews[review.ID] = current
	return nil
}

func (rs *reviewStore) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	if _, ok := rs.s.reviews[id]; !ok {
		return 0, nil
	}
	delete(rs.s.reviews, id)
	rs.s.reviewOrder = removeID(rs.s.reviewOrder, id)
	return 1, nil
}
