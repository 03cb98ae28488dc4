package cmd

import (
	"context"
	"fmt"
	"time"

	"tempest-reviews/internal/data/entity"
	"tempest-reviews/internal/data/repository"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SeedAdminEmail = "admin@example.com"
	SeedGuestEmail = "guest@example.com"
	seedPassword   = "password123"
)

type seedReview struct {
	author  string
	content string
	quality int
	fun     int
}

type seedMovie struct {
	title    string
	synopsis string
	reviews  []seedReview
}

var seedMovies = []seedMovie{
	{
		title:    "Inception",
		synopsis: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.",
		reviews: []seedReview{
			{SeedAdminEmail, "Layered, loud and still rewarding on a rewatch.", 5, 4},
			{SeedGuestEmail, "Confusing at first, brilliant by the end.", 4, 5},
		},
	},
	{
		title:    "The Matrix",
		synopsis: "A hacker learns that the world he lives in is a simulation and joins the rebellion against its controllers.",
		reviews: []seedReview{
			{SeedGuestEmail, "The lobby scene alone is worth it.", 5, 5},
		},
	},
}

// Seed creates demo users, movies and reviews. It does nothing when the admin
// account already exists, so running it twice is harmless.
func Seed(ctx context.Context, repo *repository.Repository, bcryptCost int, logger *zap.Logger) error {
	existing, err := repo.User.FindByEmail(ctx, SeedAdminEmail)
	if err != nil {
		return fmt.Errorf("check seed admin: %w", err)
	}
	if existing != nil {
		logger.Info("Seed data already present, skipping")
		return nil
	}

	hash, err := utils.HashPassword(seedPassword, bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	now := time.Now()
	users := map[string]uuid.UUID{}
	for _, u := range []struct {
		email string
		name  string
		role  entity.UserRole
	}{
		{SeedAdminEmail, "Admin", entity.RoleAdmin},
		{SeedGuestEmail, "Guest", entity.RoleUser},
	} {
		name := u.name
		user := &entity.User{
			Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Email:        u.email,
			PasswordHash: hash,
			Name:         &name,
			Role:         u.role,
		}
		if err := repo.User.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		users[u.email] = user.ID
	}

	for i, m := range seedMovies {
		// distinct timestamps keep listing order stable
		created := now.Add(time.Duration(i) * time.Second)
		movie := &entity.Movie{
			Base:     entity.Base{ID: uuid.New(), CreatedAt: created, UpdatedAt: created},
			Title:    m.title,
			Synopsis: m.synopsis,
		}
		if err := repo.Movie.Create(ctx, movie); err != nil {
			return fmt.Errorf("seed movie %s: %w", m.title, err)
		}

		for j, r := range m.reviews {
			at := created.Add(time.Duration(j+1) * time.Millisecond)
			review := &entity.Review{
				Base:    entity.Base{ID: uuid.New(), CreatedAt: at, UpdatedAt: at},
				UserID:  users[r.author],
				MovieID: movie.ID,
				Content: r.content,
				Quality: r.quality,
				Fun:     r.fun,
			}
			if err := repo.Review.Create(ctx, review); err != nil {
				return fmt.Errorf("seed review for %s: %w", m.title, err)
			}
		}
	}

	logger.Info("Seed data created",
		zap.Int("users", len(users)),
		zap.Int("movies", len(seedMovies)))
	return nil
}
