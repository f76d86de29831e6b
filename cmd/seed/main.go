package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

const seedPassword = "password123"

type seedPost struct {
	authorEmail string
	title       string
	description string
	content     string
	category    string
}

var seedUsers = []model.User{
	{Name: "Amina Hassan", Email: "amina@example.com"},
	{Name: "Omar Khaled", Email: "omar@example.com"},
}

var seedPosts = []seedPost{
	{
		authorEmail: "amina@example.com",
		title:       "Getting Started with Sourdough",
		description: "A beginner's guide to your first loaf.",
		content:     "Flour, water, salt and patience. Start your starter a week ahead...",
		category:    "Food",
	},
	{
		authorEmail: "amina@example.com",
		title:       "Hiking the High Atlas",
		description: "Three days above the clouds in Morocco.",
		content:     "We left Imlil before sunrise. The trail climbs fast...",
		category:    "Travel",
	},
	{
		authorEmail: "omar@example.com",
		title:       "Why I Switched to Mechanical Keyboards",
		description: "A love letter to tactile switches.",
		content:     "It started with a cheap board from a flea market...",
		category:    "Tech",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Like{},
		&model.Comment{},
		&model.ContactMessage{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	ctx := context.Background()

	users, err := seedDemoUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	created, err := seedDemoPosts(ctx, postRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed posts: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users available: %d", len(users))
	log.Printf("  - New posts created: %d", created)
}

// seedDemoUsers creates the demo users if missing and returns them keyed by email.
func seedDemoUsers(ctx context.Context, repo repository.UserRepository) (map[string]*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make(map[string]*model.User, len(seedUsers))
	for _, u := range seedUsers {
		existing, err := repo.FindByEmail(ctx, u.Email)
		if err == nil {
			users[u.Email] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		user := u
		user.PasswordHash = string(hash)
		if err := repo.Create(ctx, &user); err != nil {
			return nil, err
		}
		log.Printf("Created user %s", user.Email)
		users[u.Email] = &user
	}
	return users, nil
}

// seedDemoPosts creates the demo posts for users that have none yet.
func seedDemoPosts(ctx context.Context, repo repository.PostRepository, users map[string]*model.User) (int, error) {
	existing, err := repo.List(ctx, repository.PostFilter{})
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.Title] = true
	}

	created := 0
	for _, sp := range seedPosts {
		if seen[sp.title] {
			continue
		}
		author, ok := users[sp.authorEmail]
		if !ok {
			continue
		}
		post := &model.Post{
			Title:       sp.title,
			Description: sp.description,
			Content:     sp.content,
			Category:    sp.category,
			AuthorID:    author.ID,
		}
		if err := repo.Create(ctx, post); err != nil {
			return created, err
		}
		log.Printf("Created post %q", sp.title)
		created++
	}
	return created, nil
}
