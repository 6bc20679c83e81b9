// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devlink/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with fake users, profiles, and posts.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Child tables go first so foreign keys
// never dangle.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Like{}, &models.Comment{}, &models.Post{},
		&models.Experience{}, &models.Education{}, &models.Profile{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

var statuses = []string{
	"Junior Developer", "Developer", "Senior Developer",
	"Engineering Manager", "Student", "Instructor",
}

var skillPool = []string{
	"Go", "JavaScript", "TypeScript", "Python", "Rust",
	"PostgreSQL", "Redis", "Docker", "Kubernetes", "React",
	"HTML", "CSS", "GraphQL", "gRPC",
}

// SeedUsers creates n users with profiles. All users share the password
// "password123" for easy manual testing.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Name:     gofakeit.Name(),
			Email:    fmt.Sprintf("%s%d@%s", strings.ToLower(gofakeit.Username()), i, gofakeit.DomainName()),
			Password: string(hash),
			Avatar:   fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&d=identicon", gofakeit.UUID()),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}

		if err := s.seedProfile(user.ID); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	log.Printf("Seeded %d users with profiles", len(users))
	return users, nil
}

func (s *Seeder) seedProfile(userID uint) error {
	skills := make([]string, 0, 4)
	for _, idx := range s.rand.Perm(len(skillPool))[:3+s.rand.Intn(3)] {
		skills = append(skills, skillPool[idx])
	}

	profile := models.Profile{
		UserID:         userID,
		Status:         statuses[s.rand.Intn(len(statuses))],
		Company:        gofakeit.Company(),
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Bio:            gofakeit.Sentence(12),
		GithubUsername: strings.ToLower(gofakeit.Username()),
		Website:        fmt.Sprintf("https://%s", gofakeit.DomainName()),
		Skills:         skills,
		Social: &models.SocialLinks{
			Twitter:  fmt.Sprintf("https://twitter.com/%s", strings.ToLower(gofakeit.Username())),
			Linkedin: fmt.Sprintf("https://linkedin.com/in/%s", strings.ToLower(gofakeit.Username())),
		},
	}
	if err := s.db.Create(&profile).Error; err != nil {
		return fmt.Errorf("creating profile: %w", err)
	}

	from := time.Now().AddDate(-2-s.rand.Intn(5), 0, 0)
	exp := models.Experience{
		ProfileID:   profile.ID,
		Title:       gofakeit.JobTitle(),
		Company:     gofakeit.Company(),
		Location:    gofakeit.City(),
		From:        from,
		Current:     true,
		Description: gofakeit.Sentence(10),
	}
	if err := s.db.Create(&exp).Error; err != nil {
		return fmt.Errorf("creating experience: %w", err)
	}

	eduTo := from.AddDate(0, -6, 0)
	eduFrom := eduTo.AddDate(-4, 0, 0)
	edu := models.Education{
		ProfileID:    profile.ID,
		School:       fmt.Sprintf("%s University", gofakeit.City()),
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		From:         eduFrom,
		To:           &eduTo,
		Description:  gofakeit.Sentence(8),
	}
	if err := s.db.Create(&edu).Error; err != nil {
		return fmt.Errorf("creating education: %w", err)
	}
	return nil
}

// SeedPosts creates n posts spread across the given users, with a few likes
// and comments each.
func (s *Seeder) SeedPosts(users []models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to author posts")
	}

	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		post := models.Post{
			UserID:    author.ID,
			Text:      gofakeit.Paragraph(1, 2, 8, " "),
			Name:      author.Name,
			Avatar:    author.Avatar,
			CreatedAt: time.Now().Add(-time.Duration(s.rand.Intn(90*24)) * time.Hour),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return fmt.Errorf("creating post: %w", err)
		}

		for _, idx := range s.rand.Perm(len(users))[:s.rand.Intn(min(len(users), 5))] {
			like := models.Like{PostID: post.ID, UserID: users[idx].ID}
			if err := s.db.Create(&like).Error; err != nil {
				return fmt.Errorf("creating like: %w", err)
			}
		}

		for j := 0; j < s.rand.Intn(3); j++ {
			commenter := users[s.rand.Intn(len(users))]
			comment := models.Comment{
				PostID: post.ID,
				UserID: commenter.ID,
				Text:   gofakeit.Sentence(10),
				Name:   commenter.Name,
				Avatar: commenter.Avatar,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
		}
	}

	log.Printf("Seeded %d posts", n)
	return nil
}
