package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupListingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}, &models.Comment{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func seedPosts(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		post := models.Post{
			UserID:    uint(i%2 + 1),
			Text:      fmt.Sprintf("post %d", i),
			Name:      fmt.Sprintf("author %d", i%2+1),
			CreatedAt: base.AddDate(0, 0, i),
		}
		require.NoError(t, db.Create(&post).Error)
	}
}

func TestListDefaultsToNewestFirst(t *testing.T) {
	db := setupListingTestDB(t)
	seedPosts(t, db, 3)
	repo := NewPostRepository(db)

	posts, total, err := repo.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 3)
	assert.Equal(t, "post 2", posts[0].Text)
	assert.Equal(t, "post 0", posts[2].Text)
}

func TestListFilters(t *testing.T) {
	db := setupListingTestDB(t)
	seedPosts(t, db, 4)
	repo := NewPostRepository(db)

	t.Run("equality", func(t *testing.T) {
		posts, total, err := repo.List(context.Background(), ListOptions{
			Filters: []Filter{{Column: "user_id", Op: OpEq, Values: []string{"1"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, posts, 2)
	})

	t.Run("comparison", func(t *testing.T) {
		_, total, err := repo.List(context.Background(), ListOptions{
			Filters: []Filter{{Column: "created_at", Op: OpGte, Values: []string{"2024-01-03"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("in", func(t *testing.T) {
		_, total, err := repo.List(context.Background(), ListOptions{
			Filters: []Filter{{Column: "user_id", Op: OpIn, Values: []string{"1", "2"}}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})
}

func TestListPagination(t *testing.T) {
	db := setupListingTestDB(t)
	seedPosts(t, db, 5)
	repo := NewPostRepository(db)

	posts, total, err := repo.List(context.Background(), ListOptions{Limit: 2, Offset: 4})
	require.NoError(t, err)
	// Total reflects the filtered set, not the page
	assert.Equal(t, int64(5), total)
	require.Len(t, posts, 1)
	assert.Equal(t, "post 0", posts[0].Text)
}

func TestListSelect(t *testing.T) {
	db := setupListingTestDB(t)
	seedPosts(t, db, 2)
	repo := NewPostRepository(db)

	posts, _, err := repo.List(context.Background(), ListOptions{
		Select: []string{"id", "text"},
	})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.NotEmpty(t, posts[0].Text)
	// Unselected columns come back zero-valued
	assert.Empty(t, posts[0].Name)
}

func TestListSortAscending(t *testing.T) {
	db := setupListingTestDB(t)
	seedPosts(t, db, 3)
	repo := NewPostRepository(db)

	posts, _, err := repo.List(context.Background(), ListOptions{
		Sort: []SortField{{Column: "created_at"}},
	})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "post 0", posts[0].Text)
}
