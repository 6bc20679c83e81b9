package repository

import (
	"context"
	"errors"

	"devlink/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts, likes, and comments.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, opts ListOptions) ([]models.Post, int64, error)
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, postID, userID uint) ([]models.Like, error)
	Unlike(ctx context.Context, postID, userID uint) ([]models.Like, error)
	AddComment(ctx context.Context, comment *models.Comment) ([]models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID uint) ([]models.Comment, error)
	GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	// Likes/Comments serialize as [] rather than null on a fresh post.
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Likes", newestFirst).
		Preload("Comments", newestFirst).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, opts ListOptions) ([]models.Post, int64, error) {
	var total int64
	counted := applyFilters(r.db.WithContext(ctx).Model(&models.Post{}), opts.Filters)
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	q := applyListOptions(r.db.WithContext(ctx).Model(&models.Post{}), opts)
	if len(opts.Select) == 0 {
		q = q.Preload("Likes", newestFirst).Preload("Comments", newestFirst)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) likesOf(ctx context.Context, postID uint) ([]models.Like, error) {
	likes := []models.Like{}
	if err := newestFirst(r.db.WithContext(ctx)).Where("post_id = ?", postID).Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

// Like records userID's like on the post. Returns a conflict error when the
// user already liked it.
func (r *postRepository) Like(ctx context.Context, postID, userID uint) ([]models.Like, error) {
	like := models.Like{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, models.NewConflictError("Post already liked")
		}
		return nil, models.NewInternalError(err)
	}
	return r.likesOf(ctx, postID)
}

func (r *postRepository) Unlike(ctx context.Context, postID, userID uint) ([]models.Like, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewValidationError("Post has not yet been liked")
	}
	return r.likesOf(ctx, postID)
}

func (r *postRepository) commentsOf(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := newestFirst(r.db.WithContext(ctx)).Where("post_id = ?", postID).Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *models.Comment) ([]models.Comment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.commentsOf(ctx, comment.PostID)
}

func (r *postRepository) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *postRepository) DeleteComment(ctx context.Context, postID, commentID uint) ([]models.Comment, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return r.commentsOf(ctx, postID)
}
