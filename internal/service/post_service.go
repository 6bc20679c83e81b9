package service

import (
	"context"

	"devlink/internal/models"
	"devlink/internal/observability"
	"devlink/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const maxPostTextLen = 10000

// PostService implements post CRUD with the ownership rules for deletion,
// plus the like and comment sub-collections.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// NewPostService returns a PostService over the given repositories.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// Create stores a new post, denormalizing the author's name and avatar onto
// the record.
func (s *PostService) Create(ctx context.Context, userID uint, text string) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "post.create")
	defer span.End()
	span.AddAttributes(attribute.Int("user.id", int(userID)))

	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostTextLen {
		return nil, models.NewValidationError("Text too long (max 10000 characters)")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	post := &models.Post{
		UserID: userID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, opts repository.ListOptions) ([]models.Post, int64, error) {
	return s.postRepo.List(ctx, opts)
}

// Delete removes a post if the caller owns it.
func (s *PostService) Delete(ctx context.Context, postID, callerID uint) error {
	span, ctx := observability.NewSpan(ctx, "post.delete")
	defer span.End()
	span.AddAttributes(attribute.Int("post.id", int(postID)))

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		span.SetError(err)
		return err
	}
	if post.UserID != callerID {
		err := models.NewUnauthorizedError("You are not authorized to delete this post")
		span.SetError(err)
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// Like adds the caller's like; a second like of the same post is a conflict.
func (s *PostService) Like(ctx context.Context, postID, callerID uint) ([]models.Like, error) {
	span, ctx := observability.NewSpan(ctx, "post.like")
	defer span.End()
	span.AddAttributes(attribute.Int("post.id", int(postID)))

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		span.SetError(err)
		return nil, err
	}
	likes, err := s.postRepo.Like(ctx, postID, callerID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return likes, nil
}

// Unlike removes the caller's like; unliking a post never liked is an error.
func (s *PostService) Unlike(ctx context.Context, postID, callerID uint) ([]models.Like, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.Unlike(ctx, postID, callerID)
}

// Comment prepends a comment with the author's name and avatar denormalized.
func (s *PostService) Comment(ctx context.Context, postID, callerID uint, text string) ([]models.Comment, error) {
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: callerID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
	return s.postRepo.AddComment(ctx, comment)
}

// DeleteComment removes the addressed comment after checking it exists and
// the caller authored it.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID, callerID uint) ([]models.Comment, error) {
	comment, err := s.postRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != callerID {
		return nil, models.NewUnauthorizedError("You are not authorized to delete this comment")
	}
	return s.postRepo.DeleteComment(ctx, postID, commentID)
}
