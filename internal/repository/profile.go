package repository

import (
	"context"
	"errors"

	"devlink/internal/cache"
	"devlink/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles and their
// experience/education sub-collections.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context, opts ListOptions) ([]models.Profile, int64, error)
	Upsert(ctx context.Context, userID uint, fields map[string]any) (*models.Profile, error)
	AddExperience(ctx context.Context, userID uint, exp *models.Experience) (*models.Profile, error)
	DeleteExperience(ctx context.Context, userID, expID uint) (*models.Profile, error)
	AddEducation(ctx context.Context, userID uint, edu *models.Education) (*models.Profile, error)
	DeleteEducation(ctx context.Context, userID, eduID uint) (*models.Profile, error)
	DeleteAccount(ctx context.Context, userID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// newestFirst orders sub-collection entries to preserve the API's prepend
// semantics.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

// publicUser projects the embedded owner down to its public columns. Profile
// pages are unauthenticated, so the owner's email must not ride along.
func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "avatar")
}

func (r *profileRepository) getByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Preload("User", publicUser).
		Preload("Experience", newestFirst).
		Preload("Education", newestFirst).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.AppError{Code: "NOT_FOUND", Message: "There is no profile for this user"}
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	key := cache.ProfileKey(userID)

	err := cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
		p, err := r.getByUserID(ctx, userID)
		if err != nil {
			return err
		}
		profile = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, opts ListOptions) ([]models.Profile, int64, error) {
	var total int64
	counted := applyFilters(r.db.WithContext(ctx).Model(&models.Profile{}), opts.Filters)
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var profiles []models.Profile
	q := applyListOptions(r.db.WithContext(ctx).Model(&models.Profile{}), opts)
	// Field selection skips preloads: a projected row cannot carry relations.
	if len(opts.Select) == 0 {
		q = q.Preload("User", publicUser).
			Preload("Experience", newestFirst).
			Preload("Education", newestFirst)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return profiles, total, nil
}

// Upsert creates the caller's profile if absent, otherwise applies only the
// provided columns.
func (r *profileRepository) Upsert(ctx context.Context, userID uint, fields map[string]any) (*models.Profile, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Profile
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile := models.Profile{UserID: userID}
			if err := tx.Create(&profile).Error; err != nil {
				return models.NewInternalError(err)
			}
			return tx.Model(&profile).Updates(fields).Error
		case err != nil:
			return models.NewInternalError(err)
		default:
			return tx.Model(&existing).Updates(fields).Error
		}
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateProfile(ctx, userID)
	return r.getByUserID(ctx, userID)
}

func (r *profileRepository) AddExperience(ctx context.Context, userID uint, exp *models.Experience) (*models.Profile, error) {
	profile, err := r.getByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exp.ProfileID = profile.ID
	if err := r.db.WithContext(ctx).Create(exp).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateProfile(ctx, userID)
	return r.getByUserID(ctx, userID)
}

func (r *profileRepository) DeleteExperience(ctx context.Context, userID, expID uint) (*models.Profile, error) {
	profile, err := r.getByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", expID, profile.ID).
		Delete(&models.Experience{})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Experience", expID)
	}

	cache.InvalidateProfile(ctx, userID)
	return r.getByUserID(ctx, userID)
}

func (r *profileRepository) AddEducation(ctx context.Context, userID uint, edu *models.Education) (*models.Profile, error) {
	profile, err := r.getByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	edu.ProfileID = profile.ID
	if err := r.db.WithContext(ctx).Create(edu).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateProfile(ctx, userID)
	return r.getByUserID(ctx, userID)
}

func (r *profileRepository) DeleteEducation(ctx context.Context, userID, eduID uint) (*models.Profile, error) {
	profile, err := r.getByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", eduID, profile.ID).
		Delete(&models.Education{})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Education", eduID)
	}

	cache.InvalidateProfile(ctx, userID)
	return r.getByUserID(ctx, userID)
}

// DeleteAccount removes the user's posts, profile (with its sub-collections),
// and finally the user record in a single transaction.
func (r *profileRepository) DeleteAccount(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		var profile models.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if err == nil {
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Experience{}).Error; err != nil {
				return err
			}
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Education{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateProfile(ctx, userID)
	cache.InvalidateUser(ctx, userID)
	return nil
}
