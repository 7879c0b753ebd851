package repository

import (
	"context"
	"time"

	"devconnect/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateAvatar(ctx context.Context, id int64, avatarURL, avatarKey string) error
	Delete(ctx context.Context, id int64) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ProfileRepository interface {
	// GetByUserID returns the full profile (user join, experience,
	// education) for a user, or model.ErrProfileNotFound.
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*model.Profile, error)
	// GetAll returns profiles newest-first with skip/limit paging.
	// limit <= 0 means no cap.
	GetAll(ctx context.Context, skip, limit int) ([]model.Profile, error)
	// HandleOwner returns the user id owning a handle, or
	// model.ErrProfileNotFound when the handle is free.
	HandleOwner(ctx context.Context, handle string) (int64, error)
	Create(ctx context.Context, p *model.Profile) error
	Update(ctx context.Context, p *model.Profile) error
	// Delete removes a user's profile. Missing profiles are not an error:
	// account deletion must succeed for users who never created one.
	Delete(ctx context.Context, userID int64) error

	AddExperience(ctx context.Context, exp *model.Experience) error
	// RemoveExperience deletes one entry by id within the given profile,
	// or model.ErrExperienceNotFound.
	RemoveExperience(ctx context.Context, profileID int64, expID string) error
	AddEducation(ctx context.Context, edu *model.Education) error
	RemoveEducation(ctx context.Context, profileID int64, eduID string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// GetByID returns a post with likes and comments newest-first, or
	// model.ErrPostNotFound.
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// List returns posts newest-first with skip/limit paging.
	List(ctx context.Context, skip, limit int) ([]model.Post, error)
	// GetOwnerID returns the post's owning user id, or model.ErrPostNotFound.
	GetOwnerID(ctx context.Context, postID int64) (int64, error)
	Delete(ctx context.Context, postID int64) error

	// Like inserts a like entry; model.ErrAlreadyLiked on duplicate.
	Like(ctx context.Context, postID, userID int64) error
	// Unlike removes a like entry; model.ErrNotLiked when absent.
	Unlike(ctx context.Context, postID, userID int64) error

	AddComment(ctx context.Context, comment *model.Comment) error
	// GetComment returns a comment within a post, or model.ErrCommentNotFound.
	GetComment(ctx context.Context, postID int64, commentID string) (*model.Comment, error)
	RemoveComment(ctx context.Context, commentID string) error
}
