package services

import (
	"context"
	"errors"
	"time"

	"github.com/sportclub-app/sportclub-backend/internal/logger"
	"github.com/sportclub-app/sportclub-backend/internal/models"
	"github.com/sportclub-app/sportclub-backend/internal/repositories"
)

// Error variables
var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotOwner     = errors.New("not the owner of the entity")
)

// PostRepo defines the repository operations the post service needs.
type PostRepo interface {
	Get(ctx context.Context, id int64) (*models.PostDB, error)
	GetDetail(ctx context.Context, id int64) (*models.PostDetail, error)
	Create(ctx context.Context, in repositories.PostCreate) (*models.PostDB, error)
	Update(ctx context.Context, id int64, values map[string]any) (*models.PostDB, error)
	ListFilteredByTime(ctx context.Context, filter models.PostFilter) ([]models.PostDB, error)
}

// PostInput carries the validated fields for a new post.
type PostInput struct {
	Title       string
	Description *string
	Photo       *string
}

// PostAdminInput additionally allows a moderation status override.
type PostAdminInput struct {
	PostInput
	Status *models.PostStatus
}

// PostUpdateInput carries a partial post update. Nil fields are left
// untouched.
type PostUpdateInput struct {
	Title       *string
	Description *string
	Photo       *string
}

// PostAdminUpdateInput additionally allows moderation transitions.
type PostAdminUpdateInput struct {
	PostUpdateInput
	Status *models.PostStatus
}

// PostService handles post reads, writes and moderation.
type PostService struct {
	repo   PostRepo
	events KafkaWriter
}

// NewPostService creates a new PostService instance.
func NewPostService(repo PostRepo, events KafkaWriter) *PostService {
	return &PostService{repo: repo, events: events}
}

// Get returns the post enriched with its owner's public profile.
func (svc *PostService) Get(ctx context.Context, id int64) (*models.PostDetail, error) {
	post, err := svc.repo.GetDetail(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get post", "id", id, "err", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// List returns posts matching the filter, most recent first.
func (svc *PostService) List(ctx context.Context, filter models.PostFilter) ([]models.PostDB, error) {
	return svc.repo.ListFilteredByTime(ctx, filter)
}

// Create creates a post owned by user. Moderation always starts at
// pending on this path.
func (svc *PostService) Create(ctx context.Context, user *models.UserDB, in PostInput) (*models.PostDB, error) {
	post, err := svc.repo.Create(ctx, repositories.PostCreate{
		Title:       in.Title,
		Description: in.Description,
		Photo:       in.Photo,
		OwnerID:     user.ID,
		Status:      models.PostStatusPending,
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, svc.events, models.Event{
		Type:     "post.created",
		EntityID: post.ID,
		ActorID:  user.ID,
		Detail:   string(post.Status),
		At:       time.Now(),
	})
	return post, nil
}

// CreateAdmin creates a post on the privileged path, honoring a
// caller-specified moderation status when present.
func (svc *PostService) CreateAdmin(ctx context.Context, user *models.UserDB, in PostAdminInput) (*models.PostDB, error) {
	status := models.PostStatusPending
	if in.Status != nil {
		status = *in.Status
	}

	post, err := svc.repo.Create(ctx, repositories.PostCreate{
		Title:       in.Title,
		Description: in.Description,
		Photo:       in.Photo,
		OwnerID:     user.ID,
		Status:      status,
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, svc.events, models.Event{
		Type:     "post.created",
		EntityID: post.ID,
		ActorID:  user.ID,
		Detail:   string(post.Status),
		At:       time.Now(),
	})
	return post, nil
}

// Update applies a partial update to a post owned by user. A non-owner
// gets ErrNotOwner; moderation status is not settable on this path.
func (svc *PostService) Update(ctx context.Context, user *models.UserDB, id int64, in PostUpdateInput) (*models.PostDB, error) {
	post, err := svc.repo.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get post", "id", id, "err", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.OwnerID != user.ID {
		logger.Log.Errorw("post update by non-owner", "id", id, "user_id", user.ID)
		return nil, ErrNotOwner
	}

	return svc.repo.Update(ctx, id, postUpdateValues(in))
}

// UpdateAdmin applies a partial update on the privileged path,
// including moderation transitions (pending to approved or rejected).
func (svc *PostService) UpdateAdmin(ctx context.Context, user *models.UserDB, id int64, in PostAdminUpdateInput) (*models.PostDB, error) {
	post, err := svc.repo.Get(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get post", "id", id, "err", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	values := postUpdateValues(in.PostUpdateInput)
	if in.Status != nil {
		values["status"] = *in.Status
	}

	updated, err := svc.repo.Update(ctx, id, values)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}

	if in.Status != nil && *in.Status != post.Status {
		publishEvent(ctx, svc.events, models.Event{
			Type:     "post.status_changed",
			EntityID: updated.ID,
			ActorID:  user.ID,
			Detail:   string(post.Status) + " -> " + string(updated.Status),
			At:       time.Now(),
		})
	}
	return updated, nil
}

func postUpdateValues(in PostUpdateInput) map[string]any {
	values := map[string]any{}
	if in.Title != nil {
		values["title"] = *in.Title
	}
	if in.Description != nil {
		values["description"] = *in.Description
	}
	if in.Photo != nil {
		values["photo"] = *in.Photo
	}
	return values
}
