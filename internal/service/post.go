package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"devconnect/internal/cache"
	"devconnect/internal/model"
	"devconnect/internal/queue"
	"devconnect/internal/repository"
)

// PostService implements the post feed: create/delete, likes, comments.
// The public feed listing goes through the Redis page cache; post creation
// and deletion publish activity events so the worker can invalidate pages.
// Like and comment churn is left to the cache TTL.
type PostService struct {
	postRepo     repository.PostRepository
	listingCache cache.ListingCache
	publisher    queue.Publisher
}

func NewPostService(
	postRepo repository.PostRepository,
	listingCache cache.ListingCache,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		listingCache: listingCache,
		publisher:    publisher,
	}
}

// Create stores a new post owned by the caller. Name and avatar arrive in
// the request body and are denormalized onto the post, so it keeps
// rendering after the author deletes their account.
func (s *PostService) Create(ctx context.Context, userID int64, req *model.PostRequest) (*model.Post, error) {
	post := &model.Post{
		UserID: userID,
		Text:   req.Text,
		Name:   optional(req.Name),
		Avatar: optional(req.Avatar),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.publishActivity(queue.NewPostCreatedEvent(post.ID, userID))

	return post, nil
}

// List returns one rendered page of the post feed, newest-first, via the
// listing cache.
func (s *PostService) List(ctx context.Context, skip, limit int) ([]byte, error) {
	if data, found, err := s.listingCache.GetPage(ctx, cache.PostsCachePrefix, skip, limit); err == nil && found {
		return data, nil
	} else if err != nil {
		log.Printf("[PostService] listing cache read failed: %v", err)
	}

	posts, err := s.postRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	data, err := json.Marshal(posts)
	if err != nil {
		return nil, fmt.Errorf("failed to render posts: %w", err)
	}

	if err := s.listingCache.SetPage(ctx, cache.PostsCachePrefix, skip, limit, json.RawMessage(data)); err != nil {
		log.Printf("[PostService] listing cache write failed: %v", err)
	}

	return data, nil
}

// Get returns a single post with likes and comments.
func (s *PostService) Get(ctx context.Context, postID int64) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// Delete removes a post. Only the owner may delete; the ownership check
// and the delete are two sequential store calls, like the rest of the
// mutation paths.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	ownerID, err := s.postRepo.GetOwnerID(ctx, postID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return model.ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.publishActivity(queue.NewPostDeletedEvent(postID, userID))

	return nil
}

// Like records the caller's like and returns the updated post. Liking an
// already-liked post fails.
func (s *PostService) Like(ctx context.Context, userID, postID int64) (*model.Post, error) {
	if _, err := s.postRepo.GetOwnerID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.postRepo.Like(ctx, postID, userID); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID)
}

// Unlike removes the caller's like and returns the updated post. Unliking
// a post the caller never liked fails.
func (s *PostService) Unlike(ctx context.Context, userID, postID int64) (*model.Post, error) {
	if _, err := s.postRepo.GetOwnerID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.postRepo.Unlike(ctx, postID, userID); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID)
}

// AddComment adds a comment to a post and returns the updated post.
func (s *PostService) AddComment(ctx context.Context, userID, postID int64, req *model.PostRequest) (*model.Post, error) {
	if _, err := s.postRepo.GetOwnerID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:     uuid.New().String(),
		PostID: postID,
		UserID: userID,
		Text:   req.Text,
		Name:   optional(req.Name),
		Avatar: optional(req.Avatar),
	}

	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.postRepo.GetByID(ctx, postID)
}

// RemoveComment deletes a comment from a post and returns the updated
// post. Only the comment's author may remove it.
func (s *PostService) RemoveComment(ctx context.Context, userID, postID int64, commentID string) (*model.Post, error) {
	// Comment ids are uuid columns; a malformed id can never match a
	// row, so it is not-found rather than a database type error.
	if _, err := uuid.Parse(commentID); err != nil {
		return nil, model.ErrCommentNotFound
	}

	comment, err := s.postRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, model.ErrNotCommentOwner
	}

	if err := s.postRepo.RemoveComment(ctx, commentID); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) publishActivity(event queue.ActivityEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := s.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
		log.Printf("[PostService] failed to publish %s event: %v", event.Type, err)
	}
}
