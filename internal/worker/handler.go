package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"devconnect/internal/cache"
	"devconnect/internal/queue"
)

// ObjectDeleter removes stored media objects. Abstracts the media service
// so the worker doesn't depend on the S3 client directly.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// Handler processes activity events from the queue: it keeps the listing
// caches honest after writes and cleans up orphaned avatar objects.
type Handler struct {
	listingCache cache.ListingCache
	objects      ObjectDeleter // can be nil when media storage is not configured
}

// NewHandler creates a new event handler.
func NewHandler(listingCache cache.ListingCache, objects ObjectDeleter) *Handler {
	return &Handler{
		listingCache: listingCache,
		objects:      objects,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventProfileChanged:
		err = h.handleProfileChanged(ctx, event)
	case queue.EventPostCreated, queue.EventPostDeleted:
		err = h.handlePostChanged(ctx, event)
	case queue.EventAccountDeleted:
		err = h.handleAccountDeleted(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleProfileChanged drops cached profile-directory pages.
func (h *Handler) handleProfileChanged(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] ProfileChanged: user=%d", event.UserID)
	return h.listingCache.InvalidatePrefix(ctx, cache.ProfilesCachePrefix)
}

// handlePostChanged drops cached post-feed pages.
func (h *Handler) handlePostChanged(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] PostChanged: type=%s post=%d user=%d", event.Type, event.PostID, event.UserID)
	return h.listingCache.InvalidatePrefix(ctx, cache.PostsCachePrefix)
}

// handleAccountDeleted invalidates the directory and removes the avatar
// object left behind by the deleted account.
func (h *Handler) handleAccountDeleted(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] AccountDeleted: user=%d avatarKey=%q", event.UserID, event.AvatarKey)

	if err := h.listingCache.InvalidatePrefix(ctx, cache.ProfilesCachePrefix); err != nil {
		return err
	}

	if event.AvatarKey != "" && h.objects != nil {
		if err := h.objects.DeleteObject(ctx, event.AvatarKey); err != nil {
			return fmt.Errorf("delete avatar object: %w", err)
		}
	}

	return nil
}
