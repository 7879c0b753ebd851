package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventProfileChanged = "profile_changed"
	EventPostCreated    = "post_created"
	EventPostDeleted    = "post_deleted"
	EventAccountDeleted = "account_deleted"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for activity workers
const (
	ConsumerGroupActivity = "activity_workers"
)

// ActivityEvent is published to the activity stream after a mutation.
// Workers use it to invalidate listing caches and clean up storage;
// publishing is best-effort and never fails the originating request.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	UserID int64 `json:"user_id,omitempty"`
	PostID int64 `json:"post_id,omitempty"`

	// Account deletion carries the R2 object key of the avatar so the
	// worker can remove the orphaned object.
	AvatarKey string `json:"avatar_key,omitempty"`
}

// NewProfileChangedEvent marks a profile create or update.
func NewProfileChangedEvent(userID int64) ActivityEvent {
	return ActivityEvent{
		Type:      EventProfileChanged,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
	}
}

// NewPostCreatedEvent marks a new post.
func NewPostCreatedEvent(postID, authorID int64) ActivityEvent {
	return ActivityEvent{
		Type:      EventPostCreated,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		UserID:    authorID,
	}
}

// NewPostDeletedEvent marks a removed post.
func NewPostDeletedEvent(postID, authorID int64) ActivityEvent {
	return ActivityEvent{
		Type:      EventPostDeleted,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		UserID:    authorID,
	}
}

// NewAccountDeletedEvent marks a removed account and carries the avatar
// object key for cleanup (empty when the user had no uploaded avatar).
func NewAccountDeletedEvent(userID int64, avatarKey string) ActivityEvent {
	return ActivityEvent{
		Type:      EventAccountDeleted,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
		AvatarKey: avatarKey,
	}
}

// ToMap converts the event to a map for Redis XADD. Streams store
// field-value pairs, so the full event is serialized into a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	raw, ok := values["data"]
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing data field")
	}

	str, ok := raw.(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("data field is not a string")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(str), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}

	return event, nil
}
