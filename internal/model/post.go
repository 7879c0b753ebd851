package model

import (
	"errors"
	"time"
)

// Post is a feed post. Name and avatar are denormalized at creation time,
// like the legacy documents, so posts survive account deletion intact.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user"`
	Text      string    `db:"text" json:"text"`
	Name      *string   `db:"name" json:"name,omitempty"`
	Avatar    *string   `db:"avatar" json:"avatar,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"date"`

	// Assembled fields, newest-first
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
}

// Like is a single entry in a post's likes set.
type Like struct {
	UserID int64 `db:"user_id" json:"user"`
}

// Comment is a comment on a post, rendered newest-first.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"-"`
	UserID    int64     `db:"user_id" json:"user"`
	Text      string    `db:"text" json:"text"`
	Name      *string   `db:"name" json:"name,omitempty"`
	Avatar    *string   `db:"avatar" json:"avatar,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"date"`
}

// PostRequest is the request body for creating a post or comment.
type PostRequest struct {
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Post text length bounds
const (
	MinPostTextLength = 10
	MaxPostTextLength = 300
)

// Post errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotPostOwner    = errors.New("not the owner of this post")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
)
