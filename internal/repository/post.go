package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devconnect/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post. Likes and comments start empty.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (user_id, text, name, avatar, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, post.UserID, post.Text, post.Name, post.Avatar)
	if err := row.Scan(&post.ID, &post.CreatedAt); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	post.Likes = []model.Like{}
	post.Comments = []model.Comment{}
	return nil
}

// GetByID retrieves a single post with likes and comments.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, user_id, text, name, avatar, created_at
		FROM posts
		WHERE id = $1
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	likesMap, commentsMap, err := r.getSubRecords(ctx, []int64{postID})
	if err != nil {
		return nil, err
	}
	post.Likes = orEmptyLikes(likesMap[postID])
	post.Comments = orEmptyComments(commentsMap[postID])

	return &post, nil
}

// List returns posts newest-first. skip < 0 is treated as 0; limit <= 0
// means no cap.
func (r *postRepository) List(ctx context.Context, skip, limit int) ([]model.Post, error) {
	if skip < 0 {
		skip = 0
	}

	query := `
		SELECT id, user_id, text, name, avatar, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		OFFSET $1
	`
	args := []interface{}{skip}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var posts []model.Post
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	postIDs := make([]int64, len(posts))
	for i := range posts {
		postIDs[i] = posts[i].ID
	}

	likesMap, commentsMap, err := r.getSubRecords(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Likes = orEmptyLikes(likesMap[posts[i].ID])
		posts[i].Comments = orEmptyComments(commentsMap[posts[i].ID])
	}

	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

// GetOwnerID returns the post's owning user id.
func (r *postRepository) GetOwnerID(ctx context.Context, postID int64) (int64, error) {
	var ownerID int64
	err := r.db.GetContext(ctx, &ownerID, `SELECT user_id FROM posts WHERE id = $1`, postID)
	if err == sql.ErrNoRows {
		return 0, model.ErrPostNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get post owner: %w", err)
	}
	return ownerID, nil
}

// Delete removes a post; likes and comments cascade.
func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}

	return nil
}

// Like inserts a like entry. The unique index doubles as the idempotency
// guard: a duplicate insert maps to ErrAlreadyLiked.
func (r *postRepository) Like(ctx context.Context, postID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// Unlike removes a like entry. Zero rows affected means the caller never
// liked the post.
func (r *postRepository) Unlike(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}

	return nil
}

// AddComment inserts a comment on a post.
func (r *postRepository) AddComment(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO post_comments (id, post_id, user_id, text, name, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Text, comment.Name, comment.Avatar)
	if err := row.Scan(&comment.CreatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// GetComment retrieves a comment, scoped to its post.
func (r *postRepository) GetComment(ctx context.Context, postID int64, commentID string) (*model.Comment, error) {
	query := `
		SELECT id, post_id, user_id, text, name, avatar, created_at
		FROM post_comments
		WHERE id = $1 AND post_id = $2
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// RemoveComment deletes a comment by id.
func (r *postRepository) RemoveComment(ctx context.Context, commentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}

	return nil
}

// getSubRecords batch-fetches likes and comments for many posts,
// newest-first within each post.
func (r *postRepository) getSubRecords(ctx context.Context, postIDs []int64) (map[int64][]model.Like, map[int64][]model.Comment, error) {
	likesMap := make(map[int64][]model.Like)
	commentsMap := make(map[int64][]model.Comment)
	if len(postIDs) == 0 {
		return likesMap, commentsMap, nil
	}

	type likeRow struct {
		PostID int64 `db:"post_id"`
		UserID int64 `db:"user_id"`
	}
	var likes []likeRow
	err := r.db.SelectContext(ctx, &likes, `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`, pq.Array(postIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("get likes: %w", err)
	}
	for _, l := range likes {
		likesMap[l.PostID] = append(likesMap[l.PostID], model.Like{UserID: l.UserID})
	}

	var comments []model.Comment
	err = r.db.SelectContext(ctx, &comments, `
		SELECT id, post_id, user_id, text, name, avatar, created_at
		FROM post_comments
		WHERE post_id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`, pq.Array(postIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("get comments: %w", err)
	}
	for _, c := range comments {
		commentsMap[c.PostID] = append(commentsMap[c.PostID], c)
	}

	return likesMap, commentsMap, nil
}

func orEmptyLikes(s []model.Like) []model.Like {
	if s == nil {
		return []model.Like{}
	}
	return s
}

func orEmptyComments(s []model.Comment) []model.Comment {
	if s == nil {
		return []model.Comment{}
	}
	return s
}
