package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"forumfront/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByPost returns the post's comments newest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
			   pr.username AS author_username
		FROM comments c
		LEFT JOIN profiles pr ON pr.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, 0, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
		ids = append(ids, c.ID)
	}

	reactions, err := reactionsFor(ctx, r.db, model.SubjectComment, ids)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].Reactions = reactions[comments[i].ID]
	}

	return comments, nil
}

// Create inserts a comment. A missing post surfaces as ErrPostNotFound.
func (r *commentRepository) Create(ctx context.Context, postID, authorID uuid.UUID, content string) (*model.Comment, error) {
	query := `
		WITH inserted AS (
			INSERT INTO comments (content, post_id, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, post_id, author_id, content, created_at
		)
		SELECT i.id, i.post_id, i.author_id, i.content, i.created_at,
			   pr.username AS author_username
		FROM inserted i
		LEFT JOIN profiles pr ON pr.id = i.author_id
	`
	var row commentRow
	if err := r.db.GetContext(ctx, &row, query, content, postID, authorID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	c, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &c, nil
}
