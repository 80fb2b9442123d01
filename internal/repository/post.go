package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"forumfront/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postSelect = `
		SELECT p.id, p.title, p.content, p.author_id, p.category_id, p.created_at,
			   pr.username AS author_username,
			   c.name AS category_name, c.color AS category_color
		FROM posts p
		LEFT JOIN profiles pr ON pr.id = p.author_id
		LEFT JOIN categories c ON c.id = p.category_id`

// buildPostListQuery composes the list query. Filters are ANDed.
func buildPostListQuery(q PostListQuery) (string, []interface{}) {
	var where []string
	var args []interface{}

	if q.CategoryID != nil {
		args = append(args, *q.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if q.AuthorID != nil {
		args = append(args, *q.AuthorID)
		where = append(where, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if q.IDs != nil {
		args = append(args, uuidArray(q.IDs))
		where = append(where, fmt.Sprintf("p.id = ANY($%d::uuid[])", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(postSelect)
	if len(where) > 0 {
		sb.WriteString("\n\t\tWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString("\n\t\tORDER BY p.created_at DESC, p.id DESC")
	return sb.String(), args
}

// List returns posts matching q, newest first, fully expanded.
func (r *postRepository) List(ctx context.Context, q PostListQuery) ([]model.Post, error) {
	query, args := buildPostListQuery(q)

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]model.Post, 0, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		post, err := row.toModel()
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
		ids = append(ids, post.ID)
	}

	reactions, err := reactionsFor(ctx, r.db, model.SubjectPost, ids)
	if err != nil {
		return nil, err
	}
	commentIDs, err := r.getCommentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Reactions = reactions[posts[i].ID]
		posts[i].CommentIDs = commentIDs[posts[i].ID]
	}

	return posts, nil
}

// GetByID retrieves a single post with author, reactions and its categories.
func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var row postRow
	err := r.db.GetContext(ctx, &row, postSelect+"\n\t\tWHERE p.id = $1", id)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	post, err := row.toModel()
	if err != nil {
		return nil, err
	}

	reactions, err := reactionsFor(ctx, r.db, model.SubjectPost, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	post.Reactions = reactions[id]

	joined, err := r.getJoinedCategories(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Categories = mergeCategories(post.Category, joined)

	return &post, nil
}

// Create inserts a post and returns it with the author expanded.
func (r *postRepository) Create(ctx context.Context, authorID uuid.UUID, req model.CreatePostRequest) (*model.Post, error) {
	query := `
		INSERT INTO posts (title, content, author_id, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id uuid.UUID
	if err := r.db.GetContext(ctx, &id, query, req.Title, req.Content, authorID, req.CategoryID); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return r.GetByID(ctx, id)
}

// getCommentIDs fetches comment ids for multiple posts in one query.
func (r *postRepository) getCommentIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	out := make(map[uuid.UUID][]uuid.UUID, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	query := `SELECT id, post_id FROM comments WHERE post_id = ANY($1::uuid[])`
	var rows []struct {
		ID     uuid.UUID `db:"id"`
		PostID uuid.UUID `db:"post_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, uuidArray(postIDs)); err != nil {
		return nil, fmt.Errorf("get comment ids: %w", err)
	}
	for _, row := range rows {
		out[row.PostID] = append(out[row.PostID], row.ID)
	}
	return out, nil
}

func (r *postRepository) getJoinedCategories(ctx context.Context, postID uuid.UUID) ([]model.CategoryBadge, error) {
	query := `
		SELECT c.name, c.color
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = $1
		ORDER BY c.name
	`
	var badges []model.CategoryBadge
	if err := r.db.SelectContext(ctx, &badges, query, postID); err != nil {
		return nil, fmt.Errorf("get post categories: %w", err)
	}
	return badges, nil
}

// mergeCategories puts the primary category first and drops duplicates by name.
func mergeCategories(primary *model.CategoryBadge, joined []model.CategoryBadge) []model.CategoryBadge {
	out := make([]model.CategoryBadge, 0, len(joined)+1)
	seen := make(map[string]bool, len(joined)+1)
	if primary != nil {
		out = append(out, *primary)
		seen[primary.Name] = true
	}
	for _, b := range joined {
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		out = append(out, b)
	}
	return out
}
