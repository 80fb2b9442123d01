package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"forumfront/internal/model"
)

type reactionTable struct {
	name   string
	column string
}

// Table and column names come only from this map, never from input.
var reactionTables = map[model.SubjectKind]reactionTable{
	model.SubjectPost:    {name: "post_likes", column: "post_id"},
	model.SubjectComment: {name: "comment_likes", column: "comment_id"},
}

func tableFor(kind model.SubjectKind) (reactionTable, error) {
	t, ok := reactionTables[kind]
	if !ok {
		return reactionTable{}, fmt.Errorf("unknown reaction subject %q", kind)
	}
	return t, nil
}

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) ListBySubject(ctx context.Context, kind model.SubjectKind, subjectID uuid.UUID) ([]model.Reaction, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, %[2]s AS subject_id, user_id, is_like
		FROM %[1]s
		WHERE %[2]s = $1
		ORDER BY id
	`, t.name, t.column)

	var rows []reactionRow
	if err := r.db.SelectContext(ctx, &rows, query, subjectID); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return toReactions(rows)
}

func (r *reactionRepository) LikedSubjectIDs(ctx context.Context, kind model.SubjectKind, userID uuid.UUID) ([]uuid.UUID, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 AND is_like = true`, t.column, t.name)

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list liked %s: %w", t.name, err)
	}
	return ids, nil
}

func (r *reactionRepository) Insert(ctx context.Context, kind model.SubjectKind, subjectID, userID uuid.UUID, p model.Polarity) (*model.Reaction, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, user_id, is_like)
		VALUES ($1, $2, $3)
		RETURNING id, %[2]s AS subject_id, user_id, is_like
	`, t.name, t.column)

	var row reactionRow
	err = r.db.GetContext(ctx, &row, query, subjectID, userID, p.IsLike())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrDuplicateReaction
		}
		return nil, fmt.Errorf("insert %s: %w", t.name, err)
	}

	reaction, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) UpdatePolarity(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID, p model.Polarity) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET is_like = $3 WHERE id = $1 AND user_id = $2`, t.name)
	result, err := r.db.ExecContext(ctx, query, id, userID, p.IsLike())
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	return expectOneRow(result, t.name)
}

func (r *reactionRepository) Delete(ctx context.Context, kind model.SubjectKind, id, userID uuid.UUID) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, t.name)
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return expectOneRow(result, t.name)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOneRow(result rowsAffecter, table string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected on %s: %w", table, err)
	}
	if rows == 0 {
		return model.ErrReactionNotFound
	}
	return nil
}

// reactionsFor loads the reactions of many subjects in one query, grouped by subject.
func reactionsFor(ctx context.Context, q sqlx.QueryerContext, kind model.SubjectKind, ids []uuid.UUID) (map[uuid.UUID][]model.Reaction, error) {
	out := make(map[uuid.UUID][]model.Reaction, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, %[2]s AS subject_id, user_id, is_like
		FROM %[1]s
		WHERE %[2]s = ANY($1::uuid[])
		ORDER BY id
	`, t.name, t.column)

	var rows []reactionRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, uuidArray(ids)); err != nil {
		return nil, fmt.Errorf("get %s: %w", t.name, err)
	}

	for _, row := range rows {
		reaction, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out[row.SubjectID] = append(out[row.SubjectID], reaction)
	}
	return out, nil
}
