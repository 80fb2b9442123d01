package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"forumfront/internal/model"
)

// Rows are scanned into these structs and converted to model types here.
// Any shape the store should never produce is rejected with ErrMalformedRecord.

type postRow struct {
	ID             uuid.UUID      `db:"id"`
	Title          string         `db:"title"`
	Content        string         `db:"content"`
	AuthorID       uuid.UUID      `db:"author_id"`
	CategoryID     uuid.NullUUID  `db:"category_id"`
	CreatedAt      time.Time      `db:"created_at"`
	AuthorUsername sql.NullString `db:"author_username"`
	CategoryName   sql.NullString `db:"category_name"`
	CategoryColor  sql.NullString `db:"category_color"`
}

func (row postRow) toModel() (model.Post, error) {
	if !row.AuthorUsername.Valid {
		return model.Post{}, fmt.Errorf("%w: post %s has no author profile", model.ErrMalformedRecord, row.ID)
	}

	post := model.Post{
		ID:             row.ID,
		Title:          row.Title,
		Content:        row.Content,
		AuthorID:       row.AuthorID,
		CreatedAt:      row.CreatedAt,
		AuthorUsername: row.AuthorUsername.String,
	}

	if row.CategoryID.Valid {
		if !row.CategoryName.Valid || !row.CategoryColor.Valid {
			return model.Post{}, fmt.Errorf("%w: post %s references missing category %s",
				model.ErrMalformedRecord, row.ID, row.CategoryID.UUID)
		}
		id := row.CategoryID.UUID
		post.CategoryID = &id
		post.Category = &model.CategoryBadge{Name: row.CategoryName.String, Color: row.CategoryColor.String}
	} else if row.CategoryName.Valid || row.CategoryColor.Valid {
		return model.Post{}, fmt.Errorf("%w: post %s has category fields without category id", model.ErrMalformedRecord, row.ID)
	}

	return post, nil
}

type commentRow struct {
	ID             uuid.UUID      `db:"id"`
	PostID         uuid.UUID      `db:"post_id"`
	AuthorID       uuid.UUID      `db:"author_id"`
	Content        string         `db:"content"`
	CreatedAt      time.Time      `db:"created_at"`
	AuthorUsername sql.NullString `db:"author_username"`
}

func (row commentRow) toModel() (model.Comment, error) {
	if !row.AuthorUsername.Valid {
		return model.Comment{}, fmt.Errorf("%w: comment %s has no author profile", model.ErrMalformedRecord, row.ID)
	}
	return model.Comment{
		ID:             row.ID,
		PostID:         row.PostID,
		AuthorID:       row.AuthorID,
		Content:        row.Content,
		CreatedAt:      row.CreatedAt,
		AuthorUsername: row.AuthorUsername.String,
	}, nil
}

type reactionRow struct {
	ID        uuid.UUID    `db:"id"`
	SubjectID uuid.UUID    `db:"subject_id"`
	UserID    uuid.UUID    `db:"user_id"`
	IsLike    sql.NullBool `db:"is_like"`
}

func (row reactionRow) toModel() (model.Reaction, error) {
	if !row.IsLike.Valid {
		return model.Reaction{}, fmt.Errorf("%w: reaction %s has no polarity", model.ErrMalformedRecord, row.ID)
	}
	return model.Reaction{
		ID:        row.ID,
		SubjectID: row.SubjectID,
		UserID:    row.UserID,
		IsLike:    row.IsLike.Bool,
	}, nil
}

func toReactions(rows []reactionRow) ([]model.Reaction, error) {
	out := make([]model.Reaction, 0, len(rows))
	for _, row := range rows {
		r, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// uuidArray binds ids for "= ANY($n::uuid[])".
func uuidArray(ids []uuid.UUID) interface{} {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	return pq.StringArray(s)
}

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23503"
}
