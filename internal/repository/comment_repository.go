package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"newsAggregator/internal/models"
)

type commentRepository struct {
	db    Executor
	table string
}

func NewCommentRepository(db Executor, feed Feed) CommentRepository {
	return &commentRepository{db: db, table: feed.CommentTable}
}

func (r *commentRepository) ListByStory(ctx context.Context, storyID int64) ([]models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE parent = ? ORDER BY time DESC, id DESC`, itemColumns, r.table)

	comments := []models.Comment{}
	err := r.db.SelectContext(ctx, &comments, r.db.Rebind(query), storyID)
	if err != nil {
		return nil, fmt.Errorf("list comments of story %d: %w", storyID, err)
	}

	return comments, nil
}

// ListByStories loads the comments of a page of stories in one query, grouped by story id.
func (r *commentRepository) ListByStories(ctx context.Context, storyIDs []int64) (map[int64][]models.Comment, error) {
	grouped := make(map[int64][]models.Comment, len(storyIDs))
	if len(storyIDs) == 0 {
		return grouped, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT %s FROM %s WHERE parent IN (?) ORDER BY time DESC, id DESC`, itemColumns, r.table),
		storyIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("build comments query: %w", err)
	}

	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list comments of stories: %w", err)
	}

	for _, c := range comments {
		if c.Parent == nil {
			continue
		}
		grouped[*c.Parent] = append(grouped[*c.Parent], c)
	}

	return grouped, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, itemColumns, r.table)

	var comment models.Comment
	err := r.db.GetContext(ctx, &comment, r.db.Rebind(query), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}

	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`, r.table, insertColumns, placeholders(15))

	err := r.db.GetContext(ctx, &comment.ID, r.db.Rebind(query), insertArgs(&comment.Item)...)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) UpdateText(ctx context.Context, id int64, text string, now int64) error {
	query := fmt.Sprintf(`UPDATE %s SET text = ?, time = ? WHERE id = ?`, r.table)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), text, now, id)
	if err != nil {
		return fmt.Errorf("update comment %d: %w", id, err)
	}

	return affected(result)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}

	return affected(result)
}

func (r *commentRepository) Upsert(ctx context.Context, comment *models.Comment) error {
	query := upsertQuery(r.table)

	args := append([]interface{}{comment.ID}, insertArgs(&comment.Item)...)
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert comment %d: %w", comment.ID, err)
	}

	return nil
}
