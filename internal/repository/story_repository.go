package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsAggregator/internal/models"
)

type storyRepository struct {
	db    Executor
	table string
}

func NewStoryRepository(db Executor, feed Feed) StoryRepository {
	return &storyRepository{db: db, table: feed.StoryTable}
}

func (r *storyRepository) byAuthor(by string) (string, []interface{}) {
	if by == "" {
		return "", nil
	}
	return ` WHERE "by" = ?`, []interface{}{by}
}

func (r *storyRepository) Count(ctx context.Context, by string, max int) (int, error) {
	where, args := r.byAuthor(by)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM (SELECT id FROM %s%s LIMIT ?) AS capped`, r.table, where)

	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(query), append(args, max)...)
	if err != nil {
		return 0, fmt.Errorf("count stories: %w", err)
	}

	return count, nil
}

func (r *storyRepository) List(ctx context.Context, by string, offset, limit int) ([]models.Story, error) {
	where, args := r.byAuthor(by)
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY time DESC, id DESC LIMIT ? OFFSET ?`, itemColumns, r.table, where)

	var stories []models.Story
	err := r.db.SelectContext(ctx, &stories, r.db.Rebind(query), append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	return stories, nil
}

func (r *storyRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, itemColumns, r.table)

	var story models.Story
	err := r.db.GetContext(ctx, &story, r.db.Rebind(query), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get story %d: %w", id, err)
	}

	return &story, nil
}

func (r *storyRepository) GetByAuthor(ctx context.Context, by string, id int64) (*models.Story, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND "by" = ?`, itemColumns, r.table)

	var story models.Story
	err := r.db.GetContext(ctx, &story, r.db.Rebind(query), id, by)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get story %d by %s: %w", id, by, err)
	}

	return &story, nil
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`, r.table, insertColumns, placeholders(15))

	err := r.db.GetContext(ctx, &story.ID, r.db.Rebind(query), insertArgs(&story.Item)...)
	if err != nil {
		return fmt.Errorf("create story: %w", err)
	}

	return nil
}

func (r *storyRepository) Update(ctx context.Context, id int64, in models.UpdateStoryRequest, now int64) error {
	query := fmt.Sprintf(`UPDATE %s SET text = ?, url = ?, title = ?, time = ? WHERE id = ?`, r.table)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), in.Text, in.URL, in.Title, now, id)
	if err != nil {
		return fmt.Errorf("update story %d: %w", id, err)
	}

	return affected(result)
}

// Delete removes the story. Its comments go with it through ON DELETE CASCADE.
func (r *storyRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table)

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("delete story %d: %w", id, err)
	}

	return affected(result)
}

// Upsert writes a story under its own id, replacing a previous copy from the
// same origin.
func (r *storyRepository) Upsert(ctx context.Context, story *models.Story) error {
	query := upsertQuery(r.table)

	args := append([]interface{}{story.ID}, insertArgs(&story.Item)...)
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert story %d: %w", story.ID, err)
	}

	return nil
}
