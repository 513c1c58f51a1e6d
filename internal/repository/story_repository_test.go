package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsAggregator/internal/models"
)

var itemRowColumns = []string{
	"id", "deleted", "type", "by", "time", "text", "dead", "parent", "poll",
	"kids", "url", "score", "title", "parts", "descendants", "origin",
}

func storyRow(rows *sqlmock.Rows, id int64, by string, time int64) *sqlmock.Rows {
	return rows.AddRow(id, false, "story", by, time, "t", false, nil, nil, nil, "http://x", 1, "T", "[]", nil, "my_blog")
}

func TestStoryRepository_Count(t *testing.T) {
	db, mock := setupMockDB(t, sqlmock.QueryMatcherEqual)
	repo := NewStoryRepository(db, BlogNews)

	t.Run("all authors", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT(*) FROM (SELECT id FROM blog_news_story LIMIT $1) AS capped`).
			WithArgs(500).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.Count(context.Background(), "", 500)

		require.NoError(t, err)
		assert.Equal(t, 42, count)
	})

	t.Run("one author", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT(*) FROM (SELECT id FROM blog_news_story WHERE "by" = $1 LIMIT $2) AS capped`).
			WithArgs("alice", 500).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.Count(context.Background(), "alice", 500)

		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_List(t *testing.T) {
	db, mock := setupMockDB(t, sqlmock.QueryMatcherEqual)
	repo := NewStoryRepository(db, TopStories)

	rows := sqlmock.NewRows(itemRowColumns)
	storyRow(rows, 9, "alice", 200)
	storyRow(rows, 8, "bob", 100)

	mock.ExpectQuery(`SELECT ` + itemColumns + ` FROM hacker_news_top_story ORDER BY time DESC, id DESC LIMIT $1 OFFSET $2`).
		WithArgs(30, 60).
		WillReturnRows(rows)

	stories, err := repo.List(context.Background(), "", 60, 30)

	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, int64(9), stories[0].ID)
	assert.Equal(t, "alice", *stories[0].By)
	assert.Nil(t, stories[0].Kids)
	assert.Equal(t, models.IntList{}, stories[0].Parts)
	assert.Nil(t, stories[0].Descendants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t, sqlmock.QueryMatcherEqual)
	repo := NewStoryRepository(db, BlogNews)
	query := `SELECT ` + itemColumns + ` FROM blog_news_story WHERE id = $1`

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(int64(1)).WillReturnRows(storyRow(sqlmock.NewRows(itemRowColumns), 1, "alice", 100))

		story, err := repo.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, "T", *story.Title)
		assert.Equal(t, int64(100), story.Time)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(int64(2)).WillReturnError(sql.ErrNoRows)

		story, err := repo.GetByID(context.Background(), 2)

		assert.Nil(t, story)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_GetByAuthor(t *testing.T) {
	db, mock := setupMockDB(t, sqlmock.QueryMatcherEqual)
	repo := NewStoryRepository(db, BlogNews)

	mock.ExpectQuery(`SELECT `+itemColumns+` FROM blog_news_story WHERE id = $1 AND "by" = $2`).
		WithArgs(int64(1), "bob").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByAuthor(context.Background(), "bob", 1)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db, BlogNews)

	story := &models.Story{Item: models.Item{
		Deleted: models.Ptr(false),
		Type:    models.Ptr(models.TypeStory),
		By:      models.Ptr("alice"),
		Time:    1700000000,
		Text:    models.Ptr("t"),
		Dead:    models.Ptr(false),
		URL:     models.Ptr("http://x"),
		Score:   models.Ptr(int64(1)),
		Title:   models.Ptr("T"),
		Parts:   models.IntList{},
		Origin:  models.Ptr("my_blog"),
	}}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO blog_news_story (`+insertColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`)).
		WithArgs(false, "story", "alice", int64(1700000000), "t", false, nil, nil, nil, "http://x", int64(1), "T", "[]", nil, "my_blog").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	require.NoError(t, repo.Create(context.Background(), story))
	assert.Equal(t, int64(11), story.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_UpdateDelete(t *testing.T) {
	db, mock := setupMockDB(t, sqlmock.QueryMatcherEqual)
	repo := NewStoryRepository(db, BlogNews)
	ctx := context.Background()
	in := models.UpdateStoryRequest{Text: "new", URL: "http://y", Title: "New"}

	mock.ExpectExec(`UPDATE blog_news_story SET text = $1, url = $2, title = $3, time = $4 WHERE id = $5`).
		WithArgs("new", "http://y", "New", int64(1700000100), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM blog_news_story WHERE id = $1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM blog_news_story WHERE id = $1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM blog_news_story WHERE id = $1`).
		WithArgs(int64(2)).
		WillReturnError(errors.New("connection failed"))

	assert.NoError(t, repo.Update(ctx, 1, in, 1700000100))
	assert.NoError(t, repo.Delete(ctx, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 1), ErrNotFound)

	err := repo.Delete(ctx, 2)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoryRepository_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStoryRepository(db, NewStories)

	story := &models.Story{Item: models.Item{
		ID:          8863,
		Type:        models.Ptr(models.TypeStory),
		By:          models.Ptr("dhouston"),
		Time:        1175714200,
		Kids:        models.IntList{9224, 8917},
		Descendants: models.Ptr(int64(71)),
		Origin:      models.Ptr("hacker_news"),
	}}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO hacker_news_new_story (`+itemColumns+`) VALUES ($1, $2,`) + `.*` +
		regexp.QuoteMeta(`ON CONFLICT (id) DO UPDATE SET deleted = excluded.deleted`) + `.*` +
		regexp.QuoteMeta(`WHERE hacker_news_new_story.origin = excluded.origin`)).
		WithArgs(int64(8863), nil, "story", "dhouston", int64(1175714200), nil, nil, nil, nil,
			"[9224,8917]", nil, nil, nil, nil, int64(71), "hacker_news").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), story))
	assert.NoError(t, mock.ExpectationsWereMet())
}
