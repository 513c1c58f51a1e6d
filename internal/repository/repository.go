package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"newsAggregator/internal/database"
	"newsAggregator/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Executor is satisfied by *sqlx.DB, *sqlx.Tx, *sqlx.Conn and database.Session.
type Executor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

// UniqueViolationError is returned when an insert hits a unique constraint on Column.
type UniqueViolationError struct {
	Column string
	Err    error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on %s: %v", e.Column, e.Err)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// A Feed names the story and comment tables of one content collection.
type Feed struct {
	Name         string
	Domain       database.Domain
	StoryTable   string
	CommentTable string
}

var (
	BlogNews = Feed{
		Name:         "blognews",
		Domain:       database.Blog,
		StoryTable:   "blog_news_story",
		CommentTable: "blog_news_story_comment",
	}
	TopStories = Feed{
		Name:         "topstories",
		Domain:       database.External,
		StoryTable:   "hacker_news_top_story",
		CommentTable: "hacker_news_top_story_comment",
	}
	NewStories = Feed{
		Name:         "newstories",
		Domain:       database.External,
		StoryTable:   "hacker_news_new_story",
		CommentTable: "hacker_news_new_story_comment",
	}
)

var Feeds = []Feed{BlogNews, TopStories, NewStories}

func FeedByName(name string) (Feed, bool) {
	for _, f := range Feeds {
		if f.Name == name {
			return f, true
		}
	}
	return Feed{}, false
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUUID(ctx context.Context, userUUID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdatePassword(ctx context.Context, userUUID, passwordHash string) error
	Delete(ctx context.Context, userUUID string) error
}

// StoryRepository lists stories newest first. An empty author means every author.
type StoryRepository interface {
	Count(ctx context.Context, by string, max int) (int, error)
	List(ctx context.Context, by string, offset, limit int) ([]models.Story, error)
	GetByID(ctx context.Context, id int64) (*models.Story, error)
	GetByAuthor(ctx context.Context, by string, id int64) (*models.Story, error)
	Create(ctx context.Context, story *models.Story) error
	Update(ctx context.Context, id int64, in models.UpdateStoryRequest, now int64) error
	Delete(ctx context.Context, id int64) error
	Upsert(ctx context.Context, story *models.Story) error
}

type CommentRepository interface {
	ListByStory(ctx context.Context, storyID int64) ([]models.Comment, error)
	ListByStories(ctx context.Context, storyIDs []int64) (map[int64][]models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateText(ctx context.Context, id int64, text string, now int64) error
	Delete(ctx context.Context, id int64) error
	Upsert(ctx context.Context, comment *models.Comment) error
}

type TablesRepository interface {
	CountRows(ctx context.Context, table string) (int, error)
}

const itemColumns = `id, deleted, type, "by", time, text, dead, parent, poll, kids, url, score, title, parts, descendants, origin`

// insertColumns leaves out id so the store assigns it.
const insertColumns = `deleted, type, "by", time, text, dead, parent, poll, kids, url, score, title, parts, descendants, origin`

const upsertSet = `deleted = excluded.deleted, type = excluded.type, "by" = excluded."by", time = excluded.time,
	text = excluded.text, dead = excluded.dead, parent = excluded.parent, poll = excluded.poll,
	kids = excluded.kids, url = excluded.url, score = excluded.score, title = excluded.title,
	parts = excluded.parts, descendants = excluded.descendants, origin = excluded.origin`

// upsertQuery inserts a row under its own id. A row already holding that id
// is only replaced when it came from the same origin.
func upsertQuery(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, %s) ON CONFLICT (id) DO UPDATE SET %s WHERE %s.origin = excluded.origin`,
		table, itemColumns, placeholders(15), upsertSet, table)
}

func insertArgs(it *models.Item) []interface{} {
	return []interface{}{
		it.Deleted, it.Type, it.By, it.Time, it.Text, it.Dead, it.Parent, it.Poll,
		it.Kids, it.URL, it.Score, it.Title, it.Parts, it.Descendants, it.Origin,
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isUniqueViolation reports whether err is a unique constraint failure on column,
// for postgres (SQLSTATE 23505) and sqlite.
func isUniqueViolation(err error, column string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" &&
			(strings.Contains(pqErr.Constraint, column) || strings.Contains(pqErr.Detail, "("+column+")"))
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "."+column)
}

func affected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
