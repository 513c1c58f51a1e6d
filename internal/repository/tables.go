package repository

import (
	"context"
	"fmt"
)

type tablesRepository struct {
	db Executor
}

func NewTablesRepository(db Executor) TablesRepository {
	return &tablesRepository{db: db}
}

// CountRows counts the rows of one of the known feed or user tables.
func (r *tablesRepository) CountRows(ctx context.Context, table string) (int, error) {
	if !knownTable(table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var count int
	err := r.db.GetContext(ctx, &count, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table))
	if err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}

	return count, nil
}

func knownTable(table string) bool {
	if table == "users" {
		return true
	}
	for _, f := range Feeds {
		if table == f.StoryTable || table == f.CommentTable {
			return true
		}
	}
	return false
}
