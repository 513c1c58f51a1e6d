package service

import (
	"context"

	"newsAggregator/internal/repository"
)

type FeedCounts struct {
	Stories  int `json:"stories"`
	Comments int `json:"comments"`
}

type TablesService interface {
	FeedCounts(ctx context.Context, feed repository.Feed) (FeedCounts, error)
	UserCount(ctx context.Context) (int, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) FeedCounts(ctx context.Context, feed repository.Feed) (FeedCounts, error) {
	stories, err := t.tablesRepo.CountRows(ctx, feed.StoryTable)
	if err != nil {
		return FeedCounts{}, err
	}

	comments, err := t.tablesRepo.CountRows(ctx, feed.CommentTable)
	if err != nil {
		return FeedCounts{}, err
	}

	return FeedCounts{Stories: stories, Comments: comments}, nil
}

func (t *tablesService) UserCount(ctx context.Context) (int, error) {
	return t.tablesRepo.CountRows(ctx, "users")
}
