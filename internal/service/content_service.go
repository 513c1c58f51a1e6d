package service

import (
	"context"
	"errors"

	"newsAggregator/internal/models"
	"newsAggregator/internal/pagination"
	"newsAggregator/internal/repository"
)

type ContentService interface {
	ListStories(ctx context.Context, page int) (*pagination.Page[models.Story], error)
	ListStoriesBy(ctx context.Context, username string, page int) (*pagination.Page[models.Story], error)
	GetStory(ctx context.Context, id int64) (*models.Story, error)
	GetStoryBy(ctx context.Context, username string, id int64) (*models.Story, error)
	CreateStory(ctx context.Context, in models.CreateStoryRequest) (*models.Story, error)
	UpdateStory(ctx context.Context, id int64, in models.UpdateStoryRequest) error
	DeleteStory(ctx context.Context, id int64) error

	ListComments(ctx context.Context, storyID int64) ([]models.Comment, error)
	GetComment(ctx context.Context, storyID, commentID int64) (*models.Comment, error)
	AddComment(ctx context.Context, storyID int64, in models.CreateCommentRequest) (*models.Comment, error)
	UpdateComment(ctx context.Context, storyID, commentID int64, in models.UpdateCommentRequest) error
	DeleteComment(ctx context.Context, storyID, commentID int64) error
}

type contentService struct {
	feed     repository.Feed
	stories  repository.StoryRepository
	comments repository.CommentRepository
	opts     Options
}

func NewContentService(feed repository.Feed, stories repository.StoryRepository, comments repository.CommentRepository, opts Options) ContentService {
	return &contentService{
		feed:     feed,
		stories:  stories,
		comments: comments,
		opts:     opts.withDefaults(),
	}
}

// storySource pages over one feed's stories and attaches their comments.
type storySource struct {
	stories  repository.StoryRepository
	comments repository.CommentRepository
	by       string
}

func (s storySource) Count(ctx context.Context, max int) (int, error) {
	return s.stories.Count(ctx, s.by, max)
}

func (s storySource) Fetch(ctx context.Context, offset, limit int) ([]models.Story, error) {
	stories, err := s.stories.List(ctx, s.by, offset, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(stories))
	for i := range stories {
		ids[i] = stories[i].ID
	}

	grouped, err := s.comments.ListByStories(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range stories {
		stories[i].Comments = grouped[stories[i].ID]
		if stories[i].Comments == nil {
			stories[i].Comments = []models.Comment{}
		}
	}

	return stories, nil
}

func (s *contentService) ListStories(ctx context.Context, page int) (*pagination.Page[models.Story], error) {
	return s.list(ctx, "", page, emptyFeedMessages[s.feed.Name])
}

func (s *contentService) ListStoriesBy(ctx context.Context, username string, page int) (*pagination.Page[models.Story], error) {
	return s.list(ctx, username, page, MsgAuthorStoriesEmpty)
}

func (s *contentService) list(ctx context.Context, by string, page int, emptyMessage string) (*pagination.Page[models.Story], error) {
	src := storySource{stories: s.stories, comments: s.comments, by: by}

	// the empty collection is reported before paging
	count, err := src.Count(ctx, 1)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &NotFoundError{Message: emptyMessage}
	}

	result, err := pagination.Paginate[models.Story](ctx, src, page, pagination.DefaultOptions())
	if err != nil {
		return nil, err
	}
	if page > result.Pages {
		return nil, &NotFoundError{Message: MsgPageNotFound}
	}

	return result, nil
}

func (s *contentService) GetStory(ctx context.Context, id int64) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgStoryNotFound)
	}

	return s.withComments(ctx, story)
}

func (s *contentService) GetStoryBy(ctx context.Context, username string, id int64) (*models.Story, error) {
	story, err := s.stories.GetByAuthor(ctx, username, id)
	if err != nil {
		return nil, notFound(err, MsgAuthorStoryNotFound)
	}

	return s.withComments(ctx, story)
}

func (s *contentService) withComments(ctx context.Context, story *models.Story) (*models.Story, error) {
	comments, err := s.comments.ListByStory(ctx, story.ID)
	if err != nil {
		return nil, err
	}

	story.Comments = comments
	return story, nil
}

func (s *contentService) CreateStory(ctx context.Context, in models.CreateStoryRequest) (*models.Story, error) {
	story := &models.Story{
		Item: models.Item{
			Deleted:     models.Ptr(false),
			Type:        models.Ptr(models.TypeStory),
			By:          models.Ptr(in.By),
			Time:        s.opts.Now().Unix(),
			Text:        models.Ptr(in.Text),
			Dead:        models.Ptr(false),
			Parent:      nil,
			Poll:        nil,
			URL:         models.Ptr(in.URL),
			Score:       models.Ptr(int64(1)),
			Title:       models.Ptr(in.Title),
			Parts:       models.IntList{},
			Descendants: nil,
			Origin:      models.Ptr(s.opts.Origin),
		},
		Comments: []models.Comment{},
	}

	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}

func (s *contentService) UpdateStory(ctx context.Context, id int64, in models.UpdateStoryRequest) error {
	if err := s.storyExists(ctx, id); err != nil {
		return err
	}

	err := s.stories.Update(ctx, id, in, s.opts.Now().Unix())
	return notFound(err, MsgStoryNotFound)
}

func (s *contentService) DeleteStory(ctx context.Context, id int64) error {
	if err := s.storyExists(ctx, id); err != nil {
		return err
	}

	return notFound(s.stories.Delete(ctx, id), MsgStoryNotFound)
}

func (s *contentService) ListComments(ctx context.Context, storyID int64) ([]models.Comment, error) {
	if err := s.storyExists(ctx, storyID); err != nil {
		return nil, err
	}

	return s.comments.ListByStory(ctx, storyID)
}

func (s *contentService) GetComment(ctx context.Context, storyID, commentID int64) (*models.Comment, error) {
	return s.locateComment(ctx, storyID, commentID)
}

// AddComment stamps every server-owned field. The story check and the insert
// are separate statements, so a story deleted in between goes unnoticed.
func (s *contentService) AddComment(ctx context.Context, storyID int64, in models.CreateCommentRequest) (*models.Comment, error) {
	if err := s.storyExists(ctx, storyID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Item: models.Item{
		Deleted:     models.Ptr(false),
		Type:        models.Ptr(models.TypeComment),
		By:          models.Ptr(in.By),
		Time:        s.opts.Now().Unix(),
		Text:        models.Ptr(in.Text),
		Dead:        models.Ptr(false),
		Parent:      models.Ptr(storyID),
		Kids:        models.IntList{},
		Descendants: models.Ptr(int64(0)),
		Origin:      models.Ptr(s.opts.Origin),
	}}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *contentService) UpdateComment(ctx context.Context, storyID, commentID int64, in models.UpdateCommentRequest) error {
	if _, err := s.locateComment(ctx, storyID, commentID); err != nil {
		return err
	}

	err := s.comments.UpdateText(ctx, commentID, in.Text, s.opts.Now().Unix())
	return notFound(err, MsgCommentNotFound)
}

func (s *contentService) DeleteComment(ctx context.Context, storyID, commentID int64) error {
	if _, err := s.locateComment(ctx, storyID, commentID); err != nil {
		return err
	}

	return notFound(s.comments.Delete(ctx, commentID), MsgCommentNotFound)
}

func (s *contentService) storyExists(ctx context.Context, id int64) error {
	_, err := s.stories.GetByID(ctx, id)
	return notFound(err, MsgStoryNotFound)
}

// locateComment checks the story first and then finds the comment by id alone.
func (s *contentService) locateComment(ctx context.Context, storyID, commentID int64) (*models.Comment, error) {
	if err := s.storyExists(ctx, storyID); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, MsgCommentNotFound)
	}

	return comment, nil
}

// notFound turns repository.ErrNotFound into a NotFoundError carrying message.
func notFound(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Message: message}
	}
	return err
}
