package service

import (
	"time"

	"github.com/google/uuid"

	"newsAggregator/internal/password"
	"newsAggregator/internal/repository"
)

const DefaultRegisterAttempts = 5

type Options struct {
	// Origin tags every story, comment and user written through this deployment.
	Origin           string
	Now              func() time.Time
	NewID            func() string
	RegisterAttempts int
	Hasher           password.Hasher
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = func() string { return uuid.New().String() }
	}
	if o.RegisterAttempts <= 0 {
		o.RegisterAttempts = DefaultRegisterAttempts
	}
	if o.Hasher == nil {
		o.Hasher = password.NewArgon2(password.DefaultParams())
	}
	return o
}

// Factory builds request scoped services over one store session.
type Factory interface {
	Content(db repository.Executor, feed repository.Feed) ContentService
	Users(db repository.Executor) UserService
	Tables(db repository.Executor) TablesService
}

type Service struct {
	opts Options
}

func NewService(opts Options) *Service {
	return &Service{opts: opts.withDefaults()}
}

func (s *Service) Content(db repository.Executor, feed repository.Feed) ContentService {
	return NewContentService(feed, repository.NewStoryRepository(db, feed), repository.NewCommentRepository(db, feed), s.opts)
}

func (s *Service) Users(db repository.Executor) UserService {
	return NewUserService(repository.NewUserRepository(db), s.opts)
}

func (s *Service) Tables(db repository.Executor) TablesService {
	return NewTablesService(repository.NewTablesRepository(db))
}
