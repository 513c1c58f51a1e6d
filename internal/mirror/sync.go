package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"newsAggregator/internal/database"
	"newsAggregator/internal/models"
	"newsAggregator/internal/pagination"
	"newsAggregator/internal/repository"
)

// Stores hands out sessions on the external store. *database.Router implements it.
type Stores interface {
	Acquire(ctx context.Context, domain database.Domain) (*database.Session, error)
	Release(s *database.Session)
}

type Options struct {
	Origin string
	// Limit caps the stories taken from the head of each feed.
	Limit int
	// Comments caps the top level comments copied per story.
	Comments int
	Workers  int
}

func (o Options) withDefaults() Options {
	if o.Origin == "" {
		o.Origin = "hacker_news"
	}
	if o.Limit <= 0 || o.Limit > pagination.DefaultHardCap {
		o.Limit = pagination.DefaultHardCap
	}
	if o.Comments < 0 {
		o.Comments = 0
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
	return o
}

type Stats struct {
	Stories  int64
	Comments int64
	Skipped  int64
	Failed   int64
}

type counters struct {
	stories, comments, skipped, failed atomic.Int64
}

func (c *counters) stats() Stats {
	return Stats{
		Stories:  c.stories.Load(),
		Comments: c.comments.Load(),
		Skipped:  c.skipped.Load(),
		Failed:   c.failed.Load(),
	}
}

type Syncer struct {
	client *Client
	stores Stores
	opts   Options
	log    logrus.FieldLogger
}

func NewSyncer(client *Client, stores Stores, opts Options, log logrus.FieldLogger) *Syncer {
	return &Syncer{client: client, stores: stores, opts: opts.withDefaults(), log: log}
}

// Sync copies the head of feed into its tables. Items that cannot be fetched
// are logged and counted; a store error stops the run.
func (s *Syncer) Sync(ctx context.Context, feed repository.Feed) (Stats, error) {
	log := s.log.WithField("feed", feed.Name)

	ids, err := s.client.StoryIDs(ctx, feed.Name)
	if err != nil {
		return Stats{}, fmt.Errorf("list %s: %w", feed.Name, err)
	}
	if len(ids) > s.opts.Limit {
		ids = ids[:s.opts.Limit]
	}

	var c counters
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for _, id := range ids {
		g.Go(func() error {
			return s.syncStory(gctx, feed, id, &c, log)
		})
	}

	err = g.Wait()
	stats := c.stats()
	log.WithFields(logrus.Fields{
		"stories":  stats.Stories,
		"comments": stats.Comments,
		"skipped":  stats.Skipped,
		"failed":   stats.Failed,
	}).Info("feed mirrored")

	return stats, err
}

func (s *Syncer) syncStory(ctx context.Context, feed repository.Feed, id int64, c *counters, log logrus.FieldLogger) error {
	remote, ok := s.fetch(ctx, id, c, log)
	if !ok {
		return ctx.Err()
	}
	if remote.Type != models.TypeStory || remote.Deleted {
		c.skipped.Add(1)
		return nil
	}

	var comments []*RemoteItem
	for _, kid := range remote.Kids {
		if len(comments) == s.opts.Comments {
			break
		}
		it, ok := s.fetch(ctx, kid, c, log)
		if !ok {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		if it.Type != models.TypeComment || it.Deleted {
			c.skipped.Add(1)
			continue
		}
		comments = append(comments, it)
	}

	session, err := s.stores.Acquire(ctx, feed.Domain)
	if err != nil {
		return err
	}
	defer s.stores.Release(session)

	story := &models.Story{Item: remote.toItem(s.opts.Origin)}
	if err := repository.NewStoryRepository(session, feed).Upsert(ctx, story); err != nil {
		return fmt.Errorf("store story %d: %w", id, err)
	}
	c.stories.Add(1)

	commentRepo := repository.NewCommentRepository(session, feed)
	for _, it := range comments {
		comment := &models.Comment{Item: it.toItem(s.opts.Origin)}
		// top level comments hang off the story row
		comment.Parent = models.Ptr(story.ID)
		if err := commentRepo.Upsert(ctx, comment); err != nil {
			return fmt.Errorf("store comment %d: %w", it.ID, err)
		}
		c.comments.Add(1)
	}

	return nil
}

func (s *Syncer) fetch(ctx context.Context, id int64, c *counters, log logrus.FieldLogger) (*RemoteItem, bool) {
	it, err := s.client.Item(ctx, id)
	if err == nil {
		return it, true
	}
	if ctx.Err() != nil {
		return nil, false
	}

	if errors.Is(err, ErrItemMissing) {
		c.skipped.Add(1)
	} else {
		c.failed.Add(1)
		log.WithError(err).WithField("item", id).Warn("fetch item")
	}
	return nil, false
}

// Run mirrors every feed once, then again on every tick of interval until ctx
// is done. A zero interval runs once.
func (s *Syncer) Run(ctx context.Context, feeds []repository.Feed, interval time.Duration) error {
	for {
		for _, feed := range feeds {
			if _, err := s.Sync(ctx, feed); err != nil {
				if interval <= 0 || ctx.Err() != nil {
					return err
				}
				s.log.WithError(err).WithField("feed", feed.Name).Error("mirror run failed")
			}
		}

		if interval <= 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}
