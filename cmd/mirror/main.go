package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"newsAggregator/cmd/app"
	"newsAggregator/internal/config"
	"newsAggregator/internal/logging"
	"newsAggregator/internal/mirror"
	"newsAggregator/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	bootstrap := logging.New("info", "text", os.Stderr)
	cfg := config.LoadConfig(bootstrap)

	return &cli.App{
		Name:  "mirror",
		Usage: "copy the external story feeds into the external store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Value: cfg.Mirror.BaseURL, Usage: "feed API root"},
			&cli.StringSliceFlag{Name: "feed", Value: cli.NewStringSlice("topstories", "newstories"), Usage: "feeds to mirror"},
			&cli.IntFlag{Name: "limit", Value: cfg.Mirror.Limit, Usage: "stories taken from the head of each feed"},
			&cli.IntFlag{Name: "comments", Value: cfg.Mirror.Comments, Usage: "top level comments copied per story"},
			&cli.IntFlag{Name: "workers", Value: cfg.Mirror.Workers, Usage: "concurrent item fetches"},
			&cli.DurationFlag{Name: "interval", Value: cfg.Mirror.Interval, Usage: "repeat every interval; 0 runs once"},
		},
		Action: func(c *cli.Context) error {
			logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

			var feeds []repository.Feed
			for _, name := range c.StringSlice("feed") {
				feed, ok := repository.FeedByName(name)
				if !ok || feed.Domain != repository.TopStories.Domain {
					return fmt.Errorf("unknown feed %q", name)
				}
				feeds = append(feeds, feed)
			}

			stores, err := app.Stores(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer stores.Close()

			syncer := mirror.NewSyncer(mirror.NewClient(c.String("base-url")), stores, mirror.Options{
				Origin:   cfg.Mirror.Origin,
				Limit:    c.Int("limit"),
				Comments: c.Int("comments"),
				Workers:  c.Int("workers"),
			}, logger)

			err = syncer.Run(c.Context, feeds, c.Duration("interval"))
			if errors.Is(err, context.Canceled) {
				logger.Info("mirror stopped")
				return nil
			}
			return err
		},
	}
}
