package mirror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsAggregator/internal/database"
	"newsAggregator/internal/models"
	"newsAggregator/internal/repository"
)

// feedAPI serves two stories, one job, a missing item and a broken item.
func feedAPI(t *testing.T) *httptest.Server {
	t.Helper()

	items := map[string]string{
		"/topstories.json": `[1, 2, 3, 4, 5]`,
		"/item/1.json":     `{"id":1,"type":"story","by":"pg","time":1160418111,"title":"Y Combinator","url":"http://ycombinator.com","score":57,"kids":[11,12,13],"descendants":15}`,
		"/item/2.json":     `{"id":2,"type":"story","by":"phyllis","time":1160418628,"title":"A Student's Guide","score":16,"descendants":0}`,
		"/item/3.json":     `{"id":3,"type":"job","by":"justin","time":1210981217,"title":"Justin.tv is looking"}`,
		"/item/4.json":     `null`,
		"/item/11.json":    `{"id":11,"type":"comment","by":"norvig","time":1160418200,"text":"first","parent":1}`,
		"/item/12.json":    `{"id":12,"type":"comment","deleted":true,"time":1160418300,"parent":1}`,
		"/item/13.json":    `{"id":13,"type":"comment","by":"sama","time":1160418400,"text":"third","parent":1}`,
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := items[r.URL.Path]
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func externalStore(t *testing.T) *database.Router {
	t.Helper()

	log, _ := test.NewNullLogger()
	dir := t.TempDir()
	ctx := context.Background()
	router, err := database.Open(ctx, map[database.Domain]string{
		database.Users:    "sqlite://" + filepath.Join(dir, "users.db"),
		database.Blog:     "sqlite://" + filepath.Join(dir, "blog.db"),
		database.External: "sqlite://" + filepath.Join(dir, "external.db"),
	}, database.PoolOptions{}, log)
	require.NoError(t, err)
	t.Cleanup(func() { router.Close() })
	require.NoError(t, router.Migrate(ctx))
	return router
}

func TestClient(t *testing.T) {
	api := feedAPI(t)
	defer api.Close()
	client := NewClient(api.URL + "/")
	ctx := context.Background()

	ids, err := client.StoryIDs(ctx, "topstories")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)

	it, err := client.Item(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Y Combinator", *it.Title)
	assert.Equal(t, []int64{11, 12, 13}, it.Kids)

	_, err = client.Item(ctx, 4)
	assert.ErrorIs(t, err, ErrItemMissing)

	_, err = client.Item(ctx, 5)
	assert.ErrorContains(t, err, "unexpected status 500")
}

func TestSyncer_Sync(t *testing.T) {
	api := feedAPI(t)
	defer api.Close()
	router := externalStore(t)
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	syncer := NewSyncer(NewClient(api.URL), router, Options{Comments: 2, Workers: 3}, log)

	stats, err := syncer.Sync(ctx, repository.TopStories)
	require.NoError(t, err)
	// 3 is a job, 4 is null and 12 is deleted; 5 fails to fetch
	assert.Equal(t, Stats{Stories: 2, Comments: 2, Skipped: 3, Failed: 1}, stats)

	session, err := router.Acquire(ctx, database.External)
	require.NoError(t, err)
	defer router.Release(session)

	story, err := repository.NewStoryRepository(session, repository.TopStories).GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "pg", *story.By)
	assert.Equal(t, "hacker_news", *story.Origin)
	assert.Equal(t, int64(15), *story.Descendants)
	assert.Equal(t, []int64{11, 12, 13}, []int64(story.Kids))

	comments, err := repository.NewCommentRepository(session, repository.TopStories).ListByStory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	// newest first
	assert.Equal(t, "sama", *comments[0].By)
	assert.Equal(t, "norvig", *comments[1].By)

	tables := repository.NewTablesRepository(session)
	count, err := tables.CountRows(ctx, repository.NewStories.StoryTable)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSyncer_SyncIsIdempotent(t *testing.T) {
	api := feedAPI(t)
	defer api.Close()
	router := externalStore(t)
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	syncer := NewSyncer(NewClient(api.URL), router, Options{Limit: 2, Comments: 5}, log)

	for i := 0; i < 2; i++ {
		stats, err := syncer.Sync(ctx, repository.TopStories)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Stories)
	}

	session, err := router.Acquire(ctx, database.External)
	require.NoError(t, err)
	defer router.Release(session)

	count, err := repository.NewTablesRepository(session).CountRows(ctx, repository.TopStories.StoryTable)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSyncer_KeepsLocalRowsOnIDCollision(t *testing.T) {
	api := feedAPI(t)
	defer api.Close()
	router := externalStore(t)
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	session, err := router.Acquire(ctx, database.External)
	require.NoError(t, err)
	local := &models.Comment{Item: models.Item{
		ID:     11,
		Type:   models.Ptr(models.TypeComment),
		By:     models.Ptr("alice"),
		Time:   1700000000,
		Text:   models.Ptr("mine"),
		Parent: models.Ptr(int64(1)),
		Origin: models.Ptr("my_blog"),
	}}
	require.NoError(t, repository.NewCommentRepository(session, repository.TopStories).Upsert(ctx, local))
	router.Release(session)

	syncer := NewSyncer(NewClient(api.URL), router, Options{Limit: 1, Comments: 3}, log)
	_, err = syncer.Sync(ctx, repository.TopStories)
	require.NoError(t, err)

	session, err = router.Acquire(ctx, database.External)
	require.NoError(t, err)
	defer router.Release(session)

	comments := repository.NewCommentRepository(session, repository.TopStories)
	kept, err := comments.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "alice", *kept.By)
	assert.Equal(t, "mine", *kept.Text)
	assert.Equal(t, "my_blog", *kept.Origin)

	mirrored, err := comments.GetByID(ctx, 13)
	require.NoError(t, err)
	assert.Equal(t, "sama", *mirrored.By)
}

func TestSyncer_FeedUnavailable(t *testing.T) {
	api := feedAPI(t)
	defer api.Close()
	log, _ := test.NewNullLogger()

	syncer := NewSyncer(NewClient(api.URL), externalStore(t), Options{}, log)

	_, err := syncer.Sync(context.Background(), repository.NewStories)
	assert.ErrorContains(t, err, "list newstories")

	err = syncer.Run(context.Background(), []repository.Feed{repository.NewStories}, 0)
	assert.Error(t, err)
}
