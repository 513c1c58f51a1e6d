// Package mirror copies a Hacker-News-style feed into the external store.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"newsAggregator/internal/models"
)

var ErrItemMissing = errors.New("item not published")

// Client reads the public feed API: /<feed>.json and /item/<id>.json.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RemoteItem is the published form of an item. Ids are plain numbers here.
type RemoteItem struct {
	ID          int64   `json:"id"`
	Deleted     bool    `json:"deleted"`
	Type        string  `json:"type"`
	By          *string `json:"by"`
	Time        int64   `json:"time"`
	Text        *string `json:"text"`
	Dead        bool    `json:"dead"`
	Parent      *int64  `json:"parent"`
	Poll        *int64  `json:"poll"`
	Kids        []int64 `json:"kids"`
	URL         *string `json:"url"`
	Score       *int64  `json:"score"`
	Title       *string `json:"title"`
	Parts       []int64 `json:"parts"`
	Descendants *int64  `json:"descendants"`
}

func (it RemoteItem) toItem(origin string) models.Item {
	return models.Item{
		ID:          it.ID,
		Deleted:     models.Ptr(it.Deleted),
		Type:        models.Ptr(it.Type),
		By:          it.By,
		Time:        it.Time,
		Text:        it.Text,
		Dead:        models.Ptr(it.Dead),
		Parent:      it.Parent,
		Poll:        it.Poll,
		Kids:        listOrEmpty(it.Kids),
		URL:         it.URL,
		Score:       it.Score,
		Title:       it.Title,
		Parts:       listOrEmpty(it.Parts),
		Descendants: it.Descendants,
		Origin:      models.Ptr(origin),
	}
}

func listOrEmpty(ids []int64) models.IntList {
	if ids == nil {
		return models.IntList{}
	}
	return models.IntList(ids)
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// StoryIDs returns the ranked story ids of feed, e.g. "topstories".
func (c *Client) StoryIDs(ctx context.Context, feed string) ([]int64, error) {
	var ids []int64
	if err := c.get(ctx, "/"+feed+".json", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Item fetches one item. An id the API answers with null is ErrItemMissing.
func (c *Client) Item(ctx context.Context, id int64) (*RemoteItem, error) {
	var it *RemoteItem
	if err := c.get(ctx, fmt.Sprintf("/item/%d.json", id), &it); err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrItemMissing
	}
	return it, nil
}
