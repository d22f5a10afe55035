// Package catalog is the client for the external track-catalog provider.
// It returns track descriptors used to build queue entries and keeps a
// Postgres-backed cache so repeated searches skip the provider.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

// Client queries the catalog provider's search API with a static bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	db      *gorm.DB // nil disables caching
	log     *zap.Logger
}

// NewClient creates a catalog client. db may be nil to disable the cache.
func NewClient(baseURL, token string, db *gorm.DB, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		db:      db,
		log:     log,
	}
}

type searchResponse struct {
	Tracks []struct {
		Ref        string `json:"ref"`
		Title      string `json:"title"`
		Artist     string `json:"artist"`
		DurationMS int64  `json:"duration_ms"`
	} `json:"tracks"`
}

// Search queries the provider and returns track descriptors. Results are
// written through to the cached_tracks table.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.Song, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("catalog: base url not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	u := fmt.Sprintf("%s/v1/search?q=%s&limit=%s",
		c.baseURL, url.QueryEscape(query), strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: search: unexpected status %d", res.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("catalog: decode response: %w", err)
	}

	out := make([]model.Song, 0, len(body.Tracks))
	for _, t := range body.Tracks {
		out = append(out, model.Song{
			TrackRef:   t.Ref,
			Title:      t.Title,
			Artist:     t.Artist,
			DurationMS: t.DurationMS,
		})
	}
	c.cache(out)
	return out, nil
}

func (c *Client) cache(tracks []model.Song) {
	if c.db == nil || len(tracks) == 0 {
		return
	}
	rows := make([]model.CachedTrackEntity, 0, len(tracks))
	now := time.Now()
	for _, t := range tracks {
		rows = append(rows, model.CachedTrackEntity{
			TrackRef:   t.TrackRef,
			Title:      t.Title,
			Artist:     t.Artist,
			DurationMS: t.DurationMS,
			FetchedAt:  now,
		})
	}
	// Upsert; never clobber an already-resolved audio_url.
	err := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "track_ref"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "artist", "duration_ms", "fetched_at"}),
	}).Create(&rows).Error
	if err != nil {
		c.log.Warn("catalog: cache write failed", zap.Error(err))
	}
}
