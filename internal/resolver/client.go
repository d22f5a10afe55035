// Package resolver is the client for the audio-resolution service that turns
// a catalog track reference into a playable URL. Resolution is retryable by
// the caller; the client itself never retries.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/siwu-945/FunTrip-sub000/internal/errs"
	"github.com/siwu-945/FunTrip-sub000/internal/model"
)

// Client resolves track refs to playable audio URLs, consulting the
// cached_tracks table first.
type Client struct {
	baseURL string
	http    *http.Client
	db      *gorm.DB // nil disables the cache
	log     *zap.Logger
}

// NewClient creates a resolver client. db may be nil to disable the cache.
func NewClient(baseURL string, db *gorm.DB, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		db:      db,
		log:     log,
	}
}

type resolveResponse struct {
	AudioURL string `json:"audio_url"`
}

// Resolve returns the playable URL for trackRef. Returns errs.ErrAudioNotFound
// when the service has no audio for the track.
func (c *Client) Resolve(ctx context.Context, trackRef string) (string, error) {
	if cached := c.fromCache(trackRef); cached != "" {
		return cached, nil
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("resolver: base url not configured")
	}

	u := fmt.Sprintf("%s/v1/resolve?track=%s", c.baseURL, url.QueryEscape(trackRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("resolver: build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolver: resolve: %w", err)
	}
	defer res.Body.Close()
	switch {
	case res.StatusCode == http.StatusNotFound:
		return "", errs.ErrAudioNotFound
	case res.StatusCode != http.StatusOK:
		return "", fmt.Errorf("resolver: unexpected status %d", res.StatusCode)
	}

	var body resolveResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("resolver: decode response: %w", err)
	}
	if body.AudioURL == "" {
		return "", errs.ErrAudioNotFound
	}
	c.toCache(trackRef, body.AudioURL)
	return body.AudioURL, nil
}

func (c *Client) fromCache(trackRef string) string {
	if c.db == nil {
		return ""
	}
	var row model.CachedTrackEntity
	err := c.db.Where("track_ref = ? AND audio_url <> ''", trackRef).First(&row).Error
	if err != nil {
		return ""
	}
	return row.AudioURL
}

func (c *Client) toCache(trackRef, audioURL string) {
	if c.db == nil {
		return
	}
	err := c.db.Model(&model.CachedTrackEntity{}).
		Where("track_ref = ?", trackRef).
		Update("audio_url", audioURL).Error
	if err != nil {
		c.log.Warn("resolver: cache write failed",
			zap.String("track_ref", trackRef), zap.Error(err))
	}
}
