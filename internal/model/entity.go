package model

import "time"

// TrackPlayEntity — строка истории воспроизведения (GORM). Room state itself is
// in-memory only; history rows survive restarts as a listening log.
type TrackPlayEntity struct {
	ID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomID   string    `gorm:"size:64;not null;index"`
	TrackRef string    `gorm:"size:128;not null"`
	Title    string    `gorm:"size:256;not null"`
	Artist   string    `gorm:"size:256"`
	PlayedBy string    `gorm:"size:64"` // username that queued the track
	PlayedAt time.Time `gorm:"column:played_at;not null"`
}

func (TrackPlayEntity) TableName() string { return "track_plays" }

// TrackPlay is the API view of one play-history row.
type TrackPlay struct {
	TrackRef string    `json:"track_ref"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	PlayedBy string    `json:"played_by,omitempty"`
	PlayedAt time.Time `json:"played_at"`
}

// CachedTrackEntity — кэш каталога и разрешённых audio URL (GORM).
type CachedTrackEntity struct {
	TrackRef   string    `gorm:"size:128;primaryKey"`
	Title      string    `gorm:"size:256;not null"`
	Artist     string    `gorm:"size:256"`
	DurationMS int64     `gorm:"column:duration_ms"`
	AudioURL   string    `gorm:"size:1024"`
	FetchedAt  time.Time `gorm:"column:fetched_at;not null"`
}

func (CachedTrackEntity) TableName() string { return "cached_tracks" }
