// Package room implements the listening-party session engine: membership and
// host authority, queue mutation with index rebasing, and the playback clock.
// It is transport-free; callers publish the returned change descriptors.
package room

import "time"

// ClockState is the playback clock state machine position.
type ClockState int

const (
	ClockStopped ClockState = iota
	ClockPlaying
	ClockPaused
)

// PlaybackClock accumulates elapsed playback seconds for the current track.
// The anchor is valid only while Playing. The clock trusts Override calls from
// the reporting client over its own derived value; the server has no audio
// hardware to consult.
type PlaybackClock struct {
	state       ClockState
	accumulated float64
	anchor      time.Time
	now         func() time.Time
}

// NewPlaybackClock returns a stopped clock at zero. A nil now falls back to time.Now.
func NewPlaybackClock(now func() time.Time) *PlaybackClock {
	if now == nil {
		now = time.Now
	}
	return &PlaybackClock{now: now}
}

// State returns the current clock state.
func (c *PlaybackClock) State() ClockState { return c.state }

// Start begins or resumes playback, preserving accumulated seconds.
func (c *PlaybackClock) Start() {
	if c.state == ClockPlaying {
		return
	}
	c.anchor = c.now()
	c.state = ClockPlaying
}

// Pause folds the running interval into the accumulator. Idempotent.
func (c *PlaybackClock) Pause() {
	if c.state != ClockPlaying {
		return
	}
	c.accumulated += c.now().Sub(c.anchor).Seconds()
	c.anchor = time.Time{}
	c.state = ClockPaused
}

// Progress returns elapsed seconds for the current track.
func (c *PlaybackClock) Progress() float64 {
	if c.state == ClockPlaying {
		return c.accumulated + c.now().Sub(c.anchor).Seconds()
	}
	return c.accumulated
}

// Override replaces the clock position with a client-reported one. The most
// recent report wins over the server's derived value.
func (c *PlaybackClock) Override(elapsedSeconds float64, isPaused bool) {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	c.accumulated = elapsedSeconds
	if isPaused {
		c.anchor = time.Time{}
		c.state = ClockPaused
		return
	}
	c.anchor = c.now()
	c.state = ClockPlaying
}

// Reset returns the clock to Stopped at zero; switching tracks invalidates
// prior elapsed time.
func (c *PlaybackClock) Reset() {
	c.state = ClockStopped
	c.accumulated = 0
	c.anchor = time.Time{}
}
