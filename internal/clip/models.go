// Package clip holds the imported-clip model and the in-memory store
// that is the single source of truth for edit state: trim bounds, the
// timeline, selection, and playback position.
package clip

import (
	"time"

	"github.com/google/uuid"
)

// MinTrimGap is the smallest allowed distance between trim start and end.
const MinTrimGap = 0.1

// Clip is one imported media file plus its edit state.
type Clip struct {
	ID string `json:"id"`

	// Immutable source attributes, set once from the probe result.
	Name            string  `json:"name"`
	Path            string  `json:"path"`
	Duration        float64 `json:"duration"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FrameRate       float64 `json:"frame_rate"`
	Bitrate         int64   `json:"bitrate"`
	Codec           string  `json:"codec"`
	HasAudio        bool    `json:"has_audio"`
	AudioCodec      string  `json:"audio_codec,omitempty"`
	AudioChannels   int     `json:"audio_channels,omitempty"`
	AudioSampleRate int     `json:"audio_sample_rate,omitempty"`

	// Mutable edit attributes. Invariant: 0 <= TrimStart < TrimEnd <= Duration.
	TrimStart float64 `json:"trim_start"`
	TrimEnd   float64 `json:"trim_end"`

	// TimelineStart is the computed offset on the shared timeline, set
	// only while the clip is on it.
	TimelineStart *float64 `json:"timeline_start,omitempty"`

	SceneMarkers []SceneMarker `json:"scene_markers"`
	Highlights   []Highlight   `json:"highlights"`
	Captions     []Caption     `json:"captions"`

	Thumbnail string    `json:"thumbnail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TrimmedDuration returns the length of the used portion.
func (c *Clip) TrimmedDuration() float64 {
	return c.TrimEnd - c.TrimStart
}

// SceneMarker is a detected visual discontinuity.
type SceneMarker struct {
	Timestamp float64 `json:"timestamp"`
	Score     float64 `json:"score"`
}

// Highlight is a detected moment of interest.
type Highlight struct {
	Timestamp  float64 `json:"timestamp"`
	Confidence float64 `json:"confidence"`
	Count      int     `json:"count"`
}

// Caption is a recognised speech span.
type Caption struct {
	ID         string  `json:"id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// NewID returns a fresh clip or job identifier.
func NewID() string {
	return uuid.NewString()
}
