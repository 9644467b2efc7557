package api

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/library"
	"github.com/clipforge/clipforge-agent/internal/timeutil"
)

var validate = validator.New()

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State       string       `json:"state"`
	LastError   string       `json:"last_error,omitempty"`
	ClipsCount  int          `json:"clips_count"`
	JobsRunning int          `json:"jobs_running"`
	ActiveJob   *JobResponse `json:"active_job,omitempty"`
	Timeline    int          `json:"timeline_clips"`
	DurationS   float64      `json:"timeline_duration_s"`
}

type ImportRequest struct {
	Path string `json:"path" validate:"required"`
}

type TrimRequest struct {
	TrimStart *float64 `json:"trim_start" validate:"omitempty,gte=0"`
	TrimEnd   *float64 `json:"trim_end" validate:"omitempty,gte=0"`
}

type TimelineAddRequest struct {
	ClipID string `json:"clip_id" validate:"required"`
}

type ReorderRequest struct {
	From int `json:"from" validate:"gte=0"`
	To   int `json:"to" validate:"gte=0"`
}

type ExportRequest struct {
	ClipID     string `json:"clip_id" validate:"required"`
	OutputPath string `json:"output_path"`
	Quality    string `json:"quality" validate:"omitempty,oneof=low medium high"`
}

type TimelineExportRequest struct {
	OutputPath string `json:"output_path"`
	Quality    string `json:"quality" validate:"omitempty,oneof=low medium high"`
}

type PlaybackStateRequest struct {
	CurrentTime     *float64 `json:"current_time" validate:"omitempty,gte=0"`
	Playing         *bool    `json:"playing"`
	PixelsPerSecond *float64 `json:"pixels_per_second" validate:"omitempty,gt=0"`
}

type ClipResponse struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Path            string             `json:"path"`
	Duration        float64            `json:"duration"`
	DurationDisplay string             `json:"duration_display"`
	Width           int                `json:"width"`
	Height          int                `json:"height"`
	FrameRate       float64            `json:"frame_rate"`
	Codec           string             `json:"codec"`
	HasAudio        bool               `json:"has_audio"`
	TrimStart       float64            `json:"trim_start"`
	TrimEnd         float64            `json:"trim_end"`
	TrimmedDuration float64            `json:"trimmed_duration"`
	TimelineStart   *float64           `json:"timeline_start,omitempty"`
	SceneMarkers    []clip.SceneMarker `json:"scene_markers"`
	Thumbnail       string             `json:"thumbnail,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

type ClipsResponse struct {
	Clips []ClipResponse `json:"clips"`
}

type TimelineResponse struct {
	Clips           []ClipResponse `json:"clips"`
	Duration        float64        `json:"duration"`
	DurationDisplay string         `json:"duration_display"`
}

type JobResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	ClipID     string `json:"clip_id,omitempty"`
	Progress   int    `json:"progress"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type JobAcceptedResponse struct {
	JobID string `json:"job_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func ClipToResponse(c clip.Clip) ClipResponse {
	return ClipResponse{
		ID:              c.ID,
		Name:            c.Name,
		Path:            c.Path,
		Duration:        c.Duration,
		DurationDisplay: timeutil.FormatTime(c.Duration),
		Width:           c.Width,
		Height:          c.Height,
		FrameRate:       c.FrameRate,
		Codec:           c.Codec,
		HasAudio:        c.HasAudio,
		TrimStart:       c.TrimStart,
		TrimEnd:         c.TrimEnd,
		TrimmedDuration: c.TrimmedDuration(),
		TimelineStart:   c.TimelineStart,
		SceneMarkers:    c.SceneMarkers,
		Thumbnail:       c.Thumbnail,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}

func JobToResponse(j *library.Job) JobResponse {
	return JobResponse{
		ID:         j.ID,
		Type:       j.Type,
		Status:     j.Status,
		ClipID:     j.ClipID,
		Progress:   j.Progress,
		OutputPath: j.OutputPath,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  j.UpdatedAt.Format(time.RFC3339),
	}
}
