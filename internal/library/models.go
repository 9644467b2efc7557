// Package library orchestrates imports, exports, and analysis jobs over
// the clip store, the ffmpeg adapter, and the persistence layer.
package library

import "time"

const (
	JobTypeExport         = "export"
	JobTypeExportTimeline = "export_timeline"
	JobTypeSceneDetect    = "scene_detect"
	JobTypeAudioExtract   = "audio_extract"
	JobTypeThumbnail      = "thumbnail"

	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

type Job struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ClipID     string    `json:"clip_id,omitempty"`
	Status     string    `json:"status"`
	Progress   int       `json:"progress"`
	OutputPath string    `json:"output_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ImportResult mirrors the shape handed back to API clients: either a
// clip id or an error string, never both.
type ImportResult struct {
	Success bool   `json:"success"`
	ClipID  string `json:"clip_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ExportResult struct {
	Success    bool   `json:"success"`
	JobID      string `json:"job_id,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ExportRequest struct {
	ClipID     string `json:"clip_id"`
	OutputPath string `json:"output_path"`
	Quality    string `json:"quality"`
}
