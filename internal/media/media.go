// Package media wraps the external ffmpeg/ffprobe binaries behind a typed
// interface: metadata probing, trimmed re-encode with progress events,
// scene-change scanning, and audio extraction. Parsing of the binaries'
// textual output is kept inside this package so the tools could be swapped
// for ones with structured output without touching the orchestration layer.
package media

import "context"

// FFmpeg is the media execution contract used throughout the agent.
type FFmpeg interface {
	// Probe inspects a media file's container and stream metadata.
	Probe(ctx context.Context, path string) (*Metadata, error)

	// Export re-encodes the trimmed range described by job, invoking
	// onProgress for each progress report the encoder emits. Returns the
	// output path on clean exit.
	Export(ctx context.Context, job ExportJob, onProgress func(Progress)) (string, error)

	// DetectScenes scans for visual discontinuities above threshold.
	// Results arrive in decode order, monotonically increasing in time.
	DetectScenes(ctx context.Context, path string, threshold float64) ([]SceneChange, error)

	// DetectScenesAdvanced restricts results to a timestamp window.
	DetectScenesAdvanced(ctx context.Context, path string, opts SceneOptions) ([]SceneChange, error)

	// ExtractAudio strips video and transcodes the audio track.
	ExtractAudio(ctx context.Context, path string, opts AudioOptions) (string, error)

	// HasAudio reports whether any stream carries audio.
	HasAudio(ctx context.Context, path string) (bool, error)

	// ExtractFrame writes a single frame at timestamp to outPath.
	ExtractFrame(ctx context.Context, path string, timestamp float64, outPath string) error

	// Concat joins segment files back-to-back into outPath without
	// re-encoding.
	Concat(ctx context.Context, segments []string, outPath string) error
}

// Metadata is the parsed result of a probe.
type Metadata struct {
	Duration        float64
	Bitrate         int64
	Width           int
	Height          int
	FrameRate       float64
	Codec           string
	HasAudio        bool
	AudioCodec      string
	AudioChannels   int
	AudioSampleRate int
}

// Progress is one progress report from a running export.
type Progress struct {
	JobID   string  `json:"job_id,omitempty"`
	Percent float64 `json:"percent"`
	Time    float64 `json:"time"`  // seconds of output produced
	Speed   string  `json:"speed"` // e.g. "2.3x"
}

// SceneChange is a visual discontinuity reported by the scene filter.
type SceneChange struct {
	Timestamp float64 `json:"timestamp"`
	Score     float64 `json:"score"`
}

// SceneOptions parameterises DetectScenesAdvanced.
type SceneOptions struct {
	Threshold   float64 // default 0.3
	MinDuration float64 // default 1.0; earliest timestamp kept
	MaxDuration float64 // default 10.0; latest timestamp kept
}

// ExportJob describes one trimmed re-encode. Transient: it exists only
// for the duration of one export call.
type ExportJob struct {
	ID         string
	InputPath  string
	OutputPath string
	StartTime  float64 // seconds; 0 means no seek
	Duration   float64 // seconds; 0 means no duration cap
	Quality    Quality
}

// Quality is a named encoder preset tier.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// CRF returns the constant-rate-factor for the tier (lower = better).
func (q Quality) CRF() int {
	switch q {
	case QualityLow:
		return 28
	case QualityMedium:
		return 23
	default:
		return 18
	}
}

// Preset returns the encoder speed preset for the tier.
func (q Quality) Preset() string {
	switch q {
	case QualityLow:
		return "fast"
	case QualityMedium:
		return "medium"
	default:
		return "slow"
	}
}

// Valid reports whether q is a recognised tier.
func (q Quality) Valid() bool {
	switch q {
	case QualityLow, QualityMedium, QualityHigh:
		return true
	}
	return false
}

// AudioFormat selects the extraction target container/codec.
type AudioFormat string

const (
	AudioWAV AudioFormat = "wav"
	AudioMP3 AudioFormat = "mp3"
	AudioAAC AudioFormat = "aac"
	AudioPCM AudioFormat = "pcm"
)

// Codec returns the ffmpeg audio codec name for the format.
func (f AudioFormat) Codec() string {
	switch f {
	case AudioMP3:
		return "libmp3lame"
	case AudioAAC:
		return "aac"
	default:
		return "pcm_s16le"
	}
}

// Extension returns the output file extension for the format.
func (f AudioFormat) Extension() string {
	switch f {
	case AudioMP3:
		return ".mp3"
	case AudioAAC:
		return ".aac"
	case AudioPCM:
		return ".pcm"
	default:
		return ".wav"
	}
}

// AudioOptions parameterises ExtractAudio. The defaults (WAV, 16 kHz,
// mono) are tuned for downstream speech recognition.
type AudioOptions struct {
	OutputPath string      // empty = derive from input path
	Format     AudioFormat // default wav
	SampleRate int         // default 16000
	Channels   int         // default 1
}
