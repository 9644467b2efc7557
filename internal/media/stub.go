package media

import (
	"context"
	"log/slog"
)

// Stub is an FFmpeg implementation that returns canned results. It backs
// orchestrator and API tests, and lets the agent start when no media
// binaries are installed.
type Stub struct {
	logger *slog.Logger

	ProbeResult  *Metadata
	ProbeErr     error
	ExportErr    error
	Scenes       []SceneChange
	ScenesErr    error
	AudioPath    string
	AudioErr     error
	ProgressFeed []Progress

	ExportJobs []ExportJob // records every export request
}

func NewStub(logger *slog.Logger) *Stub {
	return &Stub{logger: logger}
}

func (s *Stub) Probe(ctx context.Context, path string) (*Metadata, error) {
	if s.ProbeErr != nil {
		return nil, s.ProbeErr
	}
	if s.ProbeResult != nil {
		return s.ProbeResult, nil
	}
	return &Metadata{}, nil
}

func (s *Stub) Export(ctx context.Context, job ExportJob, onProgress func(Progress)) (string, error) {
	s.ExportJobs = append(s.ExportJobs, job)
	if s.ExportErr != nil {
		return "", s.ExportErr
	}
	for _, p := range s.ProgressFeed {
		p.JobID = job.ID
		if onProgress != nil {
			onProgress(p)
		}
	}
	return job.OutputPath, nil
}

func (s *Stub) DetectScenes(ctx context.Context, path string, threshold float64) ([]SceneChange, error) {
	if s.ScenesErr != nil {
		return nil, s.ScenesErr
	}
	return s.Scenes, nil
}

func (s *Stub) DetectScenesAdvanced(ctx context.Context, path string, opts SceneOptions) ([]SceneChange, error) {
	if s.ScenesErr != nil {
		return nil, s.ScenesErr
	}
	return s.Scenes, nil
}

func (s *Stub) ExtractAudio(ctx context.Context, path string, opts AudioOptions) (string, error) {
	if s.AudioErr != nil {
		return "", s.AudioErr
	}
	if s.AudioPath != "" {
		return s.AudioPath, nil
	}
	return DefaultAudioPath(path, AudioWAV), nil
}

func (s *Stub) HasAudio(ctx context.Context, path string) (bool, error) {
	if s.ProbeErr != nil {
		return false, s.ProbeErr
	}
	if s.ProbeResult != nil {
		return s.ProbeResult.HasAudio, nil
	}
	return false, nil
}

func (s *Stub) ExtractFrame(ctx context.Context, path string, timestamp float64, outPath string) error {
	return nil
}

func (s *Stub) Concat(ctx context.Context, segments []string, outPath string) error {
	return s.ExportErr
}
