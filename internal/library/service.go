package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/logging"
	"github.com/clipforge/clipforge-agent/internal/media"
)

// Import progress milestones, reported through onProgress.
const (
	importProgressValidated = 10
	importProgressProbing   = 30
	importProgressProbed    = 50
	importProgressAudio     = 70
	importProgressDone      = 100
)

type Service struct {
	store          clip.Store
	repo           Repository
	ffmpeg         media.FFmpeg
	logger         *slog.Logger
	exportDir      string
	artifactsDir   string
	maxImportBytes int64
	sceneThreshold float64
	probeTimeout   time.Duration
}

type ServiceOptions struct {
	ExportDir      string
	ArtifactsDir   string
	MaxImportBytes int64
	SceneThreshold float64
	ProbeTimeout   time.Duration
}

func NewService(store clip.Store, repo Repository, ffmpeg media.FFmpeg, logger *slog.Logger, opts ServiceOptions) *Service {
	return &Service{
		store:          store,
		repo:           repo,
		ffmpeg:         ffmpeg,
		logger:         logger,
		exportDir:      opts.ExportDir,
		artifactsDir:   opts.ArtifactsDir,
		maxImportBytes: opts.MaxImportBytes,
		sceneThreshold: opts.SceneThreshold,
		probeTimeout:   opts.ProbeTimeout,
	}
}

// Import validates and probes a video file, then adds it to the store
// and persists it. On any failure the store is left unchanged and the
// result carries the error message; onProgress may be nil.
func (s *Service) Import(ctx context.Context, path string, onProgress func(int)) ImportResult {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return ImportResult{Error: fmt.Sprintf("file not found: %s", path)}
	}
	if err := clip.ValidateImportFile(filepath.Base(path), info.Size(), s.maxImportBytes); err != nil {
		return ImportResult{Error: err.Error()}
	}
	report(importProgressValidated)

	report(importProgressProbing)
	probeCtx, cancel := jobContext(ctx, s.probeTimeout)
	defer cancel()
	meta, err := s.ffmpeg.Probe(probeCtx, path)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("probe failed", "path", logging.SanitizePath(path), "error", err)
		}
		return ImportResult{Error: err.Error()}
	}
	if meta.Duration <= 0 {
		return ImportResult{Error: fmt.Sprintf("could not determine duration: %s", filepath.Base(path))}
	}
	report(importProgressProbed)

	c := clip.Clip{
		Name:            filepath.Base(path),
		Path:            path,
		Duration:        meta.Duration,
		Width:           meta.Width,
		Height:          meta.Height,
		FrameRate:       meta.FrameRate,
		Bitrate:         meta.Bitrate,
		Codec:           meta.Codec,
		HasAudio:        meta.HasAudio,
		AudioCodec:      meta.AudioCodec,
		AudioChannels:   meta.AudioChannels,
		AudioSampleRate: meta.AudioSampleRate,
		CreatedAt:       time.Now(),
	}

	// The probe already reports audio presence; a separate check is
	// best-effort and never fails the import.
	if !c.HasAudio {
		if hasAudio, err := s.ffmpeg.HasAudio(probeCtx, path); err == nil {
			c.HasAudio = hasAudio
		}
	}
	report(importProgressAudio)

	id := s.store.AddClip(c)

	stored, _ := s.store.GetClip(id)
	if err := s.repo.CreateClip(ctx, &stored); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to persist clip", "clip_id", id, "error", err)
		}
	}
	report(importProgressDone)

	if s.logger != nil {
		s.logger.Info("clip imported", "clip_id", id, "duration", meta.Duration,
			"resolution", fmt.Sprintf("%dx%d", meta.Width, meta.Height))
	}
	return ImportResult{Success: true, ClipID: id}
}

// Export renders a clip honoring its trim bounds. The job row tracks
// progress; onProgress relays per-block updates and may be nil. The
// ffmpeg error message is passed through unchanged, and no retry is
// attempted.
func (s *Service) Export(ctx context.Context, req ExportRequest, onProgress func(media.Progress)) ExportResult {
	c, ok := s.store.GetClip(req.ClipID)
	if !ok {
		return ExportResult{Error: "clip not found"}
	}

	quality := media.Quality(req.Quality)
	if req.Quality == "" {
		quality = media.QualityMedium
	}
	if !quality.Valid() {
		return ExportResult{Error: fmt.Sprintf("invalid quality: %s", req.Quality)}
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = s.defaultExportPath(c.Name, string(quality))
	}

	job := media.ExportJob{
		ID:         uuid.NewString(),
		InputPath:  c.Path,
		OutputPath: outputPath,
		Quality:    quality,
	}
	if c.TrimStart > 0 {
		job.StartTime = c.TrimStart
	}
	if c.TrimEnd > 0 {
		job.Duration = c.TrimEnd - c.TrimStart
	}

	s.createJobRow(ctx, job.ID, JobTypeExport, c.ID)
	s.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, "")

	out, err := s.ffmpeg.Export(ctx, job, func(p media.Progress) {
		s.repo.UpdateJobProgress(ctx, job.ID, int(p.Percent))
		if onProgress != nil {
			onProgress(p)
		}
	})
	if err != nil {
		s.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		if s.logger != nil {
			s.logger.Error("export failed", "job_id", job.ID, "clip_id", c.ID, "error", err)
		}
		return ExportResult{JobID: job.ID, Error: err.Error()}
	}

	s.repo.UpdateJobOutput(ctx, job.ID, out)
	s.repo.UpdateJobProgress(ctx, job.ID, 100)
	s.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
	if s.logger != nil {
		s.logger.Info("export completed", "job_id", job.ID, "clip_id", c.ID, "output", out)
	}
	return ExportResult{Success: true, JobID: job.ID, OutputPath: out}
}

// ExportTimeline renders every timeline clip to a temp segment, then
// stitches the segments with a stream copy. An empty timeline is an
// error.
func (s *Service) ExportTimeline(ctx context.Context, outputPath, qualityStr string, onProgress func(media.Progress)) ExportResult {
	clips := s.store.TimelineClips()
	if len(clips) == 0 {
		return ExportResult{Error: "timeline is empty"}
	}

	quality := media.Quality(qualityStr)
	if qualityStr == "" {
		quality = media.QualityMedium
	}
	if !quality.Valid() {
		return ExportResult{Error: fmt.Sprintf("invalid quality: %s", qualityStr)}
	}

	if outputPath == "" {
		outputPath = s.defaultExportPath("timeline.mp4", string(quality))
	}

	jobID := uuid.NewString()
	s.createJobRow(ctx, jobID, JobTypeExportTimeline, "")
	s.repo.UpdateJobStatus(ctx, jobID, JobStatusRunning, "")

	segmentDir, err := os.MkdirTemp("", "clipforge-segments-")
	if err != nil {
		s.repo.UpdateJobStatus(ctx, jobID, JobStatusFailed, err.Error())
		return ExportResult{JobID: jobID, Error: err.Error()}
	}
	defer os.RemoveAll(segmentDir)

	total := len(clips)
	segments := make([]string, 0, total)
	for i, c := range clips {
		segPath := filepath.Join(segmentDir, fmt.Sprintf("segment-%03d.mp4", i))
		segJob := media.ExportJob{
			ID:         jobID,
			InputPath:  c.Path,
			OutputPath: segPath,
			Quality:    quality,
		}
		if c.TrimStart > 0 {
			segJob.StartTime = c.TrimStart
		}
		if c.TrimEnd > 0 {
			segJob.Duration = c.TrimEnd - c.TrimStart
		}

		idx := i
		out, err := s.ffmpeg.Export(ctx, segJob, func(p media.Progress) {
			overall := (float64(idx)*100 + p.Percent) / float64(total)
			s.repo.UpdateJobProgress(ctx, jobID, int(overall))
			if onProgress != nil {
				p.Percent = overall
				onProgress(p)
			}
		})
		if err != nil {
			s.repo.UpdateJobStatus(ctx, jobID, JobStatusFailed, err.Error())
			if s.logger != nil {
				s.logger.Error("timeline segment export failed", "job_id", jobID, "clip_id", c.ID, "error", err)
			}
			return ExportResult{JobID: jobID, Error: err.Error()}
		}
		segments = append(segments, out)
	}

	if err := s.ffmpeg.Concat(ctx, segments, outputPath); err != nil {
		s.repo.UpdateJobStatus(ctx, jobID, JobStatusFailed, err.Error())
		return ExportResult{JobID: jobID, Error: err.Error()}
	}

	s.repo.UpdateJobOutput(ctx, jobID, outputPath)
	s.repo.UpdateJobProgress(ctx, jobID, 100)
	s.repo.UpdateJobStatus(ctx, jobID, JobStatusCompleted, "")
	if s.logger != nil {
		s.logger.Info("timeline export completed", "job_id", jobID, "segments", total, "output", outputPath)
	}
	return ExportResult{Success: true, JobID: jobID, OutputPath: outputPath}
}

// DetectScenes queues a scene detection job for the runner.
func (s *Service) DetectScenes(ctx context.Context, clipID string) (*Job, error) {
	return s.enqueue(ctx, JobTypeSceneDetect, clipID)
}

// ExtractAudio queues a speech-rate audio extraction job.
func (s *Service) ExtractAudio(ctx context.Context, clipID string) (*Job, error) {
	return s.enqueue(ctx, JobTypeAudioExtract, clipID)
}

// GenerateThumbnail queues a thumbnail job.
func (s *Service) GenerateThumbnail(ctx context.Context, clipID string) (*Job, error) {
	return s.enqueue(ctx, JobTypeThumbnail, clipID)
}

func (s *Service) createJobRow(ctx context.Context, jobID, jobType, clipID string) {
	now := time.Now()
	s.repo.CreateJob(ctx, &Job{
		ID:        jobID,
		Type:      jobType,
		ClipID:    clipID,
		Status:    JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) enqueue(ctx context.Context, jobType, clipID string) (*Job, error) {
	if _, ok := s.store.GetClip(clipID); !ok {
		return nil, fmt.Errorf("clip not found")
	}

	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		ClipID:    clipID,
		Status:    JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("job queued", "job_id", job.ID, "type", jobType, "clip_id", clipID)
	}
	return job, nil
}

// RemoveClip drops a clip from the store and the database.
func (s *Service) RemoveClip(ctx context.Context, id string) error {
	s.store.RemoveClip(id)
	return s.repo.DeleteClip(ctx, id)
}

// SetTrim applies clamped trim bounds to the store and persists the
// resulting values.
func (s *Service) SetTrim(ctx context.Context, id string, trimStart, trimEnd *float64) error {
	if trimStart != nil {
		s.store.SetTrimStart(id, *trimStart)
	}
	if trimEnd != nil {
		s.store.SetTrimEnd(id, *trimEnd)
	}
	c, ok := s.store.GetClip(id)
	if !ok {
		return fmt.Errorf("clip not found")
	}
	return s.repo.UpdateClipTrim(ctx, id, c.TrimStart, c.TrimEnd)
}

// ResetTrim restores full-clip bounds and persists them.
func (s *Service) ResetTrim(ctx context.Context, id string) error {
	s.store.ResetTrim(id)
	c, ok := s.store.GetClip(id)
	if !ok {
		return fmt.Errorf("clip not found")
	}
	return s.repo.UpdateClipTrim(ctx, id, c.TrimStart, c.TrimEnd)
}

// Rehydrate loads persisted clips into the store at startup. Clips
// whose source file no longer exists are dropped.
func (s *Service) Rehydrate(ctx context.Context) error {
	clips, err := s.repo.ListClips(ctx)
	if err != nil {
		return err
	}

	restored := 0
	for _, c := range clips {
		if _, err := os.Stat(c.Path); err != nil {
			if s.logger != nil {
				s.logger.Warn("dropping clip with missing file", "clip_id", c.ID, "path", logging.SanitizePath(c.Path))
			}
			s.repo.DeleteClip(ctx, c.ID)
			continue
		}
		s.store.Restore(*c)
		restored++
	}

	if s.logger != nil {
		s.logger.Info("session restored", "clips", restored)
	}
	return nil
}

func (s *Service) defaultExportPath(name, quality string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(s.exportDir, fmt.Sprintf("%s_%s.mp4", base, quality))
}
