package library

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/clipforge/clipforge-agent/internal/clip"
	"github.com/clipforge/clipforge-agent/internal/media"
)

// Runner drains queued analysis jobs one at a time. Exports run
// synchronously through the Service; only scene detection, audio
// extraction, and thumbnails are queued.
type Runner struct {
	store          clip.Store
	repo           Repository
	ffmpeg         media.FFmpeg
	logger         *slog.Logger
	artifactsDir   string
	sceneThreshold float64
	scenesTimeout  time.Duration
	audioTimeout   time.Duration
	pollInterval   time.Duration
	running        atomic.Bool
	paused         atomic.Bool
}

type RunnerOptions struct {
	ArtifactsDir   string
	SceneThreshold float64
	ScenesTimeout  time.Duration
	AudioTimeout   time.Duration
}

func NewRunner(store clip.Store, repo Repository, ffmpeg media.FFmpeg, logger *slog.Logger, opts RunnerOptions) *Runner {
	return &Runner{
		store:          store,
		repo:           repo,
		ffmpeg:         ffmpeg,
		logger:         logger,
		artifactsDir:   opts.ArtifactsDir,
		sceneThreshold: opts.SceneThreshold,
		scenesTimeout:  opts.ScenesTimeout,
		audioTimeout:   opts.AudioTimeout,
		pollInterval:   2 * time.Second,
	}
}

// jobContext bounds a job's subprocess with the configured timeout.
// A zero timeout means no bound.
func jobContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}

	r.logger.Info("job runner started")

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("job runner stopping")
			r.running.Store(false)
			return
		case <-ticker.C:
			if !r.paused.Load() {
				r.processNextJob(ctx)
			}
		}
	}
}

func (r *Runner) Pause() {
	r.paused.Store(true)
	r.logger.Info("job runner paused")
}

func (r *Runner) Resume() {
	r.paused.Store(false)
	r.logger.Info("job runner resumed")
}

func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

func (r *Runner) processNextJob(ctx context.Context) {
	jobs, err := r.repo.ListQueuedJobs(ctx)
	if err != nil {
		r.logger.Error("failed to list queued jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	job := jobs[0]
	r.logger.Info("processing job", "job_id", job.ID, "type", job.Type)

	c, ok := r.store.GetClip(job.ClipID)
	if !ok {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "clip not found")
		return
	}

	switch job.Type {
	case JobTypeSceneDetect:
		r.processSceneDetect(ctx, job, c)
	case JobTypeAudioExtract:
		r.processAudioExtract(ctx, job, c)
	case JobTypeThumbnail:
		r.processThumbnail(ctx, job, c)
	default:
		r.logger.Warn("unknown job type", "type", job.Type)
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "unknown job type")
	}
}

func (r *Runner) processSceneDetect(ctx context.Context, job *Job, c clip.Clip) {
	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, "")
	r.store.SetAnalyzing(true)
	defer r.store.SetAnalyzing(false)

	jobCtx, cancel := jobContext(ctx, r.scenesTimeout)
	defer cancel()

	scenes, err := r.ffmpeg.DetectScenes(jobCtx, c.Path, r.sceneThreshold)
	if err != nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		r.logger.Error("scene detection failed", "job_id", job.ID, "error", err)
		return
	}

	markers := make([]clip.SceneMarker, len(scenes))
	for i, sc := range scenes {
		markers[i] = clip.SceneMarker{Timestamp: sc.Timestamp, Score: sc.Score}
	}
	r.store.SetSceneMarkers(c.ID, markers)
	r.store.SetAnalysisProgress(100)

	r.repo.UpdateJobProgress(ctx, job.ID, 100)
	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
	r.logger.Info("scene detection completed", "job_id", job.ID, "clip_id", c.ID, "scenes", len(markers))
}

func (r *Runner) processAudioExtract(ctx context.Context, job *Job, c clip.Clip) {
	if !c.HasAudio {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, "clip has no audio stream")
		return
	}

	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, "")

	outPath := filepath.Join(r.artifactsDir, c.ID, "audio.wav")
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		return
	}

	jobCtx, cancel := jobContext(ctx, r.audioTimeout)
	defer cancel()

	out, err := r.ffmpeg.ExtractAudio(jobCtx, c.Path, media.AudioOptions{OutputPath: outPath})
	if err != nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		r.logger.Error("audio extraction failed", "job_id", job.ID, "error", err)
		return
	}

	r.repo.UpdateJobOutput(ctx, job.ID, out)
	r.repo.UpdateJobProgress(ctx, job.ID, 100)
	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
	r.logger.Info("audio extracted", "job_id", job.ID, "clip_id", c.ID, "output", out)
}

func (r *Runner) processThumbnail(ctx context.Context, job *Job, c clip.Clip) {
	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusRunning, "")

	// Grab a frame 10% in; early frames are often black.
	timestamp := c.Duration * 0.1
	outPath := filepath.Join(r.artifactsDir, c.ID, "thumbnail.jpg")
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		return
	}

	if err := r.ffmpeg.ExtractFrame(ctx, c.Path, timestamp, outPath); err != nil {
		r.repo.UpdateJobStatus(ctx, job.ID, JobStatusFailed, err.Error())
		r.logger.Error("thumbnail generation failed", "job_id", job.ID, "error", err)
		return
	}

	r.store.SetThumbnail(c.ID, outPath)
	if err := r.repo.UpdateClipThumbnail(ctx, c.ID, outPath); err != nil {
		r.logger.Warn("failed to persist thumbnail path", "clip_id", c.ID, "error", err)
	}

	r.repo.UpdateJobOutput(ctx, job.ID, outPath)
	r.repo.UpdateJobProgress(ctx, job.ID, 100)
	r.repo.UpdateJobStatus(ctx, job.ID, JobStatusCompleted, "")
	r.logger.Info("thumbnail generated", "job_id", job.ID, "clip_id", c.ID)
}

func (r *Runner) GetActiveJobCount(ctx context.Context) int {
	jobs, err := r.repo.ListJobs(ctx, 100)
	if err != nil {
		return 0
	}
	count := 0
	for _, j := range jobs {
		if j.Status == JobStatusRunning {
			count++
		}
	}
	return count
}
