package media

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Export re-encodes job's trimmed range with the tier's CRF and speed
// preset, relocating container metadata for streaming playback. Progress
// reports stream back through onProgress in the order the encoder emits
// them. No retry: a failure is terminal for this call.
func (e *Exec) Export(ctx context.Context, job ExportJob, onProgress func(Progress)) (string, error) {
	args := buildExportArgs(job)
	cmd := exec.CommandContext(ctx, e.ffmpeg, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderr, limit: maxStderrBytes}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", &ExportError{Message: err.Error(), Spawn: true}
	}

	e.logger.Info("starting export",
		"job_id", job.ID,
		"input", job.InputPath,
		"output", job.OutputPath,
		"start", job.StartTime,
		"duration", job.Duration,
		"quality", string(job.Quality),
	)

	if err := cmd.Start(); err != nil {
		return "", &ExportError{Message: err.Error(), Spawn: true}
	}

	scanner := bufio.NewScanner(stdout)
	parser := newProgressParser(job.ID, job.Duration)
	for scanner.Scan() {
		if p, done := parser.Feed(scanner.Text()); done && onProgress != nil {
			onProgress(p)
		}
	}

	if err := cmd.Wait(); err != nil {
		e.logger.Warn("export failed",
			"job_id", job.ID,
			"error", err,
			"stderr_tail", truncate(stderr.String(), 512),
		)
		return "", &ExportError{Message: exportFailureMessage(err, stderr.String())}
	}

	e.logger.Info("export complete", "job_id", job.ID, "output", job.OutputPath)
	return job.OutputPath, nil
}

// buildExportArgs translates an ExportJob into the encoder argument list.
// A zero start time adds no seek; a zero duration adds no cap.
func buildExportArgs(job ExportJob) []string {
	args := []string{"-y"}
	if job.StartTime > 0 {
		args = append(args, "-ss", formatSeconds(job.StartTime))
	}
	args = append(args, "-i", job.InputPath)
	if job.Duration > 0 {
		args = append(args, "-t", formatSeconds(job.Duration))
	}
	args = append(args,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-crf", fmt.Sprintf("%d", job.Quality.CRF()),
		"-preset", job.Quality.Preset(),
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		job.OutputPath,
	)
	return args
}

// Concat joins pre-encoded segments with the concat demuxer and a stream
// copy, then relocates metadata for streaming playback.
func (e *Exec) Concat(ctx context.Context, segments []string, outPath string) error {
	if len(segments) == 0 {
		return &ExportError{Message: "no segments to concatenate"}
	}

	list, err := writeConcatList(segments)
	if err != nil {
		return &ExportError{Message: err.Error()}
	}
	defer list.cleanup()

	cmd := exec.CommandContext(ctx, e.ffmpeg,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list.path,
		"-c", "copy",
		"-movflags", "+faststart",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderr, limit: maxStderrBytes}

	if err := cmd.Start(); err != nil {
		return &ExportError{Message: err.Error(), Spawn: true}
	}
	if err := cmd.Wait(); err != nil {
		return &ExportError{Message: exportFailureMessage(err, stderr.String())}
	}
	return nil
}

// ExtractFrame writes the single frame nearest timestamp to outPath.
func (e *Exec) ExtractFrame(ctx context.Context, path string, timestamp float64, outPath string) error {
	cmd := exec.CommandContext(ctx, e.ffmpeg,
		"-y",
		"-ss", formatSeconds(timestamp),
		"-i", path,
		"-frames:v", "1",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderr, limit: maxStderrBytes}

	if err := cmd.Start(); err != nil {
		return &ExportError{Message: err.Error(), Spawn: true}
	}
	if err := cmd.Wait(); err != nil {
		return &ExportError{Message: exportFailureMessage(err, stderr.String())}
	}
	return nil
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func exportFailureMessage(err error, stderrTail string) string {
	if stderrTail != "" {
		return stderrTail
	}
	return err.Error()
}
