package media

import (
	"bytes"
	"fmt"
	"log/slog"
	"os/exec"
)

const maxStderrBytes = 8 * 1024 // 8 KB tail of stderr kept for diagnostics

// Exec is the production FFmpeg implementation. It resolves the ffmpeg
// and ffprobe binaries once at construction; a binary missing from PATH
// is a spawn-class failure for every later call.
type Exec struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
}

// NewExec resolves the binaries and returns a ready adapter. Empty paths
// auto-detect on PATH.
func NewExec(ffmpegPath, ffprobePath string, logger *slog.Logger) (*Exec, error) {
	ffmpeg, err := resolveBinary(ffmpegPath, "ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("cannot locate ffmpeg: %w", err)
	}
	ffprobe, err := resolveBinary(ffprobePath, "ffprobe")
	if err != nil {
		return nil, fmt.Errorf("cannot locate ffprobe: %w", err)
	}

	logger.Info("media adapter initialised", "ffmpeg", ffmpeg, "ffprobe", ffprobe)

	return &Exec{ffmpeg: ffmpeg, ffprobe: ffprobe, logger: logger}, nil
}

// resolveBinary finds a usable binary, preferring the configured path.
func resolveBinary(preferred, name string) (string, error) {
	if preferred != "" {
		if p, err := exec.LookPath(preferred); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("configured %s %q not found", name, preferred)
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("no %s binary found on PATH", name)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen:]
}

// limitedWriter is an io.Writer that keeps only the last `limit` bytes.
type limitedWriter struct {
	w     *bytes.Buffer
	limit int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	lw.w.Write(p)
	if lw.w.Len() > lw.limit {
		// Keep only the tail
		b := lw.w.Bytes()
		lw.w.Reset()
		lw.w.Write(b[len(b)-lw.limit:])
	}
	return n, nil
}
