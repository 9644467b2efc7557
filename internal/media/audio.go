package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExtractAudio strips the video stream and transcodes audio per opts.
func (e *Exec) ExtractAudio(ctx context.Context, path string, opts AudioOptions) (string, error) {
	if opts.Format == "" {
		opts.Format = AudioWAV
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 16000
	}
	if opts.Channels <= 0 {
		opts.Channels = 1
	}
	outPath := opts.OutputPath
	if outPath == "" {
		outPath = DefaultAudioPath(path, opts.Format)
	}

	cmd := exec.CommandContext(ctx, e.ffmpeg,
		"-y",
		"-i", path,
		"-vn",
		"-acodec", opts.Format.Codec(),
		"-ar", fmt.Sprintf("%d", opts.SampleRate),
		"-ac", fmt.Sprintf("%d", opts.Channels),
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderr, limit: maxStderrBytes}

	if err := cmd.Start(); err != nil {
		return "", &AudioExtractionError{Message: err.Error(), Spawn: true}
	}
	if err := cmd.Wait(); err != nil {
		e.logger.Warn("audio extraction failed", "path", path, "error", err,
			"stderr_tail", truncate(stderr.String(), 512))
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return "", &AudioExtractionError{Message: msg}
	}

	e.logger.Info("audio extraction complete", "input", path, "output", outPath)
	return outPath, nil
}

// ExtractAudioForSpeech extracts mono 16 kHz WAV, the shape downstream
// speech recognition expects.
func (e *Exec) ExtractAudioForSpeech(ctx context.Context, path, outputPath string) (string, error) {
	return e.ExtractAudio(ctx, path, AudioOptions{
		OutputPath: outputPath,
		Format:     AudioWAV,
		SampleRate: 16000,
		Channels:   1,
	})
}

// DefaultAudioPath derives "<name>_audio.<ext>" next to the input file.
func DefaultAudioPath(inputPath string, format AudioFormat) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+"_audio"+format.Extension())
}
