package media

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"

	"github.com/clipforge/clipforge-agent/internal/timeutil"
)

// probeOutput mirrors the subset of `ffprobe -print_format json` output
// the agent consumes.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	Channels   int    `json:"channels"`
	SampleRate string `json:"sample_rate"`
}

// Probe runs `ffprobe -v quiet -print_format json -show_format
// -show_streams` and parses the result.
func (e *Exec) Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, e.ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &limitedWriter{w: &stderr, limit: maxStderrBytes}

	if err := cmd.Start(); err != nil {
		return nil, &ProbeError{Message: err.Error(), Spawn: true}
	}
	if err := cmd.Wait(); err != nil {
		e.logger.Warn("ffprobe failed", "path", path, "error", err,
			"stderr_tail", truncate(stderr.String(), 512))
		return nil, &ProbeError{Message: probeFailureMessage(err, stderr.String())}
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, &ProbeError{Message: "unparsable ffprobe output: " + err.Error()}
	}

	return parseProbeOutput(&out), nil
}

// HasAudio probes and reports whether any stream is an audio stream.
func (e *Exec) HasAudio(ctx context.Context, path string) (bool, error) {
	md, err := e.Probe(ctx, path)
	if err != nil {
		return false, err
	}
	return md.HasAudio, nil
}

func parseProbeOutput(out *probeOutput) *Metadata {
	md := &Metadata{Codec: "unknown"}

	md.Duration, _ = strconv.ParseFloat(out.Format.Duration, 64)
	md.Bitrate, _ = strconv.ParseInt(out.Format.BitRate, 10, 64)

	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if md.Width == 0 {
				md.Width = s.Width
				md.Height = s.Height
				md.FrameRate = timeutil.ParseFrameRate(s.RFrameRate)
				if s.CodecName != "" {
					md.Codec = s.CodecName
				}
			}
		case "audio":
			if !md.HasAudio {
				md.HasAudio = true
				md.AudioCodec = s.CodecName
				md.AudioChannels = s.Channels
				md.AudioSampleRate, _ = strconv.Atoi(s.SampleRate)
			}
		}
	}

	return md
}

func probeFailureMessage(err error, stderrTail string) string {
	if stderrTail != "" {
		return stderrTail
	}
	return err.Error()
}
