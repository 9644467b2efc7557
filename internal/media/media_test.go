package media

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestQuality_Tiers(t *testing.T) {
	tests := []struct {
		q      Quality
		crf    int
		preset string
	}{
		{QualityLow, 28, "fast"},
		{QualityMedium, 23, "medium"},
		{QualityHigh, 18, "slow"},
	}

	for _, tc := range tests {
		if got := tc.q.CRF(); got != tc.crf {
			t.Errorf("%s.CRF() = %d, want %d", tc.q, got, tc.crf)
		}
		if got := tc.q.Preset(); got != tc.preset {
			t.Errorf("%s.Preset() = %q, want %q", tc.q, got, tc.preset)
		}
	}
}

func TestQuality_Valid(t *testing.T) {
	if !QualityMedium.Valid() {
		t.Error("medium should be valid")
	}
	if Quality("ultra").Valid() {
		t.Error("unknown tier should be invalid")
	}
}

func TestBuildExportArgs_Trimmed(t *testing.T) {
	job := ExportJob{
		InputPath:  "/videos/in.mp4",
		OutputPath: "/videos/out.mp4",
		StartTime:  2,
		Duration:   6,
		Quality:    QualityHigh,
	}

	args := buildExportArgs(job)
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "-ss 2.000 -i /videos/in.mp4") {
		t.Errorf("seek must precede the input: %q", joined)
	}
	if !strings.Contains(joined, "-t 6.000") {
		t.Errorf("missing duration cap: %q", joined)
	}
	if !strings.Contains(joined, "-crf 18") || !strings.Contains(joined, "-preset slow") {
		t.Errorf("high tier settings missing: %q", joined)
	}
	if !strings.Contains(joined, "-movflags +faststart") {
		t.Errorf("faststart flag missing: %q", joined)
	}
	if args[len(args)-1] != "/videos/out.mp4" {
		t.Errorf("output path must be last, got %q", args[len(args)-1])
	}
}

func TestBuildExportArgs_NoSeekAtZero(t *testing.T) {
	job := ExportJob{
		InputPath:  "/in.mp4",
		OutputPath: "/out.mp4",
		Quality:    QualityMedium,
	}

	args := buildExportArgs(job)
	joined := strings.Join(args, " ")

	if strings.Contains(joined, "-ss") {
		t.Errorf("zero start must not add a seek: %q", joined)
	}
	if strings.Contains(joined, "-t ") {
		t.Errorf("zero duration must not add a cap: %q", joined)
	}
}

func TestParseSceneLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want SceneChange
		ok   bool
	}{
		{
			name: "showinfo line",
			line: "[Parsed_showinfo_0 @ 0x7f] n:1 pts:135 pts_time:1.5 pos:100 fmt:yuv420p score:0.45",
			want: SceneChange{Timestamp: 1.5, Score: 0.45},
			ok:   true,
		},
		{
			name: "second change",
			line: "[Parsed_showinfo_0 @ 0x7f] n:2 pts:288 pts_time:3.2 pos:200 fmt:yuv420p score:0.12",
			want: SceneChange{Timestamp: 3.2, Score: 0.12},
			ok:   true,
		},
		{
			name: "unrelated stderr",
			line: "frame=  100 fps=25 q=28.0 size=512kB",
			ok:   false,
		},
		{
			name: "empty",
			line: "",
			ok:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseSceneLine(tc.line)
			if ok != tc.ok {
				t.Fatalf("ParseSceneLine(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("ParseSceneLine(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParseProbeOutput(t *testing.T) {
	raw := `{
		"format": {"duration": "10.5", "bit_rate": "4000000"},
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"},
			{"codec_type": "audio", "codec_name": "aac", "channels": 2, "sample_rate": "48000"}
		]
	}`

	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	md := parseProbeOutput(&out)
	if md.Duration != 10.5 {
		t.Errorf("Duration = %v, want 10.5", md.Duration)
	}
	if md.Bitrate != 4000000 {
		t.Errorf("Bitrate = %v, want 4000000", md.Bitrate)
	}
	if md.Width != 1920 || md.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", md.Width, md.Height)
	}
	if md.Codec != "h264" {
		t.Errorf("Codec = %q, want h264", md.Codec)
	}
	if got := int(md.FrameRate * 100); got != 2997 {
		t.Errorf("FrameRate = %v, want ~29.97", md.FrameRate)
	}
	if !md.HasAudio || md.AudioCodec != "aac" || md.AudioChannels != 2 || md.AudioSampleRate != 48000 {
		t.Errorf("audio attrs = %+v", md)
	}
}

func TestParseProbeOutput_NoAudio(t *testing.T) {
	raw := `{
		"format": {"duration": "3.0"},
		"streams": [{"codec_type": "video", "codec_name": "vp9", "width": 640, "height": 480, "r_frame_rate": "25/1"}]
	}`

	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	md := parseProbeOutput(&out)
	if md.HasAudio {
		t.Error("HasAudio = true for audio-less file")
	}
	if md.FrameRate != 25 {
		t.Errorf("FrameRate = %v, want 25", md.FrameRate)
	}
}

func TestLimitedWriter_KeepsOnlyTail(t *testing.T) {
	var buf bytes.Buffer
	lw := &limitedWriter{w: &buf, limit: 10}

	lw.Write([]byte("hello"))
	if buf.String() != "hello" {
		t.Errorf("after short write got %q, want %q", buf.String(), "hello")
	}

	lw.Write([]byte(" world of test data"))
	got := buf.String()
	if len(got) > 10 {
		t.Errorf("buffer length %d exceeds limit 10", len(got))
	}
	if got != " test data" {
		t.Errorf("after overflow got %q, want %q", got, " test data")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "...world"},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestAudioFormat_Mapping(t *testing.T) {
	tests := []struct {
		f     AudioFormat
		codec string
		ext   string
	}{
		{AudioWAV, "pcm_s16le", ".wav"},
		{AudioMP3, "libmp3lame", ".mp3"},
		{AudioAAC, "aac", ".aac"},
		{AudioPCM, "pcm_s16le", ".pcm"},
	}

	for _, tc := range tests {
		if got := tc.f.Codec(); got != tc.codec {
			t.Errorf("%s.Codec() = %q, want %q", tc.f, got, tc.codec)
		}
		if got := tc.f.Extension(); got != tc.ext {
			t.Errorf("%s.Extension() = %q, want %q", tc.f, got, tc.ext)
		}
	}
}

func TestDefaultAudioPath(t *testing.T) {
	got := DefaultAudioPath("/videos/holiday.mp4", AudioWAV)
	if got != "/videos/holiday_audio.wav" {
		t.Errorf("DefaultAudioPath = %q", got)
	}
}

func TestResolveBinary_PreferredNotFound(t *testing.T) {
	if _, err := resolveBinary("/nonexistent/ffmpeg999", "ffmpeg"); err == nil {
		t.Fatal("expected error for nonexistent binary")
	}
}
