package media

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

// showinfo logs scene scores to stderr as
// [Parsed_showinfo_0 @ 0x...] n:123 pts:456 pts_time:12.345 ... score:0.678
var sceneLinePattern = regexp.MustCompile(`pts_time:([0-9.]+).*score:([0-9.]+)`)

const (
	defaultAdvancedThreshold = 0.3
	defaultSceneMinDuration  = 1.0
	defaultSceneMaxDuration  = 10.0
)

// DetectScenes decodes path through the scene-change filter and collects
// every reported discontinuity. Threshold is in (0,1]; higher is stricter.
// No client-side filtering is applied beyond what the filter reports.
func (e *Exec) DetectScenes(ctx context.Context, path string, threshold float64) ([]SceneChange, error) {
	return e.scanScenes(ctx, path, threshold, nil)
}

// DetectScenesAdvanced applies the same scan but keeps only changes whose
// timestamp falls inside [MinDuration, MaxDuration].
func (e *Exec) DetectScenesAdvanced(ctx context.Context, path string, opts SceneOptions) ([]SceneChange, error) {
	if opts.Threshold <= 0 {
		opts.Threshold = defaultAdvancedThreshold
	}
	if opts.MinDuration <= 0 {
		opts.MinDuration = defaultSceneMinDuration
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = defaultSceneMaxDuration
	}

	keep := func(sc SceneChange) bool {
		return sc.Timestamp >= opts.MinDuration && sc.Timestamp <= opts.MaxDuration
	}
	return e.scanScenes(ctx, path, opts.Threshold, keep)
}

func (e *Exec) scanScenes(ctx context.Context, path string, threshold float64, keep func(SceneChange) bool) ([]SceneChange, error) {
	filter := fmt.Sprintf(`select='gt(scene,%g)',showinfo`, threshold)
	cmd := exec.CommandContext(ctx, e.ffmpeg,
		"-i", path,
		"-filter:v", filter,
		"-f", "null",
		"-",
	)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SceneDetectionError{Message: err.Error(), Spawn: true}
	}

	if err := cmd.Start(); err != nil {
		return nil, &SceneDetectionError{Message: err.Error(), Spawn: true}
	}

	scenes := []SceneChange{}
	var tail string
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for scanner.Scan() {
		line := scanner.Text()
		tail = line
		sc, ok := ParseSceneLine(line)
		if !ok {
			continue
		}
		if keep == nil || keep(sc) {
			scenes = append(scenes, sc)
		}
	}

	if err := cmd.Wait(); err != nil {
		e.logger.Warn("scene detection failed", "path", path, "error", err, "stderr_tail", tail)
		msg := tail
		if msg == "" {
			msg = err.Error()
		}
		return nil, &SceneDetectionError{Message: msg}
	}

	e.logger.Info("scene detection complete", "path", path, "scenes", len(scenes))
	return scenes, nil
}

// ParseSceneLine extracts a scene change from one showinfo stderr line.
func ParseSceneLine(line string) (SceneChange, bool) {
	m := sceneLinePattern.FindStringSubmatch(line)
	if m == nil {
		return SceneChange{}, false
	}
	ts, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return SceneChange{}, false
	}
	score, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return SceneChange{}, false
	}
	return SceneChange{Timestamp: ts, Score: score}, true
}
