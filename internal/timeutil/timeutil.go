// Package timeutil provides conversions between seconds, frame counts,
// timecodes, and the display strings used across the agent.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTime renders seconds as M:SS, e.g. "1:23".
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatTimeLong renders seconds as H:MM:SS when the duration reaches an
// hour, M:SS otherwise.
func FormatTimeLong(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// ParseTime parses "MM:SS" or "HH:MM:SS" into seconds.
// Malformed input yields 0.
func ParseTime(s string) float64 {
	parts := strings.Split(s, ":")
	nums := make([]float64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0
		}
		nums = append(nums, n)
	}
	switch len(nums) {
	case 2:
		return nums[0]*60 + nums[1]
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2]
	default:
		return 0
	}
}

// ParseClockTime parses the "HH:MM:SS.mmm" timestamps ffmpeg emits in
// progress output. Malformed input yields 0, never an error.
func ParseClockTime(s string) float64 {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	secs, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0
	}
	return float64(hours)*3600 + float64(mins)*60 + secs
}

// ParseFrameRate parses an ffprobe frame-rate expression such as
// "30000/1001" or "25/1" as a plain numerator/denominator ratio.
// It never evaluates the expression as code. Plain float strings are
// accepted. Malformed input or a zero denominator yields 0.
func ParseFrameRate(s string) float64 {
	if idx := strings.Index(s, "/"); idx != -1 {
		num, err := strconv.ParseFloat(s[:idx], 64)
		if err != nil {
			return 0
		}
		den, err := strconv.ParseFloat(s[idx+1:], 64)
		if err != nil || den == 0 {
			return 0
		}
		return num / den
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// FramesToTime converts a frame count to seconds at the given rate.
func FramesToTime(frames int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frames) / fps
}

// TimeToFrames converts seconds to a whole frame count at the given rate.
func TimeToFrames(seconds float64, fps float64) int {
	if fps <= 0 {
		return 0
	}
	return int(math.Floor(seconds * fps))
}

// SnapToFrame rounds seconds to the nearest frame boundary.
func SnapToFrame(seconds float64, fps float64) float64 {
	if fps <= 0 {
		return seconds
	}
	return math.Round(seconds*fps) / fps
}

// Timecode renders seconds as HH:MM:SS:FF at an integer frame rate.
func Timecode(seconds float64, fps int) string {
	if fps <= 0 {
		fps = 30
	}
	if seconds < 0 {
		seconds = 0
	}
	totalFrames := int(math.Round(seconds * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	mins := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, mins, secs, frames)
}
