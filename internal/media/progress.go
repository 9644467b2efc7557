package media

import (
	"strings"

	"github.com/clipforge/clipforge-agent/internal/timeutil"
)

// progressParser accumulates the key=value blocks ffmpeg writes to
// `-progress pipe:1`. Each block ends with a "progress=" line, at which
// point a complete Progress report is emitted.
type progressParser struct {
	jobID    string
	duration float64 // total output seconds expected; 0 = unknown
	current  Progress
}

func newProgressParser(jobID string, duration float64) *progressParser {
	return &progressParser{
		jobID:    jobID,
		duration: duration,
		current:  Progress{JobID: jobID},
	}
}

// Feed consumes one line. It returns a Progress and true when the line
// completes a block.
func (p *progressParser) Feed(line string) (Progress, bool) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return Progress{}, false
	}
	switch key {
	case "out_time":
		p.current.Time = timeutil.ParseClockTime(value)
	case "speed":
		p.current.Speed = strings.TrimSpace(value)
	case "progress":
		if p.duration > 0 {
			p.current.Percent = clampPercent(p.current.Time / p.duration * 100)
		}
		if value == "end" {
			p.current.Percent = 100
		}
		return p.current, true
	}
	return Progress{}, false
}
