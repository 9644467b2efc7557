package media

import "testing"

func TestProgressParser_Blocks(t *testing.T) {
	p := newProgressParser("job-1", 6)

	lines := []string{
		"frame=30",
		"fps=29.8",
		"out_time=00:00:01.500",
		"speed=2.3x",
		"progress=continue",
	}

	var got Progress
	var done bool
	for _, l := range lines {
		if pr, ok := p.Feed(l); ok {
			got = pr
			done = true
		}
	}

	if !done {
		t.Fatal("block did not complete")
	}
	if got.JobID != "job-1" {
		t.Errorf("JobID = %q, want job-1", got.JobID)
	}
	if got.Time != 1.5 {
		t.Errorf("Time = %v, want 1.5", got.Time)
	}
	if got.Speed != "2.3x" {
		t.Errorf("Speed = %q, want 2.3x", got.Speed)
	}
	if got.Percent != 25 {
		t.Errorf("Percent = %v, want 25", got.Percent)
	}
}

func TestProgressParser_EndIsComplete(t *testing.T) {
	p := newProgressParser("job-2", 6)

	p.Feed("out_time=00:00:05.900")
	p.Feed("speed=1.0x")
	got, ok := p.Feed("progress=end")
	if !ok {
		t.Fatal("end block did not complete")
	}
	if got.Percent != 100 {
		t.Errorf("Percent = %v, want 100 on end", got.Percent)
	}
}

func TestProgressParser_UnknownDuration(t *testing.T) {
	p := newProgressParser("job-3", 0)

	p.Feed("out_time=00:00:10.000")
	got, ok := p.Feed("progress=continue")
	if !ok {
		t.Fatal("block did not complete")
	}
	if got.Percent != 0 {
		t.Errorf("Percent = %v, want 0 without a known duration", got.Percent)
	}
	if got.Time != 10 {
		t.Errorf("Time = %v, want 10", got.Time)
	}
}

func TestProgressParser_IgnoresNoise(t *testing.T) {
	p := newProgressParser("job-4", 6)
	if _, ok := p.Feed("not a key value line"); ok {
		t.Error("noise line must not complete a block")
	}
	if _, ok := p.Feed("bitrate=1200.0kbits/s"); ok {
		t.Error("unrelated key must not complete a block")
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{42, 42},
		{150, 100},
	}
	for _, tc := range tests {
		if got := clampPercent(tc.in); got != tc.want {
			t.Errorf("clampPercent(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
