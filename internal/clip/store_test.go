package clip

import (
	"math"
	"testing"
)

func newTestClip(name string, duration float64) Clip {
	return Clip{
		Name:     name,
		Path:     "/videos/" + name,
		Duration: duration,
		Width:    1920,
		Height:   1080,
	}
}

func TestAddClipDefaults(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddClip(newTestClip("a.mp4", 10))
	if id == "" {
		t.Fatal("expected generated id")
	}

	c, ok := s.GetClip(id)
	if !ok {
		t.Fatal("clip not found after add")
	}
	if c.TrimStart != 0 || c.TrimEnd != 10 {
		t.Errorf("trim defaults = [%v, %v], want [0, 10]", c.TrimStart, c.TrimEnd)
	}
	if c.SceneMarkers == nil || len(c.SceneMarkers) != 0 {
		t.Errorf("scene markers should default to empty slice")
	}
	sel, ok := s.SelectedClip()
	if !ok || sel.ID != id {
		t.Errorf("newly added clip should be selected")
	}
}

func TestAddClipSamePathIndependent(t *testing.T) {
	s := NewMemoryStore()
	a := s.AddClip(newTestClip("a.mp4", 10))
	b := s.AddClip(newTestClip("a.mp4", 10))
	if a == b {
		t.Fatal("re-import of same path should create a distinct clip")
	}
	if s.Count() != 2 {
		t.Errorf("count = %d, want 2", s.Count())
	}
}

func TestSetTrimStartClamps(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddClip(newTestClip("a.mp4", 10))

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"in range", 2.5, 2.5},
		{"negative", -3, 0},
		{"past end", 50, 10 - MinTrimGap},
		{"exactly end", 10, 10 - MinTrimGap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetTrimStart(id, tt.t)
			c, _ := s.GetClip(id)
			if math.Abs(c.TrimStart-tt.want) > 1e-9 {
				t.Errorf("TrimStart = %v, want %v", c.TrimStart, tt.want)
			}
		})
	}
}

func TestSetTrimEndClamps(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddClip(newTestClip("a.mp4", 10))
	s.SetTrimStart(id, 4)

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"in range", 8, 8},
		{"past duration", 99, 10},
		{"below start", 1, 4 + MinTrimGap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetTrimEnd(id, tt.t)
			c, _ := s.GetClip(id)
			if math.Abs(c.TrimEnd-tt.want) > 1e-9 {
				t.Errorf("TrimEnd = %v, want %v", c.TrimEnd, tt.want)
			}
		})
	}
}

func TestTrimUnknownIDNoOp(t *testing.T) {
	s := NewMemoryStore()
	s.SetTrimStart("missing", 5)
	s.SetTrimEnd("missing", 5)
	s.ResetTrim("missing")
	if s.Count() != 0 {
		t.Error("store should remain empty")
	}
}

func TestResetTrimIdempotent(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddClip(newTestClip("a.mp4", 12))
	s.SetTrimStart(id, 3)
	s.SetTrimEnd(id, 9)

	s.ResetTrim(id)
	s.ResetTrim(id)

	c, _ := s.GetClip(id)
	if c.TrimStart != 0 || c.TrimEnd != 12 {
		t.Errorf("after reset trim = [%v, %v], want [0, 12]", c.TrimStart, c.TrimEnd)
	}
}

func TestAddToTimelineIdempotent(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddClip(newTestClip("a.mp4", 10))

	s.AddToTimeline(id)
	s.AddToTimeline(id)
	s.AddToTimeline("missing")

	if got := len(s.TimelineClips()); got != 1 {
		t.Errorf("timeline length = %d, want 1", got)
	}
}

func TestTimelineDurationRecomputed(t *testing.T) {
	s := NewMemoryStore()
	a := s.AddClip(newTestClip("a.mp4", 10))
	b := s.AddClip(newTestClip("b.mp4", 6))
	s.AddToTimeline(a)
	s.AddToTimeline(b)

	if got := s.TimelineDuration(); math.Abs(got-16) > 1e-9 {
		t.Fatalf("duration = %v, want 16", got)
	}

	s.SetTrimStart(a, 2)
	s.SetTrimEnd(a, 8)
	if got := s.TimelineDuration(); math.Abs(got-12) > 1e-9 {
		t.Errorf("duration after trim = %v, want 12", got)
	}

	s.ResetTrim(a)
	if got := s.TimelineDuration(); math.Abs(got-16) > 1e-9 {
		t.Errorf("duration after reset = %v, want 16", got)
	}
}

func TestTimelineOffsets(t *testing.T) {
	s := NewMemoryStore()
	a := s.AddClip(newTestClip("a.mp4", 10))
	b := s.AddClip(newTestClip("b.mp4", 6))
	c := s.AddClip(newTestClip("c.mp4", 4))
	s.AddToTimeline(a)
	s.AddToTimeline(b)
	s.AddToTimeline(c)
	s.SetTrimStart(a, 2)
	s.SetTrimEnd(a, 8)

	clips := s.TimelineClips()
	wantOffsets := []float64{0, 6, 12}
	for i, want := range wantOffsets {
		if clips[i].TimelineStart == nil {
			t.Fatalf("clip %d has nil timeline start", i)
		}
		if math.Abs(*clips[i].TimelineStart-want) > 1e-9 {
			t.Errorf("clip %d offset = %v, want %v", i, *clips[i].TimelineStart, want)
		}
	}

	// Removing the middle clip shifts the tail left.
	s.RemoveFromTimeline(b)
	clips = s.TimelineClips()
	if len(clips) != 2 {
		t.Fatalf("timeline length = %d, want 2", len(clips))
	}
	if math.Abs(*clips[1].TimelineStart-6) > 1e-9 {
		t.Errorf("offset after removal = %v, want 6", *clips[1].TimelineStart)
	}
}

func TestReorderTimeline(t *testing.T) {
	s := NewMemoryStore()
	a := s.AddClip(newTestClip("a.mp4", 1))
	b := s.AddClip(newTestClip("b.mp4", 2))
	c := s.AddClip(newTestClip("c.mp4", 3))
	s.AddToTimeline(a)
	s.AddToTimeline(b)
	s.AddToTimeline(c)

	s.ReorderTimeline(2, 0)
	clips := s.TimelineClips()
	if clips[0].ID != c || clips[1].ID != a || clips[2].ID != b {
		t.Errorf("order after move = %s %s %s, want c a b", clips[0].Name, clips[1].Name, clips[2].Name)
	}

	// Out-of-range moves leave the order alone.
	s.ReorderTimeline(-1, 0)
	s.ReorderTimeline(0, 5)
	clips = s.TimelineClips()
	if clips[0].ID != c {
		t.Error("out-of-range reorder should be a no-op")
	}
}

func TestRemoveClipClearsTimelineAndSelection(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddClip(newTestClip("a.mp4", 10))
	s.AddToTimeline(id)

	s.RemoveClip(id)

	if s.Count() != 0 {
		t.Error("clip should be gone")
	}
	if len(s.TimelineClips()) != 0 {
		t.Error("timeline should be empty")
	}
	if _, ok := s.SelectedClip(); ok {
		t.Error("selection should be cleared")
	}
}

func TestSubscribe(t *testing.T) {
	s := NewMemoryStore()
	var events []Event
	unsub := s.Subscribe(func(ev Event) { events = append(events, ev) })

	id := s.AddClip(newTestClip("a.mp4", 10))
	s.SetTrimStart(id, 1)

	if len(events) < 2 {
		t.Fatalf("expected at least 2 events, got %d", len(events))
	}
	if events[0].Kind != EventClipAdded {
		t.Errorf("first event = %s, want %s", events[0].Kind, EventClipAdded)
	}

	unsub()
	n := len(events)
	s.SetTrimEnd(id, 5)
	if len(events) != n {
		t.Error("unsubscribed listener still notified")
	}
}

func TestGetClipReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	id := s.AddClip(newTestClip("a.mp4", 10))
	s.SetSceneMarkers(id, []SceneMarker{{Timestamp: 1.5, Score: 0.5}})

	c, _ := s.GetClip(id)
	c.SceneMarkers[0].Timestamp = 99

	again, _ := s.GetClip(id)
	if again.SceneMarkers[0].Timestamp != 1.5 {
		t.Error("mutating a returned clip leaked into the store")
	}
}

func TestAnalysisProgressClamped(t *testing.T) {
	s := NewMemoryStore()
	s.SetAnalysisProgress(150)
	if got := s.Playback().AnalysisProgress; got != 100 {
		t.Errorf("progress = %d, want 100", got)
	}
	s.SetAnalysisProgress(-5)
	if got := s.Playback().AnalysisProgress; got != 0 {
		t.Errorf("progress = %d, want 0", got)
	}
}
