package clip

import (
	"sync"
	"time"
)

// EventKind classifies store change notifications.
type EventKind string

const (
	EventClipAdded       EventKind = "clip_added"
	EventClipUpdated     EventKind = "clip_updated"
	EventClipRemoved     EventKind = "clip_removed"
	EventTimelineChanged EventKind = "timeline_changed"
	EventSelection       EventKind = "selection_changed"
	EventPlayback        EventKind = "playback_changed"
	EventAnalysis        EventKind = "analysis_changed"
)

// Event is a store change notification.
type Event struct {
	Kind   EventKind
	ClipID string
}

// Store is the edit-state container injected into orchestrators and the
// API layer. Mutations on unknown ids are silent no-ops; the caller is
// expected to resolve ids first when it wants an error.
type Store interface {
	AddClip(c Clip) string
	Restore(c Clip)
	RemoveClip(id string)
	GetClip(id string) (Clip, bool)
	Clips() []Clip
	Count() int

	Select(id string)
	SelectedClip() (Clip, bool)

	SetTrimStart(id string, t float64)
	SetTrimEnd(id string, t float64)
	ResetTrim(id string)

	AddToTimeline(id string)
	RemoveFromTimeline(id string)
	ReorderTimeline(from, to int)
	TimelineClips() []Clip
	TimelineDuration() float64

	SetSceneMarkers(id string, markers []SceneMarker)
	SetHighlights(id string, highlights []Highlight)
	SetCaptions(id string, captions []Caption)
	SetThumbnail(id string, path string)

	SetCurrentTime(t float64)
	SetPlaying(playing bool)
	SetPixelsPerSecond(pps float64)
	SetAnalyzing(analyzing bool)
	SetAnalysisProgress(progress int)
	Playback() PlaybackState

	Subscribe(fn func(Event)) (unsubscribe func())
	ClearAll()
}

// PlaybackState is the process-wide preview state.
type PlaybackState struct {
	CurrentTime      float64 `json:"current_time"`
	Playing          bool    `json:"playing"`
	PixelsPerSecond  float64 `json:"pixels_per_second"`
	Analyzing        bool    `json:"analyzing"`
	AnalysisProgress int     `json:"analysis_progress"`
}

const defaultPixelsPerSecond = 20

// MemoryStore is the in-memory Store implementation. A single mutex
// guards all state so every operation is atomic with respect to the
// concurrent HTTP handlers.
type MemoryStore struct {
	mu sync.Mutex

	clips    []*Clip
	byID     map[string]*Clip
	timeline []string // clip ids, ordered
	selected string

	playback PlaybackState

	subscribers map[int]func(Event)
	nextSubID   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:        make(map[string]*Clip),
		subscribers: make(map[int]func(Event)),
		playback:    PlaybackState{PixelsPerSecond: defaultPixelsPerSecond},
	}
}

// AddClip assigns an id and trim defaults, appends the clip, and selects
// it. Re-importing the same path creates an independent clip.
func (s *MemoryStore) AddClip(c Clip) string {
	s.mu.Lock()
	if c.ID == "" {
		c.ID = NewID()
	}
	c.TrimStart = 0
	c.TrimEnd = c.Duration
	c.TimelineStart = nil
	c.SceneMarkers = []SceneMarker{}
	c.Highlights = []Highlight{}
	c.Captions = []Caption{}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	stored := c
	s.clips = append(s.clips, &stored)
	s.byID[stored.ID] = &stored
	s.selected = stored.ID
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipAdded, ClipID: stored.ID})
	s.notify(Event{Kind: EventSelection, ClipID: stored.ID})
	return stored.ID
}

// Restore re-inserts a previously persisted clip without resetting its
// trim bounds or selecting it. Used when rehydrating a session.
func (s *MemoryStore) Restore(c Clip) {
	s.mu.Lock()
	if c.ID == "" {
		c.ID = NewID()
	}
	stored := c
	s.clips = append(s.clips, &stored)
	s.byID[stored.ID] = &stored
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipAdded, ClipID: stored.ID})
}

// RemoveClip deletes the clip, drops it from the timeline, and clears
// the selection if it was selected.
func (s *MemoryStore) RemoveClip(id string) {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.byID, id)
	for i, c := range s.clips {
		if c.ID == id {
			s.clips = append(s.clips[:i], s.clips[i+1:]...)
			break
		}
	}
	s.removeFromTimelineLocked(id)
	if s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipRemoved, ClipID: id})
}

func (s *MemoryStore) GetClip(id string) (Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return Clip{}, false
	}
	return s.snapshotLocked(c), true
}

func (s *MemoryStore) Clips() []Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Clip, len(s.clips))
	for i, c := range s.clips {
		out[i] = s.snapshotLocked(c)
	}
	return out
}

func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clips)
}

func (s *MemoryStore) Select(id string) {
	s.mu.Lock()
	if id != "" {
		if _, ok := s.byID[id]; !ok {
			s.mu.Unlock()
			return
		}
	}
	s.selected = id
	s.mu.Unlock()

	s.notify(Event{Kind: EventSelection, ClipID: id})
}

func (s *MemoryStore) SelectedClip() (Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return Clip{}, false
	}
	c, ok := s.byID[s.selected]
	if !ok {
		return Clip{}, false
	}
	return s.snapshotLocked(c), true
}

// SetTrimStart clamps t into [0, trimEnd-MinTrimGap]. Unknown ids are
// silent no-ops.
func (s *MemoryStore) SetTrimStart(id string, t float64) {
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	c.TrimStart = clamp(t, 0, c.TrimEnd-MinTrimGap)
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipUpdated, ClipID: id})
}

// SetTrimEnd clamps t into [trimStart+MinTrimGap, duration].
func (s *MemoryStore) SetTrimEnd(id string, t float64) {
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	c.TrimEnd = clamp(t, c.TrimStart+MinTrimGap, c.Duration)
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipUpdated, ClipID: id})
}

func (s *MemoryStore) ResetTrim(id string) {
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	c.TrimStart = 0
	c.TrimEnd = c.Duration
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipUpdated, ClipID: id})
}

// AddToTimeline appends the clip. Idempotent: a clip appears at most
// once; unknown ids are no-ops. Start offsets are derived from sequence
// position, so they never go stale on removal or reorder.
func (s *MemoryStore) AddToTimeline(id string) {
	s.mu.Lock()
	if _, ok := s.byID[id]; !ok {
		s.mu.Unlock()
		return
	}
	for _, existing := range s.timeline {
		if existing == id {
			s.mu.Unlock()
			return
		}
	}
	s.timeline = append(s.timeline, id)
	s.mu.Unlock()

	s.notify(Event{Kind: EventTimelineChanged, ClipID: id})
}

func (s *MemoryStore) RemoveFromTimeline(id string) {
	s.mu.Lock()
	removed := s.removeFromTimelineLocked(id)
	s.mu.Unlock()

	if removed {
		s.notify(Event{Kind: EventTimelineChanged, ClipID: id})
	}
}

func (s *MemoryStore) removeFromTimelineLocked(id string) bool {
	for i, existing := range s.timeline {
		if existing == id {
			s.timeline = append(s.timeline[:i], s.timeline[i+1:]...)
			return true
		}
	}
	return false
}

// ReorderTimeline moves the clip at from to position to. Out-of-range
// indices are no-ops.
func (s *MemoryStore) ReorderTimeline(from, to int) {
	s.mu.Lock()
	n := len(s.timeline)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		s.mu.Unlock()
		return
	}
	id := s.timeline[from]
	s.timeline = append(s.timeline[:from], s.timeline[from+1:]...)
	rest := append([]string{}, s.timeline[to:]...)
	s.timeline = append(s.timeline[:to], id)
	s.timeline = append(s.timeline, rest...)
	s.mu.Unlock()

	s.notify(Event{Kind: EventTimelineChanged, ClipID: id})
}

// TimelineClips returns the ordered timeline with each clip's start
// offset computed as the sum of prior trimmed durations.
func (s *MemoryStore) TimelineClips() []Clip {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Clip, 0, len(s.timeline))
	offset := 0.0
	for _, id := range s.timeline {
		c, ok := s.byID[id]
		if !ok {
			continue
		}
		snap := s.snapshotLocked(c)
		start := offset
		snap.TimelineStart = &start
		out = append(out, snap)
		offset += c.TrimmedDuration()
	}
	return out
}

// TimelineDuration folds trimmed durations over the timeline. Recomputed
// on demand, never cached, so it always reflects current trim state.
func (s *MemoryStore) TimelineDuration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, id := range s.timeline {
		if c, ok := s.byID[id]; ok {
			total += c.TrimmedDuration()
		}
	}
	return total
}

func (s *MemoryStore) SetSceneMarkers(id string, markers []SceneMarker) {
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	c.SceneMarkers = append([]SceneMarker{}, markers...)
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipUpdated, ClipID: id})
}

func (s *MemoryStore) SetHighlights(id string, highlights []Highlight) {
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	c.Highlights = append([]Highlight{}, highlights...)
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipUpdated, ClipID: id})
}

func (s *MemoryStore) SetCaptions(id string, captions []Caption) {
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	c.Captions = append([]Caption{}, captions...)
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipUpdated, ClipID: id})
}

func (s *MemoryStore) SetThumbnail(id string, path string) {
	s.mu.Lock()
	c, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	c.Thumbnail = path
	s.mu.Unlock()

	s.notify(Event{Kind: EventClipUpdated, ClipID: id})
}

func (s *MemoryStore) SetCurrentTime(t float64) {
	s.mu.Lock()
	if t < 0 {
		t = 0
	}
	s.playback.CurrentTime = t
	s.mu.Unlock()

	s.notify(Event{Kind: EventPlayback})
}

func (s *MemoryStore) SetPlaying(playing bool) {
	s.mu.Lock()
	s.playback.Playing = playing
	s.mu.Unlock()

	s.notify(Event{Kind: EventPlayback})
}

func (s *MemoryStore) SetPixelsPerSecond(pps float64) {
	s.mu.Lock()
	if pps <= 0 {
		pps = defaultPixelsPerSecond
	}
	s.playback.PixelsPerSecond = pps
	s.mu.Unlock()

	s.notify(Event{Kind: EventPlayback})
}

func (s *MemoryStore) SetAnalyzing(analyzing bool) {
	s.mu.Lock()
	s.playback.Analyzing = analyzing
	if !analyzing {
		s.playback.AnalysisProgress = 0
	}
	s.mu.Unlock()

	s.notify(Event{Kind: EventAnalysis})
}

func (s *MemoryStore) SetAnalysisProgress(progress int) {
	s.mu.Lock()
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	s.playback.AnalysisProgress = progress
	s.mu.Unlock()

	s.notify(Event{Kind: EventAnalysis})
}

func (s *MemoryStore) Playback() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playback
}

// Subscribe registers a change listener and returns its removal func.
// Listeners are invoked after the mutation completes, outside the lock.
func (s *MemoryStore) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *MemoryStore) ClearAll() {
	s.mu.Lock()
	s.clips = nil
	s.byID = make(map[string]*Clip)
	s.timeline = nil
	s.selected = ""
	s.playback = PlaybackState{PixelsPerSecond: defaultPixelsPerSecond}
	s.mu.Unlock()

	s.notify(Event{Kind: EventTimelineChanged})
}

func (s *MemoryStore) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// snapshotLocked deep-copies a clip so callers never share slices with
// the store.
func (s *MemoryStore) snapshotLocked(c *Clip) Clip {
	snap := *c
	snap.SceneMarkers = append([]SceneMarker{}, c.SceneMarkers...)
	snap.Highlights = append([]Highlight{}, c.Highlights...)
	snap.Captions = append([]Caption{}, c.Captions...)
	if c.TimelineStart != nil {
		v := *c.TimelineStart
		snap.TimelineStart = &v
	}
	return snap
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
