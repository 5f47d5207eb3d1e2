// Package status tracks the most recent health check outcome per target.
package status

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tiarrablandin/grimoire-status/internal/checker"
)

// Snapshot is what the UI is allowed to display for one target: the last
// applied check outcome plus whether a newer check is currently in flight.
type Snapshot struct {
	Target     string        `json:"target"`
	State      checker.State `json:"state"`
	Message    string        `json:"message"`
	StatusCode int           `json:"status_code,omitempty"`
	LatencyMS  int64         `json:"latency_ms"`
	CheckedAt  time.Time     `json:"checked_at"`
	Loading    bool          `json:"loading"`
}

// Tracker serializes check outcomes per target. Every check is assigned a
// generation when it starts; a result is applied only if no later check has
// already been applied for the same target. Overlapping triggers therefore
// cannot let a stale response overwrite a newer one.
type Tracker struct {
	mu       sync.RWMutex
	nextGen  uint64
	applied  map[string]uint64
	inflight map[string]int
	latest   map[string]Snapshot
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		applied:  make(map[string]uint64),
		inflight: make(map[string]int),
		latest:   make(map[string]Snapshot),
	}
}

// Begin registers a new check for target and returns its generation.
func (t *Tracker) Begin(target string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextGen++
	t.inflight[target]++
	return t.nextGen
}

// Apply records the result of the check started with gen. It returns false
// when the result is stale, i.e. a later check already applied its result.
// Apply must be called exactly once per Begin, even for stale results, so
// the loading flag drains correctly.
func (t *Tracker) Apply(gen uint64, res checker.Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inflight[res.Target] > 0 {
		t.inflight[res.Target]--
	}

	if gen < t.applied[res.Target] {
		return false
	}
	t.applied[res.Target] = gen

	t.latest[res.Target] = Snapshot{
		Target:     res.Target,
		State:      res.State,
		Message:    res.Message,
		StatusCode: res.StatusCode,
		LatencyMS:  res.LatencyMS,
		CheckedAt:  res.CheckedAt,
	}
	return true
}

// Run executes probe for target under the generation guard and reports
// whether the result was applied.
func (t *Tracker) Run(ctx context.Context, target checker.Target, probe func(context.Context, checker.Target) checker.Result) (checker.Result, bool) {
	gen := t.Begin(target.Name)
	res := probe(ctx, target)
	applied := t.Apply(gen, res)
	return res, applied
}

// Latest returns the snapshot for target. The Loading flag is true only
// while at least one check for the target is in flight.
func (t *Tracker) Latest(target string) (Snapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap, ok := t.latest[target]
	snap.Target = target
	snap.Loading = t.inflight[target] > 0
	return snap, ok
}

// All returns snapshots for every known target, sorted by name.
func (t *Tracker) All() []Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make(map[string]bool)
	for name := range t.latest {
		names[name] = true
	}
	for name := range t.inflight {
		if t.inflight[name] > 0 {
			names[name] = true
		}
	}

	var snaps []Snapshot
	for name := range names {
		snap := t.latest[name]
		snap.Target = name
		snap.Loading = t.inflight[name] > 0
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Target < snaps[j].Target })
	return snaps
}
