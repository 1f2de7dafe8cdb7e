// Package reload sequences the work a discrete update event requires:
// annotation set replacement, self-marker update, viewport framing,
// heading forwarding and indicator recomputation, in that order.
package reload

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/radarview/overlay/internal/indicator"
	"github.com/radarview/overlay/internal/store"
	"github.com/radarview/overlay/internal/tracking"
	"github.com/radarview/overlay/pkg/core"
	"github.com/radarview/overlay/pkg/mapsurface"
)

// Recorder receives completed reload cycles. Implementations must not
// block; the worker queue decouples them from the reload path.
type Recorder interface {
	RecordCycle(rec core.CycleRecord)
}

// Coordinator is the overlay's single entry point for reload events
// and host viewport notifications. Calls run to completion under one
// mutex, preserving delivery order when the host environment is
// multi-threaded; there is no internal queueing or batching.
type Coordinator struct {
	mu      sync.Mutex
	surface mapsurface.Surface
	store   *store.AnnotationStore
	placer  *indicator.Placer
	tracker *tracking.Controller
	state   core.TrackingState

	// indicators is the only cross-call shared state; it is swapped
	// wholesale at the end of a cycle so a renderer never observes a
	// partial mapping.
	indicators map[core.AnnotationID]*core.Indicator

	heading    *float64
	recorder   Recorder
	logger     *slog.Logger
	seq        uint64
	cycles     atomic.Uint64
	dropped    atomic.Uint64
	indicCount atomic.Int64
}

// Output reports what a reload cycle did.
type Output struct {
	AnnotationsChanged bool
	ViewportChanged    bool
	HeadingApplied     bool

	// Framing is the viewport change applied this cycle, if any.
	Framing *core.ViewportChange

	// Dropped counts annotations discarded for invalid coordinates.
	Dropped int

	// Indicators is the identity-to-indicator mapping after this
	// cycle. Nil when the cycle was a no-op.
	Indicators map[core.AnnotationID]*core.Indicator
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRecorder attaches a cycle recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) {
		c.recorder = r
	}
}

// WithLogger sets the coordinator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// New creates a Coordinator over the given host surface with the
// given framing policy.
func New(
	surface mapsurface.Surface,
	state core.TrackingState,
	placer *indicator.Placer,
	tracker *tracking.Controller,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		surface:    surface,
		store:      store.New(),
		placer:     placer,
		tracker:    tracker,
		state:      state,
		indicators: make(map[core.AnnotationID]*core.Indicator),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnReload processes one discrete update event. A nil or invalid self
// location is an expected transient state before the first fix: the
// call is a silent no-op, never an error.
func (c *Coordinator) OnReload(
	event core.ReloadEvent,
	selfLocation *core.Coordinate,
	heading *float64,
	annotations []core.Annotation,
) Output {
	c.mu.Lock()
	defer c.mu.Unlock()

	if selfLocation == nil || !selfLocation.Valid() {
		c.logger.Debug("reload skipped, no self location yet", "event", event.String())
		return Output{}
	}

	started := time.Now()
	var out Output

	incoming := make([]core.Annotation, 0, len(annotations))
	for _, a := range annotations {
		if !a.Coordinate.Valid() {
			out.Dropped++
			continue
		}
		incoming = append(incoming, a)
	}
	if out.Dropped > 0 {
		c.dropped.Add(uint64(out.Dropped))
		c.logger.Warn("dropped annotations with invalid coordinates", "count", out.Dropped)
	}

	// 1. Annotation set. The count comparison is the fallback check
	// for events that do not announce annotation churn.
	if event == core.ReloadAnnotationsChanged || c.incomingCount(incoming) != c.store.Count() {
		c.store.SetAnnotations(incoming)
		out.AnnotationsChanged = true
	}

	// 2. Self marker. Stable identity, coordinate updated in place;
	// churn is treated like annotation churn for indicator purposes.
	if event == core.ReloadSelfLocationChanged || !c.store.HasSelf() {
		c.store.SetSelf(*selfLocation)
		out.AnnotationsChanged = true
	}

	// 3. Viewport framing. Only the first reload and genuine location
	// changes may reframe; annotation churn never does.
	if !c.state.HasFramedOnce || event == core.ReloadSelfLocationChanged {
		framing := c.tracker.DecideFraming(
			&c.state,
			c.surface.CurrentViewport(),
			*selfLocation,
			c.store.Current(),
			c.surface,
		)
		if framing != nil {
			c.surface.RequestViewportChange(*framing)
			out.Framing = framing
			out.ViewportChanged = true
		}
	}

	// 4. Heading is cosmetic; forward it unconditionally.
	if heading != nil {
		h := *heading
		c.heading = &h
		out.HeadingApplied = true
	}

	// 5. Indicators. Membership depends on the viewport, so any
	// applied viewport change forces a recompute.
	if out.AnnotationsChanged || out.ViewportChanged {
		c.recompute()
	}
	out.Indicators = c.indicators

	c.cycles.Add(1)
	c.record(event, *selfLocation, started, out)
	return out
}

// ViewportChanged is the second entry point into placement: the host
// calls it on user-driven pan/zoom and on resize completion,
// independent of reload events. It recomputes unconditionally and
// returns the new mapping.
func (c *Coordinator) ViewportChanged() map[core.AnnotationID]*core.Indicator {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recompute()
	return c.indicators
}

// recompute places indicators for the current store contents and
// swaps the mapping atomically. Callers hold c.mu.
func (c *Coordinator) recompute() {
	next := c.placer.Place(
		c.store.Current(),
		c.surface.CurrentViewport(),
		c.surface,
		c.indicators,
	)
	c.indicators = next
	c.indicCount.Store(int64(len(next)))
}

// incomingCount counts non-self entries in the incoming set, matching
// what the store would hold after a replacement.
func (c *Coordinator) incomingCount(annotations []core.Annotation) int {
	n := 0
	for _, a := range annotations {
		if a.IsSelf || a.ID == core.SelfAnnotationID {
			continue
		}
		n++
	}
	return n
}

func (c *Coordinator) record(event core.ReloadEvent, self core.Coordinate, started time.Time, out Output) {
	if c.recorder == nil {
		return
	}

	current := c.store.Current()
	indicators := make([]core.Indicator, 0, len(c.indicators))
	for _, ind := range c.indicators {
		indicators = append(indicators, *ind)
	}

	c.seq++
	c.recorder.RecordCycle(core.CycleRecord{
		Seq:             c.seq,
		Time:            started,
		Event:           event,
		Self:            self,
		Heading:         c.heading,
		AnnotationCount: c.store.Count(),
		IndicatorCount:  len(c.indicators),
		ViewportChanged: out.ViewportChanged,
		Annotations:     current,
		Indicators:      indicators,
		Duration:        time.Since(started),
	})
}

// Indicators returns the current identity-to-indicator mapping. The
// returned map is the live mapping for diffing; callers must treat it
// as read-only.
func (c *Coordinator) Indicators() map[core.AnnotationID]*core.Indicator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indicators
}

// Heading returns the last forwarded heading, if any.
func (c *Coordinator) Heading() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.heading == nil {
		return 0, false
	}
	return *c.heading, true
}

// State returns a copy of the tracking state.
func (c *Coordinator) State() core.TrackingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CyclesProcessed returns the number of completed reload cycles.
func (c *Coordinator) CyclesProcessed() uint64 {
	return c.cycles.Load()
}

// DroppedAnnotations returns the total count of annotations dropped
// for invalid coordinates.
func (c *Coordinator) DroppedAnnotations() uint64 {
	return c.dropped.Load()
}

// IndicatorCount returns the size of the current indicator mapping.
func (c *Coordinator) IndicatorCount() int {
	return int(c.indicCount.Load())
}
