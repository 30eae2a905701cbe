package tracker

import (
	"sync"

	"go.uber.org/zap"

	"ab-tracker/internal/assign"
	"ab-tracker/internal/events"
	"ab-tracker/internal/experiment"
	"ab-tracker/internal/session"
)

// Tracker is the entry point UI code uses per experiment. It hands out
// one Handle per experiment id so repeated lookups share the resolution.
type Tracker struct {
	assigner  *assign.Assigner
	recorder  *events.Recorder
	sessions  *session.Manager
	userAgent string
	logger    *zap.Logger

	mu      sync.Mutex
	handles map[string]*Handle
}

type Option func(*Tracker)

// WithUserAgent sets the client descriptor attached to emitted events.
func WithUserAgent(ua string) Option {
	return func(t *Tracker) { t.userAgent = ua }
}

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

func New(assigner *assign.Assigner, recorder *events.Recorder, sessions *session.Manager, opts ...Option) *Tracker {
	t := &Tracker{
		assigner: assigner,
		recorder: recorder,
		sessions: sessions,
		logger:   zap.NewNop(),
		handles:  make(map[string]*Handle),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Experiment returns the handle for the given experiment id, creating an
// unresolved one on first use.
func (t *Tracker) Experiment(experimentID string) *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h, ok := t.handles[experimentID]; ok {
		return h
	}
	h := &Handle{experimentID: experimentID, tracker: t, state: StateUnresolved}
	t.handles[experimentID] = h
	return h
}

func (t *Tracker) meta() events.SessionMeta {
	m := events.SessionMeta{UserAgent: t.userAgent}
	if t.sessions != nil {
		m.SessionID = t.sessions.ID()
	}
	return m
}

// State models the handle lifecycle. Resolved and Inactive are terminal;
// a handle never re-randomizes within its lifetime.
type State int

const (
	StateUnresolved State = iota
	StateResolving
	StateResolved
	StateInactive
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	case StateInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Handle exposes one experiment to presentation code: the assigned
// variant, its config payload and conversion tracking.
type Handle struct {
	experimentID string
	tracker      *Tracker

	once sync.Once
	mu   sync.RWMutex

	state      State
	assignment *assign.Assignment
}

// Resolve triggers assignment resolution exactly once and returns the
// assigned variant, or nil for an unknown or inactive experiment.
func (h *Handle) Resolve() *experiment.Variant {
	h.once.Do(func() {
		h.mu.Lock()
		h.state = StateResolving
		h.mu.Unlock()

		a := h.tracker.assigner.Resolve(h.experimentID, h.tracker.meta())

		h.mu.Lock()
		defer h.mu.Unlock()
		h.assignment = a
		if a == nil {
			h.state = StateInactive
			return
		}
		h.state = StateResolved
	})
	return h.Variant()
}

// Loading reports whether resolution has not reached a terminal state.
// Callers must render control defaults while it is true.
func (h *Handle) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state == StateUnresolved || h.state == StateResolving
}

func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Variant returns the assigned variant, or nil when unresolved or when
// no experiment is active.
func (h *Handle) Variant() *experiment.Variant {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.assignment == nil {
		return nil
	}
	v := h.assignment.Variant
	return &v
}

// Config returns a copy of the assigned variant's config payload, or an
// empty map so callers can always index into it. The copy keeps caller
// mutations out of the shared assignment state.
func (h *Handle) Config() map[string]any {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.assignment == nil || h.assignment.Variant.Config == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(h.assignment.Variant.Config))
	for k, v := range h.assignment.Variant.Config {
		out[k] = v
	}
	return out
}

// Track records a conversion with the default value of 1.
func (h *Handle) Track(conversionType string) {
	h.TrackConversion(conversionType, 1)
}

// TrackConversion records a conversion attributed to the assigned
// variant. Without an assignment there is nothing to attribute, so the
// call is a silent no-op; UI code may call it defensively.
func (h *Handle) TrackConversion(conversionType string, value float64) {
	h.mu.RLock()
	state := h.state
	assignment := h.assignment
	h.mu.RUnlock()

	if state != StateResolved || assignment == nil {
		return
	}
	if h.tracker.recorder == nil {
		return
	}
	h.tracker.recorder.RecordConversion(
		h.experimentID,
		assignment.Variant.ID,
		conversionType,
		value,
		h.tracker.meta(),
	)
}
