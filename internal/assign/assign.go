package assign

import (
	"encoding/json"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"ab-tracker/internal/events"
	"ab-tracker/internal/experiment"
	"ab-tracker/internal/storage"
)

const keyPrefix = "ab_test_"

// Rand is the randomness seam for weighted selection. Float64 must
// return a uniform value in [0, 1).
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Assignment binds a visitor to one variant of one experiment. The full
// variant object is persisted so the config survives registry changes.
type Assignment struct {
	ExperimentID string             `json:"experiment_id"`
	Variant      experiment.Variant `json:"variant"`
	AssignedAt   time.Time          `json:"assigned_at"`
}

// Assigner resolves visitor assignments: an existing persisted assignment
// wins, otherwise an active experiment gets a fresh weighted draw that is
// persisted for all later calls. Storage failures degrade to "no prior
// assignment" and are never propagated; tracking must not break the page.
type Assigner struct {
	registry *experiment.Registry
	store    storage.Store
	recorder *events.Recorder
	rng      Rand
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Assigner)

// WithRand injects a deterministic random source.
func WithRand(r Rand) Option {
	return func(a *Assigner) { a.rng = r }
}

// WithRecorder wires assignment-event emission.
func WithRecorder(rec *events.Recorder) Option {
	return func(a *Assigner) { a.recorder = rec }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Assigner) { a.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Assigner) { a.logger = logger }
}

func New(registry *experiment.Registry, store storage.Store, opts ...Option) *Assigner {
	a := &Assigner{
		registry: registry,
		store:    store,
		rng:      globalRand{},
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Resolve returns the visitor's assignment for the experiment, creating
// and persisting one on first use. It returns nil when the experiment is
// unknown or inactive; callers fall back to control behavior. Repeated
// calls for the same visitor store always return the same variant.
func (a *Assigner) Resolve(experimentID string, meta events.SessionMeta) *Assignment {
	if experimentID == "" {
		return nil
	}
	if existing := a.loadExisting(experimentID); existing != nil {
		return existing
	}

	exp, ok := a.registry.Get(experimentID)
	if !ok || !exp.Active {
		return nil
	}

	assignment := &Assignment{
		ExperimentID: experimentID,
		Variant:      pickVariant(exp, a.rng.Float64()),
		AssignedAt:   a.now().UTC(),
	}
	a.persist(assignment)
	if a.recorder != nil {
		a.recorder.RecordAssignment(experimentID, assignment.Variant.ID, meta)
	}
	return assignment
}

func (a *Assigner) loadExisting(experimentID string) *Assignment {
	raw, ok, err := a.store.Get(keyPrefix + experimentID)
	if err != nil {
		a.logger.Warn("assignment read failed", zap.String("experiment", experimentID), zap.Error(err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var assignment Assignment
	if err := json.Unmarshal([]byte(raw), &assignment); err != nil {
		// corrupted entry, reassign; the next write overwrites it
		a.logger.Warn("assignment corrupted, reassigning", zap.String("experiment", experimentID), zap.Error(err))
		return nil
	}
	return &assignment
}

func (a *Assigner) persist(assignment *Assignment) {
	data, err := json.Marshal(assignment)
	if err != nil {
		a.logger.Warn("assignment encode failed", zap.String("experiment", assignment.ExperimentID), zap.Error(err))
		return
	}
	if err := a.store.Set(keyPrefix+assignment.ExperimentID, string(data)); err != nil {
		a.logger.Warn("assignment write failed", zap.String("experiment", assignment.ExperimentID), zap.Error(err))
	}
}

// pickVariant draws from the cumulative weight distribution. u is a
// uniform value in [0, 1). When every weight is zero, or rounding keeps
// the walk from landing on any variant, the first variant wins.
func pickVariant(exp experiment.Experiment, u float64) experiment.Variant {
	total := 0.0
	for _, v := range exp.Variants {
		total += v.Weight
	}
	if total <= 0 {
		return exp.Variants[0]
	}
	r := u * total
	cum := 0.0
	for _, v := range exp.Variants {
		cum += v.Weight
		if cum >= r {
			return v
		}
	}
	return exp.Variants[0]
}
