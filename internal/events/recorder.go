package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"ab-tracker/internal/storage"
)

const (
	assignmentsKey = "ab_events_assignments"
	conversionsKey = "ab_events_conversions"

	// DefaultCap bounds each log; on overflow the log is truncated to the
	// newest DefaultTruncateTo entries. The band halves rewrite frequency
	// compared to a strict ring buffer.
	DefaultCap        = 100
	DefaultTruncateTo = 50
)

// Recorder appends assignment and conversion events to bounded logs in
// the visitor store. Recording is best-effort: storage failures are
// logged and swallowed so tracking can never break the caller.
type Recorder struct {
	store      storage.Store
	logger     *zap.Logger
	now        func() time.Time
	cap        int
	truncateTo int

	mu sync.Mutex
}

type RecorderOption func(*Recorder)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// WithBounds overrides the retention cap and the post-overflow size.
// truncateTo is clamped to the cap so overflow can never cut past the
// start of the log.
func WithBounds(cap, truncateTo int) RecorderOption {
	return func(r *Recorder) {
		if cap > 0 {
			r.cap = cap
		}
		if truncateTo > 0 {
			r.truncateTo = truncateTo
		}
		if r.truncateTo > r.cap {
			r.truncateTo = r.cap
		}
	}
}

func NewRecorder(store storage.Store, logger *zap.Logger, opts ...RecorderOption) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		store:      store,
		logger:     logger,
		now:        time.Now,
		cap:        DefaultCap,
		truncateTo: DefaultTruncateTo,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RecordAssignment appends one event to the assignments log.
func (r *Recorder) RecordAssignment(experimentID, variantID string, meta SessionMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := loadLog[AssignmentEvent](r, assignmentsKey)
	log = append(log, AssignmentEvent{
		ExperimentID: experimentID,
		VariantID:    variantID,
		Timestamp:    r.now().UTC(),
		SessionID:    meta.SessionID,
		UserAgent:    meta.UserAgent,
	})
	saveLog(r, assignmentsKey, bound(r, log))
}

// RecordConversion appends one event to the conversions log.
func (r *Recorder) RecordConversion(experimentID, variantID, conversionType string, value float64, meta SessionMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := loadLog[ConversionEvent](r, conversionsKey)
	log = append(log, ConversionEvent{
		ExperimentID:   experimentID,
		VariantID:      variantID,
		ConversionType: conversionType,
		Value:          value,
		Timestamp:      r.now().UTC(),
		SessionID:      meta.SessionID,
		UserAgent:      meta.UserAgent,
	})
	saveLog(r, conversionsKey, bound(r, log))
}

// PendingAssignments returns the assignment events awaiting drain.
func (r *Recorder) PendingAssignments() []AssignmentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loadLog[AssignmentEvent](r, assignmentsKey)
}

// PendingConversions returns the conversion events awaiting drain.
func (r *Recorder) PendingConversions() []ConversionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loadLog[ConversionEvent](r, conversionsKey)
}

// Drain sends all pending events to the sink and truncates both logs on
// success. On sink failure the logs are left in place so the events are
// retried on the next drain; only overflow past the retention cap can
// drop them.
func (r *Recorder) Drain(ctx context.Context, sink Sink) error {
	r.mu.Lock()
	batch := Batch{
		Assignments: loadLog[AssignmentEvent](r, assignmentsKey),
		Conversions: loadLog[ConversionEvent](r, conversionsKey),
		SentAt:      r.now().UTC(),
	}
	r.mu.Unlock()
	if batch.Empty() {
		return nil
	}

	// the lock is not held across the send, so a slow or down endpoint
	// never blocks recording
	if err := sink.Send(ctx, batch); err != nil {
		r.logger.Warn("event batch send failed, keeping events queued",
			zap.Int("assignments", len(batch.Assignments)),
			zap.Int("conversions", len(batch.Conversions)),
			zap.Error(err))
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// drop only the sent prefix; events recorded while the batch was in
	// flight stay queued for the next drain
	saveLog(r, assignmentsKey, remainder(loadLog[AssignmentEvent](r, assignmentsKey), len(batch.Assignments)))
	saveLog(r, conversionsKey, remainder(loadLog[ConversionEvent](r, conversionsKey), len(batch.Conversions)))
	r.logger.Info("event batch drained",
		zap.Int("assignments", len(batch.Assignments)),
		zap.Int("conversions", len(batch.Conversions)))
	return nil
}

// remainder removes the first sent entries. When overflow truncation ran
// while the batch was in flight the sent prefix is gone already and the
// split point is unknowable; keeping the whole log (at worst re-sending
// a few events) beats dropping unsent ones.
func remainder[T any](log []T, sent int) []T {
	if sent == len(log) {
		return []T{}
	}
	if sent > len(log) {
		return log
	}
	return log[sent:]
}

// bound keeps the newest truncateTo entries once the log exceeds cap.
func bound[T any](r *Recorder, log []T) []T {
	if len(log) <= r.cap {
		return log
	}
	keep := r.truncateTo
	if keep > len(log) {
		keep = len(log)
	}
	return log[len(log)-keep:]
}

func loadLog[T any](r *Recorder, key string) []T {
	raw, ok, err := r.store.Get(key)
	if err != nil {
		r.logger.Warn("event log read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var log []T
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		// corrupted entry, start fresh; it is overwritten on next save
		r.logger.Warn("event log corrupted, resetting", zap.String("key", key), zap.Error(err))
		return nil
	}
	return log
}

func saveLog[T any](r *Recorder, key string, log []T) {
	data, err := json.Marshal(log)
	if err != nil {
		r.logger.Warn("event log encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.store.Set(key, string(data)); err != nil {
		r.logger.Warn("event log write failed", zap.String("key", key), zap.Error(err))
	}
}
