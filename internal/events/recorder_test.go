package events

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ab-tracker/internal/storage"
)

var meta = SessionMeta{SessionID: "s-1", UserAgent: "test"}

func TestRecorder_RecordConversion(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil)

	rec.RecordConversion("button_color", "treatment", "click", 1, meta)

	got := rec.PendingConversions()
	require.Len(t, got, 1)
	assert.Equal(t, "button_color", got[0].ExperimentID)
	assert.Equal(t, "treatment", got[0].VariantID)
	assert.Equal(t, "click", got[0].ConversionType)
	assert.Equal(t, 1.0, got[0].Value)
	assert.Equal(t, "s-1", got[0].SessionID)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestRecorder_LogsAreIndependent(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil)

	rec.RecordAssignment("button_color", "control", meta)
	rec.RecordConversion("button_color", "control", "click", 1, meta)
	rec.RecordConversion("button_color", "control", "signup", 5, meta)

	assert.Len(t, rec.PendingAssignments(), 1)
	assert.Len(t, rec.PendingConversions(), 2)
}

func TestRecorder_BoundedLog(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil)

	for i := 0; i < 150; i++ {
		rec.RecordConversion("button_color", "control", fmt.Sprintf("click-%d", i), 1, meta)
	}

	got := rec.PendingConversions()
	assert.LessOrEqual(t, len(got), DefaultCap, "log must never exceed the cap")
	// the newest event always survives its own append
	assert.Equal(t, "click-149", got[len(got)-1].ConversionType)
}

func TestRecorder_TruncatesToNewest(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil, WithBounds(10, 5))

	for i := 0; i < 11; i++ {
		rec.RecordConversion("button_color", "control", fmt.Sprintf("click-%d", i), 1, meta)
	}

	got := rec.PendingConversions()
	require.Len(t, got, 5)
	assert.Equal(t, "click-6", got[0].ConversionType)
	assert.Equal(t, "click-10", got[4].ConversionType)
}

func TestRecorder_CapBelowDefaultTruncate(t *testing.T) {
	// a cap smaller than the default post-overflow size must clamp, not
	// cut past the start of the log on the first overflow
	rec := NewRecorder(storage.NewMemoryStore(), nil, WithBounds(10, 0))

	for i := 0; i < 11; i++ {
		rec.RecordConversion("button_color", "control", fmt.Sprintf("click-%d", i), 1, meta)
	}

	got := rec.PendingConversions()
	require.LessOrEqual(t, len(got), 10)
	assert.Equal(t, "click-10", got[len(got)-1].ConversionType)
}

func TestRecorder_TruncateToLargerThanCapClamps(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil, WithBounds(10, 50))

	for i := 0; i < 25; i++ {
		rec.RecordConversion("button_color", "control", fmt.Sprintf("click-%d", i), 1, meta)
	}

	got := rec.PendingConversions()
	require.LessOrEqual(t, len(got), 10)
	assert.Equal(t, "click-24", got[len(got)-1].ConversionType)
}

func TestRecorder_CorruptLogResets(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set("ab_events_conversions", "{corrupt"))

	rec := NewRecorder(store, nil)
	rec.RecordConversion("button_color", "control", "click", 1, meta)

	got := rec.PendingConversions()
	require.Len(t, got, 1)
	assert.Equal(t, "click", got[0].ConversionType)
}

type captureSink struct {
	batches []Batch
	err     error
}

func (s *captureSink) Send(_ context.Context, b Batch) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, b)
	return nil
}

func TestRecorder_DrainTruncates(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil)
	rec.RecordAssignment("button_color", "control", meta)
	rec.RecordConversion("button_color", "control", "click", 1, meta)

	sink := &captureSink{}
	require.NoError(t, rec.Drain(context.Background(), sink))

	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0].Assignments, 1)
	assert.Len(t, sink.batches[0].Conversions, 1)

	assert.Empty(t, rec.PendingAssignments())
	assert.Empty(t, rec.PendingConversions())
}

func TestRecorder_DrainEmptyIsNoop(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil)
	sink := &captureSink{}
	require.NoError(t, rec.Drain(context.Background(), sink))
	assert.Empty(t, sink.batches, "empty logs must not produce a batch")
}

func TestRecorder_DrainFailureKeepsEvents(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil)
	rec.RecordConversion("button_color", "control", "click", 1, meta)

	sink := &captureSink{err: errors.New("endpoint down")}
	require.Error(t, rec.Drain(context.Background(), sink))

	assert.Len(t, rec.PendingConversions(), 1, "failed drain must keep events queued")
}

// recordingSink records a new conversion through the recorder while the
// batch is in flight, the way a live page does during a slow export.
type recordingSink struct {
	rec *Recorder
}

func (s *recordingSink) Send(_ context.Context, _ Batch) error {
	s.rec.RecordConversion("button_color", "control", "mid-flight", 1, meta)
	return nil
}

func TestRecorder_RecordingDuringDrain(t *testing.T) {
	rec := NewRecorder(storage.NewMemoryStore(), nil)
	rec.RecordConversion("button_color", "control", "click", 1, meta)

	// recording from inside Send would deadlock if Drain held the lock
	// across the sink call
	require.NoError(t, rec.Drain(context.Background(), &recordingSink{rec: rec}))

	got := rec.PendingConversions()
	require.Len(t, got, 1, "events recorded during the send must stay queued")
	assert.Equal(t, "mid-flight", got[0].ConversionType)
}

func TestRecorder_FixedClock(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(storage.NewMemoryStore(), nil, WithClock(func() time.Time { return at }))

	rec.RecordAssignment("button_color", "control", meta)
	got := rec.PendingAssignments()
	require.Len(t, got, 1)
	assert.Equal(t, at, got[0].Timestamp)
}
