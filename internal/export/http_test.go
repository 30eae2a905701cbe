package export

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ab-tracker/internal/events"
)

func sampleBatch() events.Batch {
	return events.Batch{
		Assignments: []events.AssignmentEvent{
			{ExperimentID: "button_color", VariantID: "control", Timestamp: time.Now().UTC()},
		},
		Conversions: []events.ConversionEvent{
			{ExperimentID: "button_color", VariantID: "control", ConversionType: "click", Value: 1},
		},
		SentAt: time.Now().UTC(),
	}
}

func TestHTTPSink_Send(t *testing.T) {
	var received events.Batch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, nil)
	require.NoError(t, sink.Send(context.Background(), sampleBatch()))

	assert.Len(t, received.Assignments, 1)
	assert.Len(t, received.Conversions, 1)
	assert.Equal(t, "click", received.Conversions[0].ConversionType)
}

func TestHTTPSink_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, nil, WithRetry(3, time.Millisecond))
	require.NoError(t, sink.Send(context.Background(), sampleBatch()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSink_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, nil, WithRetry(2, time.Millisecond))
	err := sink.Send(context.Background(), sampleBatch())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLogSink_AlwaysSucceeds(t *testing.T) {
	sink := NewLogSink(nil)
	assert.NoError(t, sink.Send(context.Background(), sampleBatch()))
	assert.NoError(t, sink.Send(context.Background(), events.Batch{}))
}
