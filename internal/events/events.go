package events

import (
	"context"
	"time"
)

// SessionMeta is the coarse client metadata attached to every event.
type SessionMeta struct {
	SessionID string `json:"session_id,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// AssignmentEvent records that a visitor was assigned to a variant.
type AssignmentEvent struct {
	ExperimentID string    `json:"experiment_id"`
	VariantID    string    `json:"variant_id"`
	Timestamp    time.Time `json:"timestamp"`
	SessionID    string    `json:"session_id,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
}

// ConversionEvent records that an assigned visitor performed a tracked
// action. Value defaults to 1 at the recording call sites.
type ConversionEvent struct {
	ExperimentID   string    `json:"experiment_id"`
	VariantID      string    `json:"variant_id"`
	ConversionType string    `json:"conversion_type"`
	Value          float64   `json:"value"`
	Timestamp      time.Time `json:"timestamp"`
	SessionID      string    `json:"session_id,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
}

// Batch is the payload handed to an export sink on drain.
type Batch struct {
	Assignments []AssignmentEvent `json:"assignments"`
	Conversions []ConversionEvent `json:"conversions"`
	SentAt      time.Time         `json:"sent_at"`
}

// Empty reports whether the batch carries no events.
func (b Batch) Empty() bool {
	return len(b.Assignments) == 0 && len(b.Conversions) == 0
}

// Sink receives drained event batches. Implementations can log, buffer
// or transmit to an analytics backend.
type Sink interface {
	Send(ctx context.Context, batch Batch) error
}
