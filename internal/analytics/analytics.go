package analytics

import (
	"encoding/json"
	"fmt"
	"sort"

	"ab-tracker/internal/events"
)

// VariantStats aggregates one variant's performance.
type VariantStats struct {
	VariantID      string  `json:"variant_id"`
	Assignments    int     `json:"assignments"`
	Conversions    int     `json:"conversions"`
	TotalValue     float64 `json:"total_value"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ExperimentStats aggregates all recorded activity for one experiment.
type ExperimentStats struct {
	ExperimentID     string                  `json:"experiment_id"`
	TotalAssignments int                     `json:"total_assignments"`
	TotalConversions int                     `json:"total_conversions"`
	UniqueSessions   int                     `json:"unique_sessions"`
	Variants         map[string]VariantStats `json:"variants"`
}

// Analyze folds the recorded event logs into per-experiment stats.
func Analyze(assignments []events.AssignmentEvent, conversions []events.ConversionEvent) map[string]*ExperimentStats {
	stats := make(map[string]*ExperimentStats)
	sessions := make(map[string]map[string]bool)

	get := func(experimentID string) *ExperimentStats {
		s, ok := stats[experimentID]
		if !ok {
			s = &ExperimentStats{
				ExperimentID: experimentID,
				Variants:     make(map[string]VariantStats),
			}
			stats[experimentID] = s
			sessions[experimentID] = make(map[string]bool)
		}
		return s
	}

	for _, ev := range assignments {
		s := get(ev.ExperimentID)
		s.TotalAssignments++
		vs := s.Variants[ev.VariantID]
		vs.VariantID = ev.VariantID
		vs.Assignments++
		s.Variants[ev.VariantID] = vs
		if ev.SessionID != "" {
			sessions[ev.ExperimentID][ev.SessionID] = true
		}
	}

	for _, ev := range conversions {
		s := get(ev.ExperimentID)
		s.TotalConversions++
		vs := s.Variants[ev.VariantID]
		vs.VariantID = ev.VariantID
		vs.Conversions++
		vs.TotalValue += ev.Value
		s.Variants[ev.VariantID] = vs
		if ev.SessionID != "" {
			sessions[ev.ExperimentID][ev.SessionID] = true
		}
	}

	for id, s := range stats {
		s.UniqueSessions = len(sessions[id])
		for vid, vs := range s.Variants {
			if vs.Assignments > 0 {
				vs.ConversionRate = float64(vs.Conversions) / float64(vs.Assignments)
			}
			s.Variants[vid] = vs
		}
	}
	return stats
}

// ReportSummary renders a plain-text summary of the experiment.
func (s *ExperimentStats) ReportSummary() string {
	summary := fmt.Sprintf(`Experiment %s:

Overall activity:
- Assignments: %d
- Conversions: %d
- Unique sessions: %d

`, s.ExperimentID, s.TotalAssignments, s.TotalConversions, s.UniqueSessions)

	ids := make([]string, 0, len(s.Variants))
	for id := range s.Variants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	summary += fmt.Sprintf("Variants (%d):\n", len(ids))
	for _, id := range ids {
		vs := s.Variants[id]
		summary += fmt.Sprintf("- %s: %d assigned, %d converted (%.1f%%)",
			id, vs.Assignments, vs.Conversions, vs.ConversionRate*100)
		if vs.TotalValue != float64(vs.Conversions) {
			summary += fmt.Sprintf(", total value %.2f", vs.TotalValue)
		}
		summary += "\n"
	}
	return summary
}

// ToJSON serializes the stats for detailed inspection.
func (s *ExperimentStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
