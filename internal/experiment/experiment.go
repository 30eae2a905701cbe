package experiment

import "fmt"

// Variant is one arm of an experiment. Weight drives random selection and
// must be non-negative; weights within an experiment need not sum to 1.
// Config is a free-form payload consumed by presentation code.
type Variant struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Weight float64        `json:"weight" yaml:"weight"`
	Config map[string]any `json:"config" yaml:"config"`
}

// Experiment is a named A/B test. Definitions are immutable after
// registry construction; Active gates creation of new assignments only,
// existing assignments keep working when a test is switched off.
type Experiment struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Active   bool      `json:"active" yaml:"active"`
	Variants []Variant `json:"variants" yaml:"variants"`
}

func (e Experiment) validate() error {
	if e.ID == "" {
		return fmt.Errorf("experiment id is empty")
	}
	if len(e.Variants) == 0 {
		return fmt.Errorf("experiment %q has no variants", e.ID)
	}
	seen := make(map[string]bool, len(e.Variants))
	for _, v := range e.Variants {
		if v.ID == "" {
			return fmt.Errorf("experiment %q has a variant with empty id", e.ID)
		}
		if seen[v.ID] {
			return fmt.Errorf("experiment %q has duplicate variant id %q", e.ID, v.ID)
		}
		seen[v.ID] = true
		if v.Weight < 0 {
			return fmt.Errorf("experiment %q variant %q has negative weight %v", e.ID, v.ID, v.Weight)
		}
	}
	return nil
}
