package experiment

import "fmt"

// Registry is the static catalog of experiments available to the
// application. It is a pure lookup table: built once, never mutated.
type Registry struct {
	experiments map[string]Experiment
	order       []string
}

// NewRegistry validates the given definitions and builds a registry.
func NewRegistry(experiments ...Experiment) (*Registry, error) {
	r := &Registry{experiments: make(map[string]Experiment, len(experiments))}
	for _, e := range experiments {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, ok := r.experiments[e.ID]; ok {
			return nil, fmt.Errorf("duplicate experiment id %q", e.ID)
		}
		r.experiments[e.ID] = e
		r.order = append(r.order, e.ID)
	}
	return r, nil
}

// Get looks up an experiment by id. A missing id is a normal outcome,
// not an error; callers fall through to default behavior.
func (r *Registry) Get(id string) (Experiment, bool) {
	e, ok := r.experiments[id]
	return e, ok
}

// List returns all experiments in definition order.
func (r *Registry) List() []Experiment {
	out := make([]Experiment, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.experiments[id])
	}
	return out
}
