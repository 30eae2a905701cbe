package experiment

import "testing"

func activeExperiment() Experiment {
	return Experiment{
		ID:     "button_color",
		Name:   "CTA button color",
		Active: true,
		Variants: []Variant{
			{ID: "control", Weight: 0.5, Config: map[string]any{"color": "blue"}},
			{ID: "treatment", Weight: 0.5, Config: map[string]any{"color": "red"}},
		},
	}
}

func TestRegistry_Get(t *testing.T) {
	reg, err := NewRegistry(activeExperiment())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	exp, ok := reg.Get("button_color")
	if !ok {
		t.Fatalf("expected experiment to be found")
	}
	if exp.ID != "button_color" || len(exp.Variants) != 2 {
		t.Fatalf("unexpected experiment: %+v", exp)
	}

	if _, ok := reg.Get("nonexistent-id"); ok {
		t.Fatalf("unknown id must not be found")
	}
}

func TestRegistry_ListKeepsOrder(t *testing.T) {
	a := activeExperiment()
	b := activeExperiment()
	b.ID = "hero_copy"
	reg, err := NewRegistry(a, b)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	got := reg.List()
	if len(got) != 2 || got[0].ID != "button_color" || got[1].ID != "hero_copy" {
		t.Fatalf("order mismatch: %+v", got)
	}
}

func TestNewRegistry_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Experiment)
	}{
		{"empty experiment id", func(e *Experiment) { e.ID = "" }},
		{"no variants", func(e *Experiment) { e.Variants = nil }},
		{"empty variant id", func(e *Experiment) { e.Variants[0].ID = "" }},
		{"duplicate variant id", func(e *Experiment) { e.Variants[1].ID = e.Variants[0].ID }},
		{"negative weight", func(e *Experiment) { e.Variants[0].Weight = -0.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp := activeExperiment()
			tc.mutate(&exp)
			if _, err := NewRegistry(exp); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestNewRegistry_DuplicateExperiment(t *testing.T) {
	if _, err := NewRegistry(activeExperiment(), activeExperiment()); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
