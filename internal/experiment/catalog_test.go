package experiment

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `
experiments:
  - id: button_color
    name: CTA button color
    active: true
    variants:
      - id: control
        name: Blue
        weight: 0.5
        config:
          color: blue
      - id: treatment
        name: Red
        weight: 0.5
        config:
          color: red
  - id: pricing_layout
    active: false
    variants:
      - id: control
        weight: 1
`

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.yaml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	reg, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	exp, ok := reg.Get("button_color")
	if !ok || !exp.Active {
		t.Fatalf("button_color missing or inactive: %+v", exp)
	}
	if exp.Variants[0].Config["color"] != "blue" {
		t.Fatalf("config not parsed: %+v", exp.Variants[0].Config)
	}

	inactive, ok := reg.Get("pricing_layout")
	if !ok || inactive.Active {
		t.Fatalf("pricing_layout should be present and inactive")
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadCatalog_InvalidDefinitions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiments.yaml")
	bad := "experiments:\n  - id: broken\n    variants:\n      - id: a\n        weight: -1\n"
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
