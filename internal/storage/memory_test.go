package storage

import "testing"

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if _, ok, err := s.Get("k"); err != nil || ok {
		t.Fatalf("fresh store must be empty, ok=%v err=%v", ok, err)
	}
	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get("k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("unexpected: %q ok=%v err=%v", v, ok, err)
	}
	if s.Len() != 1 {
		t.Fatalf("want 1 key, got %d", s.Len())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
