package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MIN_WATCHDOGS", "")
	t.Setenv("MAX_WATCHDOGS", "")
	t.Setenv("THRESHOLD", "")
	t.Setenv("EVENT_QUEUE", "")

	cfg := Load()
	if cfg.MinWatchdogs != 10 {
		t.Fatalf("expected default MinWatchdogs=10, got %d", cfg.MinWatchdogs)
	}
	if cfg.MaxWatchdogs != 20 {
		t.Fatalf("expected default MaxWatchdogs=20, got %d", cfg.MaxWatchdogs)
	}
	if cfg.Threshold != 3 {
		t.Fatalf("expected default Threshold=3, got %d", cfg.Threshold)
	}
	if cfg.EventQueue != "/eventqueue" {
		t.Fatalf("expected default EventQueue=/eventqueue, got %q", cfg.EventQueue)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MIN_WATCHDOGS", "4")
	t.Setenv("MAX_WATCHDOGS", "16")
	t.Setenv("THRESHOLD", "2")
	t.Setenv("EVENT_QUEUE", "/custom")

	cfg := Load()
	if cfg.MinWatchdogs != 4 || cfg.MaxWatchdogs != 16 || cfg.Threshold != 2 || cfg.EventQueue != "/custom" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadIgnoresUnparsable(t *testing.T) {
	t.Setenv("MIN_WATCHDOGS", "not-a-number")
	cfg := Load()
	if cfg.MinWatchdogs != 10 {
		t.Fatalf("expected fallback to default on unparsable value, got %d", cfg.MinWatchdogs)
	}
}
