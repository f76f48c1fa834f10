// Package config reads the four environment-variable knobs spec.md §6
// defines. No config framework is pulled in: spec.md's Non-goals
// explicitly exclude environment-variable config loading, and the
// teacher's own controller.go carries no config layer at all.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Controller holds the autoscaling knobs and queue identity, the Go
// analogue of original_source/controller/src/utils/configuration.rs's
// ControllerConfig.
type Controller struct {
	MinWatchdogs int
	MaxWatchdogs int
	Threshold    int
	EventQueue   string
}

// Load reads MIN_WATCHDOGS, MAX_WATCHDOGS, THRESHOLD and EVENT_QUEUE from
// the environment, falling back to spec.md §6's defaults.
func Load() Controller {
	return Controller{
		MinWatchdogs: envInt("MIN_WATCHDOGS", 10),
		MaxWatchdogs: envInt("MAX_WATCHDOGS", 20),
		Threshold:    envInt("THRESHOLD", 3),
		EventQueue:   envString("EVENT_QUEUE", "/eventqueue"),
	}
}

func envInt(name string, fallback int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envString(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}

// String renders the configuration the way configuration.rs's Display
// impl does, for the one-shot startup banner.
func (c Controller) String() string {
	return fmt.Sprintf("ControllerConfig{min_watchdogs: %d, max_watchdogs: %d, threshold: %d, event_queue: %q}",
		c.MinWatchdogs, c.MaxWatchdogs, c.Threshold, c.EventQueue)
}
