/*
Package cli implements the autopilot command-line interface.

Each command is constructed by a NewXxxCmd function and wired into the root
command in cmd/autopilot. Commands that need the full loop bootstrap it via
newApp, which owns construction and teardown of the store, recorder, engine,
and autopilot — there is no process-wide instance.
*/
package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/khanglvm/autopilot/internal/autopilot"
	"github.com/khanglvm/autopilot/internal/config"
	"github.com/khanglvm/autopilot/internal/engine"
	"github.com/khanglvm/autopilot/internal/recorder"
	"github.com/khanglvm/autopilot/internal/storage"
	"github.com/khanglvm/autopilot/internal/sysctx"
)

// app bundles the wired components for a command run.
type app struct {
	cfg      *config.Config
	store    *storage.SQLiteStore
	provider *sysctx.Default
	recorder *recorder.Recorder
	engine   *engine.Engine
	sugg     *engine.Suggester
	pilot    *autopilot.Autopilot
}

// newApp loads configuration and constructs the loop.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var store *storage.SQLiteStore
	if cfg.Storage != nil && cfg.Storage.Path != "" {
		store = storage.NewStoreAt(cfg.Storage.Path)
	} else {
		store = storage.NewStore()
	}
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	provider := sysctx.NewDefault()
	rec := recorder.New(store, provider)
	eng := engine.New(store, provider)
	sugg := engine.NewSuggester(store, provider, time.Now().UnixNano())

	var opts []autopilot.Option
	if cfg.Planner != nil {
		pc := autopilot.DefaultPlannerConfig()
		pc.SimilarityBoost = cfg.Planner.SimilarityBoost
		opts = append(opts, autopilot.WithPlannerConfig(pc))
		if cfg.Planner.HistorySize > 0 {
			opts = append(opts, autopilot.WithHistoryCapacity(cfg.Planner.HistorySize))
		}
	}

	pilot, err := autopilot.New(rec, eng, provider, autopilot.SimulatedHandlers(), cfg.Settings(), opts...)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		store:    store,
		provider: provider,
		recorder: rec,
		engine:   eng,
		sugg:     sugg,
		pilot:    pilot,
	}, nil
}

// close tears the loop down, draining the recorder queue first.
func (a *app) close() {
	a.recorder.Stop()
	if err := a.pilot.Close(); err != nil {
		log.Printf("Warning: failed to close autopilot: %v", err)
	}
	if err := a.store.Close(); err != nil {
		log.Printf("Warning: failed to close store: %v", err)
	}
}
