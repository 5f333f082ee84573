// Package app wires the compiler, virtual machine, grid-world
// simulator, and analyzer into a runnable demo: it compiles a script,
// steps the VM in a paced loop, applies any action it yields to the
// world, and stops as soon as the world leaves the playing state.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dronescript/autodrone/pkg/analyzer"
	"github.com/dronescript/autodrone/pkg/compiler"
	"github.com/dronescript/autodrone/pkg/level"
	"github.com/dronescript/autodrone/pkg/logger"
	"github.com/dronescript/autodrone/pkg/vm"
	"github.com/dronescript/autodrone/pkg/world"
)

// Config holds everything a Run needs, gathered from flags or defaults.
type Config struct {
	ScriptPath        string
	LevelPath         string
	Family            compiler.Family
	LogLevel          string
	MaxInstructions   int
	MaxLoopIterations int
	TickInterval      time.Duration
}

// Result is what a completed run reports back to its caller.
type Result struct {
	Status   world.Status
	Message  string
	Warnings []string
	Report   analyzer.Report
}

// Run compiles cfg.ScriptPath under cfg.Family, loads cfg.LevelPath,
// and drives the VM to completion (or a runtime error) against the
// resulting world.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := logger.Init(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()

	source, err := os.ReadFile(cfg.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	lv, err := loadLevel(cfg.LevelPath)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}

	maxLoopCount := cfg.MaxLoopIterations
	if maxLoopCount <= 0 {
		maxLoopCount = compiler.DefaultMaxLoopCount
	}
	compiled, err := compiler.CompileWithLoopLimit(string(source), cfg.Family, maxLoopCount)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	for _, w := range compiled.Warnings {
		log.Warn("parse warning", "message", w.Message, "line", w.Line)
	}

	w := world.New(lv.ToSpec())
	opts := vm.Options{MaxInstructions: cfg.MaxInstructions}
	machine := vm.New(compiled.Bytecode, w, opts)

	machine.Subscribe(vm.EventLog, func(e vm.Event) {
		log.Info("script log", "value", e.Data, "line", machine.GetCurrentLine())
	})
	machine.Subscribe(vm.EventError, func(e vm.Event) {
		if rerr, ok := e.Data.(*vm.RuntimeError); ok {
			log.Error("runtime error", "kind", rerr.Kind, "message", rerr.Message, "line", rerr.Line)
		}
	})

	machine.Run()
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			machine.Stop()
			break loop
		case <-ticker.C:
			action := machine.Tick()
			if action != nil {
				applyAction(w, action)
			}
			if status, _ := w.Status(); status != world.Playing {
				machine.Stop()
				break loop
			}
			if machine.State() == vm.StateHalted || machine.State() == vm.StateError {
				break loop
			}
		}
	}

	status, message := w.Status()
	report := analyzer.Analyze(w, machine.EventLog(), analyzer.LevelGoals{
		OptimalEnergy: lv.OptimalEnergy,
		OptimalSteps:  lv.OptimalSteps,
		TimeLimit:     lv.TimeLimit,
		Objectives:    objectivesOf(lv),
	})

	return &Result{Status: status, Message: message, Report: report}, nil
}

func objectivesOf(lv *level.Level) []world.Objective {
	out := make([]world.Objective, len(lv.Objectives))
	for i, o := range lv.Objectives {
		out[i] = world.Objective{Type: o.Type, Resource: world.TileKind(o.Resource), Count: o.Count}
	}
	return out
}

func applyAction(w *world.World, action *vm.Action) {
	switch action.Kind {
	case vm.ActionMove:
		w.ExecuteMove(action.Direction)
	case vm.ActionTurn:
		w.ExecuteTurn(action.Direction)
	case vm.ActionCollect:
		w.ExecuteCollect()
	case vm.ActionWait:
		w.ExecuteWait(action.Ticks)
	}
}

func loadLevel(path string) (*level.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lv level.Level
	if err := json.Unmarshal(data, &lv); err != nil {
		return nil, fmt.Errorf("parse level json: %w", err)
	}
	return &lv, nil
}
