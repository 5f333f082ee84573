package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dronescript/autodrone/pkg/compiler"
	"github.com/dronescript/autodrone/pkg/world"
)

func writeLevel(t *testing.T, dir string) string {
	t.Helper()
	lv := map[string]interface{}{
		"id":     "l1",
		"width":  3,
		"height": 3,
		"grid": [][]string{
			{"empty", "empty", "empty"},
			{"empty", "crystal", "empty"},
			{"empty", "empty", "empty"},
		},
		"startX":        0,
		"startY":        0,
		"startFacing":   string(world.East),
		"startEnergy":   100,
		"maxEnergy":     100,
		"scanRadius":    1,
		"objectives":    []map[string]interface{}{{"type": "collect", "resource": "crystal", "count": 1}},
		"optimalEnergy": 20,
		"optimalSteps":  5,
	}
	data, err := json.Marshal(lv)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "level.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeScript(t *testing.T, dir, source string) string {
	t.Helper()
	path := filepath.Join(dir, "script.txt")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_MovesAndCollectsCrystal(t *testing.T) {
	dir := t.TempDir()
	levelPath := writeLevel(t, dir)
	scriptPath := writeScript(t, dir, "move forward\nturn right\nmove forward\ncollect\n")

	result, err := Run(context.Background(), Config{
		ScriptPath:        scriptPath,
		LevelPath:         levelPath,
		Family:            compiler.FamilyBlock,
		LogLevel:          "error",
		MaxInstructions:   1000,
		MaxLoopIterations: 1000,
		TickInterval:      time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != world.Won {
		t.Fatalf("expected won, got %s (%s)", result.Status, result.Message)
	}
	if result.Report.Score <= 0 {
		t.Fatalf("expected a positive score, got %d", result.Report.Score)
	}
}

func TestRun_UnknownFamilyErrors(t *testing.T) {
	dir := t.TempDir()
	levelPath := writeLevel(t, dir)
	scriptPath := writeScript(t, dir, "move forward\n")

	_, err := Run(context.Background(), Config{
		ScriptPath: scriptPath,
		LevelPath:  levelPath,
		Family:     "nonsense",
		LogLevel:   "error",
	})
	if err == nil {
		t.Fatalf("expected error for unknown family")
	}
}
