package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFiles(t *testing.T) (scriptPath, levelPath string) {
	t.Helper()
	dir := t.TempDir()

	lv := map[string]interface{}{
		"width": 2, "height": 1,
		"grid":        [][]string{{"empty", "empty"}},
		"startX":      0,
		"startY":      0,
		"startFacing": "east",
		"startEnergy": 100,
		"maxEnergy":   100,
	}
	data, _ := json.Marshal(lv)
	levelPath = filepath.Join(dir, "level.json")
	if err := os.WriteFile(levelPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	scriptPath = filepath.Join(dir, "script.txt")
	if err := os.WriteFile(scriptPath, []byte("move forward\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return scriptPath, levelPath
}

func TestRootCommand_RunsAndPrintsJSON(t *testing.T) {
	scriptPath, levelPath := writeTestFiles(t)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{scriptPath, "--level", levelPath, "--family", "block", "--log-level", "error", "--tick-ms", "0"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON output, got %q: %v", out.String(), err)
	}
	if _, ok := decoded["score"]; !ok {
		t.Fatalf("expected a score field in output, got %v", decoded)
	}
}

func TestRootCommand_RejectsUnknownFamily(t *testing.T) {
	scriptPath, levelPath := writeTestFiles(t)

	cmd := NewRootCommand()
	cmd.SetArgs([]string{scriptPath, "--level", levelPath, "--family", "nonsense"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

func TestRootCommand_RequiresLevelFlag(t *testing.T) {
	scriptPath, _ := writeTestFiles(t)

	cmd := NewRootCommand()
	cmd.SetArgs([]string{scriptPath})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error when --level is missing")
	}
}
