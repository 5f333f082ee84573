// Package analyzer turns a finished run into a score, a star rating,
// and a short list of coaching suggestions, using a fixed weighted
// formula rather than anything level-specific or learned.
package analyzer

import (
	"fmt"
	"math"

	"github.com/dronescript/autodrone/pkg/vm"
	"github.com/dronescript/autodrone/pkg/world"
)

// LevelGoals is the subset of level data the analyzer needs.
type LevelGoals struct {
	OptimalEnergy int
	OptimalSteps  int
	TimeLimit     int
	Objectives    []world.Objective
}

// Report is the analyzer's output.
type Report struct {
	Score       int
	Stars       int
	Suggestions []string
}

// Analyze scores a terminal World against a level's goals, using the
// VM's event log to detect action patterns the raw stats don't capture.
func Analyze(w *world.World, log []vm.Event, goals LevelGoals) Report {
	status, _ := w.Status()
	stats := w.Stats()
	inv := w.Inventory()

	energyScore := weightedScore(goals.OptimalEnergy, stats.EnergyUsed, 40)
	stepsScore := weightedScore(goals.OptimalSteps, stats.Ticks, 30)
	timeScore := maxInt(0, 20-stats.Ticks/10)
	completionScore := 0
	if status == world.Won {
		completionScore = 10
	}

	total := energyScore + stepsScore + timeScore + completionScore
	total = clamp(total, 0, 100)

	report := Report{Score: total, Stars: starsFor(total)}
	report.Suggestions = suggestionsFor(w, stats, inv, log, goals, total, report.Stars)
	return report
}

func weightedScore(optimal, actual, weight int) int {
	if actual < 1 {
		actual = 1
	}
	raw := float64(optimal) / float64(actual) * float64(weight)
	return minInt(weight, int(math.Round(raw)))
}

func starsFor(score int) int {
	switch {
	case score >= 90:
		return 5
	case score >= 75:
		return 4
	case score >= 60:
		return 3
	case score >= 40:
		return 2
	case score >= 20:
		return 1
	default:
		return 0
	}
}

func suggestionsFor(w *world.World, stats world.Stats, inv world.Inventory, log []vm.Event, goals LevelGoals, score, stars int) []string {
	status, _ := w.Status()
	var out []string

	if status != world.Won {
		if w.Drone().Energy <= 0 {
			out = append(out, "ran out of energy")
		} else if unmet := firstUnmetObjective(goals.Objectives, inv); unmet != nil {
			out = append(out, fmt.Sprintf("objective not met: collect %d %s", unmet.Count, unmet.Resource))
		}
	}

	if float64(stats.Turns) > float64(stats.Moves)*0.5 {
		out = append(out, "too many turns")
	}
	if stats.EnergyWasted > 10 {
		out = append(out, "wasted energy on failed actions")
	}
	if float64(stats.Scans) > float64(stats.Moves)*2 {
		out = append(out, "excessive scanning")
	}
	if hasConsecutiveTurns(log) {
		out = append(out, "combine turns")
	}
	if stats.Ticks > 100 && float64(stats.Moves) < float64(stats.Ticks)*0.3 {
		out = append(out, "low movement ratio")
	}

	if score == 100 {
		return []string{"Perfect score!"}
	}
	if stars >= 4 && len(out) == 0 {
		out = append(out, "Great run, keep it up!")
	}
	return out
}

func firstUnmetObjective(objectives []world.Objective, inv world.Inventory) *world.Objective {
	for _, o := range objectives {
		if o.Type != "collect" {
			continue
		}
		var have int
		switch o.Resource {
		case world.Crystal:
			have = inv.Crystal
		case world.Data:
			have = inv.Data
		case world.EnergyCel:
			have = inv.EnergyCell
		}
		if have < o.Count {
			return &o
		}
	}
	return nil
}

func hasConsecutiveTurns(log []vm.Event) bool {
	prevWasTurn := false
	for _, e := range log {
		if e.Kind != vm.EventAction {
			continue
		}
		act, ok := e.Data.(vm.Action)
		isTurn := ok && act.Kind == vm.ActionTurn
		if isTurn && prevWasTurn {
			return true
		}
		prevWasTurn = isTurn
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
