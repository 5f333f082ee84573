// Package level holds the plain data shape a Level is loaded from. It
// performs no I/O and no validation beyond what its own fields express;
// loading and validating a Level is a driver concern.
package level

import "github.com/dronescript/autodrone/pkg/world"

// Objective is a single win condition. The only supported type today is
// "collect", but the field is a string so a driver can reject unknown
// kinds explicitly rather than the type system silently narrowing them.
type Objective struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
	Count    int    `json:"count"`
}

// Level describes one puzzle: its grid, the drone's starting condition,
// and the metadata a driver or analyzer needs to score a run.
type Level struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Lesson      string `json:"lesson"`

	Width  int                `json:"width"`
	Height int                `json:"height"`
	Grid   [][]world.TileKind `json:"grid"`

	StartX      int          `json:"startX"`
	StartY      int          `json:"startY"`
	StartFacing world.Facing `json:"startFacing"`
	StartEnergy int          `json:"startEnergy"`
	MaxEnergy   int          `json:"maxEnergy"`

	FogOfWar   bool `json:"fogOfWar"`
	ScanRadius int  `json:"scanRadius"`

	Objectives []Objective `json:"objectives"`

	OptimalEnergy int `json:"optimalEnergy"`
	OptimalSteps  int `json:"optimalSteps"`
	TimeLimit     int `json:"timeLimit"`

	Hints          []string `json:"hints"`
	SampleSolution string   `json:"sampleSolution"`
}

// ToSpec converts a Level into the world package's construction
// parameters, keeping world independent of this package's JSON shape.
func (lv *Level) ToSpec() world.Spec {
	objs := make([]world.Objective, len(lv.Objectives))
	for i, o := range lv.Objectives {
		objs[i] = world.Objective{Type: o.Type, Resource: world.TileKind(o.Resource), Count: o.Count}
	}
	return world.Spec{
		Width:       lv.Width,
		Height:      lv.Height,
		Grid:        lv.Grid,
		StartX:      lv.StartX,
		StartY:      lv.StartY,
		StartFacing: lv.StartFacing,
		StartEnergy: lv.StartEnergy,
		MaxEnergy:   lv.MaxEnergy,
		FogOfWar:    lv.FogOfWar,
		ScanRadius:  lv.ScanRadius,
		Objectives:  objs,
	}
}
