package world

// Load implements vm.WorldView: it exposes the fixed set of read-only
// script-visible fields. inventory is returned as a plain map so the
// VM's MEMBER instruction can index it by field name.
func (w *World) Load(name string) (interface{}, bool) {
	switch name {
	case "energy":
		return float64(w.drone.Energy), true
	case "x":
		return float64(w.drone.X), true
	case "y":
		return float64(w.drone.Y), true
	case "facing":
		return string(w.drone.Facing), true
	case "inventory":
		return map[string]interface{}{
			"crystal":     float64(w.inventory.Crystal),
			"data":        float64(w.inventory.Data),
			"energy_cell": float64(w.inventory.EnergyCell),
		}, true
	case "scanCooldown":
		return float64(w.scanCooldown), true
	case "maxEnergy":
		return float64(w.drone.MaxEnergy), true
	}
	return nil, false
}

// Scan implements vm.WorldView, translating the three callable names a
// script can invoke into a relative direction.
func (w *World) Scan(name string) interface{} {
	switch name {
	case "scan":
		return w.scanDir("forward")
	case "scan_left":
		return w.scanDir("left")
	case "scan_right":
		return w.scanDir("right")
	}
	return "unknown"
}
