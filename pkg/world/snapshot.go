package world

import "github.com/mitchellh/copystructure"

// snapshot is the deep-copyable representation returned by Snapshot and
// consumed by Restore. It mirrors every field Restore must overwrite.
type snapshot struct {
	Grid          [][]TileKind
	Revealed      [][]bool
	Drone         Drone
	Inventory     Inventory
	Stats         Stats
	ScanCooldown  int
	Status        Status
	StatusMessage string
}

// Snapshot returns an opaque, deep-copied representation of World state
// suitable for the VM's rewind history.
func (w *World) Snapshot() interface{} {
	s := snapshot{
		Grid:          w.grid,
		Revealed:      w.revealed,
		Drone:         w.drone,
		Inventory:     w.inventory,
		Stats:         w.stats,
		ScanCooldown:  w.scanCooldown,
		Status:        w.status,
		StatusMessage: w.statusMessage,
	}
	cp, err := copystructure.Copy(s)
	if err != nil {
		return s
	}
	return cp
}

// Restore overwrites World state from a value previously returned by
// Snapshot. It is a no-op if snap has the wrong shape.
func (w *World) Restore(snap interface{}) {
	s, ok := snap.(snapshot)
	if !ok {
		return
	}
	w.grid = s.Grid
	w.revealed = s.Revealed
	w.drone = s.Drone
	w.inventory = s.Inventory
	w.stats = s.Stats
	w.scanCooldown = s.ScanCooldown
	w.status = s.Status
	w.statusMessage = s.StatusMessage
}
