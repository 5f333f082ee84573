package vm

// WorldView is the VM's read/query surface onto the grid-world
// simulator. Movement, turning, collecting, and waiting are never
// invoked through this interface: those become action descriptors
// returned from tick() for the driver to apply. Only LOAD (read a fixed
// world field) and CALL (dispatch a scan) cross the boundary directly,
// since both are synchronous queries with no externally visible motion.
type WorldView interface {
	// Load fetches the current value of one of the fixed read-only
	// names {energy, x, y, facing, inventory, scanCooldown, maxEnergy}.
	// ok is false for any other name.
	Load(name string) (value interface{}, ok bool)

	// Scan dispatches one of "scan", "scan_left", "scan_right" and
	// returns the resulting value (a tile kind name, or a sentinel
	// such as "cooldown"/"no_energy").
	Scan(name string) interface{}

	// Snapshot returns an opaque, deep-copyable representation of world
	// state for the VM's history ring.
	Snapshot() interface{}

	// Restore overwrites world state from a value previously returned
	// by Snapshot.
	Restore(snap interface{})
}
