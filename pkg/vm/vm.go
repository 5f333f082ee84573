// Package vm implements the stepwise bytecode virtual machine: it
// executes one instruction per tick, maintains an operand stack, emits
// action descriptors for a grid-world simulator to apply, records a
// bounded snapshot history for rewind, and reports errors as a
// dedicated terminal state rather than panicking.
package vm

import (
	"github.com/dronescript/autodrone/pkg/vmcode"
)

// Options configures budgets that bound a run. Fixed loops are unrolled
// at compile time, so the only runtime budget the VM itself enforces is
// a hard ceiling on total dispatched instructions; the compile-time
// analogue lives in the parser's large-loop-count warning.
type Options struct {
	MaxInstructions int
}

// DefaultOptions matches the reference budgets.
func DefaultOptions() Options {
	return Options{MaxInstructions: 10000}
}

// ActionKind is the closed set of action descriptors returned from
// tick() for the driver to apply to the world.
type ActionKind string

const (
	ActionMove    ActionKind = "MOVE"
	ActionTurn    ActionKind = "TURN"
	ActionCollect ActionKind = "COLLECT"
	ActionWait    ActionKind = "WAIT"
)

// Action is what tick() hands back to the driver when it executes a
// world-mutating instruction. The driver applies it to the world and
// decides whether to keep ticking.
type Action struct {
	Kind      ActionKind
	Direction string // set for MOVE, TURN
	Ticks     int    // set for WAIT
	Line      int
}

// VM executes a compiled Bytecode program one instruction at a time.
type VM struct {
	bytecode *vmcode.Bytecode
	world    WorldView
	opts     Options

	ip               int
	stack            []interface{}
	instructionCount int
	state            State
	history          history
	events           *eventBus
}

// New creates a VM ready to run bc against world. world may be nil for
// programs that never LOAD or CALL a world-derived value.
func New(bc *vmcode.Bytecode, world WorldView, opts Options) *VM {
	return &VM{
		bytecode: bc,
		world:    world,
		opts:     opts,
		state:    StateReady,
		events:   newEventBus(),
	}
}

// State returns the VM's current execution state.
func (vm *VM) State() State { return vm.state }

// InstructionCount returns how many instructions have executed so far.
func (vm *VM) InstructionCount() int { return vm.instructionCount }

// EventLog returns a copy of every event emitted so far.
func (vm *VM) EventLog() []Event { return vm.events.Log() }

// Subscribe registers fn to receive every future event of kind.
func (vm *VM) Subscribe(kind EventKind, fn Subscriber) { vm.events.Subscribe(kind, fn) }

// GetCurrentLine returns the source line for the instruction about to
// execute, or 0 if the bytecode has no entry for it.
func (vm *VM) GetCurrentLine() int { return vm.bytecode.LineFor(vm.ip) }

// Run transitions READY to RUNNING, or resets first if HALTED/ERROR.
func (vm *VM) Run() {
	if vm.state == StateHalted || vm.state == StateError {
		vm.Reset()
	}
	if vm.state == StateReady || vm.state == StatePaused {
		vm.state = StateRunning
	}
}

// Pause transitions RUNNING to PAUSED. It has no effect otherwise.
func (vm *VM) Pause() {
	if vm.state == StateRunning {
		vm.state = StatePaused
	}
}

// Stop is the cancellation primitive: it transitions to HALTED from any
// state, observed at the next tick boundary.
func (vm *VM) Stop() {
	vm.state = StateHalted
}

// Reset returns the VM to READY, discarding history, the event log, the
// stack, and all counters.
func (vm *VM) Reset() {
	vm.ip = 0
	vm.stack = nil
	vm.instructionCount = 0
	vm.state = StateReady
	vm.history.reset()
	vm.events.reset()
}

// Rewind restores the state captured just before the nth most recent
// tick (see history.rewind), so Rewind(1) undoes the last tick, and
// returns to PAUSED. It reports false if there isn't enough history.
func (vm *VM) Rewind(n int) bool {
	s, ok := vm.history.rewind(n)
	if !ok {
		return false
	}
	vm.ip = s.ip
	vm.stack = s.stack
	vm.instructionCount = s.instructionCount
	if vm.world != nil && s.worldSnapshot != nil {
		vm.world.Restore(s.worldSnapshot)
	}
	vm.state = StatePaused
	vm.events.emit(EventStateChange, vm.state, vm.instructionCount)
	return true
}

// Tick advances exactly one instruction while RUNNING or PAUSED. It
// returns a non-nil Action when the instruction is one the driver must
// apply to the world; the VM never touches the world for those itself.
func (vm *VM) Tick() *Action {
	if vm.state != StateRunning && vm.state != StatePaused {
		return nil
	}

	if vm.instructionCount >= vm.opts.MaxInstructions {
		vm.fail(newRuntimeError(InstructionLimit,
			"instruction budget exhausted", vm.GetCurrentLine(),
			"check for an infinite loop"))
		return nil
	}

	if vm.ip >= vm.bytecode.Len() {
		vm.state = StateHalted
		vm.events.emit(EventStateChange, vm.state, vm.instructionCount)
		return nil
	}

	vm.pushHistory()
	vm.instructionCount++

	ins := vm.bytecode.Instructions[vm.ip]
	action, err := vm.dispatch(ins)
	if err != nil {
		vm.fail(err)
		return nil
	}
	if action != nil {
		vm.events.emit(EventAction, *action, vm.instructionCount)
	}
	return action
}

func (vm *VM) pushHistory() {
	var worldSnap interface{}
	if vm.world != nil {
		worldSnap = vm.world.Snapshot()
	}
	vm.history.push(snapshot{
		ip:               vm.ip,
		stack:            append([]interface{}(nil), vm.stack...),
		instructionCount: vm.instructionCount,
		worldSnapshot:    worldSnap,
	})
}

func (vm *VM) fail(err *RuntimeError) {
	vm.state = StateError
	vm.events.emit(EventError, err, vm.instructionCount)
}

func (vm *VM) push(v interface{}) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() (interface{}, *RuntimeError) {
	if len(vm.stack) == 0 {
		return nil, newRuntimeError(StackUnderflow, "operand stack is empty", vm.GetCurrentLine(), "")
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

// dispatch executes one instruction, advancing ip according to §4.F's
// per-opcode rules. Action opcodes advance ip like the rest and return
// an Action telling the caller what to apply; JUMP* set ip to their
// target instead, and HALT leaves ip where it is.
func (vm *VM) dispatch(ins vmcode.Instruction) (*Action, *RuntimeError) {
	line := ins.Line
	if line == 0 {
		line = vm.bytecode.LineFor(vm.ip)
	}

	switch ins.Op {
	case vmcode.MOVE:
		vm.ip++
		return &Action{Kind: ActionMove, Direction: ins.Arg.(string), Line: line}, nil
	case vmcode.TURN:
		vm.ip++
		return &Action{Kind: ActionTurn, Direction: ins.Arg.(string), Line: line}, nil
	case vmcode.COLLECT:
		vm.ip++
		return &Action{Kind: ActionCollect, Line: line}, nil
	case vmcode.WAIT:
		vm.ip++
		return &Action{Kind: ActionWait, Ticks: ins.Arg.(int), Line: line}, nil

	case vmcode.LOG:
		v, rerr := vm.pop()
		if rerr != nil {
			return nil, rerr
		}
		vm.events.emit(EventLog, v, vm.instructionCount)
		vm.ip++
		return nil, nil

	case vmcode.PUSH:
		vm.push(ins.Arg)
		vm.ip++
		return nil, nil
	case vmcode.POP:
		if _, rerr := vm.pop(); rerr != nil {
			return nil, rerr
		}
		vm.ip++
		return nil, nil

	case vmcode.LOAD:
		name := ins.Arg.(string)
		if v, ok := vm.loadFixed(name); ok {
			vm.push(v)
			vm.ip++
			return nil, nil
		}
		return nil, newRuntimeError(UnknownIdentifier, "unknown identifier "+name, line,
			"only energy, x, y, facing, inventory, scanCooldown, maxEnergy, true, false are defined")

	case vmcode.CALL:
		return nil, vm.dispatchCall(ins, line)

	case vmcode.MEMBER:
		v, rerr := vm.pop()
		if rerr != nil {
			return nil, rerr
		}
		obj, ok := v.(map[string]interface{})
		prop := ins.Arg.(string)
		if !ok {
			return nil, newRuntimeError(BadMember, "value has no fields", line, "")
		}
		field, ok := obj[prop]
		if !ok {
			return nil, newRuntimeError(BadMember, "no field named "+prop, line, "")
		}
		vm.push(field)
		vm.ip++
		return nil, nil

	case vmcode.ADD, vmcode.SUB, vmcode.EQ, vmcode.NEQ, vmcode.LT, vmcode.GT,
		vmcode.LTE, vmcode.GTE, vmcode.AND, vmcode.OR:
		if rerr := vm.binaryOp(ins.Op, line); rerr != nil {
			return nil, rerr
		}
		vm.ip++
		return nil, nil
	case vmcode.NOT:
		v, rerr := vm.pop()
		if rerr != nil {
			return nil, rerr
		}
		vm.push(!truthy(v))
		vm.ip++
		return nil, nil

	case vmcode.JUMP:
		vm.ip = ins.Arg.(int)
		return nil, nil
	case vmcode.JUMP_IF_FALSE:
		v, rerr := vm.pop()
		if rerr != nil {
			return nil, rerr
		}
		if !truthy(v) {
			vm.ip = ins.Arg.(int)
		} else {
			vm.ip++
		}
		return nil, nil
	case vmcode.JUMP_IF_TRUE:
		v, rerr := vm.pop()
		if rerr != nil {
			return nil, rerr
		}
		if truthy(v) {
			vm.ip = ins.Arg.(int)
		} else {
			vm.ip++
		}
		return nil, nil

	case vmcode.HALT:
		vm.state = StateHalted
		vm.events.emit(EventStateChange, vm.state, vm.instructionCount)
		return nil, nil
	case vmcode.NOP:
		vm.ip++
		return nil, nil
	}

	return nil, newRuntimeError(UnknownOpcode, "unknown opcode "+string(ins.Op), line, "")
}

func (vm *VM) loadFixed(name string) (interface{}, bool) {
	switch name {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if vm.world == nil {
		return nil, false
	}
	return vm.world.Load(name)
}

var scanNames = map[string]bool{"scan": true, "scan_left": true, "scan_right": true}

func (vm *VM) dispatchCall(ins vmcode.Instruction, line int) *RuntimeError {
	ca := ins.Arg.(vmcode.CallArg)
	args := make([]interface{}, ca.Argc)
	for i := ca.Argc - 1; i >= 0; i-- {
		v, rerr := vm.pop()
		if rerr != nil {
			return rerr
		}
		args[i] = v
	}
	if !scanNames[ca.Name] {
		return newRuntimeError(UnknownFunction, "unknown function "+ca.Name, line,
			"only scan, scan_left, scan_right are callable")
	}
	if vm.world == nil {
		return newRuntimeError(UnknownFunction, "no world bound to resolve "+ca.Name, line, "")
	}
	vm.push(vm.world.Scan(ca.Name))
	vm.ip++
	return nil
}

func (vm *VM) binaryOp(op vmcode.Op, line int) *RuntimeError {
	right, rerr := vm.pop()
	if rerr != nil {
		return rerr
	}
	left, rerr := vm.pop()
	if rerr != nil {
		return rerr
	}

	switch op {
	case vmcode.ADD:
		vm.push(numOf(left) + numOf(right))
	case vmcode.SUB:
		vm.push(numOf(left) - numOf(right))
	case vmcode.EQ:
		vm.push(equalValues(left, right))
	case vmcode.NEQ:
		vm.push(!equalValues(left, right))
	case vmcode.LT:
		vm.push(numOf(left) < numOf(right))
	case vmcode.GT:
		vm.push(numOf(left) > numOf(right))
	case vmcode.LTE:
		vm.push(numOf(left) <= numOf(right))
	case vmcode.GTE:
		vm.push(numOf(left) >= numOf(right))
	case vmcode.AND:
		vm.push(truthy(left) && truthy(right))
	case vmcode.OR:
		vm.push(truthy(left) || truthy(right))
	default:
		return newRuntimeError(UnknownOpcode, "unknown binary opcode "+string(op), line, "")
	}
	return nil
}

func numOf(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func truthy(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		return b != ""
	case nil:
		return false
	}
	return true
}

func equalValues(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
