// Package workflow tracks the payment lifecycle of an issued invoice.
package workflow

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidTransition is returned when a trigger is not permitted in the current state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not a known payment state
	ErrInvalidState = errors.New("invalid state")
)

// Table is an immutable transition table built by a Builder.
type Table struct {
	transitions map[State]map[Trigger]State
}

// Builder configures a transition table.
type Builder struct {
	transitions map[State]map[Trigger]State
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger]State)}
}

// Permit allows trigger to move from one state to another. A later Permit
// for the same (from, trigger) pair replaces the earlier one.
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	if !from.IsValid() || !to.IsValid() {
		panic(fmt.Sprintf("invalid transition %s -[%s]-> %s", from, trigger, to))
	}
	row, ok := b.transitions[from]
	if !ok {
		row = make(map[Trigger]State)
		b.transitions[from] = row
	}
	row[trigger] = to
	return b
}

// Build freezes the configured transitions.
func (b *Builder) Build() *Table {
	frozen := make(map[State]map[Trigger]State, len(b.transitions))
	for from, row := range b.transitions {
		cp := make(map[Trigger]State, len(row))
		for trigger, to := range row {
			cp[trigger] = to
		}
		frozen[from] = cp
	}
	return &Table{transitions: frozen}
}

// Next returns the state reached by firing trigger from current.
func (t *Table) Next(current State, trigger Trigger) (State, error) {
	if !current.IsValid() {
		return current, fmt.Errorf("%w: %q", ErrInvalidState, current)
	}
	to, ok := t.transitions[current][trigger]
	if !ok {
		return current, fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, current)
	}
	return to, nil
}

// Permitted returns the triggers allowed from current, sorted by name.
func (t *Table) Permitted(current State) []Trigger {
	row := t.transitions[current]
	out := make([]Trigger, 0, len(row))
	for trigger := range row {
		out = append(out, trigger)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Machine is a single payment status tracker. It is not safe for concurrent
// use; callers serialize access per invoice.
type Machine struct {
	table   *Table
	current State
}

// NewMachine starts a machine at the given state.
func NewMachine(table *Table, initial State) *Machine {
	return &Machine{table: table, current: initial}
}

// State returns the current state
func (m *Machine) State() State {
	return m.current
}

// Fire applies trigger. The state is unchanged on error.
func (m *Machine) Fire(trigger Trigger) error {
	next, err := m.table.Next(m.current, trigger)
	if err != nil {
		return err
	}
	m.current = next
	return nil
}

// CanFire reports whether trigger is permitted in the current state
func (m *Machine) CanFire(trigger Trigger) bool {
	_, ok := m.table.transitions[m.current][trigger]
	return ok
}
