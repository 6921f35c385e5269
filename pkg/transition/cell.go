package transition

import (
	"fmt"
	"sync"
)

// Guard vetoes a rule when it returns false. It runs with the cell locked.
type Guard func(from State, event Event, data any) bool

// Action runs with the cell locked, after the guards passed and before the
// state changes. Returning an error cancels the transition.
type Action func(from, to State, event Event, data any) error

type rule struct {
	to      State
	guards  []Guard
	actions []Action
}

// Cell is the single state value shared by every gate of a handler, together
// with the table of legal moves between states. All state changes go through
// Fire, which serializes them.
// Lookups use a nested map [from][event][]rule.
type Cell struct {
	current State
	known   map[State]struct{}
	rules   map[State]map[Event][]rule
	mu      sync.RWMutex
}

// NewCell creates a cell positioned at initial.
func NewCell(initial State) *Cell {
	return &Cell{
		current: initial,
		known:   make(map[State]struct{}),
		rules:   make(map[State]map[Event][]rule),
	}
}

// Current returns the active state.
func (c *Cell) Current() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Is reports whether s is the active state.
func (c *Cell) Is(s State) bool {
	return c.Current() == s
}

// Knows reports whether s appears in any registered rule.
func (c *Cell) Knows(s State) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.known[s]
	return ok
}

// Hold runs fn with the cell locked and passes it the active state.
// fn must not call back into the cell.
func (c *Cell) Hold(fn func(current State) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.current)
}

// AddTransition registers a rule. Several rules may share the same from/event
// pair; they are tried in registration order and the first whose guards pass wins.
func (c *Cell) AddTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == "" || to == "" || event == "" {
		return ErrInvalidTransition
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rules[from]; !ok {
		c.rules[from] = make(map[Event][]rule)
	}
	c.rules[from][event] = append(c.rules[from][event], rule{to: to, guards: guards, actions: actions})
	c.known[from] = struct{}{}
	c.known[to] = struct{}{}
	return nil
}

// Fire applies the first matching rule for event and returns the state it left.
func (c *Cell) Fire(event Event, data any) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.current
	r, err := c.match(event, data)
	if err != nil {
		return from, err
	}

	for _, action := range r.actions {
		if action == nil {
			continue
		}
		if err := action(from, r.to, event, data); err != nil {
			return from, fmt.Errorf("action failed: %w", err)
		}
	}

	c.current = r.to
	return from, nil
}

// CanFire reports whether Fire would currently accept event with data.
// Guards are evaluated, actions are not.
func (c *Cell) CanFire(event Event, data any) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, err := c.match(event, data)
	return err == nil
}

// match must be called with c.mu held.
func (c *Cell) match(event Event, data any) (*rule, error) {
	candidates := c.rules[c.current][event]
	if len(candidates) == 0 {
		return nil, &ErrNoTransitionAvailable{State: c.current, Event: event}
	}

	for i, r := range candidates {
		passed := true
		for _, guard := range r.guards {
			if guard != nil && !guard(c.current, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return &candidates[i], nil
		}
	}

	return nil, &ErrTransitionRejected{State: c.current, Event: event}
}
