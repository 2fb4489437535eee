// Package fetch tracks in-flight request groups per UI section and decides
// which completions are allowed to touch displayed state. Responses may
// arrive in any order; only the completion matching a section's latest
// issued epoch is accepted, so a slow stale response can never overwrite a
// fresher one.
package fetch

import "sync"

// Status is a section's fetch lifecycle snapshot.
type Status struct {
	Loading bool
	Err     error
	// Loaded is true once any fetch for this section has completed
	// successfully; it distinguishes "empty result" from "never fetched".
	Loaded bool
}

// Coordinator keys fetch groups by section name. Each section carries an
// independent epoch counter and status, so one section's failure or
// slowness never blocks or blanks a sibling.
type Coordinator struct {
	mu       sync.Mutex
	epochs   map[string]uint64
	statuses map[string]Status
}

// NewCoordinator returns an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		epochs:   make(map[string]uint64),
		statuses: make(map[string]Status),
	}
}

// Begin starts a new fetch group for a section: the epoch advances, the
// section is marked loading, and any previous error is cleared. The
// returned epoch must be carried with the request and handed back to
// Complete. Beginning a new group implicitly supersedes any in-flight one.
func (c *Coordinator) Begin(section string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epochs[section]++
	st := c.statuses[section]
	st.Loading = true
	st.Err = nil
	c.statuses[section] = st
	return c.epochs[section]
}

// Complete records the outcome of a fetch group. It returns true when the
// completion was current and its result should be applied; a stale
// completion returns false and changes nothing, not even the error slot.
func (c *Coordinator) Complete(section string, epoch uint64, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epochs[section] != epoch {
		return false
	}

	st := c.statuses[section]
	st.Loading = false
	st.Err = err
	if err == nil {
		st.Loaded = true
	}
	c.statuses[section] = st
	return true
}

// Status returns a section's current snapshot. Unknown sections read as the
// zero Status.
func (c *Coordinator) Status(section string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statuses[section]
}

// Loading reports whether a section has an outstanding fetch.
func (c *Coordinator) Loading(section string) bool {
	return c.Status(section).Loading
}

// Err returns a section's last completion error, nil when it succeeded or
// never ran.
func (c *Coordinator) Err(section string) error {
	return c.Status(section).Err
}

// AnyLoading reports whether any of the given sections is still loading.
// With no arguments it checks every known section.
func (c *Coordinator) AnyLoading(sections ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(sections) == 0 {
		for _, st := range c.statuses {
			if st.Loading {
				return true
			}
		}
		return false
	}
	for _, s := range sections {
		if c.statuses[s].Loading {
			return true
		}
	}
	return false
}

// Reset forgets a section entirely. The epoch advances so in-flight
// completions for it become stale, with or without a following Begin;
// epoch counters are never rewound.
func (c *Coordinator) Reset(section string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epochs[section]++
	delete(c.statuses, section)
}
