package model

// RunEpoch holds the currently active RunIdentity. Updates carrying any other
// identity belong to a superseded run and must be dropped.
type RunEpoch struct {
	active RunIdentity
	set    bool
}

// SetActive replaces the active identity unconditionally.
func (e *RunEpoch) SetActive(id RunIdentity) {
	e.active = id
	e.set = true
}

// IsActive reports whether id equals the active identity. Before the first
// SetActive no identity is active.
func (e *RunEpoch) IsActive(id RunIdentity) bool {
	return e.set && e.active == id
}

// Active returns the active identity and whether one has been set.
func (e *RunEpoch) Active() (RunIdentity, bool) {
	return e.active, e.set
}
