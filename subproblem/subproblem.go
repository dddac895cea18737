// Package subproblem implements SubproblemManager: a process-wide map from
// algorithm instance to its fixed-variable point, the basis for projecting
// between a point in the full problem and a point in that algorithm's
// sub-space. The mesh and barrier of a sub-algorithm live entirely in the
// sub-space; only this manager knows how to translate back out.
package subproblem

import (
	"sync"

	"github.com/nomadopt/nomad/variables"
)

// InstanceID identifies one running algorithm instance.
type InstanceID uint64

// Manager is the process-wide fixed-variable registry, guarded by a lock
// held only for the insert/find critical section.
type Manager struct {
	mu      sync.RWMutex
	spaces  map[InstanceID]variables.Space
	nextID  InstanceID
}

// NewManager builds an empty Manager.
func NewManager() *Manager {
	return &Manager{spaces: make(map[InstanceID]variables.Space)}
}

// Register records space as the sub-space definition for a new algorithm
// instance and returns its ID. The entry lives exactly as long as the
// instance; callers must call Release when the algorithm ends.
func (m *Manager) Register(space variables.Space) InstanceID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.spaces[id] = space
	return id
}

// Release drops the entry for id.
func (m *Manager) Release(id InstanceID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.spaces, id)
}

// Space returns the sub-space registered for id.
func (m *Manager) Space(id InstanceID) (variables.Space, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.spaces[id]
	return s, ok
}

// ToSubSpace projects a full-space point down to id's sub-space.
func (m *Manager) ToSubSpace(id InstanceID, p variables.Point) (variables.Point, bool) {
	s, ok := m.Space(id)
	if !ok {
		return variables.Point{}, false
	}
	return s.ToSubSpace(p), true
}

// FromSubSpace expands an id's sub-space point back to the full space,
// filling fixed coordinates from id's registered space.
func (m *Manager) FromSubSpace(id InstanceID, sub variables.Point) (variables.Point, bool) {
	s, ok := m.Space(id)
	if !ok {
		return variables.Point{}, false
	}
	return s.FromSubSpace(sub), true
}

// SubDimension returns the number of free (non-fixed) coordinates of id's
// registered space, sparing callers from recomputing it from the
// fixed-point mask via SubIndices every time they need it.
func (m *Manager) SubDimension(id InstanceID) (int, bool) {
	s, ok := m.Space(id)
	if !ok {
		return 0, false
	}
	return len(s.SubIndices()), true
}
