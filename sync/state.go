package sync

// State is the lifecycle state of a repository.
type State int

const (
	// StateUncached means the repository is not in the cache.
	StateUncached State = iota
	// StateCloning means a clone is in flight.
	StateCloning
	// StateCloned means the repository is cached and idle.
	StateCloned
	// StateSyncing means a pull or push is in flight.
	StateSyncing
)

// String returns a string representation of the State.
func (s State) String() string {
	switch s {
	case StateUncached:
		return "uncached"
	case StateCloning:
		return "cloning"
	case StateCloned:
		return "cloned"
	case StateSyncing:
		return "syncing"
	default:
		return "unknown"
	}
}
