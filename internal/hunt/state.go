package hunt

// State represents the phase of an acquisition run. The flow is
// Searching -> Launching -> AwaitingActivation -> Done, with Failed
// reachable from any phase. A direct start skips Searching.
type State int

const (
	// StateSearching indicates the poller is waiting for capacity.
	StateSearching State = iota

	// StateLaunching indicates a launch request is in flight.
	StateLaunching

	// StateAwaitingActivation indicates the instance was created and we
	// are waiting for it to receive a network address.
	StateAwaitingActivation

	// StateDone indicates the acquisition finished.
	StateDone

	// StateFailed indicates the acquisition aborted with an error.
	StateFailed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateLaunching:
		return "launching"
	case StateAwaitingActivation:
		return "awaiting activation"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
