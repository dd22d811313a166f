package bootstrap

// State is the position of a Bootstrapper in its run.
//
//	Idle -> Resolving -> Registering -> AwaitingReadiness -> Started | Abandoned
//	Idle -> Disabled
type State string

const (
	StateIdle              State = "idle"
	StateResolving         State = "resolving"
	StateRegistering       State = "registering"
	StateAwaitingReadiness State = "awaiting_readiness"
	StateStarted           State = "started"
	StateAbandoned         State = "abandoned"
	StateDisabled          State = "disabled"
)

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	switch s {
	case StateStarted, StateAbandoned, StateDisabled:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }
