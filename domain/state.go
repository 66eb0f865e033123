package domain

import "fmt"

// SessionState はゲームセッションのライフサイクル上の位置です。
type SessionState uint32

const (
	StateUnjoined SessionState = iota
	StateJoining
	StateWaitingInitial // Join済み、InitialState待ち
	StateServing
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateUnjoined:
		return "unjoined"
	case StateJoining:
		return "joining"
	case StateWaitingInitial:
		return "joined_waiting_initial"
	case StateServing:
		return "serving"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

// CanTransition は s から next への遷移が許されるかを返します。
// どの状態からでも Terminated へは遷移できます。
func (s SessionState) CanTransition(next SessionState) bool {
	if next == StateTerminated {
		return s != StateTerminated
	}
	return next == s+1
}
