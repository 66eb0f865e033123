package domain

import (
	"errors"
	"testing"
)

// TestNewSession_InitialState は NewSession が Unjoined で始まることを確認します。
func TestNewSession_InitialState(t *testing.T) {
	s := NewSession()

	if s.ID() == "" {
		t.Errorf("session ID is empty")
	}
	if s.State() != StateUnjoined {
		t.Errorf("State() = %v, want %v", s.State(), StateUnjoined)
	}
	if !s.JoinedAt().IsZero() {
		t.Errorf("joinedAt should be zero before join")
	}
	if !s.LastTurnAt().IsZero() {
		t.Errorf("lastTurn should be zero before any turn")
	}
}

func TestSession_TransitionFollowsLifecycle(t *testing.T) {
	s := NewSession()
	steps := []struct {
		from, next SessionState
	}{
		{StateUnjoined, StateJoining},
		{StateJoining, StateWaitingInitial},
		{StateWaitingInitial, StateServing},
		{StateServing, StateTerminated},
	}
	for _, st := range steps {
		if err := s.Transition(st.from, st.next); err != nil {
			t.Fatalf("Transition(%v, %v) = %v", st.from, st.next, err)
		}
		if s.State() != st.next {
			t.Fatalf("State() = %v, want %v", s.State(), st.next)
		}
	}
}

func TestSession_TransitionRejectsSkips(t *testing.T) {
	s := NewSession()

	if err := s.Transition(StateUnjoined, StateServing); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("skip transition: err = %v, want ErrInvalidTransition", err)
	}
	// 現在の状態と from が一致しない
	if err := s.Transition(StateJoining, StateWaitingInitial); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("stale from: err = %v, want ErrInvalidTransition", err)
	}
	if s.State() != StateUnjoined {
		t.Errorf("State() = %v, want %v", s.State(), StateUnjoined)
	}
}

func TestSession_TerminateOnce(t *testing.T) {
	s := NewSession()
	if !s.Terminate() {
		t.Fatalf("first Terminate should report true")
	}
	if s.Terminate() {
		t.Errorf("second Terminate should report false")
	}
	if s.State() != StateTerminated {
		t.Errorf("State() = %v, want %v", s.State(), StateTerminated)
	}
}

func TestSession_AssignPlayerID(t *testing.T) {
	s := NewSession()
	s.Assign(PlayerID(7))

	if s.PlayerID() != 7 {
		t.Errorf("PlayerID() = %d, want 7", s.PlayerID())
	}
	if s.JoinedAt().IsZero() {
		t.Errorf("joinedAt should be set after Assign")
	}
}
