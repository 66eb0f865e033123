package domain

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransition は許されない状態遷移を要求した場合に返されるエラーです。
var ErrInvalidTransition = errors.New("invalid session state transition")

// Session はボットプロセス1つ分の論理セッションを表す構造体です。
type Session struct {
	id string

	state    atomic.Uint32
	playerID atomic.Int32

	// activity
	joinedAt atomic.Int64
	lastTurn atomic.Int64
}

func NewSession() *Session {
	return &Session{
		id: uuid.NewString(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Transition は現在の状態が from のときだけ next へ遷移します。
func (s *Session) Transition(from, next SessionState) error {
	if !from.CanTransition(next) {
		return ErrInvalidTransition
	}
	if !s.state.CompareAndSwap(uint32(from), uint32(next)) {
		return ErrInvalidTransition
	}
	return nil
}

// Terminate はどの状態からでも Terminated に遷移します。既に終了していれば false を返します。
func (s *Session) Terminate() bool {
	for {
		cur := s.state.Load()
		if SessionState(cur) == StateTerminated {
			return false
		}
		if s.state.CompareAndSwap(cur, uint32(StateTerminated)) {
			return true
		}
	}
}

// Assign はJoinで割り当てられたプレイヤーIDを記録します。
func (s *Session) Assign(id PlayerID) {
	s.playerID.Store(int32(id))
	s.joinedAt.Store(time.Now().UnixNano())
}

func (s *Session) PlayerID() PlayerID {
	return PlayerID(s.playerID.Load())
}

func (s *Session) TouchTurn() {
	s.lastTurn.Store(time.Now().UnixNano())
}

// LastTurnAt は最後にターンを処理した時刻を返します。未処理ならゼロ値です。
func (s *Session) LastTurnAt() time.Time {
	return unixNanoToTime(s.lastTurn.Load())
}

func (s *Session) JoinedAt() time.Time {
	return unixNanoToTime(s.joinedAt.Load())
}

func unixNanoToTime(nano int64) time.Time {
	if nano == 0 {
		return time.Time{}
	}
	return time.Unix(0, nano)
}
