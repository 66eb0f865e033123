package domain

import (
	"fmt"
	"time"
)

// PlayerID はゲームサーバーが割り当てるプレイヤー識別子です。
// サーバーは正の値を割り当て、0 は「所有者なし」を意味します。
type PlayerID int32

const NoPlayer PlayerID = 0

// Lighthouse は1ターン分の灯台のスナップショットです。
type Lighthouse struct {
	Position    Position   `json:"position"`
	Owner       PlayerID   `json:"owner"`
	Energy      int        `json:"energy"`
	Connections []Position `json:"connections,omitempty"`
	HaveKey     bool       `json:"haveKey"`
}

// Connection は灯台間の接続候補です。
type Connection struct {
	From       Position `json:"from"`
	To         Position `json:"to"`
	CanConnect bool     `json:"canConnect"`
}

// Turn はサーバーから毎ターン送られてくる観測です。
type Turn struct {
	Position    Position     `json:"position"`
	Score       int          `json:"score"`
	Energy      int          `json:"energy"`
	Lighthouses []Lighthouse `json:"lighthouses"`
	Connections []Connection `json:"connections,omitempty"`
}

// ActionKind はボットが返す行動の種別です。値はワイヤ上の enum と一致します。
type ActionKind uint8

const (
	ActionPass ActionKind = iota
	ActionMove
	ActionAttack
	ActionConnect
)

func (k ActionKind) String() string {
	switch k {
	case ActionPass:
		return "PASS"
	case ActionMove:
		return "MOVE"
	case ActionAttack:
		return "ATTACK"
	case ActionConnect:
		return "CONNECT"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(b []byte) error {
	for _, c := range []ActionKind{ActionPass, ActionMove, ActionAttack, ActionConnect} {
		if string(b) == c.String() {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown action kind %q", b)
}

// Action はボットAIが1ターンごとに返す行動です。
type Action struct {
	Kind        ActionKind `json:"kind"`
	Destination Position   `json:"destination"`
	Energy      int        `json:"energy,omitempty"`
}

// NewPlayer はJoin時に送るボットの名乗りとコールバック先です。
type NewPlayer struct {
	Name          string
	ServerAddress string
}

// InitialState はゲーム開始時に一度だけ送られてくる全体のスナップショットです。
type InitialState struct {
	PlayerID    PlayerID     `json:"playerID"`
	PlayerCount int          `json:"playerCount"`
	Position    Position     `json:"position"`
	Map         [][]int      `json:"map"`
	Lighthouses []Lighthouse `json:"lighthouses"`
}

// TurnRecord は処理済みターンの観測と行動の組です。
type TurnRecord struct {
	Number int       `json:"number"`
	Turn   Turn      `json:"turn"`
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
}
