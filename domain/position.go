package domain

import "fmt"

// Position はグリッド上の整数座標です。マップのキーとして使えます。
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add はpにd分ずらした座標を返します。
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Manhattan はpとqのマンハッタン距離 |dx|+|dy| を返します。
func (p Position) Manhattan(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// StepToward はtargetへ向かう1マス分の移動量を軸ごとに返します。
// 各軸は -1, 0, +1 のいずれかで、target==p のときは (0,0) です。
func (p Position) StepToward(target Position) Position {
	return Position{X: sign(target.X - p.X), Y: sign(target.Y - p.Y)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
