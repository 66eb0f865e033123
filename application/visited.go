package application

import "lighthousebot/domain"

// Visited は直近に処理した座標を古い順に保持する固定長のFIFOです。
// 同じ座標の重複を許し、容量を超えると最も古いものから捨てます。
type Visited struct {
	buf []domain.Position
	max int
}

func NewVisited(capacity int) *Visited {
	if capacity < 1 {
		capacity = 1
	}
	return &Visited{
		buf: make([]domain.Position, 0, capacity),
		max: capacity,
	}
}

func (v *Visited) Push(p domain.Position) {
	if len(v.buf) == v.max {
		copy(v.buf, v.buf[1:])
		v.buf = v.buf[:v.max-1]
	}
	v.buf = append(v.buf, p)
}

func (v *Visited) Contains(p domain.Position) bool {
	for _, q := range v.buf {
		if q == p {
			return true
		}
	}
	return false
}

func (v *Visited) Len() int {
	return len(v.buf)
}

// Positions は古い順のコピーを返します。
func (v *Visited) Positions() []domain.Position {
	out := make([]domain.Position, len(v.buf))
	copy(out, v.buf)
	return out
}
