package application

import (
	"testing"

	"pgregory.net/rapid"

	"lighthousebot/domain"
)

func positionGen() *rapid.Generator[domain.Position] {
	return rapid.Custom(func(t *rapid.T) domain.Position {
		return domain.Position{
			X: rapid.IntRange(-6, 6).Draw(t, "x"),
			Y: rapid.IntRange(-6, 6).Draw(t, "y"),
		}
	})
}

func lighthouseGen() *rapid.Generator[domain.Lighthouse] {
	return rapid.Custom(func(t *rapid.T) domain.Lighthouse {
		return domain.Lighthouse{
			Position: positionGen().Draw(t, "position"),
			Owner:    domain.PlayerID(rapid.IntRange(0, 3).Draw(t, "owner")),
			Energy:   rapid.IntRange(0, 100).Draw(t, "lhEnergy"),
		}
	})
}

func turnGen() *rapid.Generator[domain.Turn] {
	return rapid.Custom(func(t *rapid.T) domain.Turn {
		return domain.Turn{
			Position:    positionGen().Draw(t, "here"),
			Energy:      rapid.IntRange(0, 500).Draw(t, "energy"),
			Lighthouses: rapid.SliceOfN(lighthouseGen(), 0, 8).Draw(t, "lighthouses"),
		}
	})
}

func hasLighthouseAt(turn domain.Turn, p domain.Position) (domain.Lighthouse, bool) {
	index, _ := indexLighthouses(turn.Lighthouses)
	lh, ok := index[p]
	return lh, ok
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
	}
	return 0
}

// 複数ターンを通して成り立つ不変条件を確認します。
func TestDecide_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewLighthouseBotController(me, nil)
		turns := rapid.SliceOfN(turnGen(), 1, 12).Draw(t, "turns")

		for i, turn := range turns {
			visitedBefore := c.Visited()
			targetBefore, hadTarget := c.Target()
			action := c.Decide(turn)

			if c.visited.Len() > visitedCapacity {
				t.Fatalf("visited grew to %d", c.visited.Len())
			}
			if c.TurnCount() != i+2 {
				t.Fatalf("TurnCount() = %d, want %d", c.TurnCount(), i+2)
			}

			lh, onLighthouse := hasLighthouseAt(turn, turn.Position)
			switch {
			case onLighthouse && lh.Owner != me:
				if action.Kind != domain.ActionAttack || action.Destination != turn.Position || action.Energy != turn.Energy {
					t.Fatalf("contested lighthouse: action = %+v", action)
				}
				continue
			case action.Kind == domain.ActionAttack:
				t.Fatalf("ATTACK emitted off a contested lighthouse: %+v", action)
			}

			// 自分の灯台の上なら visited に積まれてから目標選択が走る
			visited := visitedBefore
			if onLighthouse {
				v := NewVisited(visitedCapacity)
				for _, p := range visitedBefore {
					v.Push(p)
				}
				v.Push(turn.Position)
				visited = v.Positions()
			}
			isVisited := func(p domain.Position) bool {
				for _, q := range visited {
					if q == p {
						return true
					}
				}
				return false
			}

			reselect := !hadTarget || isVisited(targetBefore)
			_, order := indexLighthouses(turn.Lighthouses)
			var candidates []domain.Position
			for _, p := range order {
				if !isVisited(p) {
					candidates = append(candidates, p)
				}
			}

			if reselect && len(candidates) == 0 {
				if action.Kind != domain.ActionPass || action.Destination != turn.Position {
					t.Fatalf("no candidates: action = %+v, want PASS at %v", action, turn.Position)
				}
				continue
			}

			target, ok := c.Target()
			if !ok {
				t.Fatalf("expected a target, action = %+v", action)
			}
			if reselect {
				minDist := turn.Position.Manhattan(candidates[0])
				first := candidates[0]
				for _, p := range candidates[1:] {
					if d := turn.Position.Manhattan(p); d < minDist {
						minDist, first = d, p
					}
				}
				if target != first {
					t.Fatalf("target = %v, want first minimum %v", target, first)
				}
			} else if target != targetBefore {
				t.Fatalf("target changed from %v to %v without reselection", targetBefore, target)
			}

			if action.Kind != domain.ActionMove {
				t.Fatalf("action = %+v, want MOVE", action)
			}
			dx := action.Destination.X - turn.Position.X
			dy := action.Destination.Y - turn.Position.Y
			if abs(dx) > 1 || abs(dy) > 1 {
				t.Fatalf("step (%d,%d) exceeds one cell", dx, dy)
			}
			if dx != sign(target.X-turn.Position.X) || dy != sign(target.Y-turn.Position.Y) {
				t.Fatalf("step (%d,%d) does not point at %v from %v", dx, dy, target, turn.Position)
			}
		}
	})
}

func TestDecide_NeverAttacksOffLighthouse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		turn := turnGen().Draw(t, "turn")
		kept := turn.Lighthouses[:0]
		for _, lh := range turn.Lighthouses {
			if lh.Position != turn.Position {
				kept = append(kept, lh)
			}
		}
		turn.Lighthouses = kept

		c := NewLighthouseBotController(me, nil)
		if action := c.Decide(turn); action.Kind == domain.ActionAttack {
			t.Fatalf("ATTACK without a lighthouse underfoot: %+v", action)
		}
	})
}

func TestDecide_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		turns := rapid.SliceOfN(turnGen(), 1, 6).Draw(t, "turns")
		a := NewLighthouseBotController(me, nil)
		b := NewLighthouseBotController(me, nil)
		for _, turn := range turns {
			if x, y := a.Decide(turn), b.Decide(turn); x != y {
				t.Fatalf("same input produced %+v and %+v", x, y)
			}
		}
	})
}
