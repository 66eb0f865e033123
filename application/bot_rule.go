package application

import (
	"time"

	"lighthousebot/domain"
)

const visitedCapacity = 3

// LighthouseBotController はルールベースの灯台ボットAIです。
// 足元の他人の灯台は全エネルギーで攻撃し、それ以外は最寄りの未訪問灯台へ1マスずつ進みます。
type LighthouseBotController struct {
	playerID domain.PlayerID
	visited  *Visited
	target   *domain.Position
	turn     int

	history *History
	last    domain.TurnRecord
	clk     func() time.Time
}

var _ BotController = (*LighthouseBotController)(nil)

// NewLighthouseBotController はJoinで割り当てられたプレイヤーIDでボットAIを生成します。
// history が nil の場合、ターンの記録は保持しません。
func NewLighthouseBotController(playerID domain.PlayerID, history *History) *LighthouseBotController {
	return &LighthouseBotController{
		playerID: playerID,
		visited:  NewVisited(visitedCapacity),
		turn:     1,
		history:  history,
		clk:      time.Now,
	}
}

// WithClock はテスト用に時間ソースを差し替える。
func (c *LighthouseBotController) WithClock(clock func() time.Time) *LighthouseBotController {
	if clock != nil {
		c.clk = clock
	}
	return c
}

func (c *LighthouseBotController) Decide(turn domain.Turn) domain.Action {
	here := turn.Position
	lighthouses, order := indexLighthouses(turn.Lighthouses)

	if lh, ok := lighthouses[here]; ok {
		// CONNECT は灯台ネットワークのルールが未確定のため出さない
		if lh.Owner != c.playerID {
			c.visited.Push(here)
			return c.finish(turn, domain.Action{
				Kind:        domain.ActionAttack,
				Destination: here,
				Energy:      turn.Energy,
			})
		}
		// 自分の灯台: 処理済みとして目標候補から外す
		c.visited.Push(here)
	}

	if c.target == nil || c.visited.Contains(*c.target) {
		c.target = c.nearestUnvisited(here, order)
	}

	if c.target != nil {
		return c.finish(turn, domain.Action{
			Kind:        domain.ActionMove,
			Destination: here.Add(here.StepToward(*c.target)),
		})
	}
	return c.finish(turn, domain.Action{
		Kind:        domain.ActionPass,
		Destination: here,
	})
}

// TurnCount は次に処理するターンの番号を返します。1から始まります。
func (c *LighthouseBotController) TurnCount() int {
	return c.turn
}

func (c *LighthouseBotController) PlayerID() domain.PlayerID {
	return c.playerID
}

// Target は現在の移動目標を返します。
func (c *LighthouseBotController) Target() (domain.Position, bool) {
	if c.target == nil {
		return domain.Position{}, false
	}
	return *c.target, true
}

func (c *LighthouseBotController) Visited() []domain.Position {
	return c.visited.Positions()
}

// LastRecord は直前に処理したターンの記録を返します。
func (c *LighthouseBotController) LastRecord() (domain.TurnRecord, bool) {
	return c.last, c.last.Number != 0
}

func (c *LighthouseBotController) finish(turn domain.Turn, action domain.Action) domain.Action {
	c.last = domain.TurnRecord{
		Number: c.turn,
		Turn:   turn,
		Action: action,
		At:     c.clk(),
	}
	c.history.Record(c.last)
	c.turn++
	return action
}

// nearestUnvisited は未訪問の灯台のうちマンハッタン距離が最小のものを返します。
// 同距離なら観測順で先に現れたものを選びます。
func (c *LighthouseBotController) nearestUnvisited(here domain.Position, order []domain.Position) *domain.Position {
	var best *domain.Position
	bestDist := 0
	for i := range order {
		p := order[i]
		if c.visited.Contains(p) {
			continue
		}
		d := here.Manhattan(p)
		if best == nil || d < bestDist {
			best = &p
			bestDist = d
		}
	}
	return best
}

// indexLighthouses は座標で灯台を引けるようにします。
// 座標が重複した場合、値は後勝ち、順序は最初の出現位置を保ちます。
func indexLighthouses(lighthouses []domain.Lighthouse) (map[domain.Position]domain.Lighthouse, []domain.Position) {
	index := make(map[domain.Position]domain.Lighthouse, len(lighthouses))
	order := make([]domain.Position, 0, len(lighthouses))
	for _, lh := range lighthouses {
		if _, seen := index[lh.Position]; !seen {
			order = append(order, lh.Position)
		}
		index[lh.Position] = lh
	}
	return index, order
}
