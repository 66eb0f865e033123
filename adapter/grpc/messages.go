package adaptergrpc

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"lighthousebot/domain"
)

// ワイヤ上のメッセージ。フィールド番号は game.proto を参照。

type Position struct {
	X, Y int32
}

type NewPlayer struct {
	Name          string
	ServerAddress string
}

type PlayerID struct {
	PlayerID int32
}

type Lighthouse struct {
	Position    *Position
	Owner       int32
	Energy      int32
	Connections []Position
	HaveKey     bool
}

type Connection struct {
	From       *Position
	To         *Position
	CanConnect bool
}

type MapRow struct {
	Row []int32
}

type NewPlayerInitialState struct {
	PlayerID    int32
	PlayerCount int32
	Position    *Position
	Map         []MapRow
	Lighthouses []Lighthouse
}

type PlayerReady struct {
	Ready bool
}

type NewTurn struct {
	Position    *Position
	Score       int32
	Energy      int32
	Lighthouses []Lighthouse
	Connections []Connection
}

type NewAction struct {
	Action      int32
	Destination *Position
	Energy      int32
}

func appendPosition(b []byte, num protowire.Number, p *Position) []byte {
	if p == nil {
		return b
	}
	return appendMessage(b, num, p)
}

// --- Position ---

func (m *Position) appendWire(b []byte) []byte {
	b = appendInt32(b, 1, m.X)
	return appendInt32(b, 2, m.Y)
}

func (m *Position) unmarshalWire(b []byte) error {
	*m = Position{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.X = r.readInt32()
		case 2:
			m.Y = r.readInt32()
		default:
			r.skip()
		}
	}
	return r.err
}

// --- NewPlayer ---

func (m *NewPlayer) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Name)
	return appendString(b, 2, m.ServerAddress)
}

func (m *NewPlayer) unmarshalWire(b []byte) error {
	*m = NewPlayer{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.Name = r.readString()
		case 2:
			m.ServerAddress = r.readString()
		default:
			r.skip()
		}
	}
	return r.err
}

// --- PlayerID ---

func (m *PlayerID) appendWire(b []byte) []byte {
	return appendInt32(b, 1, m.PlayerID)
}

func (m *PlayerID) unmarshalWire(b []byte) error {
	*m = PlayerID{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.PlayerID = r.readInt32()
		default:
			r.skip()
		}
	}
	return r.err
}

// --- Lighthouse ---

func (m *Lighthouse) appendWire(b []byte) []byte {
	b = appendPosition(b, 1, m.Position)
	b = appendInt32(b, 2, m.Owner)
	b = appendInt32(b, 3, m.Energy)
	for i := range m.Connections {
		b = appendMessage(b, 4, &m.Connections[i])
	}
	return appendBool(b, 5, m.HaveKey)
}

func (m *Lighthouse) unmarshalWire(b []byte) error {
	*m = Lighthouse{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.Position = new(Position)
			r.readMessage(m.Position)
		case 2:
			m.Owner = r.readInt32()
		case 3:
			m.Energy = r.readInt32()
		case 4:
			var p Position
			r.readMessage(&p)
			m.Connections = append(m.Connections, p)
		case 5:
			m.HaveKey = r.readBool()
		default:
			r.skip()
		}
	}
	return r.err
}

// --- Connection ---

func (m *Connection) appendWire(b []byte) []byte {
	b = appendPosition(b, 1, m.From)
	b = appendPosition(b, 2, m.To)
	return appendBool(b, 3, m.CanConnect)
}

func (m *Connection) unmarshalWire(b []byte) error {
	*m = Connection{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.From = new(Position)
			r.readMessage(m.From)
		case 2:
			m.To = new(Position)
			r.readMessage(m.To)
		case 3:
			m.CanConnect = r.readBool()
		default:
			r.skip()
		}
	}
	return r.err
}

// --- MapRow ---

func (m *MapRow) appendWire(b []byte) []byte {
	return appendPackedInt32(b, 1, m.Row)
}

func (m *MapRow) unmarshalWire(b []byte) error {
	*m = MapRow{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.Row = r.readInt32s(m.Row)
		default:
			r.skip()
		}
	}
	return r.err
}

// --- NewPlayerInitialState ---

func (m *NewPlayerInitialState) appendWire(b []byte) []byte {
	b = appendInt32(b, 1, m.PlayerID)
	b = appendInt32(b, 2, m.PlayerCount)
	b = appendPosition(b, 3, m.Position)
	for i := range m.Map {
		b = appendMessage(b, 4, &m.Map[i])
	}
	for i := range m.Lighthouses {
		b = appendMessage(b, 5, &m.Lighthouses[i])
	}
	return b
}

func (m *NewPlayerInitialState) unmarshalWire(b []byte) error {
	*m = NewPlayerInitialState{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.PlayerID = r.readInt32()
		case 2:
			m.PlayerCount = r.readInt32()
		case 3:
			m.Position = new(Position)
			r.readMessage(m.Position)
		case 4:
			var row MapRow
			r.readMessage(&row)
			m.Map = append(m.Map, row)
		case 5:
			var lh Lighthouse
			r.readMessage(&lh)
			m.Lighthouses = append(m.Lighthouses, lh)
		default:
			r.skip()
		}
	}
	return r.err
}

// --- PlayerReady ---

func (m *PlayerReady) appendWire(b []byte) []byte {
	return appendBool(b, 1, m.Ready)
}

func (m *PlayerReady) unmarshalWire(b []byte) error {
	*m = PlayerReady{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.Ready = r.readBool()
		default:
			r.skip()
		}
	}
	return r.err
}

// --- NewTurn ---

func (m *NewTurn) appendWire(b []byte) []byte {
	b = appendPosition(b, 1, m.Position)
	b = appendInt32(b, 2, m.Score)
	b = appendInt32(b, 3, m.Energy)
	for i := range m.Lighthouses {
		b = appendMessage(b, 4, &m.Lighthouses[i])
	}
	for i := range m.Connections {
		b = appendMessage(b, 5, &m.Connections[i])
	}
	return b
}

func (m *NewTurn) unmarshalWire(b []byte) error {
	*m = NewTurn{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.Position = new(Position)
			r.readMessage(m.Position)
		case 2:
			m.Score = r.readInt32()
		case 3:
			m.Energy = r.readInt32()
		case 4:
			var lh Lighthouse
			r.readMessage(&lh)
			m.Lighthouses = append(m.Lighthouses, lh)
		case 5:
			var c Connection
			r.readMessage(&c)
			m.Connections = append(m.Connections, c)
		default:
			r.skip()
		}
	}
	return r.err
}

// --- NewAction ---

func (m *NewAction) appendWire(b []byte) []byte {
	b = appendInt32(b, 1, m.Action)
	b = appendPosition(b, 2, m.Destination)
	return appendInt32(b, 3, m.Energy)
}

func (m *NewAction) unmarshalWire(b []byte) error {
	*m = NewAction{}
	r := wireReader{buf: b}
	for r.next() {
		switch r.num {
		case 1:
			m.Action = r.readInt32()
		case 2:
			m.Destination = new(Position)
			r.readMessage(m.Destination)
		case 3:
			m.Energy = r.readInt32()
		default:
			r.skip()
		}
	}
	return r.err
}

// --- domain conversion ---

func (p *Position) toDomain() domain.Position {
	if p == nil {
		return domain.Position{}
	}
	return domain.Position{X: int(p.X), Y: int(p.Y)}
}

func positionFrom(p domain.Position) *Position {
	return &Position{X: int32(p.X), Y: int32(p.Y)}
}

func (m *Lighthouse) toDomain() domain.Lighthouse {
	lh := domain.Lighthouse{
		Position: m.Position.toDomain(),
		Owner:    domain.PlayerID(m.Owner),
		Energy:   int(m.Energy),
		HaveKey:  m.HaveKey,
	}
	if len(m.Connections) > 0 {
		lh.Connections = make([]domain.Position, len(m.Connections))
		for i := range m.Connections {
			lh.Connections[i] = m.Connections[i].toDomain()
		}
	}
	return lh
}

func lighthousesToDomain(in []Lighthouse) []domain.Lighthouse {
	out := make([]domain.Lighthouse, len(in))
	for i := range in {
		out[i] = in[i].toDomain()
	}
	return out
}

func (m *NewPlayer) toDomain() domain.NewPlayer {
	return domain.NewPlayer{Name: m.Name, ServerAddress: m.ServerAddress}
}

// toDomain は自分の位置を持たないターンを不正として扱います。
func (m *NewTurn) toDomain() (domain.Turn, error) {
	if m.Position == nil {
		return domain.Turn{}, fmt.Errorf("%w: missing Position", domain.ErrMalformedTurn)
	}
	if m.Energy < 0 {
		return domain.Turn{}, fmt.Errorf("%w: negative Energy %d", domain.ErrMalformedTurn, m.Energy)
	}
	turn := domain.Turn{
		Position:    m.Position.toDomain(),
		Score:       int(m.Score),
		Energy:      int(m.Energy),
		Lighthouses: lighthousesToDomain(m.Lighthouses),
	}
	for i := range m.Connections {
		c := &m.Connections[i]
		turn.Connections = append(turn.Connections, domain.Connection{
			From:       c.From.toDomain(),
			To:         c.To.toDomain(),
			CanConnect: c.CanConnect,
		})
	}
	return turn, nil
}

func (m *NewPlayerInitialState) toDomain() domain.InitialState {
	state := domain.InitialState{
		PlayerID:    domain.PlayerID(m.PlayerID),
		PlayerCount: int(m.PlayerCount),
		Position:    m.Position.toDomain(),
		Lighthouses: lighthousesToDomain(m.Lighthouses),
	}
	state.Map = make([][]int, len(m.Map))
	for i, row := range m.Map {
		cells := make([]int, len(row.Row))
		for j, v := range row.Row {
			cells[j] = int(v)
		}
		state.Map[i] = cells
	}
	return state
}

func newActionFrom(a domain.Action) *NewAction {
	return &NewAction{
		Action:      int32(a.Kind),
		Destination: positionFrom(a.Destination),
		Energy:      int32(a.Energy),
	}
}
