package adaptergrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"lighthousebot/domain"
)

func TestCodec_NewTurnRoundTrip(t *testing.T) {
	in := &NewTurn{
		Position: &Position{X: 3, Y: -2},
		Score:    17,
		Energy:   250,
		Lighthouses: []Lighthouse{
			{
				Position:    &Position{X: 5, Y: 5},
				Owner:       2,
				Energy:      40,
				Connections: []Position{{X: 1, Y: 1}, {X: 0, Y: 9}},
				HaveKey:     true,
			},
			{Position: &Position{X: 0, Y: 0}},
		},
		Connections: []Connection{
			{From: &Position{X: 5, Y: 5}, To: &Position{X: 1, Y: 1}, CanConnect: true},
		},
	}

	var codec Codec
	b, err := codec.Marshal(in)
	require.NoError(t, err)

	out := new(NewTurn)
	require.NoError(t, codec.Unmarshal(b, out))
	assert.Equal(t, in, out)
}

func TestCodec_InitialStateRoundTrip(t *testing.T) {
	in := &NewPlayerInitialState{
		PlayerID:    2,
		PlayerCount: 4,
		Position:    &Position{X: 1, Y: 1},
		Map: []MapRow{
			{Row: []int32{0, 0, 0}},
			{Row: []int32{0, 1, 0}},
		},
		Lighthouses: []Lighthouse{{Position: &Position{X: 1, Y: 1}, Energy: 10}},
	}

	var codec Codec
	b, err := codec.Marshal(in)
	require.NoError(t, err)

	out := new(NewPlayerInitialState)
	require.NoError(t, codec.Unmarshal(b, out))
	assert.Equal(t, in, out)
	assert.Equal(t, [][]int{{0, 0, 0}, {0, 1, 0}}, out.toDomain().Map)
}

func TestCodec_Name(t *testing.T) {
	assert.Equal(t, "proto", Codec{}.Name())
}

func TestCodec_UnsupportedType(t *testing.T) {
	var codec Codec
	_, err := codec.Marshal("turn")
	require.ErrorIs(t, err, ErrUnsupportedMessage)
	require.ErrorIs(t, codec.Unmarshal(nil, new(int)), ErrUnsupportedMessage)
}

func TestCodec_NegativeInt32(t *testing.T) {
	// int32 の負数は10バイトの varint になる
	neg := int32(-7)
	b := protowire.AppendTag(nil, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(neg)))
	assert.Len(t, b, 11)

	var p Position
	require.NoError(t, p.unmarshalWire(b))
	assert.Equal(t, Position{X: -7}, p)
	assert.Equal(t, b, p.appendWire(nil))
}

func TestCodec_SkipsUnknownFields(t *testing.T) {
	b := protowire.AppendTag(nil, 99, protowire.BytesType)
	b = protowire.AppendString(b, "future field")
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, 4)
	b = protowire.AppendTag(b, 98, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 0xdeadbeef)

	var p Position
	require.NoError(t, p.unmarshalWire(b))
	assert.Equal(t, Position{Y: 4}, p)
}

func TestCodec_MapRowAcceptsUnpacked(t *testing.T) {
	var b []byte
	for _, v := range []uint64{1, 0, 1} {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, v)
	}

	var row MapRow
	require.NoError(t, row.unmarshalWire(b))
	assert.Equal(t, []int32{1, 0, 1}, row.Row)
}

func TestCodec_Malformed(t *testing.T) {
	tests := []struct {
		name string
		msg  wireMessage
		data []byte
	}{
		{
			name: "truncated varint",
			msg:  new(Position),
			data: []byte{0x08},
		},
		{
			name: "wrong wire type",
			msg:  new(Position),
			data: protowire.AppendString(protowire.AppendTag(nil, 1, protowire.BytesType), "x"),
		},
		{
			name: "bytes length past end",
			msg:  new(NewPlayer),
			data: []byte{0x0a, 0x05, 'a'},
		},
		{
			name: "broken nested message",
			msg:  new(NewTurn),
			data: protowire.AppendBytes(protowire.AppendTag(nil, 1, protowire.BytesType), []byte{0x08}),
		},
		{
			name: "invalid tag",
			msg:  new(NewAction),
			data: []byte{0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.unmarshalWire(tt.data)
			require.ErrorIs(t, err, ErrMalformedMessage)
		})
	}
}

func TestNewTurn_ToDomain(t *testing.T) {
	t.Run("missing position", func(t *testing.T) {
		_, err := (&NewTurn{Energy: 10}).toDomain()
		require.ErrorIs(t, err, domain.ErrMalformedTurn)
	})

	t.Run("negative energy", func(t *testing.T) {
		_, err := (&NewTurn{Position: &Position{}, Energy: -1}).toDomain()
		require.ErrorIs(t, err, domain.ErrMalformedTurn)
	})

	t.Run("converts", func(t *testing.T) {
		turn, err := (&NewTurn{
			Position:    &Position{X: 1, Y: 2},
			Energy:      30,
			Lighthouses: []Lighthouse{{Position: &Position{X: 4, Y: 4}, Owner: 3}},
			Connections: []Connection{{From: &Position{X: 4, Y: 4}, To: &Position{X: 1, Y: 1}}},
		}).toDomain()
		require.NoError(t, err)
		assert.Equal(t, domain.Turn{
			Position:    domain.Position{X: 1, Y: 2},
			Energy:      30,
			Lighthouses: []domain.Lighthouse{{Position: domain.Position{X: 4, Y: 4}, Owner: 3}},
			Connections: []domain.Connection{{From: domain.Position{X: 4, Y: 4}, To: domain.Position{X: 1, Y: 1}}},
		}, turn)
	})
}

func TestNewActionFrom(t *testing.T) {
	a := newActionFrom(domain.Action{Kind: domain.ActionAttack, Destination: domain.Position{X: 2, Y: 3}, Energy: 99})
	assert.Equal(t, &NewAction{Action: 2, Destination: &Position{X: 2, Y: 3}, Energy: 99}, a)
}
