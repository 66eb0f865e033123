package adaptergrpc

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrMalformedMessage はワイヤ形式として読めないバイト列を受け取った場合に返されるエラーです。
	ErrMalformedMessage = errors.New("malformed protobuf message")
	// ErrUnsupportedMessage はコーデックが扱えない型を渡された場合に返されるエラーです。
	ErrUnsupportedMessage = errors.New("unsupported message type")
)

// wireMessage はprotobufのワイヤ形式で読み書きできるメッセージです。
type wireMessage interface {
	appendWire(b []byte) []byte
	unmarshalWire(b []byte) error
}

// Codec はゲームメッセージをprotobufのワイヤ形式で読み書きするgRPCコーデックです。
// 名前を "proto" にしているので、相手側は通常の生成コードのまま通信できます。
type Codec struct{}

var _ encoding.Codec = Codec{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedMessage, v)
	}
	return m.appendWire(nil), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnsupportedMessage, v)
	}
	return m.unmarshalWire(data)
}

func (Codec) Name() string {
	return "proto"
}

// --- encode ---

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, num protowire.Number, m wireMessage) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendWire(nil))
}

func appendPackedInt32(b []byte, num protowire.Number, vs []int32) []byte {
	if len(vs) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, uint64(int64(v)))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// --- decode ---

// wireReader はフィールドを1つずつ読み進めます。最初のエラーで止まり、以降の読み出しはゼロ値を返します。
type wireReader struct {
	buf []byte
	num protowire.Number
	typ protowire.Type
	err error
}

func (r *wireReader) next() bool {
	if r.err != nil || len(r.buf) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(r.buf)
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return false
	}
	r.buf = r.buf[n:]
	r.num, r.typ = num, typ
	return true
}

func (r *wireReader) fail(err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: field %d: %v", ErrMalformedMessage, r.num, err)
	}
}

func (r *wireReader) expect(typ protowire.Type) bool {
	if r.typ != typ {
		r.fail(fmt.Errorf("wire type %d, want %d", r.typ, typ))
		return false
	}
	return true
}

func (r *wireReader) readVarint() uint64 {
	if !r.expect(protowire.VarintType) {
		return 0
	}
	v, n := protowire.ConsumeVarint(r.buf)
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *wireReader) readInt32() int32 {
	return int32(r.readVarint())
}

func (r *wireReader) readBool() bool {
	return protowire.DecodeBool(r.readVarint())
}

func (r *wireReader) readBytes() []byte {
	if !r.expect(protowire.BytesType) {
		return nil
	}
	v, n := protowire.ConsumeBytes(r.buf)
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return nil
	}
	r.buf = r.buf[n:]
	return v
}

func (r *wireReader) readString() string {
	return string(r.readBytes())
}

func (r *wireReader) readMessage(m wireMessage) {
	b := r.readBytes()
	if r.err != nil {
		return
	}
	if err := m.unmarshalWire(b); err != nil {
		r.err = err
	}
}

// readInt32s は packed / unpacked のどちらの repeated int32 も受け付けます。
func (r *wireReader) readInt32s(dst []int32) []int32 {
	if r.typ == protowire.VarintType {
		return append(dst, r.readInt32())
	}
	packed := r.readBytes()
	for len(packed) > 0 && r.err == nil {
		v, n := protowire.ConsumeVarint(packed)
		if n < 0 {
			r.fail(protowire.ParseError(n))
			break
		}
		dst = append(dst, int32(v))
		packed = packed[n:]
	}
	return dst
}

func (r *wireReader) skip() {
	n := protowire.ConsumeFieldValue(r.num, r.typ, r.buf)
	if n < 0 {
		r.fail(protowire.ParseError(n))
		return
	}
	r.buf = r.buf[n:]
}
