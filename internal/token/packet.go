package token

import "github.com/tokloom/tokloom/regexadapter"

// Packet is the sum type the pipeline passes between operators for a
// single token event (spec.md §3). It is rendered as a Go interface
// with a closed set of implementations, dispatched with a type switch —
// the idiomatic analogue of the C++ std::variant the original
// implementation uses (spec.md §9 "Sum-type variants over inheritance").
type Packet interface {
	isPacket()
}

// View is a non-owning (begin,end) range into the match engine's
// buffer. It is only valid until the next match iteration compacts or
// overwrites that buffer — callers that need a Packet to outlive one
// iteration must copy it into an Owned Token first.
type View struct {
	Buf        []byte
	Begin, End int
}

func (View) isPacket() {}

// Bytes returns the byte range this view refers to.
func (v View) Bytes() []byte { return v.Buf[v.Begin:v.End] }

// Owned is an owned byte buffer: a Token whose lifetime is independent
// of the match engine's buffer.
type Owned struct {
	Tok *Token
}

func (Owned) isPacket() {}

// Replace is a View plus a reference to a prior outer match's capture
// data and compiled pattern, letting a Replace operator substitute
// using the outer pattern's groups (spec.md §3). It requires match or
// sed mode, since delimiter mode has no "outer match" to refer to.
type Replace struct {
	View  View
	Match regexadapter.Match
	Code  *regexadapter.Code
}

func (Replace) isPacket() {}

// EndOfStream is the sentinel packet signaling no more tokens will
// arrive.
type EndOfStream struct{}

func (EndOfStream) isPacket() {}

// Bytes returns the raw bytes a Packet currently refers to, regardless
// of variant. It panics on EndOfStream, which carries no bytes.
func Bytes(p Packet) []byte {
	switch v := p.(type) {
	case View:
		return v.Bytes()
	case Replace:
		return v.View.Bytes()
	case Owned:
		return v.Tok.Buffer
	default:
		panic("token: Bytes called on EndOfStream packet")
	}
}

// ToOwned converts any non-EndOfStream packet into an Owned Token,
// copying bytes out of the match buffer if necessary. This is the
// "moving a view into an owned token" step spec.md §9 describes as
// happening only when an operator needs to mutate bytes or when
// uniqueness/sort requires persistence.
func ToOwned(p Packet) Owned {
	if o, ok := p.(Owned); ok {
		return o
	}
	b := Bytes(p)
	owned := make([]byte, len(b))
	copy(owned, b)
	return Owned{Tok: New(owned)}
}
