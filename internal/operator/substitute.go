package operator

import (
	"github.com/tokloom/tokloom/internal/token"
	"github.com/tokloom/tokloom/regexadapter"
)

// Substitute performs a global substitution within the current token,
// the direct rendition of original_source/src/pipeline/unit/substitute.hpp's
// SubUnit::apply (SubUnit::direct_apply's streaming write-as-you-go
// variant is the pipeline driver's job once it recognizes this is the
// pipeline's last op and tokens are not stored — Substitute itself only
// needs to produce the substituted bytes).
type Substitute struct {
	Pattern     *regexadapter.Code
	Replacement []byte
	ctx         regexadapter.SubstitutionContext
}

func (op *Substitute) Apply(pkt token.Packet) (token.Packet, Result, error) {
	b := token.Bytes(pkt)
	out := op.Pattern.SubstituteGlobal(b, op.Replacement, &op.ctx)
	return token.Owned{Tok: token.New(out)}, Allow, nil
}
