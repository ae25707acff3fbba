package operator

import (
	"errors"

	"github.com/tokloom/tokloom/internal/token"
	"github.com/tokloom/tokloom/regexadapter"
)

// ErrReplaceRequiresOuterMatch is a ConfigError-class failure: Replace
// can only act on a token.Replace packet, which only match mode (or sed
// mode) produces by attaching the outer match's captures. Delimiter mode
// never builds a token.Replace packet, so wiring --replace into a
// delimiter-mode pipeline is rejected at configuration time, not here —
// this error firing during Apply means that validation was skipped.
var ErrReplaceRequiresOuterMatch = errors.New("operator: replace requires match or sed mode")

// Replace substitutes the outer match's region using its own captured
// groups, the rendition of
// original_source/src/pipeline/unit/replace.hpp's ReplaceUnit, which
// calls regex::substitute_on_match against the ReplacePacket's stashed
// match data and compiled pattern rather than re-running a pattern of
// its own.
type Replace struct {
	Replacement []byte
	ctx         regexadapter.SubstitutionContext
}

func (op *Replace) Apply(pkt token.Packet) (token.Packet, Result, error) {
	rp, ok := pkt.(token.Replace)
	if !ok {
		return pkt, Remove, ErrReplaceRequiresOuterMatch
	}
	subject := rp.View.Buf
	out := rp.Code.SubstituteOnMatch(subject, rp.Match, op.Replacement, &op.ctx)
	return token.Owned{Tok: token.New(out)}, Allow, nil
}
