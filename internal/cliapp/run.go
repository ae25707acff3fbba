package cliapp

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/tokloom/tokloom/config"
	"github.com/tokloom/tokloom/internal/matchengine"
	"github.com/tokloom/tokloom/internal/outstream"
	"github.com/tokloom/tokloom/internal/pipeline"
	"github.com/tokloom/tokloom/internal/token"
	"github.com/tokloom/tokloom/internal/tuiselect"
)

// Drive runs one end-to-end pass: it wires a matchengine.Engine reading
// r to an internal/pipeline.Driver writing through an outstream.Stream
// over w, stopping early if ctx is cancelled (cooperative SIGINT,
// spec.md §5) between match-engine reads. In --tui mode it consumes the
// resulting tuiselect.Selection itself, since the real interactive
// renderer is an external collaborator out of the core's scope (spec.md
// §1) — see runTUIShell.
func Drive(ctx context.Context, cfg *config.Configuration, r io.Reader, w io.Writer, logger *zap.Logger) error {
	var warnOnce sync.Once
	onFragmentDropped := func() {
		if cfg.Tenacious {
			return
		}
		warnOnce.Do(func() {
			logger.Warn("token fragment exceeded buf_size_frag and was dropped")
		})
	}

	eng, err := matchengine.New(cancelAwareReader{ctx: ctx, r: r}, cfg.MatchEngineOptions(onFragmentDropped))
	if err != nil {
		return err
	}

	out := cfg.Stream(w)
	driver := pipeline.New(cfg.PipelineConfig(out))

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ev, err := eng.Next()
		if err != nil {
			return err
		}

		switch ev.Kind {
		case matchengine.EventEnd:
			sel, err := driver.Finish()
			if err != nil {
				return err
			}
			if sel != nil {
				return runTUIShell(sel, cfg, out)
			}
			return nil

		case matchengine.EventSedLiteral:
			if err := out.WriteToken(ev.Bytes()); err != nil {
				return err
			}

		case matchengine.EventToken:
			stop, err := driver.Process(buildPacket(ev))
			if err != nil {
				return err
			}
			if stop {
				sel, err := driver.Finish()
				if err != nil {
					return err
				}
				if sel != nil {
					return runTUIShell(sel, cfg, out)
				}
				return nil
			}
		}
	}
}

// buildPacket turns one matchengine.Event into the token.Packet variant
// the pipeline driver expects: an owned Token when the engine already
// allocated one (delimiter-mode fragments, final flush), a
// token.Replace when the event carries outer-match data (match mode,
// letting a Replace operator substitute using its captures), or a plain
// non-owning View otherwise.
func buildPacket(ev matchengine.Event) token.Packet {
	if ev.Owned != nil {
		return token.Owned{Tok: token.New(ev.Owned)}
	}
	view := token.View{Buf: ev.View, Begin: 0, End: len(ev.View)}
	if ev.Code != nil {
		return token.Replace{View: view, Match: ev.Match, Code: ev.Code}
	}
	return view
}

// runTUIShell is the non-interactive --tui smoke path spec.md §6
// describes: the real core output in TUI mode is "a vector of owned
// Tokens and an optional initial-selected-token index", consumed by an
// external renderer this repository does not own. Here, standing in
// for that renderer, the initial-cursor token is written out (or every
// token, if --multi was given) so --tui has a concrete, testable
// consumer without pulling a terminal UI into the core's test surface.
func runTUIShell(sel *tuiselect.Selection, cfg *config.Configuration, out *outstream.Stream) error {
	chosen := sel.Tokens
	if !cfg.Multiple {
		idx := sel.InitialIndex
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sel.Tokens) {
			return out.Finish()
		}
		chosen = sel.Tokens[idx : idx+1]
	}
	for _, t := range chosen {
		if err := out.WriteToken(t.Buffer); err != nil {
			return err
		}
	}
	return out.Finish()
}

// cancelAwareReader wraps r so a blocking Read can still observe ctx
// cancellation between calls — spec.md §5's cooperative SIGINT handling
// polled at the match engine's suspension points. A Read already in
// flight on an unbuffered reader still has to return on its own; this
// only stops the loop from issuing another one.
type cancelAwareReader struct {
	ctx context.Context
	r   io.Reader
}

func (c cancelAwareReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
