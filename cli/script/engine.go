//
// Copyright (c) 2014-2019 Cesanta Software Limited
// All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
package script

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/hdlverif/bfmdrv/cli/bus"
	"github.com/hdlverif/bfmdrv/cli/hexval"
	"github.com/hdlverif/bfmdrv/cli/ourutil"
	"github.com/hdlverif/bfmdrv/cli/preload"
	"github.com/hdlverif/bfmdrv/common/multierror"
)

// Params configures an Engine.
type Params struct {
	// AXIWidth is the AXI data width in bits, 64 or 128.
	AXIWidth int
	// PreloadTimeout bounds the wait for a still-in-flight preload.
	PreloadTimeout time.Duration
	// Execute false parses and validates the script without touching
	// the transactors (the `check` command).
	Execute bool
	// Trace receives the per-command trace stream; os.Stderr if nil.
	Trace io.Writer
}

// Engine interprets one stimulus script. It owns the pass/fail
// statistics and the preload state; the transactors are borrowed
// capabilities. A single goroutine drives it: script lines execute
// strictly in textual order and every transactor call suspends the
// line until the transfer completes.
type Engine struct {
	ahb   bus.AHBTransactor
	axi   bus.AXITransactor
	clk   bus.Clock
	coord *preload.Coordinator

	axiWidth int
	execute  bool
	trace    io.Writer

	res     Results
	synErrs error
}

// Results is the pass/fail bookkeeping for one script run. Total
// increases only on transactions that carried expected data, and
// Total == Passed+Failed always holds.
type Results struct {
	Total     int
	Passed    int
	Failed    int
	LastError string
}

// NewEngine builds an interpreter around the given transactor
// capabilities. An AXI width other than 64 or 128 is a fatal
// configuration error.
func NewEngine(ahb bus.AHBTransactor, axi bus.AXITransactor, clk bus.Clock, loader bus.Preloader, p Params) (*Engine, error) {
	if p.AXIWidth != 64 && p.AXIWidth != 128 {
		return nil, errors.Errorf("unsupported AXI data width %d, want 64 or 128", p.AXIWidth)
	}
	if p.PreloadTimeout == 0 {
		p.PreloadTimeout = DefaultPreloadTimeout
	}
	if p.Trace == nil {
		p.Trace = os.Stderr
	}
	return &Engine{
		ahb:      ahb,
		axi:      axi,
		clk:      clk,
		coord:    preload.NewCoordinator(loader, p.PreloadTimeout),
		axiWidth: p.AXIWidth,
		execute:  p.Execute,
		trace:    p.Trace,
	}, nil
}

// DefaultPreloadTimeout stands in for the simulator's bound of
// 1,000,000 time units.
const DefaultPreloadTimeout = 10 * time.Second

// RunFile interprets the script at path. An unopenable script is
// terminal: no transactions are attempted.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	ls, err := OpenLineSource(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer ls.Close()
	return e.Run(ctx, ls)
}

// Run interprets every line of the source in order. Syntax errors
// skip the offending line and processing continues; only context
// cancellation stops the run early.
func (e *Engine) Run(ctx context.Context, ls *LineSource) error {
	for {
		line, ok := ls.Next()
		if !ok {
			return nil
		}
		if err := e.processLine(ctx, line, ls.LineNo()); err != nil {
			if ctx.Err() != nil {
				return errors.Trace(err)
			}
			e.syntaxError(err)
		}
	}
}

func (e *Engine) syntaxError(err error) {
	e.synErrs = multierror.Append(e.synErrs, err)
	ourutil.Freportf(e.trace, "%s", err)
}

func (e *Engine) tracef(f string, args ...interface{}) {
	ourutil.Freportf(e.trace, f, args...)
}

func (e *Engine) processLine(ctx context.Context, line string, lineNo int) error {
	cmd, err := Classify(Tokenize(line), lineNo)
	if err != nil {
		return errors.Trace(err)
	}
	switch cmd.Proto {
	case ProtoWait:
		return e.doWait(ctx, cmd)
	case ProtoPreload:
		return e.doPreload(ctx, cmd)
	case ProtoAHB:
		return e.doAHB(ctx, cmd)
	default:
		return e.doAXI(ctx, cmd)
	}
}

func (e *Engine) doWait(ctx context.Context, cmd Command) error {
	n := 1
	switch len(cmd.Tokens) {
	case 1:
	case 2:
		var err error
		n, err = strconv.Atoi(cmd.Tokens[1])
		if err != nil || n < 0 {
			return errors.Errorf("line %d: bad cycle count %q", cmd.Line, cmd.Tokens[1])
		}
	default:
		return errors.Errorf("line %d: WAIT takes at most one argument", cmd.Line)
	}
	e.tracef("%4d: WAIT %d", cmd.Line, n)
	if !e.execute {
		return nil
	}
	return errors.Trace(e.clk.WaitCycles(ctx, n))
}

func (e *Engine) doPreload(ctx context.Context, cmd Command) error {
	if len(cmd.Tokens) != 3 {
		return errors.Errorf("line %d: PRELOAD takes a target path and a data file, got %d token(s)",
			cmd.Line, len(cmd.Tokens)-1)
	}
	req := bus.PreloadRequest{TargetPath: cmd.Tokens[1], DataFile: cmd.Tokens[2]}
	e.tracef("%4d: PRELOAD %s <- %s", cmd.Line, req.TargetPath, req.DataFile)
	if !e.execute {
		return nil
	}
	if err := e.coord.Request(ctx, req); err != nil {
		if errors.Cause(err) == preload.ErrTimeout {
			// Recoverable degradation: the new request was issued
			// anyway, last one wins at the data level.
			glog.Warningf("%v", err)
			e.tracef("%4d: preload wait %s", cmd.Line, err)
			return nil
		}
		return errors.Trace(err)
	}
	return nil
}

func (e *Engine) doAHB(ctx context.Context, cmd Command) error {
	t := cmd.Tokens
	switch cmd.Op {
	case OpWrite, OpBurstWrite:
		if len(t) < 4 {
			return errors.Errorf("line %d: AHB %s needs an address and data", cmd.Line, cmd.Op)
		}
		addr, err := parseAddr(t[2], cmd.Line)
		if err != nil {
			return errors.Trace(err)
		}
		data, err := hexval.Parse(t[3], 32)
		if err != nil {
			return errors.Annotatef(err, "line %d: data", cmd.Line)
		}
		p, err := ahbWriteParams(t[4:], cmd.Line)
		if err != nil {
			return errors.Trace(err)
		}
		e.tracef("%4d: AHB %s 0x%08X %s %s %s", cmd.Line, cmd.Op, addr, data, p.burst, p.size)
		if !e.execute {
			return nil
		}
		return errors.Trace(e.ahb.Write(ctx, addr, data, p.burst, p.size))
	default:
		if len(t) < 3 {
			return errors.Errorf("line %d: AHB %s needs an address", cmd.Line, cmd.Op)
		}
		addr, err := parseAddr(t[2], cmd.Line)
		if err != nil {
			return errors.Trace(err)
		}
		p, err := ahbReadParams(t[3:], cmd.Line)
		if err != nil {
			return errors.Trace(err)
		}
		if !e.execute {
			return nil
		}
		observed, err := e.ahb.Read(ctx, addr, p.burst, p.size)
		if err != nil {
			return errors.Trace(err)
		}
		e.tracef("%4d: AHB %s 0x%08X -> %s %s %s", cmd.Line, cmd.Op, addr, observed, p.burst, p.size)
		if p.expected != nil {
			e.scoreScalar(cmd.Line, addr, *p.expected, observed)
		}
		return nil
	}
}

func (e *Engine) doAXI(ctx context.Context, cmd Command) error {
	t := cmd.Tokens
	switch cmd.Op {
	case OpWrite, OpBurstWrite:
		if len(t) < 4 {
			return errors.Errorf("line %d: AXI %s needs an address and data", cmd.Line, cmd.Op)
		}
		addr, err := parseAddr(t[2], cmd.Line)
		if err != nil {
			return errors.Trace(err)
		}
		data, err := hexval.Parse(t[3], e.axiWidth)
		if err != nil {
			return errors.Annotatef(err, "line %d: data", cmd.Line)
		}
		p, err := axiWriteParams(t[4:], cmd.Line)
		if err != nil {
			return errors.Trace(err)
		}
		e.tracef("%4d: AXI %s 0x%08X %s %s len=%d", cmd.Line, cmd.Op, addr, data, p.burst, p.length)
		if !e.execute {
			return nil
		}
		return errors.Trace(e.axi.Write(ctx, addr, data, p.burst, p.length))
	default:
		if len(t) < 3 {
			return errors.Errorf("line %d: AXI %s needs an address", cmd.Line, cmd.Op)
		}
		addr, err := parseAddr(t[2], cmd.Line)
		if err != nil {
			return errors.Trace(err)
		}
		p, err := axiReadParams(t[3:], e.axiWidth, cmd.Line)
		var beatErr error
		if err != nil {
			if errors.Cause(err) != errBeatCount {
				return errors.Trace(err)
			}
			// The read still executes for trace purposes, but the
			// mismatched expectation is not scored.
			beatErr = err
		}
		if !e.execute {
			return errors.Trace(beatErr)
		}
		observed, err := e.axi.ReadBurst(ctx, addr, p.burst, p.length)
		if err != nil {
			return errors.Trace(err)
		}
		e.tracef("%4d: AXI %s 0x%08X %s len=%d -> %d beat(s)",
			cmd.Line, cmd.Op, addr, p.burst, p.length, len(observed))
		if beatErr != nil {
			return errors.Trace(beatErr)
		}
		if len(p.expected) > 0 {
			e.scoreBurst(cmd.Line, addr, e.axiWidth/8, p.expected, observed)
		}
		return nil
	}
}

// Results returns the statistics accumulated so far.
func (e *Engine) Results() Results {
	return e.res
}

// SyntaxErrors returns all skipped-line errors, or nil.
func (e *Engine) SyntaxErrors() error {
	return e.synErrs
}
