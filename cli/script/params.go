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
	"strconv"

	"github.com/juju/errors"

	"github.com/hdlverif/bfmdrv/cli/bus"
	"github.com/hdlverif/bfmdrv/cli/hexval"
)

// The token positions after a read address are reused for
// structurally different purposes, so the grammar is resolved by
// content sniffing. The rules below are ordered; precedence is pinned
// by the tests in params_test.go and must not change silently.
//
// AHB read tail:
//   1. ahb-burst-keyword:  token in the AHB burst set -> burst kind
//   2. ahb-size-keyword:   token in the AHB size set  -> unit size
//   3. expected-data:      anything else -> expected hex literal, stop
//
// AXI read tail:
//   1. axi-burst-keyword:  token in the AXI burst set -> burst kind
//   2. axi-length-sniff:   <=3 chars, leading decimal digit -> length
//   3. expected-beats:     all remaining tokens -> expected data
//   4. beat-count:         expected beat count must equal length+1

// ahbParams is the resolved tail of an AHB command.
type ahbParams struct {
	burst    bus.AHBBurst
	size     bus.AHBSize
	expected *hexval.Word
}

// axiParams is the resolved tail of an AXI command.
type axiParams struct {
	burst    bus.AXIBurst
	length   int
	expected []hexval.Word
}

func defaultAHBParams() ahbParams {
	return ahbParams{burst: bus.AHBSingle, size: bus.AHBWord}
}

func defaultAXIParams() axiParams {
	return axiParams{burst: bus.AXIIncr}
}

// parseAddr parses a 32-bit address literal.
func parseAddr(tok string, line int) (uint32, error) {
	w, err := hexval.Parse(tok, 32)
	if err != nil {
		return 0, errors.Annotatef(err, "line %d: address", line)
	}
	return uint32(w.Lo), nil
}

// ahbWriteParams resolves `AHB WRITE addr data [burst] [size]`.
// Write tails are positional: burst then size, both optional.
func ahbWriteParams(tail []string, line int) (ahbParams, error) {
	p := defaultAHBParams()
	i := 0
	if i < len(tail) {
		b, ok := bus.ParseAHBBurst(tail[i])
		if !ok {
			return p, errors.Errorf("line %d: unknown AHB burst kind %q", line, tail[i])
		}
		p.burst = b
		i++
	}
	if i < len(tail) {
		s, ok := bus.ParseAHBSize(tail[i])
		if !ok {
			return p, errors.Errorf("line %d: unknown AHB size %q", line, tail[i])
		}
		p.size = s
		i++
	}
	if i < len(tail) {
		return p, errors.Errorf("line %d: unexpected trailing token %q", line, tail[i])
	}
	return p, nil
}

// ahbReadParams resolves the ambiguous tail of `AHB READ addr ...`
// per the rule order above: a token outside both keyword sets is an
// expected-data literal on its own.
func ahbReadParams(tail []string, line int) (ahbParams, error) {
	p := defaultAHBParams()
	i := 0
	if i < len(tail) {
		if b, ok := bus.ParseAHBBurst(tail[i]); ok { // rule 1
			p.burst = b
			i++
		} else if _, ok := bus.ParseAHBSize(tail[i]); !ok {
			// rule 3: sole expected-data literal
			w, err := hexval.Parse(tail[i], 32)
			if err != nil {
				return p, errors.Annotatef(err, "line %d: expected data", line)
			}
			p.expected = &w
			i++
			if i < len(tail) {
				return p, errors.Errorf("line %d: unexpected trailing token %q", line, tail[i])
			}
			return p, nil
		}
	}
	if i < len(tail) {
		if s, ok := bus.ParseAHBSize(tail[i]); ok { // rule 2
			p.size = s
			i++
		}
	}
	if i < len(tail) {
		w, err := hexval.Parse(tail[i], 32)
		if err != nil {
			return p, errors.Annotatef(err, "line %d: expected data", line)
		}
		p.expected = &w
		i++
	}
	if i < len(tail) {
		return p, errors.Errorf("line %d: unexpected trailing token %q", line, tail[i])
	}
	return p, nil
}

// looksLikeAXILength reports whether a token is a burst length rather
// than a data literal: at most 3 characters, leading decimal digit.
func looksLikeAXILength(tok string) bool {
	return len(tok) <= 3 && tok[0] >= '0' && tok[0] <= '9'
}

// axiWriteParams resolves `AXI WRITE addr data [burst] [len]`.
func axiWriteParams(tail []string, line int) (axiParams, error) {
	p := defaultAXIParams()
	i := 0
	if i < len(tail) {
		b, ok := bus.ParseAXIBurst(tail[i])
		if !ok {
			return p, errors.Errorf("line %d: unknown AXI burst kind %q", line, tail[i])
		}
		p.burst = b
		i++
	}
	if i < len(tail) {
		n, err := strconv.Atoi(tail[i])
		if err != nil || n < 0 {
			return p, errors.Errorf("line %d: bad AXI burst length %q", line, tail[i])
		}
		p.length = n
		i++
	}
	if i < len(tail) {
		return p, errors.Errorf("line %d: unexpected trailing token %q", line, tail[i])
	}
	return p, nil
}

// errBeatCount is the beat-count-mismatch marker; the engine executes
// the read anyway for trace purposes but skips scoring.
var errBeatCount = errors.New("expected data beat count mismatch")

// axiReadParams resolves the tail of `AXI READ|BURSTREAD addr ...`.
// The returned params are valid for dispatch even when the error is
// errBeatCount-caused.
func axiReadParams(tail []string, width int, line int) (axiParams, error) {
	p := defaultAXIParams()
	i := 0
	if i < len(tail) { // rule 1
		if b, ok := bus.ParseAXIBurst(tail[i]); ok {
			p.burst = b
			i++
		}
	}
	if i < len(tail) && looksLikeAXILength(tail[i]) { // rule 2
		n, err := strconv.Atoi(tail[i])
		if err != nil || n < 0 {
			return p, errors.Errorf("line %d: bad AXI burst length %q", line, tail[i])
		}
		p.length = n
		i++
	}
	for ; i < len(tail); i++ { // rule 3
		w, err := hexval.Parse(tail[i], width)
		if err != nil {
			return p, errors.Annotatef(err, "line %d: expected data", line)
		}
		p.expected = append(p.expected, w)
	}
	if len(p.expected) > 0 && len(p.expected) != p.length+1 { // rule 4
		return p, errors.Annotatef(errBeatCount,
			"line %d: got %d expected beats, burst length %d needs %d",
			line, len(p.expected), p.length, p.length+1)
	}
	return p, nil
}
