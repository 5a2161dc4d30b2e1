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
	"strings"
	"testing"

	"github.com/juju/errors"

	"github.com/hdlverif/bfmdrv/cli/bus"
)

// These tests pin the disambiguation rule precedence documented in
// params.go; a change in rule order must show up here.

func TestAHBReadParams(t *testing.T) {
	cases := []struct {
		tail     []string
		burst    bus.AHBBurst
		size     bus.AHBSize
		expected uint64
		hasExp   bool
		wantErr  string
	}{
		// Bare read: all defaults, no expectation.
		{tail: nil, burst: bus.AHBSingle, size: bus.AHBWord},
		// Rule 1: burst keyword consumed first.
		{tail: []string{"INCR4"}, burst: bus.AHBIncr4, size: bus.AHBWord},
		// Rule 2: size keyword after burst.
		{tail: []string{"WRAP8", "BYTE"}, burst: bus.AHBWrap8, size: bus.AHBByte},
		// Rule 2 without rule 1: size keyword alone.
		{tail: []string{"HALFWORD"}, burst: bus.AHBSingle, size: bus.AHBHalfword},
		// Rule 3: a token outside both keyword sets is expected data.
		{tail: []string{"0xDEAD"}, burst: bus.AHBSingle, size: bus.AHBWord, expected: 0xDEAD, hasExp: true},
		// DEAD is a valid hex literal and not a keyword.
		{tail: []string{"DEAD"}, burst: bus.AHBSingle, size: bus.AHBWord, expected: 0xDEAD, hasExp: true},
		// Full form: burst, size, expected.
		{tail: []string{"INCR", "WORD", "0xBEEF"}, burst: bus.AHBIncr, size: bus.AHBWord, expected: 0xBEEF, hasExp: true},
		// Burst then expected, size defaulted.
		{tail: []string{"INCR", "0xBEEF"}, burst: bus.AHBIncr, size: bus.AHBWord, expected: 0xBEEF, hasExp: true},
		{tail: []string{"0xDEAD", "0xBEEF"}, wantErr: "unexpected trailing token"},
		{tail: []string{"INCR", "WORD", "0xBEEF", "extra"}, wantErr: "unexpected trailing token"},
		{tail: []string{"0xZZZ"}, wantErr: "expected data"},
	}
	for _, c := range cases {
		p, err := ahbReadParams(c.tail, 3)
		if c.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("ahbReadParams(%q): err = %v, want %q", c.tail, err, c.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ahbReadParams(%q): %v", c.tail, err)
			continue
		}
		if p.burst != c.burst || p.size != c.size {
			t.Errorf("ahbReadParams(%q) = burst %v size %v, want %v %v",
				c.tail, p.burst, p.size, c.burst, c.size)
		}
		if c.hasExp != (p.expected != nil) {
			t.Errorf("ahbReadParams(%q): expectation presence = %v, want %v",
				c.tail, p.expected != nil, c.hasExp)
		} else if c.hasExp && p.expected.Lo != c.expected {
			t.Errorf("ahbReadParams(%q): expected %x, want %x", c.tail, p.expected.Lo, c.expected)
		}
	}
}

func TestAHBWriteParams(t *testing.T) {
	cases := []struct {
		tail    []string
		burst   bus.AHBBurst
		size    bus.AHBSize
		wantErr bool
	}{
		{tail: nil, burst: bus.AHBSingle, size: bus.AHBWord},
		{tail: []string{"INCR16"}, burst: bus.AHBIncr16, size: bus.AHBWord},
		{tail: []string{"WRAP4", "HALFWORD"}, burst: bus.AHBWrap4, size: bus.AHBHalfword},
		// Write tails are positional: size cannot come first.
		{tail: []string{"WORD"}, wantErr: true},
		{tail: []string{"SINGLE", "WORD", "junk"}, wantErr: true},
	}
	for _, c := range cases {
		p, err := ahbWriteParams(c.tail, 1)
		if c.wantErr != (err != nil) {
			t.Errorf("ahbWriteParams(%q): err = %v, wantErr %v", c.tail, err, c.wantErr)
			continue
		}
		if err == nil && (p.burst != c.burst || p.size != c.size) {
			t.Errorf("ahbWriteParams(%q) = %v %v, want %v %v", c.tail, p.burst, p.size, c.burst, c.size)
		}
	}
}

func TestLooksLikeAXILength(t *testing.T) {
	cases := []struct {
		tok  string
		want bool
	}{
		{"0", true},
		{"15", true},
		{"255", true},
		{"3F", true}, // leading digit wins even if it parses as hex
		{"0xAA", false},
		{"1000", false}, // too long to be a length
		{"AAAA", false},
	}
	for _, c := range cases {
		if got := looksLikeAXILength(c.tok); got != c.want {
			t.Errorf("looksLikeAXILength(%q) = %v, want %v", c.tok, got, c.want)
		}
	}
}

func TestAXIReadParams(t *testing.T) {
	cases := []struct {
		tail     []string
		burst    bus.AXIBurst
		length   int
		numExp   int
		wantErr  string
		beatMism bool
	}{
		{tail: nil, burst: bus.AXIIncr},
		// Rule 1: burst keyword.
		{tail: []string{"WRAP"}, burst: bus.AXIWrap},
		// Rule 2: short digit-led token is a length.
		{tail: []string{"3"}, burst: bus.AXIIncr, length: 3},
		{tail: []string{"FIXED", "7"}, burst: bus.AXIFixed, length: 7},
		// Rule 3: remaining tokens are expected beats.
		{tail: []string{"WRAP", "1", "0xAAAA", "0xBBBB"}, burst: bus.AXIWrap, length: 1, numExp: 2},
		// A long hex token is data, not a length: one beat, len 0.
		{tail: []string{"0xAAAA"}, burst: bus.AXIIncr, length: 0, numExp: 1},
		// Rule 4: beat count must be length+1.
		{tail: []string{"3", "0xA", "0xB", "0xC"}, wantErr: "beat count mismatch", beatMism: true},
		{tail: []string{"0xZZ"}, wantErr: "expected data"},
	}
	for _, c := range cases {
		p, err := axiReadParams(c.tail, 64, 9)
		if c.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("axiReadParams(%q): err = %v, want %q", c.tail, err, c.wantErr)
			}
			if c.beatMism && errors.Cause(err) != errBeatCount {
				t.Errorf("axiReadParams(%q): cause = %v, want errBeatCount", c.tail, errors.Cause(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("axiReadParams(%q): %v", c.tail, err)
			continue
		}
		if p.burst != c.burst || p.length != c.length || len(p.expected) != c.numExp {
			t.Errorf("axiReadParams(%q) = burst %v len %d exp %d, want %v %d %d",
				c.tail, p.burst, p.length, len(p.expected), c.burst, c.length, c.numExp)
		}
	}
}
