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
package bus

import (
	"strings"

	"github.com/hdlverif/bfmdrv/cli/hexval"
)

// AHBBurst is the burst kind of an AHB transfer.
type AHBBurst int

const (
	AHBSingle AHBBurst = iota
	AHBIncr
	AHBIncr4
	AHBIncr8
	AHBIncr16
	AHBWrap4
	AHBWrap8
	AHBWrap16
)

// AHBSize is the transfer unit size of an AHB beat.
type AHBSize int

const (
	AHBByte AHBSize = iota
	AHBHalfword
	AHBWord
)

// AXIBurst is the burst kind of an AXI transfer.
type AXIBurst int

const (
	AXIFixed AXIBurst = iota
	AXIIncr
	AXIWrap
)

// Keyword tables are fixed here so that trace text and script keyword
// recognition cannot drift apart.

var ahbBurstNames = map[string]AHBBurst{
	"SINGLE": AHBSingle,
	"INCR":   AHBIncr,
	"INCR4":  AHBIncr4,
	"INCR8":  AHBIncr8,
	"INCR16": AHBIncr16,
	"WRAP4":  AHBWrap4,
	"WRAP8":  AHBWrap8,
	"WRAP16": AHBWrap16,
}

var ahbBurstStrs = [...]string{"SINGLE", "INCR", "INCR4", "INCR8", "INCR16", "WRAP4", "WRAP8", "WRAP16"}

var ahbSizeNames = map[string]AHBSize{
	"BYTE":     AHBByte,
	"HALFWORD": AHBHalfword,
	"WORD":     AHBWord,
}

var ahbSizeStrs = [...]string{"BYTE", "HALFWORD", "WORD"}

var axiBurstNames = map[string]AXIBurst{
	"FIXED": AXIFixed,
	"INCR":  AXIIncr,
	"WRAP":  AXIWrap,
}

var axiBurstStrs = [...]string{"FIXED", "INCR", "WRAP"}

// ParseAHBBurst recognizes an AHB burst keyword, case-insensitively.
func ParseAHBBurst(s string) (AHBBurst, bool) {
	b, ok := ahbBurstNames[strings.ToUpper(s)]
	return b, ok
}

// ParseAHBSize recognizes an AHB size keyword, case-insensitively.
func ParseAHBSize(s string) (AHBSize, bool) {
	sz, ok := ahbSizeNames[strings.ToUpper(s)]
	return sz, ok
}

// ParseAXIBurst recognizes an AXI burst keyword, case-insensitively.
func ParseAXIBurst(s string) (AXIBurst, bool) {
	b, ok := axiBurstNames[strings.ToUpper(s)]
	return b, ok
}

func (b AHBBurst) String() string {
	if int(b) < len(ahbBurstStrs) {
		return ahbBurstStrs[b]
	}
	return "?"
}

func (s AHBSize) String() string {
	if int(s) < len(ahbSizeStrs) {
		return ahbSizeStrs[s]
	}
	return "?"
}

// Bytes returns the number of bytes moved by one beat of this size.
func (s AHBSize) Bytes() int {
	switch s {
	case AHBByte:
		return 1
	case AHBHalfword:
		return 2
	default:
		return 4
	}
}

func (b AXIBurst) String() string {
	if int(b) < len(axiBurstStrs) {
		return axiBurstStrs[b]
	}
	return "?"
}

// PreloadRequest identifies one side-channel memory initialization: a
// dotted hierarchical path to the target memory and a data image file.
type PreloadRequest struct {
	TargetPath string
	DataFile   string
}

// Transaction is one fully resolved bus operation. Payload and
// Expected have the same shape: a single element for scalar ops,
// Length+1 elements for an AXI burst read. It is built per script
// line and discarded after validation.
type Transaction struct {
	Addr     uint32
	Payload  []hexval.Word
	Expected []hexval.Word

	AHBKind AHBBurst
	AHBSize AHBSize
	AXIKind AXIBurst
	Length  int
}
