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

	"github.com/juju/errors"
)

// Protocol selects which transactor (or built-in) a command targets.
type Protocol int

const (
	ProtoAHB Protocol = iota
	ProtoAXI
	ProtoWait
	ProtoPreload
)

var protoStrs = [...]string{"AHB", "AXI", "WAIT", "PRELOAD"}

func (p Protocol) String() string {
	if int(p) < len(protoStrs) {
		return protoStrs[p]
	}
	return "?"
}

// Op is the bus operation of an AHB/AXI command. WAIT and PRELOAD
// commands carry no operation.
type Op int

const (
	OpWrite Op = iota
	OpRead
	OpBurstWrite
	OpBurstRead
)

var opStrs = [...]string{"WRITE", "READ", "BURSTWRITE", "BURSTREAD"}

func (o Op) String() string {
	if int(o) < len(opStrs) {
		return opStrs[o]
	}
	return "?"
}

var opNames = map[string]Op{
	"WRITE":      OpWrite,
	"READ":       OpRead,
	"BURSTWRITE": OpBurstWrite,
	"BURSTREAD":  OpBurstRead,
}

// Command is one classified script line. Immutable once built. Arity
// is not checked here; each protocol handler checks its own.
type Command struct {
	Proto  Protocol
	Op     Op
	HasOp  bool
	Tokens []string
	Line   int
}

// Classify maps the first one or two tokens of a line to a command.
// Protocol and operation keywords are case-insensitive.
func Classify(tokens []string, line int) (Command, error) {
	cmd := Command{Tokens: tokens, Line: line}
	if len(tokens) == 0 {
		return cmd, errors.Errorf("line %d: empty command", line)
	}
	switch strings.ToUpper(tokens[0]) {
	case "AHB":
		cmd.Proto = ProtoAHB
	case "AXI":
		cmd.Proto = ProtoAXI
	case "WAIT":
		cmd.Proto = ProtoWait
		return cmd, nil
	case "PRELOAD":
		cmd.Proto = ProtoPreload
		return cmd, nil
	default:
		return cmd, errors.Errorf("line %d: unknown protocol %q", line, tokens[0])
	}
	if len(tokens) < 2 {
		return cmd, errors.Errorf("line %d: %s: missing operation", line, cmd.Proto)
	}
	op, ok := opNames[strings.ToUpper(tokens[1])]
	if !ok {
		return cmd, errors.Errorf("line %d: %s: unknown operation %q", line, cmd.Proto, tokens[1])
	}
	cmd.Op = op
	cmd.HasOp = true
	return cmd, nil
}
