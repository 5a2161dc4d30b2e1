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
)

func TestClassify(t *testing.T) {
	cases := []struct {
		toks    []string
		proto   Protocol
		op      Op
		hasOp   bool
		wantErr string
	}{
		{toks: []string{"AHB", "WRITE", "0x0", "0x1"}, proto: ProtoAHB, op: OpWrite, hasOp: true},
		{toks: []string{"ahb", "burstread", "0x0"}, proto: ProtoAHB, op: OpBurstRead, hasOp: true},
		{toks: []string{"Axi", "Read", "0x0"}, proto: ProtoAXI, op: OpRead, hasOp: true},
		{toks: []string{"AXI", "BURSTWRITE", "0x0", "0x1"}, proto: ProtoAXI, op: OpBurstWrite, hasOp: true},
		{toks: []string{"wait", "5"}, proto: ProtoWait},
		{toks: []string{"WAIT"}, proto: ProtoWait},
		{toks: []string{"PRELOAD", "a.b", "f.mem"}, proto: ProtoPreload},
		{toks: []string{"APB", "WRITE"}, wantErr: `unknown protocol "APB"`},
		{toks: []string{"AHB", "POKE"}, wantErr: `unknown operation "POKE"`},
		{toks: []string{"AHB"}, wantErr: "missing operation"},
		{toks: nil, wantErr: "empty command"},
	}
	for _, c := range cases {
		cmd, err := Classify(c.toks, 7)
		if c.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Errorf("Classify(%q): err = %v, want %q", c.toks, err, c.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "line 7") {
				t.Errorf("Classify(%q): err %q does not name the line", c.toks, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Classify(%q): %v", c.toks, err)
			continue
		}
		if cmd.Proto != c.proto || cmd.HasOp != c.hasOp || (c.hasOp && cmd.Op != c.op) {
			t.Errorf("Classify(%q) = %+v, want proto %v op %v", c.toks, cmd, c.proto, c.op)
		}
	}
}
