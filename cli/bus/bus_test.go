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

import "testing"

// The string tables drive both keyword recognition and trace text, so
// every enum value must map back to itself.
func TestKeywordTables(t *testing.T) {
	for i := AHBSingle; i <= AHBWrap16; i++ {
		got, ok := ParseAHBBurst(i.String())
		if !ok || got != i {
			t.Errorf("AHB burst %d: %q does not round-trip", i, i.String())
		}
	}
	for i := AHBByte; i <= AHBWord; i++ {
		got, ok := ParseAHBSize(i.String())
		if !ok || got != i {
			t.Errorf("AHB size %d: %q does not round-trip", i, i.String())
		}
	}
	for i := AXIFixed; i <= AXIWrap; i++ {
		got, ok := ParseAXIBurst(i.String())
		if !ok || got != i {
			t.Errorf("AXI burst %d: %q does not round-trip", i, i.String())
		}
	}
}

func TestKeywordCaseInsensitive(t *testing.T) {
	if b, ok := ParseAHBBurst("wrap8"); !ok || b != AHBWrap8 {
		t.Errorf("wrap8 not recognized")
	}
	if s, ok := ParseAHBSize("Halfword"); !ok || s != AHBHalfword {
		t.Errorf("Halfword not recognized")
	}
	if _, ok := ParseAXIBurst("INCR4"); ok {
		t.Errorf("INCR4 is not an AXI burst kind")
	}
}

func TestAHBSizeBytes(t *testing.T) {
	cases := map[AHBSize]int{AHBByte: 1, AHBHalfword: 2, AHBWord: 4}
	for s, want := range cases {
		if got := s.Bytes(); got != want {
			t.Errorf("%v.Bytes() = %d, want %d", s, got, want)
		}
	}
}
