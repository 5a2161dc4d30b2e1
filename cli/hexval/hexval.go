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
package hexval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Word is a fixed-width unsigned value as it travels on a bus.
// Bits is one of 32, 64 or 128; for widths up to 64 the value lives
// entirely in Lo and Hi is zero.
type Word struct {
	Hi   uint64
	Lo   uint64
	Bits int
}

var (
	// ErrWidth is the cause of all value-exceeds-declared-width errors.
	ErrWidth = errors.New("value exceeds declared width")
	// ErrSyntax is the cause of all malformed-literal errors.
	ErrSyntax = errors.New("malformed hex literal")
)

// Parse converts a hex literal into a Word of the given width.
// An optional 0x/0X prefix and _ digit separators are accepted.
// A literal with more hex digits than widthBits/4 is rejected, never
// silently truncated.
func Parse(s string, widthBits int) (Word, error) {
	if widthBits != 32 && widthBits != 64 && widthBits != 128 {
		return Word{}, errors.Errorf("unsupported width %d", widthBits)
	}
	digits := s
	if len(digits) >= 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	digits = strings.Replace(digits, "_", "", -1)
	if len(digits) == 0 {
		return Word{}, errors.Annotatef(ErrSyntax, "%q", s)
	}
	if len(digits) > widthBits/4 {
		return Word{}, errors.Annotatef(ErrWidth, "%q has %d hex digits, width %d allows %d",
			s, len(digits), widthBits, widthBits/4)
	}
	for _, c := range digits {
		if !isHexDigit(byte(c)) {
			return Word{}, errors.Annotatef(ErrSyntax, "%q: bad digit %q", s, c)
		}
	}
	w := Word{Bits: widthBits}
	if len(digits) <= 16 {
		v, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return Word{}, errors.Annotatef(ErrSyntax, "%q", s)
		}
		w.Lo = v
		return w, nil
	}
	hi, err := strconv.ParseUint(digits[:len(digits)-16], 16, 64)
	if err != nil {
		return Word{}, errors.Annotatef(ErrSyntax, "%q", s)
	}
	lo, err := strconv.ParseUint(digits[len(digits)-16:], 16, 64)
	if err != nil {
		return Word{}, errors.Annotatef(ErrSyntax, "%q", s)
	}
	w.Hi, w.Lo = hi, lo
	return w, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// FromUint makes a Word of the given width out of a plain integer.
func FromUint(v uint64, widthBits int) Word {
	return Word{Lo: v, Bits: widthBits}
}

func (w Word) Equal(other Word) bool {
	return w.Hi == other.Hi && w.Lo == other.Lo
}

// String renders the value as a 0x-prefixed hex literal padded to the
// full declared width.
func (w Word) String() string {
	switch {
	case w.Bits > 64:
		return fmt.Sprintf("0x%016X%016X", w.Hi, w.Lo)
	case w.Bits == 64:
		return fmt.Sprintf("0x%016X", w.Lo)
	default:
		return fmt.Sprintf("0x%08X", w.Lo)
	}
}
