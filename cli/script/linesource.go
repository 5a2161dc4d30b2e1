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

// Package script implements the stimulus script interpreter: line
// reading, tokenization, command classification, parameter
// resolution, transaction dispatch and pass/fail accounting.
package script

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
)

// LineSource yields trimmed, comment-stripped, non-empty script
// lines. All diagnostics use the 1-based number of the physical line
// a command came from.
type LineSource struct {
	sc     *bufio.Scanner
	closer io.Closer
	lineNo int
}

// OpenLineSource opens a script file. Failure to open is terminal for
// the run: no transactions are attempted.
func OpenLineSource(path string) (*LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "opening script")
	}
	ls := NewLineSource(f)
	ls.closer = f
	return ls, nil
}

// NewLineSource reads script lines from r.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{sc: bufio.NewScanner(r)}
}

// Next returns the next non-empty line, with everything from the
// first '#' stripped and surrounding whitespace removed. ok is false
// at end of input.
func (ls *LineSource) Next() (line string, ok bool) {
	for ls.sc.Scan() {
		ls.lineNo++
		l := ls.sc.Text()
		if i := strings.IndexByte(l, '#'); i >= 0 {
			l = l[:i]
		}
		l = strings.Trim(l, " \t\r\n")
		if l != "" {
			return l, true
		}
	}
	return "", false
}

// LineNo returns the physical line number of the line most recently
// returned by Next.
func (ls *LineSource) LineNo() int {
	return ls.lineNo
}

func (ls *LineSource) Close() error {
	if ls.closer == nil {
		return nil
	}
	return ls.closer.Close()
}
