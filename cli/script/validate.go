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
	"fmt"

	"github.com/fatih/color"
	"github.com/juju/errors"

	"github.com/hdlverif/bfmdrv/cli/hexval"
	"github.com/hdlverif/bfmdrv/common/multierror"
)

func passLabel() string { return color.GreenString("PASS") }
func failLabel() string { return color.RedString("FAIL") }

func (e *Engine) pass() {
	e.res.Total++
	e.res.Passed++
}

func (e *Engine) fail(msg string) {
	e.res.Total++
	e.res.Failed++
	e.res.LastError = msg
}

// scoreScalar compares one observed word against the expectation,
// bit for bit.
func (e *Engine) scoreScalar(line int, addr uint32, expected, observed hexval.Word) {
	if observed.Equal(expected) {
		e.pass()
		e.tracef("%4d: %s 0x%08X = %s", line, passLabel(), addr, observed)
		return
	}
	msg := fmt.Sprintf("line %d: read mismatch at 0x%08X: expected %s, got %s",
		line, addr, expected, observed)
	e.fail(msg)
	e.tracef("%4d: %s %s", line, failLabel(), msg)
}

// scoreBurst compares observed beats positionally. The first
// mismatching beat is reported with the address it was read from;
// remaining beats are not compared.
func (e *Engine) scoreBurst(line int, addr uint32, strideBytes int, expected, observed []hexval.Word) {
	if len(observed) != len(expected) {
		msg := fmt.Sprintf("line %d: read at 0x%08X returned %d beat(s), expected %d",
			line, addr, len(observed), len(expected))
		e.fail(msg)
		e.tracef("%4d: %s %s", line, failLabel(), msg)
		return
	}
	for i := range expected {
		if observed[i].Equal(expected[i]) {
			continue
		}
		beatAddr := addr + uint32(i*strideBytes)
		msg := fmt.Sprintf("line %d: read mismatch at 0x%08X (beat %d): expected %s, got %s",
			line, beatAddr, i, expected[i], observed[i])
		e.fail(msg)
		e.tracef("%4d: %s %s", line, failLabel(), msg)
		return
	}
	e.pass()
	e.tracef("%4d: %s 0x%08X, %d beat(s)", line, passLabel(), addr, len(expected))
}

// Report prints the final summary. The returned error is non-nil iff
// any validated transaction failed, making it the authoritative
// signal for automation.
func (e *Engine) Report() error {
	if e.synErrs != nil {
		if me, ok := e.synErrs.(*multierror.Error); ok {
			e.tracef("%d line(s) skipped with errors", len(me.Errors()))
		}
	}
	e.tracef("checks: %d total, %d passed, %d failed", e.res.Total, e.res.Passed, e.res.Failed)
	if e.res.Failed > 0 {
		e.tracef("last error: %s", e.res.LastError)
		return errors.Errorf("%d of %d checks failed", e.res.Failed, e.res.Total)
	}
	return nil
}
