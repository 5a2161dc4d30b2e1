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
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdlverif/bfmdrv/cli/bus/sim"
)

func init() {
	color.NoColor = true
}

func newTestEngine(t *testing.T, width int, trace *bytes.Buffer) (*Engine, *sim.Bus) {
	t.Helper()
	dut, err := sim.New(width)
	require.NoError(t, err)
	dut.MapRegion("top.sub.mem", 0x4000)
	eng, err := NewEngine(dut.AHB(), dut.AXI(), dut, dut, Params{
		AXIWidth:       width,
		PreloadTimeout: 100 * time.Millisecond,
		Execute:        true,
		Trace:          trace,
	})
	require.NoError(t, err)
	return eng, dut
}

func runLines(t *testing.T, eng *Engine, lines ...string) {
	t.Helper()
	ls := NewLineSource(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, eng.Run(context.Background(), ls))
}

func TestEngineBadWidth(t *testing.T) {
	dut, err := sim.New(64)
	require.NoError(t, err)
	_, err = NewEngine(dut.AHB(), dut.AXI(), dut, dut, Params{AXIWidth: 96})
	require.Error(t, err)
}

func TestEngineAHBWriteReadPass(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	runLines(t, eng,
		"AHB WRITE 0x1000 0xDEAD",
		"AHB READ 0x1000 0xDEAD",
	)
	res := eng.Results()
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 0, res.Failed)
	assert.NoError(t, eng.Report())
}

func TestEngineTrace(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	runLines(t, eng,
		"# a comment line",
		"AHB WRITE 0x1000 0xDEAD",
		"AHB READ 0x1000 0xDEAD   # trailing comment",
		"WAIT 2",
	)
	want := `   2: AHB WRITE 0x00001000 0x0000DEAD SINGLE WORD
   3: AHB READ 0x00001000 -> 0x0000DEAD SINGLE WORD
   3: PASS 0x00001000 = 0x0000DEAD
   4: WAIT 2
`
	if got := trace.String(); got != want {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(want, got, false)
		t.Errorf("trace mismatch:\n%s", dmp.DiffPrettyText(diffs))
	}
}

func TestEngineAXIWrapMismatch(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	runLines(t, eng,
		"AXI WRITE 0x2000 0xAAAA",
		"AXI WRITE 0x2008 0xCCCC",
		"AXI READ 0x2000 WRAP 1 0xAAAA 0xBBBB",
	)
	res := eng.Results()
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 0, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.Contains(t, res.LastError, "0x00002008")
	assert.Contains(t, res.LastError, "beat 1")
	assert.Contains(t, res.LastError, "BBBB")
	assert.Contains(t, res.LastError, "CCCC")
	require.Error(t, eng.Report())
}

func TestEngineAXIBurstPass(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	runLines(t, eng,
		"AXI WRITE 0x3000 0x11",
		"AXI WRITE 0x3008 0x22",
		"AXI WRITE 0x3010 0x33",
		"AXI WRITE 0x3018 0x44",
		"AXI BURSTREAD 0x3000 INCR 3 0x11 0x22 0x33 0x44",
	)
	res := eng.Results()
	assert.Equal(t, Results{Total: 1, Passed: 1}, res)
}

// A beat-count mismatch is reported before any comparison: the read
// still runs for the trace, but nothing is scored.
func TestEngineBeatCountMismatch(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	runLines(t, eng,
		"AXI READ 0x0 3 0xA 0xB 0xC",
	)
	res := eng.Results()
	assert.Equal(t, Results{}, res)
	require.Error(t, eng.SyntaxErrors())
	assert.Contains(t, eng.SyntaxErrors().Error(), "beat count mismatch")
	// The transactor was still exercised for the trace.
	assert.Contains(t, trace.String(), "AXI READ 0x00000000")
}

func TestEngineSyntaxErrorSkipsLine(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	runLines(t, eng,
		"BOGUS WRITE 0x0 0x1",
		"AHB WRITE 0x1000 0x1_0000_0000", // exceeds 32 bits
		"AHB WRITE 0x1000 0x5A",
		"AHB READ 0x1000 0x5A",
	)
	res := eng.Results()
	assert.Equal(t, Results{Total: 1, Passed: 1}, res)
	require.Error(t, eng.SyntaxErrors())
}

func TestEngineWidth128(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 128, &trace)
	runLines(t, eng,
		"AXI WRITE 0x100 0x0123456789ABCDEF0123456789ABCDEF",
		"AXI READ 0x100 0x0123456789ABCDEF0123456789ABCDEF",
	)
	assert.Equal(t, Results{Total: 1, Passed: 1}, eng.Results())
}

func TestEngineWait(t *testing.T) {
	var trace bytes.Buffer
	eng, dut := newTestEngine(t, 64, &trace)
	runLines(t, eng, "WAIT 5")
	assert.Equal(t, uint64(5), dut.Cycles())
}

func TestEnginePreload(t *testing.T) {
	dir, err := ioutil.TempDir("", "bfmdrv")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	img := filepath.Join(dir, "init.mem")
	// Bytes land in memory in token order.
	require.NoError(t, ioutil.WriteFile(img, []byte("EF BE AD DE\n"), 0644))

	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	runLines(t, eng,
		"PRELOAD top.sub.mem "+img,
		// A second preload waits for the first, so after this line
		// the first load is guaranteed visible.
		"PRELOAD top.sub.mem "+img,
		"AHB READ 0x4000 0xDEADBEEF",
	)
	assert.Equal(t, Results{Total: 1, Passed: 1}, eng.Results())
}

func TestEnginePreloadBadArity(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	runLines(t, eng, "PRELOAD top.sub.mem")
	require.Error(t, eng.SyntaxErrors())
}

// Total == Passed+Failed after every validated transaction.
func TestEngineStatsInvariant(t *testing.T) {
	var trace bytes.Buffer
	eng, _ := newTestEngine(t, 64, &trace)
	lines := []string{
		"AHB WRITE 0x0 0x1",
		"AHB READ 0x0 0x1",
		"AHB READ 0x0 0x2",
		"AHB READ 0x4 0x0",
		"AXI READ 0x0 0xFFFF",
	}
	for _, l := range lines {
		runLines(t, eng, l)
		res := eng.Results()
		assert.Equal(t, res.Total, res.Passed+res.Failed, "after %q", l)
	}
}
