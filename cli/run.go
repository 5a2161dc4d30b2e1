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
package main

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/hdlverif/bfmdrv/cli/bus/sim"
	"github.com/hdlverif/bfmdrv/cli/flags"
	"github.com/hdlverif/bfmdrv/cli/ourutil"
	"github.com/hdlverif/bfmdrv/cli/script"
)

// newDUT builds the in-process simulated DUT with the configured
// memory regions mapped.
func newDUT() (*sim.Bus, error) {
	b, err := sim.New(*flags.AXIWidth)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for _, r := range *flags.SimRegions {
		parts := strings.SplitN(r, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("bad --sim-region %q, want <path>=<hex base>", r)
		}
		base, err := strconv.ParseUint(strings.TrimPrefix(parts[1], "0x"), 16, 32)
		if err != nil {
			return nil, errors.Annotatef(err, "bad --sim-region base in %q", r)
		}
		b.MapRegion(parts[0], uint32(base))
	}
	return b, nil
}

func openTrace() (io.Writer, func(), error) {
	if *flags.TraceFile == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.Create(*flags.TraceFile)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "opening trace file")
	}
	return f, func() { f.Close() }, nil
}

func runScript(ctx context.Context) error {
	dut, err := newDUT()
	if err != nil {
		return errors.Trace(err)
	}
	trace, closeTrace, err := openTrace()
	if err != nil {
		return errors.Trace(err)
	}
	defer closeTrace()

	eng, err := script.NewEngine(dut.AHB(), dut.AXI(), dut, dut, script.Params{
		AXIWidth:       *flags.AXIWidth,
		PreloadTimeout: *flags.PreloadTimeout,
		Execute:        true,
		Trace:          trace,
	})
	if err != nil {
		return errors.Trace(err)
	}
	if err := eng.RunFile(ctx, *flags.Script); err != nil {
		return errors.Trace(err)
	}
	ourutil.Reportf("%s: %d cycle(s) consumed", *flags.Script, dut.Cycles())
	return errors.Trace(eng.Report())
}
