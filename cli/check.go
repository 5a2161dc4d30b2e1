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

	"github.com/juju/errors"

	"github.com/hdlverif/bfmdrv/cli/flags"
	"github.com/hdlverif/bfmdrv/cli/ourutil"
	"github.com/hdlverif/bfmdrv/cli/script"
)

// checkScript parses and validates a script without touching any
// transactor: useful as a pre-commit check for script authors.
func checkScript(ctx context.Context) error {
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
		Execute:        false,
		Trace:          trace,
	})
	if err != nil {
		return errors.Trace(err)
	}
	if err := eng.RunFile(ctx, *flags.Script); err != nil {
		return errors.Trace(err)
	}
	if errs := eng.SyntaxErrors(); errs != nil {
		return errors.Annotatef(errs, "%s", *flags.Script)
	}
	ourutil.Reportf("%s: OK", *flags.Script)
	return nil
}
