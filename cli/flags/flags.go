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
package flags

import (
	"time"

	flag "github.com/spf13/pflag"
)

var (
	Script = flag.StringP("script", "s", "", "Stimulus script to run")
	Config = flag.String("config", "", "Engine config file (YAML); flags given "+
		"on the command line take precedence over it")

	AXIWidth       = flag.Int("axi-width", 64, "AXI data width in bits. Possible values: 64, 128")
	PreloadTimeout = flag.Duration("preload-timeout", 10*time.Second,
		"How long a new preload waits for a still-in-flight one before proceeding anyway")

	TraceFile = flag.String("trace-file", "", "Write the per-command trace to this file instead of stderr")

	// Memory regions of the built-in simulated DUT.
	SimRegions = flag.StringSlice("sim-region", []string{"top.sub.mem=0"},
		"Memory region of the simulated DUT, <path>=<hex base>. May be repeated.")
)
