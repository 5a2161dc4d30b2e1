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

// bfmdrv runs text stimulus scripts against AHB and AXI bus
// transactors and reports pass/fail statistics.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"
	flag "github.com/spf13/pflag"

	"github.com/hdlverif/bfmdrv/cli/config"
	"github.com/hdlverif/bfmdrv/cli/flags"
	"github.com/hdlverif/bfmdrv/common/pflagenv"
	"github.com/hdlverif/bfmdrv/version"
)

const (
	envPrefix = "BFMDRV_"
)

var (
	versionFlag = flag.Bool("version", false, "Print version and exit")

	commands = []command{
		{"run", runScript, `Run a stimulus script against the DUT`, []string{"script"}},
		{"check", checkScript, `Parse and validate a script without executing it`, []string{"script"}},
	}
)

type command struct {
	name     string
	handler  handler
	short    string
	required []string
}

type handler func(ctx context.Context) error

func run(ctx context.Context) error {
	for _, c := range commands {
		if c.name == flag.Arg(0) {
			if err := checkFlags(c.required); err != nil {
				return err
			}
			return c.handler(ctx)
		}
	}
	usage()
	return nil
}

func main() {
	initFlags()
	flag.Parse()
	pflagenv.Parse(envPrefix)

	if *versionFlag {
		fmt.Printf("%s\nVersion: %s\nBuild ID: %s\n",
			"Bus stimulus script driver", version.GetVersion(), version.BuildId)
		return
	}

	cfg, err := config.Load(*flags.Config)
	if err == nil {
		err = cfg.ApplyToFlags(flag.CommandLine)
	}
	if err == nil {
		err = run(context.Background())
	}
	if err != nil {
		glog.Infof("Error: %+v", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
