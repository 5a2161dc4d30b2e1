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

// Package config reads the optional engine config file. Values from
// the file are defaults; flags changed on the command line win.
package config

import (
	"io/ioutil"
	"strconv"
	"time"

	"github.com/juju/errors"
	flag "github.com/spf13/pflag"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	AXIWidth int `yaml:"axi_width,omitempty"`
	// PreloadTimeout is a duration string, e.g. "10s".
	PreloadTimeout string   `yaml:"preload_timeout,omitempty"`
	TraceFile      string   `yaml:"trace_file,omitempty"`
	SimRegions     []string `yaml:"sim_regions,omitempty"`
}

// Load reads an engine config file. An empty file name yields an
// empty config.
func Load(file string) (*Config, error) {
	if file == "" {
		return &Config{}, nil
	}
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, errors.Annotatef(err, "reading config")
	}
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, errors.Annotatef(err, "parsing config %s", file)
	}
	return &c, nil
}

// ApplyToFlags pushes file values into flags the user did not set, so
// the rest of the tool reads configuration from one place.
func (c *Config) ApplyToFlags(fs *flag.FlagSet) error {
	set := func(name, value string) error {
		f := fs.Lookup(name)
		if f == nil || f.Changed || value == "" {
			return nil
		}
		return errors.Annotatef(f.Value.Set(value), "config value for --%s", name)
	}
	if c.AXIWidth != 0 {
		if err := set("axi-width", strconv.Itoa(c.AXIWidth)); err != nil {
			return errors.Trace(err)
		}
	}
	if c.PreloadTimeout != "" {
		if _, err := time.ParseDuration(c.PreloadTimeout); err != nil {
			return errors.Annotatef(err, "preload_timeout")
		}
		if err := set("preload-timeout", c.PreloadTimeout); err != nil {
			return errors.Trace(err)
		}
	}
	if err := set("trace-file", c.TraceFile); err != nil {
		return errors.Trace(err)
	}
	if f := fs.Lookup("sim-region"); f != nil && !f.Changed {
		for _, r := range c.SimRegions {
			if err := f.Value.Set(r); err != nil {
				return errors.Annotatef(err, "config value for --sim-region")
			}
		}
	}
	return nil
}
