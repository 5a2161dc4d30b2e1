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
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// preloadKeyword triggers the special tokenization rule below. The
// match is case-sensitive on purpose: lower-cased preload lines fall
// through to the generic split, which is fine for paths without
// internal whitespace.
const preloadKeyword = "PRELOAD"

// Tokenize splits a script line into whitespace-separated tokens.
//
// A PRELOAD line is split into exactly three tokens: the keyword, a
// hierarchical target path and a data file path, separated at the
// last maximal whitespace run of the remainder. The file path is
// often a multi-segment filesystem path and must not be torn at
// arbitrary separators, and the hierarchical path contains no
// whitespace, so the last run is the only safe boundary. If the
// remainder has no whitespace at all it is kept as one malformed
// token and rejected later by arity check.
//
// Lines containing double quotes go through a shell-style split
// first so quoted paths may carry embedded spaces.
func Tokenize(line string) []string {
	if strings.ContainsRune(line, '"') {
		if toks, err := shellwords.Parse(line); err == nil {
			return toks
		}
		// Unbalanced quotes: fall through to the plain split and let
		// command processing reject the result.
	}
	first, rest := splitFirst(line)
	if first != preloadKeyword || rest == "" {
		return strings.Fields(line)
	}
	hier, file, found := splitLastRun(rest)
	if !found {
		return []string{first, rest}
	}
	return []string{first, hier, file}
}

// splitFirst cuts the first whitespace-separated token off a trimmed
// line.
func splitFirst(line string) (first, rest string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeft(line[i:], " \t")
}

// splitLastRun splits s at its last maximal run of whitespace.
func splitLastRun(s string) (left, right string, found bool) {
	i := strings.LastIndexAny(s, " \t")
	if i < 0 {
		return "", "", false
	}
	right = s[i+1:]
	return strings.TrimRight(s[:i], " \t"), right, true
}
