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
package bus

import (
	"context"

	"github.com/hdlverif/bfmdrv/cli/hexval"
)

// AHBTransactor performs clocked AHB handshakes. Every call suspends
// the caller until the transfer completes.
type AHBTransactor interface {
	Write(ctx context.Context, addr uint32, data hexval.Word, burst AHBBurst, size AHBSize) error
	Read(ctx context.Context, addr uint32, burst AHBBurst, size AHBSize) (hexval.Word, error)
}

// AXITransactor performs clocked AXI handshakes. ReadBurst returns
// length+1 beats in address order.
type AXITransactor interface {
	Write(ctx context.Context, addr uint32, data hexval.Word, burst AXIBurst, length int) error
	ReadBurst(ctx context.Context, addr uint32, burst AXIBurst, length int) ([]hexval.Word, error)
}

// Clock exposes the simulation clock to the script engine.
type Clock interface {
	WaitCycles(ctx context.Context, n int) error
}

// Preloader starts side-channel bulk memory loads. RequestPreload is
// fire-and-forget: it returns a one-shot handle that is closed when
// the load finishes, and does not wait for it.
type Preloader interface {
	RequestPreload(req PreloadRequest) (<-chan struct{}, error)
}
