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

// Package preload serializes side-channel memory loads: at most one
// is in flight at any time. A request arriving while a prior one is
// outstanding blocks the script until the prior load completes or a
// timeout elapses. On timeout the new request still proceeds — the
// data-level policy is last-request-wins, there is no rollback.
package preload

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/hdlverif/bfmdrv/cli/bus"
)

// ErrTimeout is the cause of all wait-for-prior-preload timeouts. It
// is a diagnostic, not a halt: the caller is expected to log it and
// carry on.
var ErrTimeout = errors.New("timed out waiting for prior preload")

// Coordinator owns the preload state. It is driven by the single
// script goroutine, so the only synchronization it needs is the
// completion handle handed out by the Preloader.
type Coordinator struct {
	loader  bus.Preloader
	timeout time.Duration

	// done is non-nil while a load is in flight.
	done <-chan struct{}
	last bus.PreloadRequest
}

func NewCoordinator(loader bus.Preloader, timeout time.Duration) *Coordinator {
	return &Coordinator{loader: loader, timeout: timeout}
}

// InProgress reports whether a load is outstanding, consuming the
// completion signal if it has fired.
func (c *Coordinator) InProgress() bool {
	if c.done == nil {
		return false
	}
	select {
	case <-c.done:
		c.done = nil
		return false
	default:
		return true
	}
}

// Last returns the most recently issued request.
func (c *Coordinator) Last() bus.PreloadRequest {
	return c.last
}

// Request issues a preload. If one is already in flight it first
// waits for its completion signal, up to the configured timeout. A
// timeout is returned as an ErrTimeout-caused error after the new
// request has been issued anyway; the caller records it and
// continues.
func (c *Coordinator) Request(ctx context.Context, req bus.PreloadRequest) error {
	var timedOut bool
	if c.InProgress() {
		glog.Infof("preload of %s still in flight, waiting", c.last.DataFile)
		select {
		case <-c.done:
			c.done = nil
		case <-time.After(c.timeout):
			timedOut = true
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		}
	}
	done, err := c.loader.RequestPreload(req)
	if err != nil {
		return errors.Annotatef(err, "preload %s into %s", req.DataFile, req.TargetPath)
	}
	c.done = done
	c.last = req
	if timedOut {
		return errors.Annotatef(ErrTimeout, "after %v, issuing preload of %s anyway",
			c.timeout, req.DataFile)
	}
	return nil
}
