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

// Package sim is an in-process device under test: a sparse byte
// memory behind AHB and AXI transactor front ends, with a cycle
// counter standing in for the simulation clock. It exists so scripts
// can run and be tested without an external simulator bridge.
package sim

import (
	"bufio"
	"bytes"
	"context"
	"io/ioutil"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/hdlverif/bfmdrv/cli/bus"
	"github.com/hdlverif/bfmdrv/cli/hexval"
)

const (
	ahbCyclesPerBeat = 2
	axiCyclesPerBeat = 1
)

// Bus is the simulated DUT. The script engine drives it from a single
// goroutine; preload image loads run on their own goroutine, hence the
// memory lock.
type Bus struct {
	axiWidth int

	// LoadDelay is an artificial latency added to every preload, so
	// tests can hold a preload in flight deliberately.
	LoadDelay time.Duration

	mu      sync.Mutex
	mem     map[uint32]byte
	regions map[string]uint32
	cycles  uint64
}

// New creates a simulated bus. axiWidth must be 64 or 128.
func New(axiWidth int) (*Bus, error) {
	if axiWidth != 64 && axiWidth != 128 {
		return nil, errors.Errorf("unsupported AXI data width %d, want 64 or 128", axiWidth)
	}
	return &Bus{
		axiWidth: axiWidth,
		mem:      make(map[uint32]byte),
		regions:  make(map[string]uint32),
	}, nil
}

// MapRegion registers a hierarchical memory path at a base address so
// preload commands can target it.
func (b *Bus) MapRegion(path string, base uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regions[path] = base
}

// Cycles returns the number of clock cycles consumed so far.
func (b *Bus) Cycles() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cycles
}

func (b *Bus) tick(n int) {
	b.cycles += uint64(n)
}

func (b *Bus) writeBytes(addr uint32, data []byte) {
	for i, v := range data {
		b.mem[addr+uint32(i)] = v
	}
}

func (b *Bus) readBytes(addr uint32, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b.mem[addr+uint32(i)]
	}
	return out
}

// Write performs one AHB write beat of the given size.
func (b *Bus) Write(ctx context.Context, addr uint32, data hexval.Word, burst bus.AHBBurst, size bus.AHBSize) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	buf := make([]byte, size.Bytes())
	putUint(buf, data.Lo)
	b.writeBytes(addr, buf)
	b.tick(ahbCyclesPerBeat)
	glog.V(2).Infof("ahb wr %08x <- %s %s %s", addr, data, burst, size)
	return nil
}

// Read performs one AHB read beat of the given size.
func (b *Bus) Read(ctx context.Context, addr uint32, burst bus.AHBBurst, size bus.AHBSize) (hexval.Word, error) {
	if err := ctx.Err(); err != nil {
		return hexval.Word{}, errors.Trace(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	v := getUint(b.readBytes(addr, size.Bytes()))
	b.tick(ahbCyclesPerBeat)
	glog.V(2).Infof("ahb rd %08x -> %08x %s %s", addr, v, burst, size)
	return hexval.FromUint(v, 32), nil
}

// beatAddr computes the address of beat i for the given AXI burst kind.
func (b *Bus) beatAddr(addr uint32, kind bus.AXIBurst, length, i int) uint32 {
	stride := uint32(b.axiWidth / 8)
	switch kind {
	case bus.AXIFixed:
		return addr
	case bus.AXIWrap:
		block := stride * uint32(length+1)
		base := addr / block * block
		return base + (addr-base+uint32(i)*stride)%block
	default:
		return addr + uint32(i)*stride
	}
}

func (b *Bus) writeBeat(addr uint32, data hexval.Word) {
	buf := make([]byte, b.axiWidth/8)
	putUint(buf[:8], data.Lo)
	if b.axiWidth == 128 {
		putUint(buf[8:], data.Hi)
	}
	b.writeBytes(addr, buf)
}

func (b *Bus) readBeat(addr uint32) hexval.Word {
	w := hexval.Word{Bits: b.axiWidth}
	w.Lo = getUint(b.readBytes(addr, 8))
	if b.axiWidth == 128 {
		w.Hi = getUint(b.readBytes(addr+8, 8))
	}
	return w
}

// WriteAXI performs one AXI write of a single beat.
func (b *Bus) WriteAXI(ctx context.Context, addr uint32, data hexval.Word, burst bus.AXIBurst, length int) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeBeat(addr, data)
	b.tick(axiCyclesPerBeat + 1)
	glog.V(2).Infof("axi wr %08x <- %s %s len=%d", addr, data, burst, length)
	return nil
}

// ReadBurst performs an AXI read of length+1 beats.
func (b *Bus) ReadBurst(ctx context.Context, addr uint32, burst bus.AXIBurst, length int) ([]hexval.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	beats := make([]hexval.Word, length+1)
	for i := range beats {
		beats[i] = b.readBeat(b.beatAddr(addr, burst, length, i))
	}
	b.tick(axiCyclesPerBeat*(length+1) + 1)
	glog.V(2).Infof("axi rd %08x %s len=%d -> %d beats", addr, burst, length, len(beats))
	return beats, nil
}

// WaitCycles advances the simulated clock by n cycles.
func (b *Bus) WaitCycles(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tick(n)
	return nil
}

// RequestPreload starts loading a memory image into the region named
// by req.TargetPath. The returned channel is closed when the load has
// been applied. The region must have been mapped beforehand.
func (b *Bus) RequestPreload(req bus.PreloadRequest) (<-chan struct{}, error) {
	b.mu.Lock()
	base, ok := b.regions[req.TargetPath]
	b.mu.Unlock()
	if !ok {
		return nil, errors.Errorf("no memory mapped at %q", req.TargetPath)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if b.LoadDelay > 0 {
			time.Sleep(b.LoadDelay)
		}
		if err := b.loadImage(base, req.DataFile); err != nil {
			glog.Errorf("preload of %s into %s failed: %v", req.DataFile, req.TargetPath, err)
			return
		}
		glog.Infof("preloaded %s into %s", req.DataFile, req.TargetPath)
	}()
	return done, nil
}

// loadImage reads a $readmemh-style image: whitespace-separated hex
// tokens written as consecutive big-endian bytes, with @HHHH tokens
// setting the byte offset from the region base and // comments
// ignored to end of line.
func (b *Bus) loadImage(base uint32, file string) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return errors.Annotatef(err, "reading memory image")
	}
	var offset uint32
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		l := scanner.Text()
		if i := strings.Index(l, "//"); i >= 0 {
			l = l[:i]
		}
		for _, tok := range strings.Fields(l) {
			if tok[0] == '@' {
				off, err := strconv.ParseUint(tok[1:], 16, 32)
				if err != nil {
					return errors.Errorf("line %d: bad address token %q", lineNo, tok)
				}
				offset = uint32(off)
				continue
			}
			raw := tok
			if len(raw)%2 != 0 {
				raw = "0" + raw
			}
			buf := make([]byte, len(raw)/2)
			for i := range buf {
				v, err := strconv.ParseUint(raw[i*2:i*2+2], 16, 8)
				if err != nil {
					return errors.Errorf("line %d: bad data token %q", lineNo, tok)
				}
				buf[i] = byte(v)
			}
			b.mu.Lock()
			b.writeBytes(base+offset, buf)
			b.mu.Unlock()
			offset += uint32(len(buf))
		}
	}
	return nil
}

// AHB returns the AHB-facing port of the simulated bus.
func (b *Bus) AHB() bus.AHBTransactor { return ahbPort{b} }

// AXI returns the AXI-facing port of the simulated bus.
func (b *Bus) AXI() bus.AXITransactor { return axiPort{b} }

type ahbPort struct{ b *Bus }

func (p ahbPort) Write(ctx context.Context, addr uint32, data hexval.Word, burst bus.AHBBurst, size bus.AHBSize) error {
	return p.b.Write(ctx, addr, data, burst, size)
}

func (p ahbPort) Read(ctx context.Context, addr uint32, burst bus.AHBBurst, size bus.AHBSize) (hexval.Word, error) {
	return p.b.Read(ctx, addr, burst, size)
}

type axiPort struct{ b *Bus }

func (p axiPort) Write(ctx context.Context, addr uint32, data hexval.Word, burst bus.AXIBurst, length int) error {
	return p.b.WriteAXI(ctx, addr, data, burst, length)
}

func (p axiPort) ReadBurst(ctx context.Context, addr uint32, burst bus.AXIBurst, length int) ([]hexval.Word, error) {
	return p.b.ReadBurst(ctx, addr, burst, length)
}

// Little-endian byte order on the simulated memory.

func putUint(buf []byte, v uint64) {
	for i := range buf {
		buf[i] = byte(v >> (8 * uint(i)))
	}
}

func getUint(buf []byte) uint64 {
	var v uint64
	for i := len(buf) - 1; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v
}
