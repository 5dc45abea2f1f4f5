// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"encoding/binary"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/mmr"
)

// WordTransport reads and writes 16-bit registers addressed by 8 bits.
//
// mmr.Dev8 implements it.
type WordTransport interface {
	ReadUint16(reg uint8) (uint16, error)
	WriteUint16(reg uint8, v uint16) error
}

// Flat16 is a register map of 256 16-bit registers with a write-through
// cache.
type Flat16 struct {
	mu       sync.Mutex
	t        WordTransport
	volatile func(reg uint8) bool
	cache    [256]uint16
	valid    [256]bool
}

// NewFlat16 returns a Flat16 map over t. volatile may be nil.
func NewFlat16(t WordTransport, volatile func(reg uint8) bool) *Flat16 {
	return &Flat16{t: t, volatile: volatile}
}

// NewFlat16I2C returns a Flat16 map for the device at addr on the I²C bus b.
// Values are transferred MSB first.
func NewFlat16I2C(b i2c.Bus, addr uint16, volatile func(reg uint8) bool) *Flat16 {
	d := &mmr.Dev8{Conn: &i2c.Dev{Bus: b, Addr: addr}, Order: binary.BigEndian}
	return NewFlat16(d, volatile)
}

// Read returns the register value, from the cache when possible.
func (f *Flat16) Read(reg uint8) (uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(reg)
}

// Write writes the register and caches the value.
func (f *Flat16) Write(reg uint8, v uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(reg, v)
}

// Update replaces the bits in mask with v. The write is skipped when nothing
// changes.
func (f *Flat16) Update(reg uint8, mask, v uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, err := f.read(reg)
	if err != nil {
		return err
	}
	n := (old &^ mask) | (v & mask)
	if n == old {
		return nil
	}
	return f.write(reg, n)
}

// Invalidate drops the cache.
func (f *Flat16) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.valid = [256]bool{}
}

//

func (f *Flat16) read(reg uint8) (uint16, error) {
	if f.valid[reg] && (f.volatile == nil || !f.volatile(reg)) {
		return f.cache[reg], nil
	}
	v, err := f.t.ReadUint16(reg)
	if err != nil {
		return 0, &BusError{Op: "read", Addr: Addr(reg), Flat: true, Err: err}
	}
	f.cache[reg] = v
	f.valid[reg] = true
	return v, nil
}

func (f *Flat16) write(reg uint8, v uint16) error {
	if err := f.t.WriteUint16(reg, v); err != nil {
		f.valid[reg] = false
		return &BusError{Op: "write", Addr: Addr(reg), Flat: true, Err: err}
	}
	f.cache[reg] = v
	f.valid[reg] = true
	return nil
}
