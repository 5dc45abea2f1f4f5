// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"encoding/binary"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/mmr"
)

// Transport reads and writes 8-bit registers of the currently selected page.
//
// mmr.Dev8 implements it.
type Transport interface {
	ReadUint8(reg uint8) (uint8, error)
	WriteUint8(reg uint8, v uint8) error
}

// Config configures a Paged map.
type Config struct {
	// Size is the number of cached registers. Addresses at or above Size are
	// rejected. Defaults to 8 pages.
	Size int
	// Volatile reports registers that must always be read from the device,
	// like status flags. Writes to them are still cached but never served back.
	Volatile func(a Addr) bool
}

// Paged is a page-addressed register map with a write-through cache.
//
// The page select register is only written when the page changes. All the
// methods are serialized by an internal lock, so a read-modify-write sequence
// done through Update is atomic relative to other users of the map.
type Paged struct {
	mu       sync.Mutex
	t        Transport
	volatile func(a Addr) bool
	page     int // -1 when unknown
	cache    []uint8
	valid    []bool
}

// NewPaged returns a Paged map over t.
//
// The current page is unknown until the first access so the first access
// always selects its page.
func NewPaged(t Transport, cfg *Config) *Paged {
	size := 8 * PageSize
	var volatile func(Addr) bool
	if cfg != nil {
		if cfg.Size > 0 {
			size = cfg.Size
		}
		volatile = cfg.Volatile
	}
	return &Paged{
		t:        t,
		volatile: volatile,
		page:     -1,
		cache:    make([]uint8, size),
		valid:    make([]bool, size),
	}
}

// NewPagedI2C returns a Paged map for the device at addr on the I²C bus b.
func NewPagedI2C(b i2c.Bus, addr uint16, cfg *Config) *Paged {
	d := &mmr.Dev8{Conn: &i2c.Dev{Bus: b, Addr: addr}, Order: binary.BigEndian}
	return NewPaged(d, cfg)
}

// Read returns the value of the register, from the cache when possible.
func (p *Paged) Read(a Addr) (uint8, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.read(a)
}

// Write writes the register and caches the value.
func (p *Paged) Write(a Addr, v uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(a, v)
}

// Update replaces the bits in mask with v.
//
// The write is skipped when the register already holds the value.
func (p *Paged) Update(a Addr, mask, v uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	old, err := p.read(a)
	if err != nil {
		return err
	}
	n := (old &^ mask) | (v & mask)
	if n == old {
		return nil
	}
	return p.write(a, n)
}

// ReadField returns the value of the field.
func (p *Paged) ReadField(f Field) (uint8, error) {
	v, err := p.Read(f.Addr)
	if err != nil {
		return 0, err
	}
	return f.Get(v), nil
}

// WriteField replaces the field with v, leaving the other bits alone.
func (p *Paged) WriteField(f Field, v uint8) error {
	return p.Update(f.Addr, f.Mask(), v<<f.Shift)
}

// SelectBook selects the book. It invalidates the cache since the cached
// values belong to the previous book.
func (p *Paged) SelectBook(book uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.selectPage(0); err != nil {
		return err
	}
	if err := p.t.WriteUint8(BookSelect, book); err != nil {
		return &BusError{Op: "write", Addr: BookSelect, Err: err}
	}
	p.invalidate()
	return nil
}

// Invalidate drops the cache and forgets the current page, for example after
// a device reset.
func (p *Paged) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidate()
	p.page = -1
}

// Cached returns the cached value of the register and whether it is valid.
func (p *Paged) Cached(a Addr) (uint8, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(a) >= len(p.cache) {
		return 0, false
	}
	return p.cache[a], p.valid[a]
}

//

func (p *Paged) invalidate() {
	for i := range p.valid {
		p.valid[i] = false
	}
}

func (p *Paged) check(a Addr) error {
	if int(a) >= len(p.cache) {
		return fmt.Errorf("regmap: address %d out of range [0, %d)", a, len(p.cache))
	}
	if a.Reg() == PageSelect {
		return fmt.Errorf("regmap: %s is the page select register", a)
	}
	return nil
}

// selectPage must be called with mu held.
func (p *Paged) selectPage(page uint8) error {
	if p.page == int(page) {
		return nil
	}
	if err := p.t.WriteUint8(PageSelect, page); err != nil {
		p.page = -1
		return &BusError{Op: "write", Addr: PageAddr(page, PageSelect), Err: err}
	}
	p.page = int(page)
	return nil
}

// read must be called with mu held.
func (p *Paged) read(a Addr) (uint8, error) {
	if err := p.check(a); err != nil {
		return 0, err
	}
	if p.valid[a] && (p.volatile == nil || !p.volatile(a)) {
		return p.cache[a], nil
	}
	if err := p.selectPage(a.Page()); err != nil {
		return 0, err
	}
	v, err := p.t.ReadUint8(a.Reg())
	if err != nil {
		return 0, &BusError{Op: "read", Addr: a, Err: err}
	}
	p.cache[a] = v
	p.valid[a] = true
	return v, nil
}

// write must be called with mu held.
func (p *Paged) write(a Addr, v uint8) error {
	if err := p.check(a); err != nil {
		return err
	}
	if err := p.selectPage(a.Page()); err != nil {
		return err
	}
	if err := p.t.WriteUint8(a.Reg(), v); err != nil {
		p.valid[a] = false
		return &BusError{Op: "write", Addr: a, Err: err}
	}
	p.cache[a] = v
	p.valid[a] = true
	return nil
}
