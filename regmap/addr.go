// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regmap implements cached register maps over a register transport.
//
// Paged is for codecs with 8-bit registers split into pages of 128 registers
// where register 0 of every page selects the active page. Flat16 is for codecs
// with 8-bit addresses and 16-bit values.
//
// Both maps keep a write-through cache so read-modify-write sequences only
// hit the bus once per register, and both wrap transport failures in a
// *BusError that names the register.
package regmap

import "fmt"

// PageSize is the number of registers in one page.
const PageSize = 128

// PageSelect is the register that selects the active page. It exists at
// offset 0 of every page.
const PageSelect = 0

// BookSelect is the register of page 0 that selects the active book.
const BookSelect = 127

// Addr is a flattened page/register address within one book.
//
// Page n register r is n*PageSize + r, so page 1 starts at 128 and page 4 at
// 512.
type Addr uint16

// PageAddr returns the flattened address of register reg in page page.
func PageAddr(page, reg uint8) Addr {
	return Addr(page)*PageSize + Addr(reg&(PageSize-1))
}

// Page returns the page holding the register.
func (a Addr) Page() uint8 {
	return uint8(a / PageSize)
}

// Reg returns the register offset within its page.
func (a Addr) Reg() uint8 {
	return uint8(a % PageSize)
}

func (a Addr) String() string {
	return fmt.Sprintf("P%d/R%d", a.Page(), a.Reg())
}

// Field is a bit field within one 8-bit register.
type Field struct {
	Addr  Addr
	Shift uint8
	Width uint8
}

// Mask returns the mask of the field in the register.
func (f Field) Mask() uint8 {
	return uint8((1<<f.Width)-1) << f.Shift
}

// Get extracts the field from a register value.
func (f Field) Get(reg uint8) uint8 {
	return (reg & f.Mask()) >> f.Shift
}

// Set returns reg with the field replaced by v. Bits of v outside the field
// width are dropped.
func (f Field) Set(reg, v uint8) uint8 {
	return SetBits(reg, uint8(1<<f.Width-1), uint(f.Shift), v)
}

// SetBits returns r with the bits mask<<shift replaced by v<<shift.
func SetBits[T ~uint8 | ~uint16](r, mask T, shift uint, v T) T {
	return (r &^ (mask << shift)) | ((v & mask) << shift)
}
