// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package wm8903 controls a Wolfson WM8903 audio codec over I²C.
//
// Only the registers needed for DAI setup, power sequencing and microphone
// selection are defined. Register values are typed (GPIOControl, AIF1, ...)
// so fields are set by name rather than by shift.
package wm8903

import (
	"fmt"
	"sync"

	"periph.io/x/audio/v3/dai"
	"periph.io/x/audio/v3/regmap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddr is the I²C address with CSB low.
const DefaultAddr = 0x1A

// Params are the board tuning values.
type Params struct {
	// HeadsetMicVolume is the input PGA gain code used with the analog
	// headset mic, 0 to 31.
	HeadsetMicVolume uint16
	// DMICADCVolume is the ADC digital volume used with the digital mic.
	// 0xC0 is 0dB, each step is 0.375dB.
	DMICADCVolume uint16
}

// DefaultParams are the values for a headset mic at +18dB and a digital mic
// at +17.625dB.
var DefaultParams = Params{
	HeadsetMicVolume: 0x1B,
	DMICADCVolume:    0xEF,
}

// Dev is a handle to a WM8903.
type Dev struct {
	mu     sync.Mutex
	regs   *regmap.Flat16
	sysclk physic.Frequency
}

// New returns a handle to the codec on the transport t.
func New(t regmap.WordTransport) *Dev {
	return &Dev{regs: regmap.NewFlat16(t, volatile)}
}

// NewI2C returns a handle to the codec at addr on the I²C bus b.
func NewI2C(b i2c.Bus, addr uint16) *Dev {
	return &Dev{regs: regmap.NewFlat16I2C(b, addr, volatile)}
}

func (d *Dev) String() string {
	return "wm8903"
}

// Reset resets every register to its default and drops the cache.
func (d *Dev) Reset() error {
	if err := d.regs.Write(uint8(SWReset), 0); err != nil {
		return err
	}
	d.regs.Invalidate()
	return nil
}

// Read returns the register value.
func (d *Dev) Read(r Reg) (uint16, error) {
	return d.regs.Read(uint8(r))
}

// Write writes the register.
func (d *Dev) Write(r Reg, v uint16) error {
	logf("wm8903: %s = %#04x", r, v)
	return d.regs.Write(uint8(r), v)
}

// Update replaces the bits in mask with v.
func (d *Dev) Update(r Reg, mask, v uint16) error {
	return d.regs.Update(uint8(r), mask, v)
}

// SetBits sets the bits in mask.
func (d *Dev) SetBits(r Reg, mask uint16) error {
	return d.regs.Update(uint8(r), mask, mask)
}

// ClearBits clears the bits in mask.
func (d *Dev) ClearBits(r Reg, mask uint16) error {
	return d.regs.Update(uint8(r), mask, 0)
}

// SetFormat implements dai.Endpoint.
func (d *Dev) SetFormat(c dai.Config) error {
	var a AIF1
	switch c.Format {
	case dai.I2S:
		a = a.WithFormat(AIFI2S)
	case dai.LeftJ:
		a = a.WithFormat(AIFLeftJ)
	case dai.RightJ:
		a = a.WithFormat(AIFRightJ)
	case dai.DSPA:
		a = a.WithFormat(AIFDSP)
	case dai.DSPB:
		a = a.WithFormat(AIFDSP).WithLRCLKInv(true)
	default:
		return fmt.Errorf("wm8903: unsupported format %s", c.Format)
	}
	switch c.WordLength() {
	case 16:
		a = a.WithWordLength(0)
	case 20:
		a = a.WithWordLength(1)
	case 24:
		a = a.WithWordLength(2)
	case 32:
		a = a.WithWordLength(3)
	default:
		return fmt.Errorf("wm8903: unsupported word length %d", c.Width)
	}
	master := c.Role == dai.CodecMaster
	a = a.WithBCLKOut(master).WithLRCLKOut(master)
	mask := AIF1(0).WithFormat(3).WithWordLength(3).WithLRCLKInv(true).WithBCLKOut(true).WithLRCLKOut(true)
	return d.Update(AudioInterface1, uint16(mask), uint16(a))
}

// SetSysClk implements dai.Endpoint.
func (d *Dev) SetSysClk(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("wm8903: invalid MCLK %s", f)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sysclk = f
	return nil
}

// SysClk returns the frequency set with SetSysClk.
func (d *Dev) SysClk() physic.Frequency {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sysclk
}

//

func volatile(reg uint8) bool {
	return Reg(reg) == SWReset
}

var _ dai.Endpoint = &Dev{}
