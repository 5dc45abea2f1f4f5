// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aic3262

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/audio/v3/dai"
	"periph.io/x/audio/v3/regmap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// RegValue is a register write, used by Opts.Init at initialization and by
// ClockProfile.Extra after the clock is set.
type RegValue struct {
	Book uint8
	Addr regmap.Addr
	Val  uint8
}

// Opts holds the configuration for the codec.
type Opts struct {
	// MCLK is the frequency on the MCLK1 pin. It can be changed later with
	// SetSysClk.
	MCLK physic.Frequency
	// Derive makes HWParams compute the dividers when the master clock and
	// rate pair is not in the clock table, instead of failing.
	Derive bool
	// Init is written in order right after the soft reset.
	Init []RegValue
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{MCLK: 12 * physic.MegaHertz}

// Dev is a handle to a TLV320AIC3262.
type Dev struct {
	mu      sync.Mutex
	regs    *regmap.Paged
	opts    Opts
	cfg     dai.Config
	profile ClockProfile
}

// New returns a handle to the codec on the transport t and soft resets it.
func New(t regmap.Transport, opts *Opts) (*Dev, error) {
	return newDev(regmap.NewPaged(t, regConfig()), opts)
}

// NewI2C returns a handle to the codec at addr on the I²C bus b and soft
// resets it.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return newDev(regmap.NewPagedI2C(b, addr, regConfig()), opts)
}

func (d *Dev) String() string {
	return "aic3262"
}

// Regs returns the register map of the codec.
func (d *Dev) Regs() *regmap.Paged {
	return d.regs
}

// Reset soft resets the codec, drops the register cache and writes
// Opts.Init.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reset()
}

// SetSysClk implements dai.Endpoint.
func (d *Dev) SetSysClk(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("aic3262: invalid MCLK %s", f)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.MCLK = f
	return nil
}

// SetFormat implements dai.Endpoint.
//
// It programs the ASI1 interface mode, word length and bit and word clock
// directions.
func (d *Dev) SetFormat(c dai.Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setFormat(c); err != nil {
		return err
	}
	d.cfg = c
	return nil
}

// SetClock validates then applies the clock profile.
//
// The clock mux, PLL, DAC and ADC dividers and oversampling ratios are
// written first, then the ASI1 bit clock divider and the profile's extra
// writes.
func (d *Dev) SetClock(p ClockProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setClock(&p); err != nil {
		return err
	}
	d.profile = p
	return nil
}

// HWParams configures the codec for a stream at rate with samples of width
// bits.
func (d *Dev) HWParams(rate physic.Frequency, width int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, err := Solve(d.opts.MCLK, rate)
	if errors.Is(err, ErrUnsupportedRate) && d.opts.Derive {
		p, err = Derive(d.opts.MCLK, rate)
	}
	if err != nil {
		return err
	}
	logf("aic3262: %s", &p)
	if err := d.setClock(&p); err != nil {
		return err
	}
	d.profile = p
	c := d.cfg
	c.Width = width
	if err := d.setFormat(c); err != nil {
		return err
	}
	d.cfg = c
	return nil
}

// Profile returns the clock profile last applied.
func (d *Dev) Profile() ClockProfile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.profile
}

//

func newDev(regs *regmap.Paged, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{regs: regs, opts: *opts}
	if d.opts.MCLK == 0 {
		d.opts.MCLK = DefaultOpts.MCLK
	}
	if err := d.reset(); err != nil {
		return nil, err
	}
	return d, nil
}

func regConfig() *regmap.Config {
	return &regmap.Config{Size: cacheSize, Volatile: volatile}
}

func volatile(a regmap.Addr) bool {
	switch a {
	case RegReset, RegStickyFlag2, RegIntFlag2, RegHPDetect:
		return true
	default:
		return false
	}
}

func (d *Dev) reset() error {
	if err := d.regs.Write(RegReset, 1); err != nil {
		return err
	}
	d.regs.Invalidate()
	book := uint8(0)
	for _, r := range d.opts.Init {
		if r.Book != book {
			if err := d.regs.SelectBook(r.Book); err != nil {
				return err
			}
			book = r.Book
		}
		if err := d.regs.Write(r.Addr, r.Val); err != nil {
			return err
		}
	}
	if book != 0 {
		return d.regs.SelectBook(0)
	}
	return nil
}

func (d *Dev) setFormat(c dai.Config) error {
	var mode uint8
	switch c.Format {
	case dai.I2S:
		mode = modeI2S
	case dai.DSPA, dai.DSPB:
		mode = modeDSP
	case dai.RightJ:
		mode = modeRightJ
	case dai.LeftJ:
		mode = modeLeftJ
	default:
		return fmt.Errorf("aic3262: unsupported format %s", c.Format)
	}
	var wl uint8
	switch c.WordLength() {
	case 16:
		wl = wordLen16
	case 20:
		wl = wordLen20
	case 24:
		wl = wordLen24
	case 32:
		wl = wordLen32
	default:
		return fmt.Errorf("aic3262: unsupported word length %d", c.Width)
	}
	v := fieldASIWidth.Set(fieldASIFormat.Set(0, mode), wl)
	if err := d.regs.Update(RegASI1BusFmt, fieldASIFormat.Mask()|fieldASIWidth.Mask(), v); err != nil {
		return err
	}
	dir := uint8(0)
	if c.Role == dai.CodecMaster {
		dir = 1
	}
	v = fieldWClkDir.Set(fieldBClkDir.Set(0, dir), dir)
	return d.regs.Update(RegASI1BWClkCtl, fieldBClkDir.Mask()|fieldWClkDir.Mask(), v)
}

func (d *Dev) setClock(p *ClockProfile) error {
	pr := fieldPLLP.Set(fieldPLLR.Set(0, 1), uint8(p.P%8))
	writes := []struct {
		a regmap.Addr
		v uint8
	}{
		{RegClockMux, fieldDACClkIn.Set(fieldADCClkIn.Set(0, clkInPLL), clkInPLL)},
		{RegPLLClockIn, fieldPLLClkIn.Set(0, clkInMCLK1)},
		{RegPLLPR, pr},
		{RegPLLJ, fieldPLLJ.Set(0, uint8(p.J))},
		{RegPLLDMSB, fieldPLLDMSB.Set(0, uint8(p.D>>8))},
		{RegPLLDLSB, uint8(p.D)},
		{RegPLLPR, fieldPLLPower.Set(pr, 1)},
		{RegNDAC, divNDAC.encode(p.NDAC)},
		{RegMDAC, divMDAC.encode(p.MDAC)},
		{RegDOSRMSB, fieldDOSRMSB.Set(0, uint8(p.DOSR%1024>>8))},
		{RegDOSRLSB, uint8(p.DOSR)},
		{RegNADC, divNADC.encode(p.NADC)},
		{RegMADC, divMADC.encode(p.MADC)},
		{RegAOSR, uint8(p.AOSR % 256)},
		{RegASI1BClkN, divBClkN.encode(p.BClkN)},
	}
	for _, w := range writes {
		if err := d.regs.Write(w.a, w.v); err != nil {
			return err
		}
	}
	for _, e := range p.Extra {
		if e.Addr == 0 {
			continue
		}
		if err := d.writeExtra(e); err != nil {
			return err
		}
	}
	return nil
}

// writeExtra writes e, returning to book 0 afterward.
func (d *Dev) writeExtra(e RegValue) error {
	if e.Book == 0 {
		return d.regs.Write(e.Addr, e.Val)
	}
	if err := d.regs.SelectBook(e.Book); err != nil {
		return err
	}
	err := d.regs.Write(e.Addr, e.Val)
	if err2 := d.regs.SelectBook(0); err == nil {
		err = err2
	}
	return err
}

var _ dai.Endpoint = &Dev{}
