// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aic3262

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"periph.io/x/audio/v3/dai"
	"periph.io/x/audio/v3/dapm"
	"periph.io/x/audio/v3/regmap"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// fakeCodec emulates the register file; register 0 of every page selects the
// page and page 0 register 127 selects the book.
type fakeCodec struct {
	page   uint8
	book   uint8
	regs   map[int]uint8
	writes []string
	fail   error
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{regs: map[int]uint8{}}
}

func (f *fakeCodec) ReadUint8(reg uint8) (uint8, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	return f.regs[f.key(reg)], nil
}

func (f *fakeCodec) WriteUint8(reg uint8, v uint8) error {
	if f.fail != nil {
		return f.fail
	}
	switch {
	case reg == regmap.PageSelect:
		f.page = v
		f.writes = append(f.writes, fmt.Sprintf("page %d", v))
	case f.page == 0 && reg == regmap.BookSelect:
		f.book = v
		f.writes = append(f.writes, fmt.Sprintf("book %d", v))
	default:
		f.regs[f.key(reg)] = v
		f.writes = append(f.writes, fmt.Sprintf("%s=%#x", regmap.PageAddr(f.page, reg), v))
	}
	return nil
}

func (f *fakeCodec) key(reg uint8) int {
	return int(f.book)<<16 | int(regmap.PageAddr(f.page, reg))
}

func (f *fakeCodec) get(a regmap.Addr) uint8 {
	return f.regs[int(a)]
}

func newDevT(t *testing.T, opts *Opts) (*Dev, *fakeCodec) {
	f := newFakeCodec()
	d, err := New(f, opts)
	if err != nil {
		t.Fatal(err)
	}
	f.writes = nil
	return d, f
}

func TestNew_reset(t *testing.T) {
	f := newFakeCodec()
	d, err := New(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s := d.String(); s != "aic3262" {
		t.Fatal(s)
	}
	want := []string{"page 0", "P0/R1=0x1"}
	if !reflect.DeepEqual(f.writes, want) {
		t.Fatalf("got %q, want %q", f.writes, want)
	}
}

func TestNew_init(t *testing.T) {
	opts := Opts{
		Init: []RegValue{
			{Book: 0, Addr: RegPowerConf, Val: 0x8},
			{Book: 40, Addr: Page1 + 2, Val: 0x1},
			{Book: 0, Addr: RegCommonMode, Val: 0x2},
		},
	}
	f := newFakeCodec()
	if _, err := New(f, &opts); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"page 0", "P0/R1=0x1",
		"page 1", "P1/R1=0x8",
		"page 0", "book 40",
		"page 1", "P1/R2=0x1",
		"page 0", "book 0",
		"page 1", "P1/R8=0x2",
	}
	if !reflect.DeepEqual(f.writes, want) {
		t.Fatalf("got %q\nwant %q", f.writes, want)
	}
}

func TestNewI2C(t *testing.T) {
	bus := i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x18, W: []byte{0x00, 0x00}},
			{Addr: 0x18, W: []byte{0x01, 0x01}},
		},
		DontPanic: true,
	}
	if _, err := NewI2C(&bus, 0x18, &DefaultOpts); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNew_busError(t *testing.T) {
	f := newFakeCodec()
	f.fail = errors.New("nack")
	_, err := New(f, nil)
	var b *regmap.BusError
	if !errors.As(err, &b) {
		t.Fatalf("got %v", err)
	}
}

func TestSetClock_order(t *testing.T) {
	d, f := newDevT(t, nil)
	p, err := Solve(12*physic.MegaHertz, 48*physic.KiloHertz)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetClock(p); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"page 0",
		"P0/R4=0x33",
		"P0/R5=0x0",
		"P0/R6=0x11",
		"P0/R7=0x7",
		"P0/R8=0x6",
		"P0/R9=0x90",
		"P0/R6=0x91",
		"P0/R11=0x82",
		"P0/R12=0x87",
		"P0/R13=0x0",
		"P0/R14=0x80",
		"P0/R18=0x82",
		"P0/R19=0x87",
		"P0/R20=0x80",
		"page 4",
		"P4/R12=0x8e",
	}
	if !reflect.DeepEqual(f.writes, want) {
		t.Fatalf("got %q\nwant %q", f.writes, want)
	}
	if got := d.Profile(); got != p {
		t.Fatalf("Profile() = %s", &got)
	}
}

func TestSetClock_extra(t *testing.T) {
	d, f := newDevT(t, nil)
	p, err := Solve(12*physic.MegaHertz, 48*physic.KiloHertz)
	if err != nil {
		t.Fatal(err)
	}
	p.Extra = [MaxExtra]RegValue{
		{Addr: RegDACPRB, Val: 8},
		{Book: 40, Addr: Page1 + 5, Val: 0x10},
	}
	if err := d.SetClock(p); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"page 4",
		"P4/R12=0x8e",
		"page 0",
		"P0/R60=0x8",
		"book 40",
		"page 1",
		"P1/R5=0x10",
		"page 0",
		"book 0",
	}
	if got := f.writes[len(f.writes)-len(want):]; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if f.book != 0 || f.regs[40<<16|int(Page1+5)] != 0x10 {
		t.Fatalf("book %d regs %v", f.book, f.regs)
	}
	if got := d.Profile(); got != p {
		t.Fatalf("Profile() = %s", &got)
	}

	p.Extra[0] = RegValue{Addr: Page1 + regmap.PageSelect}
	if err := p.Validate(); err == nil {
		t.Fatal("page select accepted as extra write")
	}
}

func TestSetClock_wideDividers(t *testing.T) {
	d, f := newDevT(t, nil)
	p := ClockProfile{
		MCLK: 12 * physic.MegaHertz, Rate: 8 * physic.KiloHertz,
		P: 8, J: 7, D: 1680,
		DOSR: 1024, NDAC: 1, MDAC: 128,
		AOSR: 256, NADC: 1, MADC: 128,
		BClkN: 128,
	}
	// Not exact, so SetClock refuses it; setClock still encodes it.
	if err := d.SetClock(p); err == nil {
		t.Fatal("expected validation error")
	}
	if len(f.writes) != 0 {
		t.Fatalf("wrote %q", f.writes)
	}
	if err := d.setClock(&p); err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		a    regmap.Addr
		want uint8
	}{
		{RegPLLPR, 0x81},
		{RegMDAC, 0x80},
		{RegDOSRMSB, 0},
		{RegDOSRLSB, 0},
		{RegAOSR, 0},
		{RegASI1BClkN, 0x80},
	}
	for _, c := range checks {
		if v := f.get(c.a); v != c.want {
			t.Errorf("%s = %#x, want %#x", c.a, v, c.want)
		}
	}
}

func TestSetFormat(t *testing.T) {
	data := []struct {
		c      dai.Config
		fmt    uint8
		bwclk  uint8
		failed bool
	}{
		{dai.Config{Format: dai.I2S}, 0x00, 0x00, false},
		{dai.Config{Format: dai.DSPA, Width: 24}, 0x30, 0x00, false},
		{dai.Config{Format: dai.DSPB, Width: 32}, 0x38, 0x00, false},
		{dai.Config{Format: dai.RightJ, Width: 20}, 0x48, 0x00, false},
		{dai.Config{Format: dai.LeftJ, Role: dai.CodecMaster}, 0x60, 0x24, false},
		{dai.Config{Format: dai.I2S, Width: 18}, 0, 0, true},
		{dai.Config{Format: dai.Format(9)}, 0, 0, true},
	}
	for i, line := range data {
		d, f := newDevT(t, nil)
		err := d.SetFormat(line.c)
		if line.failed {
			if err == nil {
				t.Errorf("#%d: expected error", i)
			}
			continue
		}
		if err != nil {
			t.Fatalf("#%d: %v", i, err)
		}
		if v := f.get(RegASI1BusFmt); v != line.fmt {
			t.Errorf("#%d: ASI1_BUS_FMT = %#x, want %#x", i, v, line.fmt)
		}
		if v := f.get(RegASI1BWClkCtl); v != line.bwclk {
			t.Errorf("#%d: ASI1_BWCLK_CNTL = %#x, want %#x", i, v, line.bwclk)
		}
	}
}

func TestHWParams(t *testing.T) {
	d, f := newDevT(t, nil)
	if err := d.SetFormat(dai.Config{Format: dai.I2S}); err != nil {
		t.Fatal(err)
	}
	if err := d.HWParams(44100*physic.Hertz, 24); err != nil {
		t.Fatal(err)
	}
	if p := d.Profile(); p.D != 5264 || p.MDAC != 8 {
		t.Fatalf("got %s", &p)
	}
	if v := f.get(RegASI1BusFmt); v != 0x10 {
		t.Fatalf("ASI1_BUS_FMT = %#x", v)
	}
	if v := f.get(RegPLLDLSB); v != 5264&0xff {
		t.Fatalf("D LSB = %#x", v)
	}
}

func TestHWParams_unsupported(t *testing.T) {
	d, f := newDevT(t, nil)
	if err := d.HWParams(12*physic.KiloHertz, 16); !errors.Is(err, ErrUnsupportedRate) {
		t.Fatalf("got %v", err)
	}
	if len(f.writes) != 0 {
		t.Fatalf("wrote %q", f.writes)
	}
}

func TestHWParams_derive(t *testing.T) {
	d, _ := newDevT(t, &Opts{MCLK: 12 * physic.MegaHertz, Derive: true})
	if err := d.SetSysClk(24 * physic.MegaHertz); err != nil {
		t.Fatal(err)
	}
	if err := d.HWParams(24*physic.KiloHertz, 16); err != nil {
		t.Fatal(err)
	}
	if p := d.Profile(); p.DACRate() != 24*physic.KiloHertz {
		t.Fatalf("got %s", &p)
	}
	if err := d.SetSysClk(0); err == nil {
		t.Fatal("expected error")
	}
}

func TestWidgets(t *testing.T) {
	d, f := newDevT(t, nil)
	g := dapm.New()
	if err := g.AddWidgets(d.Widgets()...); err != nil {
		t.Fatal(err)
	}
	if err := g.AddRoutes(d.Routes()...); err != nil {
		t.Fatal(err)
	}
	if err := g.StreamStart("HPL"); err != nil {
		t.Fatal(err)
	}
	if v := f.get(RegDACDataPath); v != 0x80 {
		t.Fatalf("DAC power = %#x", v)
	}
	if v := f.get(RegHPAmp); v != 0x02 {
		t.Fatalf("HP power = %#x", v)
	}
	if err := g.StreamStart(ASI1Out); err != nil {
		t.Fatal(err)
	}
	if v := f.get(RegMicBias); v != 0x40 {
		t.Fatalf("mic bias = %#x", v)
	}
	if v := f.get(RegADCChannelPow); v != 0xc0 {
		t.Fatalf("ADC power = %#x", v)
	}
	if err := g.SetControl("IN1L Switch", false); err != nil {
		t.Fatal(err)
	}
	if g.Powered("IN1L") {
		t.Fatal("IN1L still powered")
	}
	if err := g.StreamStop(ASI1Out); err != nil {
		t.Fatal(err)
	}
	if err := g.StreamStop("HPL"); err != nil {
		t.Fatal(err)
	}
	for _, a := range []regmap.Addr{RegDACDataPath, RegHPAmp, RegMicBias, RegADCChannelPow} {
		if v := f.get(a); v != 0 {
			t.Errorf("%s = %#x after stop", a, v)
		}
	}
}
