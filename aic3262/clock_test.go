// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aic3262

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestProfiles_valid(t *testing.T) {
	p := Profiles()
	if len(p) != 20 {
		t.Fatalf("got %d profiles, want 20", len(p))
	}
	for i := range p {
		if err := p[i].Validate(); err != nil {
			t.Errorf("#%d: %v", i, err)
		}
		if r := p[i].DACRate(); r != p[i].Rate {
			t.Errorf("%s: DAC rate %s", &p[i], r)
		}
		if r := p[i].ADCRate(); r != p[i].Rate {
			t.Errorf("%s: ADC rate %s", &p[i], r)
		}
	}
	// Profiles returns a copy.
	p[0].NDAC = 99
	if Profiles()[0].NDAC == 99 {
		t.Fatal("Profiles() leaked the table")
	}
}

func TestSolve_table(t *testing.T) {
	for _, want := range Profiles() {
		got, err := Solve(want.MCLK, want.Rate)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("Solve(%s, %s) = %s, want %s", want.MCLK, want.Rate, &got, &want)
		}
	}
}

func TestSolve_48k(t *testing.T) {
	p, err := Solve(12*physic.MegaHertz, 48*physic.KiloHertz)
	if err != nil {
		t.Fatal(err)
	}
	if p.NDAC != 2 || p.MDAC != 7 || p.DOSR != 128 {
		t.Fatalf("got NDAC=%d MDAC=%d DOSR=%d", p.NDAC, p.MDAC, p.DOSR)
	}
	if c := p.CodecClock(); c != 86016*physic.KiloHertz {
		t.Fatalf("codec clock %s", c)
	}
	if r := p.DACRate(); r != 48*physic.KiloHertz {
		t.Fatalf("DAC rate %s", r)
	}
	if b := p.BitClock(); b != 3072*physic.KiloHertz {
		t.Fatalf("bit clock %s", b)
	}
	if f := p.FrameBits(); f != 64 {
		t.Fatalf("frame %d", f)
	}
}

func TestSolve_24MHz(t *testing.T) {
	a, err := Solve(12*physic.MegaHertz, 44100*physic.Hertz)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Solve(24*physic.MegaHertz, 44100*physic.Hertz)
	if err != nil {
		t.Fatal(err)
	}
	if b.P != 2 {
		t.Fatalf("P=%d", b.P)
	}
	if a.CodecClock() != b.CodecClock() {
		t.Fatalf("%s != %s", a.CodecClock(), b.CodecClock())
	}
}

func TestSolve_unsupported(t *testing.T) {
	data := []struct {
		mclk, rate physic.Frequency
	}{
		{12 * physic.MegaHertz, 12 * physic.KiloHertz},
		{12 * physic.MegaHertz, 176400 * physic.Hertz},
		{19200 * physic.KiloHertz, 48 * physic.KiloHertz},
		{12288 * physic.KiloHertz, 48 * physic.KiloHertz},
		{0, 0},
	}
	for _, line := range data {
		if _, err := Solve(line.mclk, line.rate); !errors.Is(err, ErrUnsupportedRate) {
			t.Errorf("Solve(%s, %s): got %v", line.mclk, line.rate, err)
		}
	}
}

func TestValidate(t *testing.T) {
	good, err := Solve(12*physic.MegaHertz, 48*physic.KiloHertz)
	if err != nil {
		t.Fatal(err)
	}
	data := []func(p *ClockProfile){
		func(p *ClockProfile) { p.P = 0 },
		func(p *ClockProfile) { p.J = 64 },
		func(p *ClockProfile) { p.D = 10000 },
		func(p *ClockProfile) { p.NDAC = 129 },
		func(p *ClockProfile) { p.DOSR = 1025 },
		func(p *ClockProfile) { p.AOSR = 0 },
		func(p *ClockProfile) { p.MDAC = 8 },
		func(p *ClockProfile) { p.MADC = 6 },
		func(p *ClockProfile) { p.BClkN = 13 },
		func(p *ClockProfile) { p.BClkN = 56 }, // 16 bit frame
		func(p *ClockProfile) { p.D = 1681 },
		func(p *ClockProfile) { p.MCLK = 24 * physic.MegaHertz },
		func(p *ClockProfile) { p.Rate = 0 },
	}
	for i, f := range data {
		p := good
		f(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("#%d: %s passed validation", i, &p)
		}
	}
}

func TestDerive(t *testing.T) {
	for _, want := range Profiles() {
		got, err := Derive(want.MCLK, want.Rate)
		if err != nil {
			t.Fatalf("Derive(%s, %s): %v", want.MCLK, want.Rate, err)
		}
		if err := got.Validate(); err != nil {
			t.Fatal(err)
		}
		if got.DACRate() != want.Rate || got.ADCRate() != want.Rate {
			t.Fatalf("Derive(%s, %s) = %s", want.MCLK, want.Rate, &got)
		}
	}
}

func TestDerive_12MHz_48k(t *testing.T) {
	got, err := Derive(12*physic.MegaHertz, 48*physic.KiloHertz)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Solve(12*physic.MegaHertz, 48*physic.KiloHertz)
	if got != want {
		t.Fatalf("got %s, want %s", &got, &want)
	}
}

func TestDerive_unsupported(t *testing.T) {
	if _, err := Derive(12*physic.MegaHertz, 7*physic.Hertz); !errors.Is(err, ErrUnsupportedRate) {
		t.Fatal(err)
	}
	if _, err := Derive(0, 48*physic.KiloHertz); !errors.Is(err, ErrUnsupportedRate) {
		t.Fatal(err)
	}
}
