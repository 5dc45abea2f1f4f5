// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aic3262

import (
	"errors"
	"fmt"

	"periph.io/x/audio/v3/regmap"
	"periph.io/x/conn/v3/physic"
)

// ErrUnsupportedRate is returned when no divider set generates the requested
// sample rate exactly from the master clock.
var ErrUnsupportedRate = errors.New("aic3262: unsupported rate")

// ClockProfile is a complete divider set for one master clock and sample
// rate.
//
// The PLL generates CODEC_CLKIN = MCLK * J.D / P with R fixed to 1. The DAC
// sample rate is CODEC_CLKIN / (NDAC * MDAC * DOSR), the ADC sample rate is
// CODEC_CLKIN / (NADC * MADC * AOSR) and the ASI1 bit clock is
// CODEC_CLKIN / (NDAC * BClkN).
type ClockProfile struct {
	MCLK physic.Frequency
	Rate physic.Frequency

	P int // 1..8
	J int // 1..63
	D int // 0..9999

	DOSR int // 1..1024
	NDAC int // 1..128
	MDAC int // 1..128

	AOSR int // 1..256
	NADC int // 1..128
	MADC int // 1..128

	BClkN int // 1..128

	// Extra holds rate specific register writes applied after the dividers,
	// for example RegDACPRB and RegADCPRB. Entries with a zero Addr are
	// unused.
	Extra [MaxExtra]RegValue
}

// MaxExtra is the number of extra register writes a ClockProfile carries.
const MaxExtra = 2

func (c *ClockProfile) String() string {
	return fmt.Sprintf("%s/%s: P=%d J.D=%d.%04d DAC %d*%d*%d ADC %d*%d*%d BCLK/%d",
		c.MCLK, c.Rate, c.P, c.J, c.D, c.NDAC, c.MDAC, c.DOSR, c.NADC, c.MADC, c.AOSR, c.BClkN)
}

// CodecClock returns the PLL output feeding the DAC and ADC dividers.
//
// It is truncated to the hertz when the PLL ratio doesn't divide evenly;
// Validate rejects such profiles.
func (c *ClockProfile) CodecClock() physic.Frequency {
	hz, _ := c.codecHz()
	return physic.Frequency(hz) * physic.Hertz
}

// DACRate returns the DAC sample rate.
func (c *ClockProfile) DACRate() physic.Frequency {
	hz, _ := c.codecHz()
	return physic.Frequency(hz/int64(c.NDAC*c.MDAC*c.DOSR)) * physic.Hertz
}

// ADCRate returns the ADC sample rate.
func (c *ClockProfile) ADCRate() physic.Frequency {
	hz, _ := c.codecHz()
	return physic.Frequency(hz/int64(c.NADC*c.MADC*c.AOSR)) * physic.Hertz
}

// BitClock returns the ASI1 bit clock.
func (c *ClockProfile) BitClock() physic.Frequency {
	hz, _ := c.codecHz()
	return physic.Frequency(hz/int64(c.NDAC*c.BClkN)) * physic.Hertz
}

// FrameBits returns the number of bit clocks per frame.
func (c *ClockProfile) FrameBits() int {
	if c.Rate == 0 {
		return 0
	}
	return int(c.BitClock() / c.Rate)
}

// Validate checks that every divider fits its register and that the DAC, ADC
// and bit clocks are exact.
func (c *ClockProfile) Validate() error {
	checks := []struct {
		name      string
		v, lo, hi int
	}{
		{"P", c.P, 1, 8},
		{"J", c.J, 1, 63},
		{"D", c.D, 0, 9999},
		{"NDAC", c.NDAC, 1, 128},
		{"MDAC", c.MDAC, 1, 128},
		{"DOSR", c.DOSR, 1, 1024},
		{"NADC", c.NADC, 1, 128},
		{"MADC", c.MADC, 1, 128},
		{"AOSR", c.AOSR, 1, 256},
		{"BClkN", c.BClkN, 1, 128},
	}
	for _, ch := range checks {
		if ch.v < ch.lo || ch.v > ch.hi {
			return fmt.Errorf("aic3262: %s=%d out of range [%d, %d]", ch.name, ch.v, ch.lo, ch.hi)
		}
	}
	for _, e := range c.Extra {
		if e.Addr == 0 {
			continue
		}
		if e.Addr >= cacheSize || e.Addr.Reg() == regmap.PageSelect || (e.Book == 0 && e.Addr == Page0+regmap.BookSelect) {
			return fmt.Errorf("aic3262: %s: extra write to %s is not a register", c, e.Addr)
		}
	}
	mclk, ok1 := wholeHz(c.MCLK)
	rate, ok2 := wholeHz(c.Rate)
	if !ok1 || !ok2 || rate <= 0 {
		return fmt.Errorf("aic3262: %s: frequencies must be whole hertz", c)
	}
	if c.D != 0 {
		// The fractional PLL needs its reference within 10MHz and 20MHz.
		if in := mclk / int64(c.P); in < 10000000 || in > 20000000 {
			return fmt.Errorf("aic3262: %s: PLL reference %dHz out of range", c, in)
		}
	}
	cc, exact := c.codecHz()
	if !exact {
		return fmt.Errorf("aic3262: %s: PLL output is not a whole frequency", c)
	}
	if dac := int64(c.NDAC * c.MDAC * c.DOSR); cc%dac != 0 || cc/dac != rate {
		return fmt.Errorf("aic3262: %s: DAC rate %s is not exact", c, c.DACRate())
	}
	if adc := int64(c.NADC * c.MADC * c.AOSR); cc%adc != 0 || cc/adc != rate {
		return fmt.Errorf("aic3262: %s: ADC rate %s is not exact", c, c.ADCRate())
	}
	bclk := int64(c.NDAC * c.BClkN)
	if cc%bclk != 0 || (cc/bclk)%rate != 0 || (cc/bclk)/rate < 32 {
		return fmt.Errorf("aic3262: %s: bit clock %s is not a whole frame of at least 32 bits", c, c.BitClock())
	}
	return nil
}

// Solve returns the table profile for mclk and rate.
//
// The lookup is exact; it fails with ErrUnsupportedRate when the pair is not
// in the table.
func Solve(mclk, rate physic.Frequency) (ClockProfile, error) {
	for i := range profiles {
		if profiles[i].MCLK == mclk && profiles[i].Rate == rate {
			return profiles[i], nil
		}
	}
	return ClockProfile{}, fmt.Errorf("%w: mclk %s rate %s", ErrUnsupportedRate, mclk, rate)
}

// Profiles returns a copy of the clock table.
func Profiles() []ClockProfile {
	out := make([]ClockProfile, len(profiles))
	copy(out, profiles)
	return out
}

// Derive searches a divider set for a pair that is not in the table.
//
// PLL ratios are taken from a fixed list, then the oversampling ratio is the
// largest one keeping the modulator clock at or below 6.144MHz and the
// remaining division is split between the N and M dividers. The result is
// validated; it fails with ErrUnsupportedRate when nothing is exact.
func Derive(mclk, rate physic.Frequency) (ClockProfile, error) {
	mclkHz, ok1 := wholeHz(mclk)
	rateHz, ok2 := wholeHz(rate)
	if ok1 && ok2 && mclkHz > 0 && rateHz > 0 {
		for p := 1; p <= 8; p++ {
			for _, r := range pllRatios {
				c := ClockProfile{MCLK: mclk, Rate: rate, P: p, J: r.j, D: r.d}
				if derive(&c, rateHz) && c.Validate() == nil {
					return c, nil
				}
			}
		}
	}
	return ClockProfile{}, fmt.Errorf("%w: mclk %s rate %s", ErrUnsupportedRate, mclk, rate)
}

//

// maxModulator is the highest oversampled modulator clock, 128*48kHz.
const maxModulator = 6144000

// pllRatios are the J.D ratios tried by Derive, in order.
var pllRatios = []struct{ j, d int }{
	{7, 1680}, // 12MHz -> 86.016MHz
	{7, 5264}, // 12MHz -> 90.3168MHz
	{8, 1920}, // 12MHz -> 98.304MHz
	{7, 0},
	{8, 0},
	{6, 1440},
	{7, 3728},
}

var dosrSteps = []int{1024, 768, 512, 384, 256, 192, 128, 64, 32, 16, 8}

var aosrSteps = []int{128, 64, 32, 16, 8}

// derive fills the dividers of c for rate. It returns false when the PLL
// output can't be divided down exactly.
func derive(c *ClockProfile, rate int64) bool {
	cc, exact := c.codecHz()
	if !exact || cc%rate != 0 {
		return false
	}
	total := cc / rate
	if c.DOSR = pickOSR(total, rate, dosrSteps); c.DOSR == 0 {
		return false
	}
	if c.NDAC, c.MDAC = findDivisorExact(total/int64(c.DOSR), 128); c.NDAC == 0 {
		return false
	}
	if c.AOSR = pickOSR(total, rate, aosrSteps); c.AOSR == 0 {
		return false
	}
	if c.NADC, c.MADC = findDivisorExact(total/int64(c.AOSR), 128); c.NADC == 0 {
		return false
	}
	for _, frame := range []int64{64, 32} {
		div := int64(c.NDAC) * rate * frame
		if cc%div == 0 && cc/div <= 128 {
			c.BClkN = int(cc / div)
			return true
		}
	}
	return false
}

func pickOSR(total, rate int64, steps []int) int {
	for _, osr := range steps {
		if total%int64(osr) == 0 && int64(osr)*rate <= maxModulator {
			return osr
		}
	}
	return 0
}

// findDivisorExact splits n into a*b with both at most limit, preferring a=2
// then the smallest a.
func findDivisorExact(n int64, limit int) (int, int) {
	if n%2 == 0 && n/2 <= int64(limit) && n/2 > 0 {
		return 2, int(n / 2)
	}
	for a := 1; a <= limit; a++ {
		if n%int64(a) == 0 && n/int64(a) <= int64(limit) {
			return a, int(n / int64(a))
		}
	}
	return 0, 0
}

// codecHz returns CODEC_CLKIN in hertz and whether the division was exact.
func (c *ClockProfile) codecHz() (int64, bool) {
	mclk, _ := wholeHz(c.MCLK)
	if c.P <= 0 {
		return 0, false
	}
	num := mclk * int64(c.J*10000+c.D)
	den := int64(c.P) * 10000
	return num / den, num%den == 0
}

func wholeHz(f physic.Frequency) (int64, bool) {
	return int64(f / physic.Hertz), f%physic.Hertz == 0
}
