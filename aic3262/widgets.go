// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aic3262

import (
	"periph.io/x/audio/v3/dapm"
	"periph.io/x/audio/v3/regmap"
)

// Capture sink names. Playback streams name an output instead.
const (
	ASI1Out = "ASI1 OUT"
)

// Widgets returns the codec widgets. Power transitions flip the matching
// power bit in the register map.
func (d *Dev) Widgets() []dapm.Widget {
	bit := func(f regmap.Field) dapm.Handler {
		return &powerBit{regs: d.regs, f: f}
	}
	return []dapm.Widget{
		{Name: "IN1L", Kind: dapm.Input},
		{Name: "IN1R", Kind: dapm.Input},
		{Name: "Mic Bias", Kind: dapm.Supply, Handler: bit(fieldMicBias)},
		{Name: "Left MicPGA", Kind: dapm.PGA, Handler: bit(fieldMICLPGA)},
		{Name: "Right MicPGA", Kind: dapm.PGA, Handler: bit(fieldMICRPGA)},
		{Name: "Left ADC", Kind: dapm.ADC, Handler: bit(fieldADCLPower)},
		{Name: "Right ADC", Kind: dapm.ADC, Handler: bit(fieldADCRPower)},
		{Name: ASI1Out, Kind: dapm.Output},
		{Name: "Left DAC", Kind: dapm.DAC, Handler: bit(fieldDACLPower)},
		{Name: "Right DAC", Kind: dapm.DAC, Handler: bit(fieldDACRPower)},
		{Name: "HPL", Kind: dapm.Output, Handler: bit(fieldHPLPower)},
		{Name: "HPR", Kind: dapm.Output, Handler: bit(fieldHPRPower)},
		{Name: "LOL", Kind: dapm.Output, Handler: bit(fieldLOLPower)},
		{Name: "LOR", Kind: dapm.Output, Handler: bit(fieldLORPower)},
		{Name: "SPKL", Kind: dapm.Output, Handler: bit(fieldSPKLPower)},
		{Name: "SPKR", Kind: dapm.Output, Handler: bit(fieldSPKRPower)},
	}
}

// Routes returns the codec routes.
func (d *Dev) Routes() []dapm.Route {
	return []dapm.Route{
		{Sink: "Left MicPGA", Control: "IN1L Switch", Source: "IN1L"},
		{Sink: "Right MicPGA", Control: "IN1R Switch", Source: "IN1R"},
		{Sink: "Left MicPGA", Source: "Mic Bias"},
		{Sink: "Right MicPGA", Source: "Mic Bias"},
		{Sink: "Left ADC", Source: "Left MicPGA"},
		{Sink: "Right ADC", Source: "Right MicPGA"},
		{Sink: ASI1Out, Source: "Left ADC"},
		{Sink: ASI1Out, Source: "Right ADC"},

		{Sink: "HPL", Control: "HP DAC Switch", Source: "Left DAC"},
		{Sink: "HPR", Control: "HP DAC Switch", Source: "Right DAC"},
		{Sink: "LOL", Control: "LO DAC Switch", Source: "Left DAC"},
		{Sink: "LOR", Control: "LO DAC Switch", Source: "Right DAC"},
		{Sink: "SPKL", Control: "SPK Switch", Source: "Left DAC"},
		{Sink: "SPKR", Control: "SPK Switch", Source: "Right DAC"},
	}
}

type powerBit struct {
	regs *regmap.Paged
	f    regmap.Field
}

func (p *powerBit) Event(w dapm.Widget, on bool) error {
	v := uint8(0)
	if on {
		v = 1
	}
	return p.regs.WriteField(p.f, v)
}

var _ dapm.Handler = &powerBit{}
