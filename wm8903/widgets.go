// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wm8903

import "periph.io/x/audio/v3/dapm"

// CaptureSink is the widget capture streams start.
const CaptureSink = "AIF Capture"

// Widgets returns the codec widgets. Power transitions flip the matching
// enable bit.
func (d *Dev) Widgets() []dapm.Widget {
	bit := func(r Reg, mask uint16) dapm.Handler {
		return &powerBit{d: d, r: r, mask: mask}
	}
	return []dapm.Widget{
		{Name: "IN1L", Kind: dapm.Input},
		{Name: "IN1R", Kind: dapm.Input},
		{Name: "IN2L", Kind: dapm.Input},
		{Name: "IN2R", Kind: dapm.Input},
		{Name: "IN3L", Kind: dapm.Input},
		{Name: "IN3R", Kind: dapm.Input},

		{Name: "Mic Bias", Kind: dapm.Supply, Handler: bit(MicBiasControl0, uint16(MicBias(0).WithEnabled(true)))},
		{Name: "Charge Pump", Kind: dapm.Supply, Handler: bit(ChargePump0, CPEna)},

		{Name: "Left Input PGA", Kind: dapm.PGA, Handler: bit(PowerManagement0, INLEna)},
		{Name: "Right Input PGA", Kind: dapm.PGA, Handler: bit(PowerManagement0, INREna)},
		{Name: "ADCL", Kind: dapm.ADC, Handler: bit(PowerManagement6, ADCLEna)},
		{Name: "ADCR", Kind: dapm.ADC, Handler: bit(PowerManagement6, ADCREna)},
		{Name: CaptureSink, Kind: dapm.Output},

		{Name: "DACL", Kind: dapm.DAC, Handler: bit(PowerManagement6, DACLEna)},
		{Name: "DACR", Kind: dapm.DAC, Handler: bit(PowerManagement6, DACREna)},
		{Name: "Left Output Mixer", Kind: dapm.Mixer, Handler: bit(PowerManagement1, LeftEna)},
		{Name: "Right Output Mixer", Kind: dapm.Mixer, Handler: bit(PowerManagement1, RightEna)},
		{Name: "Left Speaker Mixer", Kind: dapm.Mixer, Handler: bit(PowerManagement4, LeftEna)},
		{Name: "Right Speaker Mixer", Kind: dapm.Mixer, Handler: bit(PowerManagement4, RightEna)},
		{Name: "Left Headphone Output PGA", Kind: dapm.PGA, Handler: bit(PowerManagement2, LeftEna)},
		{Name: "Right Headphone Output PGA", Kind: dapm.PGA, Handler: bit(PowerManagement2, RightEna)},
		{Name: "Left Line Output PGA", Kind: dapm.PGA, Handler: bit(PowerManagement3, LeftEna)},
		{Name: "Right Line Output PGA", Kind: dapm.PGA, Handler: bit(PowerManagement3, RightEna)},
		{Name: "Left Speaker PGA", Kind: dapm.PGA, Handler: bit(PowerManagement5, LeftEna)},
		{Name: "Right Speaker PGA", Kind: dapm.PGA, Handler: bit(PowerManagement5, RightEna)},

		{Name: "HPOUTL", Kind: dapm.Output},
		{Name: "HPOUTR", Kind: dapm.Output},
		{Name: "LINEOUTL", Kind: dapm.Output},
		{Name: "LINEOUTR", Kind: dapm.Output},
		{Name: "LOP", Kind: dapm.Output},
		{Name: "LON", Kind: dapm.Output},
		{Name: "ROP", Kind: dapm.Output},
		{Name: "RON", Kind: dapm.Output},
	}
}

// Routes returns the codec routes.
func (d *Dev) Routes() []dapm.Route {
	return []dapm.Route{
		{Sink: "Left Input PGA", Control: "IN1L Switch", Source: "IN1L"},
		{Sink: "Left Input PGA", Control: "IN2L Switch", Source: "IN2L"},
		{Sink: "Left Input PGA", Control: "IN3L Switch", Source: "IN3L"},
		{Sink: "Right Input PGA", Control: "IN1R Switch", Source: "IN1R"},
		{Sink: "Right Input PGA", Control: "IN2R Switch", Source: "IN2R"},
		{Sink: "Right Input PGA", Control: "IN3R Switch", Source: "IN3R"},
		{Sink: "Left Input PGA", Source: "Mic Bias"},
		{Sink: "Right Input PGA", Source: "Mic Bias"},
		{Sink: "ADCL", Source: "Left Input PGA"},
		{Sink: "ADCR", Source: "Right Input PGA"},
		{Sink: CaptureSink, Source: "ADCL"},
		{Sink: CaptureSink, Source: "ADCR"},

		{Sink: "Left Output Mixer", Control: "DACL Switch", Source: "DACL"},
		{Sink: "Left Output Mixer", Control: "Left Bypass Switch", Source: "Left Input PGA"},
		{Sink: "Right Output Mixer", Control: "DACR Switch", Source: "DACR"},
		{Sink: "Right Output Mixer", Control: "Right Bypass Switch", Source: "Right Input PGA"},
		{Sink: "Left Speaker Mixer", Control: "DACL Speaker Switch", Source: "DACL"},
		{Sink: "Right Speaker Mixer", Control: "DACR Speaker Switch", Source: "DACR"},

		{Sink: "Left Headphone Output PGA", Source: "Left Output Mixer"},
		{Sink: "Right Headphone Output PGA", Source: "Right Output Mixer"},
		{Sink: "Left Headphone Output PGA", Source: "Charge Pump"},
		{Sink: "Right Headphone Output PGA", Source: "Charge Pump"},
		{Sink: "Left Line Output PGA", Source: "Left Output Mixer"},
		{Sink: "Right Line Output PGA", Source: "Right Output Mixer"},
		{Sink: "Left Line Output PGA", Source: "Charge Pump"},
		{Sink: "Right Line Output PGA", Source: "Charge Pump"},
		{Sink: "Left Speaker PGA", Source: "Left Speaker Mixer"},
		{Sink: "Right Speaker PGA", Source: "Right Speaker Mixer"},

		{Sink: "HPOUTL", Source: "Left Headphone Output PGA"},
		{Sink: "HPOUTR", Source: "Right Headphone Output PGA"},
		{Sink: "LINEOUTL", Source: "Left Line Output PGA"},
		{Sink: "LINEOUTR", Source: "Right Line Output PGA"},
		{Sink: "LOP", Source: "Left Speaker PGA"},
		{Sink: "LON", Source: "Left Speaker PGA"},
		{Sink: "ROP", Source: "Right Speaker PGA"},
		{Sink: "RON", Source: "Right Speaker PGA"},
	}
}

// powerBit sets mask in r while the widget is powered.
type powerBit struct {
	d    *Dev
	r    Reg
	mask uint16
}

func (p *powerBit) Event(w dapm.Widget, on bool) error {
	if on {
		return p.d.SetBits(p.r, p.mask)
	}
	return p.d.ClearBits(p.r, p.mask)
}

var _ dapm.Handler = &powerBit{}
