// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wm8903

import "periph.io/x/audio/v3/regmap"

// Register values are typed per register; each field has a getter and a With
// method returning the updated value.

func bit(v uint16, shift uint) bool {
	return v&(1<<shift) != 0
}

func withBit(v uint16, shift uint, on bool) uint16 {
	b := uint16(0)
	if on {
		b = 1
	}
	return regmap.SetBits(v, 1, shift, b)
}

// GPIOControl is the value of GPIO_CONTROL_1 to GPIO_CONTROL_5.
type GPIOControl uint16

// GPIO pin functions.
const (
	GPIOFnInput   = 0x0
	GPIOFnDMICIn  = 0x6 // DMIC data input on GPIO1
	GPIOFnDMICClk = 0x6 // DMIC clock output on GPIO2
)

// Fn returns the pin function.
func (g GPIOControl) Fn() uint16 { return uint16(g) >> 8 & 0x1F }

// WithFn returns g with the pin function set to fn.
func (g GPIOControl) WithFn(fn uint16) GPIOControl {
	return GPIOControl(regmap.SetBits(uint16(g), 0x1F, 8, fn))
}

// Input reports whether the pin is an input.
func (g GPIOControl) Input() bool { return bit(uint16(g), 7) }

// WithInput returns g with the pin direction set to input when in is true.
func (g GPIOControl) WithInput(in bool) GPIOControl {
	return GPIOControl(withBit(uint16(g), 7, in))
}

// InputCMOS reports whether the input is CMOS rather than Schmitt.
func (g GPIOControl) InputCMOS() bool { return bit(uint16(g), 5) }

// WithInputCMOS returns g with CMOS input levels selected when on is true.
func (g GPIOControl) WithInputCMOS(on bool) GPIOControl {
	return GPIOControl(withBit(uint16(g), 5, on))
}

// PullDown reports whether the pull down is enabled.
func (g GPIOControl) PullDown() bool { return bit(uint16(g), 3) }

// WithPullDown returns g with the pull down set.
func (g GPIOControl) WithPullDown(on bool) GPIOControl {
	return GPIOControl(withBit(uint16(g), 3, on))
}

// PullUp reports whether the pull up is enabled.
func (g GPIOControl) PullUp() bool { return bit(uint16(g), 2) }

// WithPullUp returns g with the pull up set.
func (g GPIOControl) WithPullUp(on bool) GPIOControl {
	return GPIOControl(withBit(uint16(g), 2, on))
}

// MicBias is the value of MIC_BIAS_CONTROL_0.
type MicBias uint16

// Enabled reports whether the mic bias is on.
func (m MicBias) Enabled() bool { return bit(uint16(m), 0) }

// WithEnabled returns m with the mic bias switched on or off.
func (m MicBias) WithEnabled(on bool) MicBias { return MicBias(withBit(uint16(m), 0, on)) }

// Detect reports whether mic current detection is enabled.
func (m MicBias) Detect() bool { return bit(uint16(m), 1) }

// WithDetect returns m with mic current detection set.
func (m MicBias) WithDetect(on bool) MicBias { return MicBias(withBit(uint16(m), 1, on)) }

// AIF0 is the value of AUDIO_INTERFACE_0, the digital routing of the audio
// interface.
type AIF0 uint16

// ADCLFromRight reports whether the left ADC channel carries right data.
func (a AIF0) ADCLFromRight() bool { return bit(uint16(a), 7) }

// WithADCLFromRight returns a with the left ADC channel source set.
func (a AIF0) WithADCLFromRight(on bool) AIF0 { return AIF0(withBit(uint16(a), 7, on)) }

// ADCRFromLeft reports whether the right ADC channel carries left data.
func (a AIF0) ADCRFromLeft() bool { return bit(uint16(a), 6) }

// WithADCRFromLeft returns a with the right ADC channel source set.
func (a AIF0) WithADCRFromLeft(on bool) AIF0 { return AIF0(withBit(uint16(a), 6, on)) }

// DACLFromRight reports whether the left DAC takes right channel data.
func (a AIF0) DACLFromRight() bool { return bit(uint16(a), 5) }

// WithDACLFromRight returns a with the left DAC source set.
func (a AIF0) WithDACLFromRight(on bool) AIF0 { return AIF0(withBit(uint16(a), 5, on)) }

// DACRFromLeft reports whether the right DAC takes left channel data.
func (a AIF0) DACRFromLeft() bool { return bit(uint16(a), 4) }

// WithDACRFromLeft returns a with the right DAC source set.
func (a AIF0) WithDACRFromLeft(on bool) AIF0 { return AIF0(withBit(uint16(a), 4, on)) }

// AIF1 is the value of AUDIO_INTERFACE_1, the audio interface format.
type AIF1 uint16

// Audio interface formats.
const (
	AIFRightJ = 0x0
	AIFLeftJ  = 0x1
	AIFI2S    = 0x2
	AIFDSP    = 0x3
)

// Format returns the interface format, one of the AIF constants.
func (a AIF1) Format() uint16 { return uint16(a) & 0x3 }

// WithFormat returns a with the interface format set to f.
func (a AIF1) WithFormat(f uint16) AIF1 { return AIF1(regmap.SetBits(uint16(a), 0x3, 0, f)) }

// WordLength returns the word length field: 0 for 16 bits up to 3 for 32.
func (a AIF1) WordLength() uint16 { return uint16(a) >> 2 & 0x3 }

// WithWordLength returns a with the word length field set to wl.
func (a AIF1) WithWordLength(wl uint16) AIF1 { return AIF1(regmap.SetBits(uint16(a), 0x3, 2, wl)) }

// LRCLKInv selects DSP mode B when the format is DSP.
func (a AIF1) LRCLKInv() bool { return bit(uint16(a), 4) }

// WithLRCLKInv returns a with the LRCLK polarity set.
func (a AIF1) WithLRCLKInv(on bool) AIF1 { return AIF1(withBit(uint16(a), 4, on)) }

// BCLKOut reports whether the codec drives BCLK.
func (a AIF1) BCLKOut() bool { return bit(uint16(a), 6) }

// WithBCLKOut returns a with BCLK driven by the codec when on is true.
func (a AIF1) WithBCLKOut(on bool) AIF1 { return AIF1(withBit(uint16(a), 6, on)) }

// LRCLKOut reports whether the codec drives LRCLK.
func (a AIF1) LRCLKOut() bool { return bit(uint16(a), 9) }

// WithLRCLKOut returns a with LRCLK driven by the codec when on is true.
func (a AIF1) WithLRCLKOut(on bool) AIF1 { return AIF1(withBit(uint16(a), 9, on)) }

// InputPGA0 is the value of ANALOGUE_LEFT_INPUT_0 and ANALOGUE_RIGHT_INPUT_0.
type InputPGA0 uint16

// Volume is the PGA gain code, 0 to 31.
func (i InputPGA0) Volume() uint16 { return uint16(i) & 0x1F }

// WithVolume returns i with the gain code set to v.
func (i InputPGA0) WithVolume(v uint16) InputPGA0 {
	return InputPGA0(regmap.SetBits(uint16(i), 0x1F, 0, v))
}

// Muted reports whether the PGA is muted.
func (i InputPGA0) Muted() bool { return bit(uint16(i), 7) }

// WithMuted returns i muted or unmuted.
func (i InputPGA0) WithMuted(on bool) InputPGA0 { return InputPGA0(withBit(uint16(i), 7, on)) }

// InputPGA1 is the value of ANALOGUE_LEFT_INPUT_1 and ANALOGUE_RIGHT_INPUT_1.
type InputPGA1 uint16

// Input PGA modes.
const (
	InputSingleEnded  = 0x0
	InputDifferential = 0x1
	InputDiffMic      = 0x2
)

// Mode returns the PGA mode, one of the Input constants.
func (i InputPGA1) Mode() uint16 { return uint16(i) & 0x3 }

// WithMode returns i with the PGA mode set to m.
func (i InputPGA1) WithMode(m uint16) InputPGA1 {
	return InputPGA1(regmap.SetBits(uint16(i), 0x3, 0, m))
}

// PosInput is the non-inverting input: 0 for IN1, 1 for IN2, 2 for IN3.
func (i InputPGA1) PosInput() uint16 { return uint16(i) >> 2 & 0x3 }

// WithPosInput returns i with the non-inverting input set to n.
func (i InputPGA1) WithPosInput(n uint16) InputPGA1 {
	return InputPGA1(regmap.SetBits(uint16(i), 0x3, 2, n))
}

// NegInput is the inverting input: 0 for IN1, 1 for IN2, 2 for IN3.
func (i InputPGA1) NegInput() uint16 { return uint16(i) >> 4 & 0x3 }

// WithNegInput returns i with the inverting input set to n.
func (i InputPGA1) WithNegInput(n uint16) InputPGA1 {
	return InputPGA1(regmap.SetBits(uint16(i), 0x3, 4, n))
}

// CommonMode reports whether common mode rejection is enabled.
func (i InputPGA1) CommonMode() bool { return bit(uint16(i), 6) }

// WithCommonMode returns i with common mode rejection set.
func (i InputPGA1) WithCommonMode(on bool) InputPGA1 {
	return InputPGA1(withBit(uint16(i), 6, on))
}

// Power bits.
const (
	// PowerManagement0
	INLEna = 1 << 1
	INREna = 1 << 0
	// PowerManagement1 to PowerManagement5 use bit 1 for left and 0 for right.
	LeftEna  = 1 << 1
	RightEna = 1 << 0
	// PowerManagement6
	DACLEna = 1 << 3
	DACREna = 1 << 2
	ADCLEna = 1 << 1
	ADCREna = 1 << 0
	// ChargePump0
	CPEna = 1 << 0
	// DRC0
	DRCEna = 1 << 15
	// ADCDigital0
	ADCHPFEna = 1 << 4
	// ClockRateTest4
	DigMic = 1 << 9
	// ADCDigitalVolLeft and ADCDigitalVolRight
	ADCVU = 1 << 8
)
