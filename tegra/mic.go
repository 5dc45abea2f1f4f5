// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tegra

import (
	"fmt"

	"periph.io/x/audio/v3/wm8903"
)

// MicType is the microphone feeding the capture path.
type MicType uint8

const (
	// MicDigital is the internal digital mic on GPIO1/GPIO2.
	MicDigital MicType = iota
	// MicAnalog is the headset mic on IN1.
	MicAnalog
	// MicInactive means no capture path is configured.
	MicInactive
)

func (m MicType) String() string {
	switch m {
	case MicDigital:
		return "digital"
	case MicAnalog:
		return "analog"
	case MicInactive:
		return "inactive"
	default:
		return fmt.Sprintf("MicType(%d)", uint8(m))
	}
}

// Jack is the state of the headphone jack.
type Jack struct {
	Present bool
	// Headset is true when the plug has a mic ring.
	Headset bool
}

func (j Jack) String() string {
	switch {
	case !j.Present:
		return "unplugged"
	case j.Headset:
		return "headset"
	default:
		return "headphone"
	}
}

// MicPolicy picks the capture mic for a jack state.
type MicPolicy interface {
	Select(j Jack) MicType
}

// MicPolicyFunc adapts a function to a MicPolicy.
type MicPolicyFunc func(j Jack) MicType

// Select implements MicPolicy.
func (f MicPolicyFunc) Select(j Jack) MicType {
	return f(j)
}

// HeadsetPolicy uses the headset mic when a headset is plugged in and the
// internal digital mic otherwise.
var HeadsetPolicy MicPolicy = MicPolicyFunc(func(j Jack) MicType {
	if j.Present && j.Headset {
		return MicAnalog
	}
	return MicDigital
})

// op is one register access of a configuration bundle. A plain write when
// mask is 0, a read-modify-write of the bits in mask otherwise.
type op struct {
	r    wm8903.Reg
	mask uint16
	v    uint16
}

func write(r wm8903.Reg, v uint16) op        { return op{r: r, v: v} }
func setBits(r wm8903.Reg, mask uint16) op   { return op{r: r, mask: mask, v: mask} }
func clearBits(r wm8903.Reg, mask uint16) op { return op{r: r, mask: mask} }

func apply(d *wm8903.Dev, ops []op) error {
	for _, o := range ops {
		var err error
		if o.mask == 0 {
			err = d.Write(o.r, o.v)
		} else {
			err = d.Update(o.r, o.mask, o.v)
		}
		if err != nil {
			return fmt.Errorf("tegra: %s: %w", o.r, err)
		}
	}
	return nil
}

// analogMicBundle routes the differential headset mic on IN1 and turns the
// GPIOs used by the digital mic back into inputs.
func analogMicBundle(p wm8903.Params) []op {
	gpio := wm8903.GPIOControl(0).WithFn(wm8903.GPIOFnInput).WithInput(true).WithInputCMOS(true).WithPullDown(true)
	pga := wm8903.InputPGA1(0).WithMode(wm8903.InputDiffMic).WithPosInput(1)
	vol := wm8903.InputPGA0(0).WithVolume(p.HeadsetMicVolume)
	bias := wm8903.MicBias(0).WithEnabled(true).WithDetect(true)
	return []op{
		write(wm8903.GPIOControl1, uint16(gpio)),
		write(wm8903.GPIOControl2, uint16(gpio)),
		write(wm8903.ClockRateTest4, 0),
		write(wm8903.AnalogueLeftIn0, uint16(wm8903.InputPGA0(0).WithVolume(7))),
		write(wm8903.AnalogueRightIn0, uint16(wm8903.InputPGA0(0).WithVolume(7))),
		write(wm8903.MicBiasControl0, uint16(bias)),
		setBits(wm8903.DRC0, wm8903.DRCEna),
		write(wm8903.AnalogueLeftIn1, uint16(pga)),
		write(wm8903.AnalogueRightIn1, uint16(pga)),
		write(wm8903.AnalogueLeftIn0, uint16(vol)),
		write(wm8903.AnalogueRightIn0, uint16(vol)),
		// Left ADC data on both channels.
		clearBits(wm8903.AudioInterface0, uint16(wm8903.AIF0(0).WithADCLFromRight(true).WithADCRFromLeft(true))),
	}
}

// digitalMicBundle switches GPIO1/GPIO2 to the digital mic data and clock.
func digitalMicBundle(p wm8903.Params) []op {
	aif := wm8903.AIF0(0).WithADCRFromLeft(true).WithDACRFromLeft(true)
	data := wm8903.GPIOControl(0).WithFn(wm8903.GPIOFnDMICIn).WithInputCMOS(true).WithPullDown(true)
	clk := wm8903.GPIOControl(0).WithFn(wm8903.GPIOFnDMICClk).WithInput(true).WithInputCMOS(true).WithPullDown(true)
	return []op{
		write(wm8903.AudioInterface0, uint16(aif)),
		write(wm8903.GPIOControl1, uint16(data)),
		write(wm8903.GPIOControl2, uint16(clk)),
		write(wm8903.ClockRateTest4, wm8903.DigMic),
		write(wm8903.ADCDigitalVolLeft, p.DMICADCVolume|wm8903.ADCVU),
		write(wm8903.ADCDigitalVolRight, p.DMICADCVolume|wm8903.ADCVU),
	}
}

// captureTail is common to both mics.
var captureTail = []op{
	write(wm8903.PowerManagement0, wm8903.INLEna),
	setBits(wm8903.ADCDigital0, wm8903.ADCHPFEna),
	write(wm8903.DACDigital0, 0), // sidetone off
	setBits(wm8903.PowerManagement6, wm8903.ADCLEna),
	setBits(wm8903.DRC1, 0x3), // +18dB
}

func micBundle(m MicType, p wm8903.Params) []op {
	var ops []op
	if m == MicAnalog {
		ops = analogMicBundle(p)
	} else {
		ops = digitalMicBundle(p)
	}
	return append(ops, captureTail...)
}

// H2WJack converts the state of an h2w switch to a Jack: 1 is a headset, 2
// a headphone without mic.
func H2WJack(state int) Jack {
	switch state {
	case 1:
		return Jack{Present: true, Headset: true}
	case 2:
		return Jack{Present: true}
	default:
		return Jack{}
	}
}
