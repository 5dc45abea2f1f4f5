// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wm8903

import "strconv"

// Reg is a register address.
type Reg uint8

// Registers touched by this package.
const (
	SWReset            Reg = 0x00
	MicBiasControl0    Reg = 0x06
	PowerManagement0   Reg = 0x0C // input PGAs
	PowerManagement1   Reg = 0x0D // output mixers
	PowerManagement2   Reg = 0x0E // headphone PGAs
	PowerManagement3   Reg = 0x0F // line output PGAs
	PowerManagement4   Reg = 0x10 // speaker mixers
	PowerManagement5   Reg = 0x11 // speaker PGAs
	PowerManagement6   Reg = 0x12 // DACs and ADCs
	AudioInterface0    Reg = 0x18
	AudioInterface1    Reg = 0x19
	DACDigital0        Reg = 0x20 // sidetone
	ADCDigitalVolLeft  Reg = 0x24
	ADCDigitalVolRight Reg = 0x25
	ADCDigital0        Reg = 0x26
	DRC0               Reg = 0x28
	DRC1               Reg = 0x29
	AnalogueLeftIn0    Reg = 0x2C
	AnalogueRightIn0   Reg = 0x2D
	AnalogueLeftIn1    Reg = 0x2E
	AnalogueRightIn1   Reg = 0x2F
	ChargePump0        Reg = 0x62
	GPIOControl1       Reg = 0x74
	GPIOControl2       Reg = 0x75
	ClockRateTest4     Reg = 0xA4
)

var regNames = map[Reg]string{
	SWReset:            "SW_RESET",
	MicBiasControl0:    "MIC_BIAS_CONTROL_0",
	PowerManagement0:   "POWER_MANAGEMENT_0",
	PowerManagement1:   "POWER_MANAGEMENT_1",
	PowerManagement2:   "POWER_MANAGEMENT_2",
	PowerManagement3:   "POWER_MANAGEMENT_3",
	PowerManagement4:   "POWER_MANAGEMENT_4",
	PowerManagement5:   "POWER_MANAGEMENT_5",
	PowerManagement6:   "POWER_MANAGEMENT_6",
	AudioInterface0:    "AUDIO_INTERFACE_0",
	AudioInterface1:    "AUDIO_INTERFACE_1",
	DACDigital0:        "DAC_DIGITAL_0",
	ADCDigitalVolLeft:  "ADC_DIGITAL_VOLUME_LEFT",
	ADCDigitalVolRight: "ADC_DIGITAL_VOLUME_RIGHT",
	ADCDigital0:        "ADC_DIGITAL_0",
	DRC0:               "DRC_0",
	DRC1:               "DRC_1",
	AnalogueLeftIn0:    "ANALOGUE_LEFT_INPUT_0",
	AnalogueRightIn0:   "ANALOGUE_RIGHT_INPUT_0",
	AnalogueLeftIn1:    "ANALOGUE_LEFT_INPUT_1",
	AnalogueRightIn1:   "ANALOGUE_RIGHT_INPUT_1",
	ChargePump0:        "CHARGE_PUMP_0",
	GPIOControl1:       "GPIO_CONTROL_1",
	GPIOControl2:       "GPIO_CONTROL_2",
	ClockRateTest4:     "CLOCK_RATE_TEST_4",
}

func (r Reg) String() string {
	if s, ok := regNames[r]; ok {
		return s
	}
	return "R" + strconv.Itoa(int(r))
}
