// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aic3262

import "periph.io/x/audio/v3/regmap"

// Page base addresses. A register address is its page base plus its offset.
const (
	Page0 regmap.Addr = 0
	Page1 regmap.Addr = 128
	Page4 regmap.Addr = 512
)

// cacheSize covers pages 0 to 7 of book 0.
const cacheSize = 1024

// Page 0: clocks, interrupts, digital processing.
const (
	RegReset         = Page0 + 1
	RegClockMux      = Page0 + 4 // DAC and ADC CODEC_CLKIN
	RegPLLClockIn    = Page0 + 5 // PLL_CLKIN and range
	RegPLLPR         = Page0 + 6
	RegPLLJ          = Page0 + 7
	RegPLLDMSB       = Page0 + 8
	RegPLLDLSB       = Page0 + 9
	RegNDAC          = Page0 + 11
	RegMDAC          = Page0 + 12
	RegDOSRMSB       = Page0 + 13
	RegDOSRLSB       = Page0 + 14
	RegNADC          = Page0 + 18
	RegMADC          = Page0 + 19
	RegAOSR          = Page0 + 20
	RegStickyFlag2   = Page0 + 44
	RegIntFlag2      = Page0 + 46
	RegDACPRB        = Page0 + 60
	RegADCPRB        = Page0 + 61
	RegDACDataPath   = Page0 + 63
	RegHPDetect      = Page0 + 67
	RegADCChannelPow = Page0 + 81
)

// Page 1: analog power and routing.
const (
	RegPowerConf  = Page1 + 1
	RegCommonMode = Page1 + 8
	RegLineAmp    = Page1 + 22
	RegHPAmp      = Page1 + 27
	RegSpkAmp     = Page1 + 45
	RegMicBias    = Page1 + 51
	RegMICLPGA    = Page1 + 59
	RegMICRPGA    = Page1 + 60
)

// Page 4: audio serial interface 1.
const (
	RegASI1BusFmt   = Page4 + 1
	RegASI1BWClkCtl = Page4 + 10
	RegASI1BClkN    = Page4 + 12
)

// Clock tree fields.
var (
	fieldDACClkIn = regmap.Field{Addr: RegClockMux, Shift: 4, Width: 4}
	fieldADCClkIn = regmap.Field{Addr: RegClockMux, Shift: 0, Width: 4}
	fieldPLLClkIn = regmap.Field{Addr: RegPLLClockIn, Shift: 2, Width: 4}
	fieldPLLPower = regmap.Field{Addr: RegPLLPR, Shift: 7, Width: 1}
	fieldPLLP     = regmap.Field{Addr: RegPLLPR, Shift: 4, Width: 3}
	fieldPLLR     = regmap.Field{Addr: RegPLLPR, Shift: 0, Width: 4}
	fieldPLLJ     = regmap.Field{Addr: RegPLLJ, Shift: 0, Width: 6}
	fieldPLLDMSB  = regmap.Field{Addr: RegPLLDMSB, Shift: 0, Width: 6}
	fieldDOSRMSB  = regmap.Field{Addr: RegDOSRMSB, Shift: 0, Width: 2}
)

// divider is a power bit plus a 7 bit divider value where 0 means 128, the
// layout shared by NDAC, MDAC, NADC, MADC and the ASI bit clock divider.
type divider regmap.Addr

func (d divider) power() regmap.Field {
	return regmap.Field{Addr: regmap.Addr(d), Shift: 7, Width: 1}
}

func (d divider) value() regmap.Field {
	return regmap.Field{Addr: regmap.Addr(d), Shift: 0, Width: 7}
}

// encode returns the register value powering the divider with n.
func (d divider) encode(n int) uint8 {
	return d.power().Set(d.value().Set(0, uint8(n%128)), 1)
}

const (
	divNDAC  = divider(RegNDAC)
	divMDAC  = divider(RegMDAC)
	divNADC  = divider(RegNADC)
	divMADC  = divider(RegMADC)
	divBClkN = divider(RegASI1BClkN)
)

// Clock mux sources.
const (
	clkInMCLK1 = 0
	clkInPLL   = 3
)

// ASI1 bus format fields.
var (
	fieldASIFormat = regmap.Field{Addr: RegASI1BusFmt, Shift: 5, Width: 3}
	fieldASIWidth  = regmap.Field{Addr: RegASI1BusFmt, Shift: 3, Width: 2}
	fieldBClkDir   = regmap.Field{Addr: RegASI1BWClkCtl, Shift: 2, Width: 1}
	fieldWClkDir   = regmap.Field{Addr: RegASI1BWClkCtl, Shift: 5, Width: 1}
)

// ASI1 interface modes.
const (
	modeI2S    = 0x00
	modeDSP    = 0x01
	modeRightJ = 0x02
	modeLeftJ  = 0x03
)

// ASI1 word lengths.
const (
	wordLen16 = 0x00
	wordLen20 = 0x01
	wordLen24 = 0x02
	wordLen32 = 0x03
)

// Analog power bits driven by the widget events.
var (
	fieldDACLPower = regmap.Field{Addr: RegDACDataPath, Shift: 7, Width: 1}
	fieldDACRPower = regmap.Field{Addr: RegDACDataPath, Shift: 6, Width: 1}
	fieldADCLPower = regmap.Field{Addr: RegADCChannelPow, Shift: 7, Width: 1}
	fieldADCRPower = regmap.Field{Addr: RegADCChannelPow, Shift: 6, Width: 1}
	fieldHPLPower  = regmap.Field{Addr: RegHPAmp, Shift: 1, Width: 1}
	fieldHPRPower  = regmap.Field{Addr: RegHPAmp, Shift: 0, Width: 1}
	fieldLOLPower  = regmap.Field{Addr: RegLineAmp, Shift: 1, Width: 1}
	fieldLORPower  = regmap.Field{Addr: RegLineAmp, Shift: 0, Width: 1}
	fieldSPKLPower = regmap.Field{Addr: RegSpkAmp, Shift: 1, Width: 1}
	fieldSPKRPower = regmap.Field{Addr: RegSpkAmp, Shift: 0, Width: 1}
	fieldMicBias   = regmap.Field{Addr: RegMicBias, Shift: 6, Width: 1}
	fieldMICLPGA   = regmap.Field{Addr: RegMICLPGA, Shift: 7, Width: 1}
	fieldMICRPGA   = regmap.Field{Addr: RegMICRPGA, Shift: 7, Width: 1}
)
