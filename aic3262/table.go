// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aic3262

import "periph.io/x/conn/v3/physic"

// profiles is the clock table.
//
// The 48kHz family runs the PLL at J.D=7.1680 for an 86.016MHz CODEC_CLKIN
// with NDAC=2 MDAC=7, the 44.1kHz family at J.D=7.5264 for 90.3168MHz with
// NDAC=2 MDAC=8. A 24MHz MCLK uses P=2 to land on the same PLL reference.
// Every rate gets a 64 bit frame except 192kHz which gets 32.
var profiles = []ClockProfile{
	{MCLK: 12 * physic.MegaHertz, Rate: 8 * physic.KiloHertz, P: 1, J: 7, D: 1680, DOSR: 768, NDAC: 2, MDAC: 7, AOSR: 128, NADC: 7, MADC: 12, BClkN: 84},
	{MCLK: 12 * physic.MegaHertz, Rate: 11025 * physic.Hertz, P: 1, J: 7, D: 5264, DOSR: 512, NDAC: 2, MDAC: 8, AOSR: 128, NADC: 8, MADC: 8, BClkN: 64},
	{MCLK: 12 * physic.MegaHertz, Rate: 16 * physic.KiloHertz, P: 1, J: 7, D: 1680, DOSR: 384, NDAC: 2, MDAC: 7, AOSR: 128, NADC: 2, MADC: 21, BClkN: 42},
	{MCLK: 12 * physic.MegaHertz, Rate: 22050 * physic.Hertz, P: 1, J: 7, D: 5264, DOSR: 256, NDAC: 2, MDAC: 8, AOSR: 128, NADC: 4, MADC: 8, BClkN: 32},
	{MCLK: 12 * physic.MegaHertz, Rate: 32 * physic.KiloHertz, P: 1, J: 7, D: 1680, DOSR: 192, NDAC: 2, MDAC: 7, AOSR: 128, NADC: 3, MADC: 7, BClkN: 21},
	{MCLK: 12 * physic.MegaHertz, Rate: 44100 * physic.Hertz, P: 1, J: 7, D: 5264, DOSR: 128, NDAC: 2, MDAC: 8, AOSR: 128, NADC: 2, MADC: 8, BClkN: 16},
	{MCLK: 12 * physic.MegaHertz, Rate: 48 * physic.KiloHertz, P: 1, J: 7, D: 1680, DOSR: 128, NDAC: 2, MDAC: 7, AOSR: 128, NADC: 2, MADC: 7, BClkN: 14},
	{MCLK: 12 * physic.MegaHertz, Rate: 88200 * physic.Hertz, P: 1, J: 7, D: 5264, DOSR: 64, NDAC: 2, MDAC: 8, AOSR: 64, NADC: 2, MADC: 8, BClkN: 8},
	{MCLK: 12 * physic.MegaHertz, Rate: 96 * physic.KiloHertz, P: 1, J: 7, D: 1680, DOSR: 64, NDAC: 2, MDAC: 7, AOSR: 64, NADC: 2, MADC: 7, BClkN: 7},
	{MCLK: 12 * physic.MegaHertz, Rate: 192 * physic.KiloHertz, P: 1, J: 7, D: 1680, DOSR: 32, NDAC: 2, MDAC: 7, AOSR: 32, NADC: 2, MADC: 7, BClkN: 7},
	{MCLK: 24 * physic.MegaHertz, Rate: 8 * physic.KiloHertz, P: 2, J: 7, D: 1680, DOSR: 768, NDAC: 2, MDAC: 7, AOSR: 128, NADC: 7, MADC: 12, BClkN: 84},
	{MCLK: 24 * physic.MegaHertz, Rate: 11025 * physic.Hertz, P: 2, J: 7, D: 5264, DOSR: 512, NDAC: 2, MDAC: 8, AOSR: 128, NADC: 8, MADC: 8, BClkN: 64},
	{MCLK: 24 * physic.MegaHertz, Rate: 16 * physic.KiloHertz, P: 2, J: 7, D: 1680, DOSR: 384, NDAC: 2, MDAC: 7, AOSR: 128, NADC: 2, MADC: 21, BClkN: 42},
	{MCLK: 24 * physic.MegaHertz, Rate: 22050 * physic.Hertz, P: 2, J: 7, D: 5264, DOSR: 256, NDAC: 2, MDAC: 8, AOSR: 128, NADC: 4, MADC: 8, BClkN: 32},
	{MCLK: 24 * physic.MegaHertz, Rate: 32 * physic.KiloHertz, P: 2, J: 7, D: 1680, DOSR: 192, NDAC: 2, MDAC: 7, AOSR: 128, NADC: 3, MADC: 7, BClkN: 21},
	{MCLK: 24 * physic.MegaHertz, Rate: 44100 * physic.Hertz, P: 2, J: 7, D: 5264, DOSR: 128, NDAC: 2, MDAC: 8, AOSR: 128, NADC: 2, MADC: 8, BClkN: 16},
	{MCLK: 24 * physic.MegaHertz, Rate: 48 * physic.KiloHertz, P: 2, J: 7, D: 1680, DOSR: 128, NDAC: 2, MDAC: 7, AOSR: 128, NADC: 2, MADC: 7, BClkN: 14},
	{MCLK: 24 * physic.MegaHertz, Rate: 88200 * physic.Hertz, P: 2, J: 7, D: 5264, DOSR: 64, NDAC: 2, MDAC: 8, AOSR: 64, NADC: 2, MADC: 8, BClkN: 8},
	{MCLK: 24 * physic.MegaHertz, Rate: 96 * physic.KiloHertz, P: 2, J: 7, D: 1680, DOSR: 64, NDAC: 2, MDAC: 7, AOSR: 64, NADC: 2, MADC: 7, BClkN: 7},
	{MCLK: 24 * physic.MegaHertz, Rate: 192 * physic.KiloHertz, P: 2, J: 7, D: 1680, DOSR: 32, NDAC: 2, MDAC: 7, AOSR: 32, NADC: 2, MADC: 7, BClkN: 7},
}
