// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package aic3262 controls a Texas Instruments TLV320AIC3262 audio codec over
// I²C.
//
// The codec runs its converters from CODEC_CLKIN, generated by the PLL from
// MCLK. Solve looks up the PLL and divider settings for a master clock and a
// sample rate in a fixed table; Derive computes them for other pairs.
//
// Registers are paged: page n register r has address n*128+r.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/tlv320aic3262.pdf
package aic3262
