// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tegra is the machine driver of a Tegra board with a WM8903 codec.
//
// A Card ties the codec, the digital audio switch (DAS) of the SoC and the
// board wiring together: it configures both ends of each DAI link, builds the
// power graph from the codec and machine widgets, and picks the capture mic
// for the current jack state.
//
// The mic choice is a MicPolicy. HeadsetPolicy uses the headset mic when a
// headset is plugged in and the internal digital mic otherwise. Each choice
// applies a fixed WM8903 register bundle and enables the matching mic pin in
// the graph.
//
// The master clock and the speaker amplifier supply come from package sysfs
// on a running system:
//
//	clk, err := sysfs.ClockByName("cdev1")
//	...
//	reg, err := sysfs.RegulatorByName("vdd_spk_amp")
//	...
//	c := tegra.New(codec, &tegra.StaticDAS{Clock: clk}, &tegra.Opts{
//		Board: tegra.Board{SpeakerEnable: spk, AmpSupply: reg},
//	})
package tegra
