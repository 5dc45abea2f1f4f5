// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package audio drives audio codecs from user space: clock planning for the
// TLV320AIC3262, power management of the codec signal paths, and the machine
// glue of a Tegra board with a WM8903.
//
// Subpackages:
//
//	regmap   paged and flat register maps with a write-through cache
//	dai      digital audio interface formats shared by both ends of a link
//	dapm     widget and route power graph
//	aic3262  TLV320AIC3262 codec and its clock solver
//	wm8903   WM8903 codec
//	tegra    Tegra + WM8903 machine driver
//	sysfs    clocks and regulators exposed by the kernel
package audio

import (
	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/host/v3"

	// Make sure the clock and regulator drivers are registered.
	_ "periph.io/x/audio/v3/sysfs"
)

// Init calls host.Init() and returns it as-is.
//
// The only difference is that by calling audio.Init(), you are guaranteed to
// have the sysfs clock and regulator drivers loaded along the host drivers.
func Init() (*driverreg.State, error) {
	return host.Init()
}
