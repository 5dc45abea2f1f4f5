// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfs implements regulator, clock and switch handles backed by the
// Linux sysfs and debugfs file systems.
//
// Regulators are exposed by the reg-userspace-consumer platform driver, one
// directory per consumer holding a name and a state file. Clocks are read
// from the common clock framework debugfs tree; enabling them requires a
// kernel built with CLOCK_ALLOW_WRITE_DEBUGFS. Switches are the switch class
// devices, like the h2w headphone jack.
//
// They are discovered by drivers registered with driverreg, so calling
// host.Init() or audio.Init() populates Regulators, Clocks and Switches.
package sysfs
