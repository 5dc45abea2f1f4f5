// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3/distro"
)

// Clocks is all the clocks found in the clock framework debugfs tree, by
// name.
//
// This global variable is initialized once at driver initialization and isn't
// mutated afterward. Do not modify it.
var Clocks map[string]*Clock

// ClockByName returns the clock with the name.
func ClockByName(name string) (*Clock, error) {
	if c, ok := Clocks[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("sysfs-clk: unknown clock %q", name)
}

// Clock is a clock as exposed in debugfs.
type Clock struct {
	name string
	root string // Something like /sys/kernel/debug/clk/cdev1/

	mu sync.Mutex
}

// NewClock returns the clock described by the debugfs directory dir.
func NewClock(dir string) *Clock {
	return &Clock{name: filepath.Base(dir), root: dir}
}

func (c *Clock) String() string {
	return c.name
}

// Rate returns the current clock rate.
func (c *Clock) Rate() (physic.Frequency, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hz, err := readInt(filepath.Join(c.root, "clk_rate"))
	if err != nil {
		return 0, fmt.Errorf("sysfs-clk: %s: %w", c.name, err)
	}
	return physic.Frequency(hz) * physic.Hertz, nil
}

// Enable prepares and enables the clock.
func (c *Clock) Enable() error {
	return c.set("1")
}

// Disable disables and unprepares the clock.
func (c *Clock) Disable() error {
	return c.set("0")
}

// EnableCount returns the number of users that enabled the clock.
func (c *Clock) EnableCount() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := readInt(filepath.Join(c.root, "clk_enable_count"))
	if err != nil {
		return 0, fmt.Errorf("sysfs-clk: %s: %w", c.name, err)
	}
	return int(n), nil
}

func (c *Clock) set(v string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := writeString(filepath.Join(c.root, "clk_prepare_enable"), v); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("sysfs-clk: %s: kernel doesn't allow clock writes from debugfs", c.name)
		}
		return fmt.Errorf("sysfs-clk: %s: %w", c.name, err)
	}
	return nil
}

//

// clockRoot is the clock framework debugfs tree.
var clockRoot = "/sys/kernel/debug/clk"

// driverClock implements periph.Driver.
type driverClock struct {
}

func (d *driverClock) String() string {
	return "sysfs-clk"
}

func (d *driverClock) Prerequisites() []string {
	return nil
}

func (d *driverClock) After() []string {
	return nil
}

// Init lists the clocks with a readable rate.
//
// debugfs is only readable by root, so a permission error is reported rather
// than skipping the driver.
func (d *driverClock) Init() (bool, error) {
	items, err := filepath.Glob(filepath.Join(clockRoot, "*", "clk_rate"))
	if err != nil {
		return true, err
	}
	if len(items) == 0 {
		if _, err := os.Stat(clockRoot); os.IsPermission(err) {
			return true, fmt.Errorf("need more access, try as root: %w", err)
		}
		return false, errors.New("no clock found in debugfs")
	}
	logf("sysfs-clk: %d clocks on %q", len(items), distro.DTModel())
	Clocks = map[string]*Clock{}
	for _, item := range items {
		c := NewClock(filepath.Dir(item))
		Clocks[c.name] = c
	}
	return true, nil
}

func init() {
	if isLinux {
		driverreg.MustRegister(&drvClock)
	}
}

var drvClock driverClock
