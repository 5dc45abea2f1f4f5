// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"periph.io/x/conn/v3/driver/driverreg"
)

// Switches is all the switch class devices, by name. The headphone jack
// driver of Android kernels registers one named "h2w".
//
// This global variable is initialized once at driver initialization and isn't
// mutated afterward. Do not modify it.
var Switches map[string]*Switch

// SwitchByName returns the switch with the name.
func SwitchByName(name string) (*Switch, error) {
	if s, ok := Switches[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("sysfs-switch: unknown switch %q", name)
}

// Switch is a switch class device reporting an integer state.
type Switch struct {
	name string
	root string // Something like /sys/class/switch/h2w/

	mu sync.Mutex
}

// NewSwitch returns the switch in dir.
func NewSwitch(dir string) *Switch {
	return &Switch{name: filepath.Base(dir), root: dir}
}

func (s *Switch) String() string {
	return s.name
}

// State returns the current state. Its meaning is defined by the driver.
func (s *Switch) State() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := readInt(filepath.Join(s.root, "state"))
	if err != nil {
		return 0, fmt.Errorf("sysfs-switch: %s: %w", s.name, err)
	}
	return int(n), nil
}

//

var switchRoot = "/sys/class/switch"

// driverSwitch implements periph.Driver.
type driverSwitch struct {
}

func (d *driverSwitch) String() string {
	return "sysfs-switch"
}

func (d *driverSwitch) Prerequisites() []string {
	return nil
}

func (d *driverSwitch) After() []string {
	return nil
}

func (d *driverSwitch) Init() (bool, error) {
	items, err := filepath.Glob(filepath.Join(switchRoot, "*", "state"))
	if err != nil {
		return true, err
	}
	if len(items) == 0 {
		return false, errors.New("no switch found")
	}
	Switches = map[string]*Switch{}
	for _, item := range items {
		s := NewSwitch(filepath.Dir(item))
		Switches[s.name] = s
	}
	return true, nil
}

func init() {
	if isLinux {
		driverreg.MustRegister(&drvSwitch)
	}
}

var drvSwitch driverSwitch
