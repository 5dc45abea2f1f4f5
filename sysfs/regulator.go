// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"periph.io/x/conn/v3/driver/driverreg"
)

// Regulators is all the regulators exposed through a userspace consumer,
// by supply name.
//
// This global variable is initialized once at driver initialization and isn't
// mutated afterward. Do not modify it.
var Regulators map[string]*Regulator

// RegulatorByName returns the regulator with the supply name.
func RegulatorByName(name string) (*Regulator, error) {
	if r, ok := Regulators[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("sysfs-regulator: unknown regulator %q", name)
}

// Regulator is a voltage regulator switched through its userspace consumer.
type Regulator struct {
	name string
	root string // Something like /sys/devices/platform/reg-userspace-consumer.0/

	mu sync.Mutex
}

// NewRegulator returns the regulator of the userspace consumer in dir.
func NewRegulator(dir string) (*Regulator, error) {
	name, err := readString(filepath.Join(dir, "name"))
	if err != nil {
		return nil, fmt.Errorf("sysfs-regulator: %w", err)
	}
	return &Regulator{name: name, root: dir}, nil
}

func (r *Regulator) String() string {
	return r.name
}

// Enable turns the supply on.
func (r *Regulator) Enable() error {
	return r.set("enabled")
}

// Disable releases the supply. It may stay on when other consumers use it.
func (r *Regulator) Disable() error {
	return r.set("disabled")
}

// Enabled reports whether the consumer holds the supply on.
func (r *Regulator) Enabled() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := readString(filepath.Join(r.root, "state"))
	if err != nil {
		return false, fmt.Errorf("sysfs-regulator: %s: %w", r.name, err)
	}
	switch s {
	case "enabled":
		return true, nil
	case "disabled":
		return false, nil
	default:
		return false, fmt.Errorf("sysfs-regulator: %s: unexpected state %q", r.name, s)
	}
}

func (r *Regulator) set(state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := writeString(filepath.Join(r.root, "state"), state); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("sysfs-regulator: need more access, try as root or setup udev rules: %w", err)
		}
		return fmt.Errorf("sysfs-regulator: %s: %w", r.name, err)
	}
	logf("sysfs-regulator: %s %s", r.name, state)
	return nil
}

//

// regulatorGlob matches the userspace consumer devices.
var regulatorGlob = "/sys/devices/platform/reg-userspace-consumer*"

// driverRegulator implements periph.Driver.
type driverRegulator struct {
}

func (d *driverRegulator) String() string {
	return "sysfs-regulator"
}

func (d *driverRegulator) Prerequisites() []string {
	return nil
}

func (d *driverRegulator) After() []string {
	return nil
}

// Init discovers the userspace consumers.
//
// Consumers are declared in the device tree with compatible
// "reg-userspace-consumer"; each one switches a single supply.
func (d *driverRegulator) Init() (bool, error) {
	items, err := filepath.Glob(regulatorGlob)
	if err != nil {
		return true, err
	}
	if len(items) == 0 {
		return false, errors.New("no userspace regulator consumer found")
	}
	sort.Strings(items)
	Regulators = map[string]*Regulator{}
	for _, item := range items {
		r, err := NewRegulator(item)
		if err != nil {
			return true, err
		}
		if _, ok := Regulators[r.name]; ok {
			return true, fmt.Errorf("found two regulators named %q", r.name)
		}
		Regulators[r.name] = r
	}
	return true, nil
}

func init() {
	if isLinux {
		driverreg.MustRegister(&drvRegulator)
	}
}

var drvRegulator driverRegulator
