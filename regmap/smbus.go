// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package regmap

import (
	"fmt"

	"github.com/platinasystems/i2c"
)

// SMBus is a Transport using SMBus byte data transfers on a Linux i2c-dev
// adapter.
//
// Each access opens the adapter, so it is slower than an mmr.Dev8 over a
// periph i2c bus but it works on adapters that only implement SMBus
// transfers.
type SMBus struct {
	Bus  int // i2c-dev adapter number, as in /dev/i2c-N
	Addr int // 7-bit slave address
}

// ReadUint8 implements Transport.
func (s *SMBus) ReadUint8(reg uint8) (uint8, error) {
	var v uint8
	err := i2c.Do(s.Bus, s.Addr, func(bus *i2c.Bus) error {
		var d i2c.SMBusData
		if err := bus.Read(reg, i2c.ByteData, &d); err != nil {
			return err
		}
		v = d[0]
		return nil
	})
	return v, err
}

// WriteUint8 implements Transport.
func (s *SMBus) WriteUint8(reg uint8, v uint8) error {
	return i2c.Do(s.Bus, s.Addr, func(bus *i2c.Bus) error {
		var d i2c.SMBusData
		d[0] = v
		return bus.Write(reg, i2c.ByteData, &d)
	})
}

func (s *SMBus) String() string {
	return fmt.Sprintf("smbus-%d@%#x", s.Bus, s.Addr)
}

var _ Transport = &SMBus{}
