// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dai defines the digital audio interface configuration shared by a
// CPU audio port and a codec.
package dai

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Format is the serial data format on the interface.
type Format uint8

const (
	I2S    Format = iota // Philips I²S
	LeftJ                // MSB justified
	RightJ               // LSB justified
	DSPA                 // DSP mode A, data one bit clock after frame sync
	DSPB                 // DSP mode B, data on frame sync
)

func (f Format) String() string {
	switch f {
	case I2S:
		return "I2S"
	case LeftJ:
		return "LeftJ"
	case RightJ:
		return "RightJ"
	case DSPA:
		return "DSP_A"
	case DSPB:
		return "DSP_B"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Role is the clock role of the codec on the interface.
type Role uint8

const (
	// CodecSlave means the CPU port drives bit clock and frame sync (CBS_CFS).
	CodecSlave Role = iota
	// CodecMaster means the codec drives bit clock and frame sync (CBM_CFM).
	CodecMaster
)

func (r Role) String() string {
	if r == CodecMaster {
		return "CBM_CFM"
	}
	return "CBS_CFS"
}

// Direction is the direction of an audio stream.
type Direction uint8

const (
	Playback Direction = iota
	Capture
)

func (d Direction) String() string {
	if d == Capture {
		return "capture"
	}
	return "playback"
}

// Config is the format negotiated on a DAI link. Both ends of the link get the
// same Config.
type Config struct {
	Format Format
	Role   Role
	// Width is the sample word length in bits. 0 means 16.
	Width int
}

func (c Config) String() string {
	return fmt.Sprintf("%s/%s/%dbit", c.Format, c.Role, c.WordLength())
}

// WordLength returns Width with the default applied.
func (c Config) WordLength() int {
	if c.Width == 0 {
		return 16
	}
	return c.Width
}

// Endpoint is one end of a DAI link.
type Endpoint interface {
	// SetFormat configures the serial format and clock role.
	SetFormat(c Config) error
	// SetSysClk tells the endpoint the frequency of its input master clock.
	SetSysClk(f physic.Frequency) error
}
