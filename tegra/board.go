// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tegra

import (
	"errors"
	"fmt"

	"periph.io/x/audio/v3/dapm"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Clock is the master clock feeding the codec.
//
// *sysfs.Clock implements it.
type Clock interface {
	Rate() (physic.Frequency, error)
	Enable() error
	Disable() error
}

// Regulator is a switchable supply.
//
// *sysfs.Regulator implements it.
type Regulator interface {
	Enable() error
	Disable() error
}

// DSP is an external voice processor configured before playback.
type DSP interface {
	Configure() error
}

// DataFormat is the set of data formats a DAS port carries.
type DataFormat uint8

const (
	FormatI2S DataFormat = 1 << iota
	FormatDSP
)

// DAS is the digital audio switch connecting the CPU ports to the codecs.
type DAS interface {
	// PortMaster reports whether the codec drives the clocks of the link.
	PortMaster(l Link) bool
	// DataFormat returns the formats the link is wired for.
	DataFormat(l Link) DataFormat
	// PowerMode powers the switch while a stream runs.
	PowerMode(on bool) error
	// MCLK returns the codec master clock.
	MCLK() (Clock, error)
}

// StaticDAS is a DAS with a fixed configuration.
type StaticDAS struct {
	Masters map[Link]bool
	Formats map[Link]DataFormat
	Clock   Clock
}

// PortMaster implements DAS.
func (s *StaticDAS) PortMaster(l Link) bool {
	return s.Masters[l]
}

// DataFormat implements DAS.
func (s *StaticDAS) DataFormat(l Link) DataFormat {
	return s.Formats[l]
}

// PowerMode implements DAS.
func (s *StaticDAS) PowerMode(on bool) error {
	return nil
}

// MCLK implements DAS.
func (s *StaticDAS) MCLK() (Clock, error) {
	if s.Clock == nil {
		return nil, errors.New("no clock configured")
	}
	return s.Clock, nil
}

// Board is the wiring around the codec. Every field is optional; a nil pin
// is not connected.
type Board struct {
	SpeakerEnable gpio.PinOut
	IntMicEnable  gpio.PinOut
	ExtMicEnable  gpio.PinOut
	// AmpSupply powers the speaker amplifier.
	AmpSupply Regulator
}

// Device is a set of machine endpoints.
type Device uint32

// DeviceNone is the empty set. As a restriction it allows every device.
const DeviceNone Device = 0

const (
	DeviceHeadphone Device = 1 << iota
	DeviceHeadset
	DeviceLineout
	DeviceSpeaker
	DeviceIntMic
	DeviceExtMic
	DeviceLinein
)

func (d Device) allows(o Device) bool {
	return d == DeviceNone || d&o != 0
}

// Connection is the external control selection stored by
// Card.SetCodecConnection.
type Connection int

// ConnectionOff means no external connection.
const ConnectionOff Connection = 0

// Machine widgets.
const (
	Headphone = "Headphone"
	Headset   = "Headset"
	Lineout   = "Lineout"
	IntSpk    = "Int Spk"
	ExtMic    = "Ext Mic"
	IntMic    = "Int Mic"
	Linein    = "Linein"
)

func (b *Board) widgets() []dapm.Widget {
	return []dapm.Widget{
		{Name: Headphone, Kind: dapm.Headphone},
		{Name: Headset, Kind: dapm.Headphone},
		{Name: Lineout, Kind: dapm.Speaker},
		{Name: IntSpk, Kind: dapm.Speaker, Handler: &speaker{b: b}},
		{Name: ExtMic, Kind: dapm.Mic, Handler: &mic{own: b.ExtMicEnable, other: b.IntMicEnable}},
		{Name: IntMic, Kind: dapm.Mic, Handler: &mic{own: b.IntMicEnable, other: b.ExtMicEnable}},
		{Name: Linein, Kind: dapm.Line},
	}
}

// audioMap connects the machine widgets to the codec pins.
var audioMap = []dapm.Route{
	{Sink: Headphone, Source: "HPOUTR"},
	{Sink: Headphone, Source: "HPOUTL"},

	// in is IN1L, out is HPOUT
	{Sink: Headset, Source: "HPOUTR"},
	{Sink: Headset, Source: "HPOUTL"},
	{Sink: "IN1L", Source: Headset},

	{Sink: Lineout, Source: "LINEOUTR"},
	{Sink: Lineout, Source: "LINEOUTL"},

	{Sink: IntSpk, Source: "RON"},
	{Sink: IntSpk, Source: "ROP"},
	{Sink: IntSpk, Source: "LON"},
	{Sink: IntSpk, Source: "LOP"},

	// The internal mic is mono, the external one stereo.
	{Sink: "IN1L", Source: IntMic},
	{Sink: "IN1L", Source: ExtMic},
	{Sink: "IN1R", Source: ExtMic},

	{Sink: "IN3L", Source: Linein},
	{Sink: "IN3R", Source: Linein},
}

// speaker drives the amplifier of the internal speaker.
//
// ampOn is only touched from Event, which the graph serializes.
type speaker struct {
	b     *Board
	ampOn bool
}

func (s *speaker) Event(w dapm.Widget, on bool) error {
	if s.b.SpeakerEnable == nil {
		return nil
	}
	if r := s.b.AmpSupply; r != nil {
		if on && !s.ampOn {
			if err := r.Enable(); err != nil {
				return fmt.Errorf("amp supply: %w", err)
			}
			s.ampOn = true
		} else if !on && s.ampOn {
			if err := r.Disable(); err != nil {
				return fmt.Errorf("amp supply: %w", err)
			}
			s.ampOn = false
		}
	}
	return s.b.SpeakerEnable.Out(gpio.Level(on))
}

// mic selects one mic and deselects the other.
type mic struct {
	own, other gpio.PinOut
}

func (m *mic) Event(w dapm.Widget, on bool) error {
	if m.own != nil {
		if err := m.own.Out(gpio.Level(on)); err != nil {
			return err
		}
	}
	if m.other != nil {
		return m.other.Out(gpio.Level(!on))
	}
	return nil
}

var _ Clock = FixedClock(0)
var _ DAS = &StaticDAS{}
