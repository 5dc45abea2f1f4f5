// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tegra

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/audio/v3/dai"
	"periph.io/x/audio/v3/dapm"
	"periph.io/x/audio/v3/wm8903"
	"periph.io/x/conn/v3/physic"
)

// ErrMissingClockSource is returned by Card.Init when the DAS has no master
// clock for the codec.
var ErrMissingClockSource = errors.New("tegra: missing clock source")

var errNotInit = errors.New("tegra: card not initialized")

// Link is a DAI link of the card.
type Link uint8

const (
	HiFi  Link = iota // CPU I²S port 0 to the WM8903
	Voice             // CPU I²S port 1 to the bluetooth or modem codec
	SPDIF             // S/PDIF transmitter
)

func (l Link) String() string {
	switch l {
	case HiFi:
		return "hifi"
	case Voice:
		return "voice"
	case SPDIF:
		return "spdif"
	default:
		return fmt.Sprintf("Link(%d)", uint8(l))
	}
}

// Session is the routing state of the card.
type Session struct {
	PlayDevice    Device
	CaptureDevice Device
	CallMode      bool
	CodecCon      Connection
	Jack          Jack
	// Mic is the mic selected by the last capture HWParams.
	Mic MicType
}

// Opts is the card configuration.
type Opts struct {
	Board Board
	// Policy picks the capture mic. Defaults to HeadsetPolicy.
	Policy MicPolicy
	Params wm8903.Params
	// DSP is configured on every playback HWParams when set.
	DSP DSP
	// HiFiCPU and VoiceCPU are the CPU ends of the links. Optional.
	HiFiCPU  dai.Endpoint
	VoiceCPU dai.Endpoint
	// VoiceCodec is the codec end of the voice link. Optional.
	VoiceCodec dai.Endpoint
}

// Card is a Tegra board with a WM8903 codec.
//
// Methods are serialized by the card lock, the way the sound core serializes
// PCM operations.
type Card struct {
	mu       sync.Mutex
	codec    *wm8903.Dev
	das      DAS
	opts     Opts
	graph    *dapm.Graph
	mclk     Clock
	initDone bool
	running  map[dai.Direction][]string // sinks started by Prepare
	session  Session
}

// New returns a card. Call Init before using it.
func New(codec *wm8903.Dev, das DAS, opts *Opts) *Card {
	c := &Card{
		codec:   codec,
		das:     das,
		graph:   dapm.New(),
		running: map[dai.Direction][]string{},
		session: Session{
			PlayDevice:    DeviceNone,
			CaptureDevice: DeviceNone,
			CodecCon:      ConnectionOff,
			Mic:           MicInactive,
		},
	}
	if opts != nil {
		c.opts = *opts
	}
	if c.opts.Policy == nil {
		c.opts.Policy = HeadsetPolicy
	}
	if c.opts.Params == (wm8903.Params{}) {
		c.opts.Params = wm8903.DefaultParams
	}
	return c
}

func (c *Card) String() string {
	return "tegra-wm8903"
}

// Init gets the master clock and builds the power graph. It is a no-op once
// it succeeded.
func (c *Card) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initDone {
		return nil
	}
	mclk, err := c.das.MCLK()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingClockSource, err)
	}
	if mclk == nil {
		return ErrMissingClockSource
	}
	g := dapm.New()
	if err := g.AddWidgets(c.codec.Widgets()...); err != nil {
		return fmt.Errorf("tegra: %w", err)
	}
	if err := g.AddWidgets(c.opts.Board.widgets()...); err != nil {
		return fmt.Errorf("tegra: %w", err)
	}
	if err := g.AddRoutes(c.codec.Routes()...); err != nil {
		return fmt.Errorf("tegra: %w", err)
	}
	if err := g.AddRoutes(audioMap...); err != nil {
		return fmt.Errorf("tegra: %w", err)
	}
	// The analog bypass is off after reset.
	for _, ctl := range []string{"Left Bypass Switch", "Right Bypass Switch"} {
		if err := g.SetControl(ctl, false); err != nil {
			return fmt.Errorf("tegra: %w", err)
		}
	}
	c.graph = g
	if err := c.setPins(); err != nil {
		return err
	}
	c.mclk = mclk
	c.initDone = true
	logf("tegra: initialized")
	return nil
}

// Graph returns the power graph. It is empty until Init succeeded.
func (c *Card) Graph() *dapm.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph
}

// Session returns a copy of the routing state.
func (c *Card) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// HWParams configures both ends of the link for a stream.
//
// On the HiFi link a capture stream selects the mic with the policy and
// applies its register bundle; a playback stream turns the mic bias off.
func (c *Card) HWParams(l Link, dir dai.Direction, width int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initDone {
		return errNotInit
	}
	var codec, cpu dai.Endpoint
	var cfg dai.Config
	switch l {
	case HiFi:
		codec, cpu = c.codec, c.opts.HiFiCPU
		cfg.Format = dai.DSPA
		if c.das.DataFormat(l)&FormatI2S != 0 {
			cfg.Format = dai.I2S
		}
	case Voice:
		codec, cpu = c.opts.VoiceCodec, c.opts.VoiceCPU
		cfg.Format = dai.I2S
		if c.das.DataFormat(l)&FormatDSP != 0 {
			cfg.Format = dai.DSPA
		}
	case SPDIF:
		return nil
	default:
		return fmt.Errorf("tegra: unknown link %s", l)
	}
	if c.das.PortMaster(l) {
		cfg.Role = dai.CodecMaster
	}
	cfg.Width = width
	if err := c.setup(l, codec, cpu, cfg); err != nil {
		return err
	}
	if l != HiFi {
		return nil
	}
	if dir == dai.Capture {
		return c.selectMic()
	}
	c.session.Mic = MicInactive
	if err := c.codec.Write(wm8903.MicBiasControl0, 0); err != nil {
		return fmt.Errorf("tegra: mic bias: %w", err)
	}
	// A running capture keeps the mic it was prepared with.
	if len(c.running[dai.Capture]) == 0 {
		if err := c.syncPins(); err != nil {
			return err
		}
	}
	if c.opts.DSP != nil {
		if err := c.opts.DSP.Configure(); err != nil {
			return fmt.Errorf("tegra: dsp: %w", err)
		}
	}
	return nil
}

// Startup powers the DAS for a stream on the link.
func (c *Card) Startup(l Link, dir dai.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initDone {
		return errNotInit
	}
	if l == SPDIF {
		return nil
	}
	if err := c.das.PowerMode(true); err != nil {
		return fmt.Errorf("tegra: das: %w", err)
	}
	return nil
}

// Prepare starts the stream in the power graph. On the HiFi link a playback
// stream starts every machine output and a capture stream starts the codec
// capture interface; pins decide which of them power up.
func (c *Card) Prepare(l Link, dir dai.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initDone {
		return errNotInit
	}
	if l != HiFi || len(c.running[dir]) != 0 {
		return nil
	}
	for _, s := range streamSinks(dir) {
		err := c.graph.StreamStart(s)
		// A failed handler leaves the sink active.
		var ee *dapm.EventError
		if err == nil || errors.As(err, &ee) {
			c.running[dir] = append(c.running[dir], s)
		}
		if err != nil {
			return fmt.Errorf("tegra: %w", err)
		}
	}
	return nil
}

// Shutdown stops the stream started by Prepare, if any, and powers the DAS
// down.
func (c *Card) Shutdown(l Link, dir dai.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initDone {
		return errNotInit
	}
	if l == SPDIF {
		return nil
	}
	var first error
	if l == HiFi {
		// StreamStop releases the sink even when a handler fails, so every
		// sink is stopped and the widgets left powered are retried by the
		// next recompute.
		for _, s := range c.running[dir] {
			if err := c.graph.StreamStop(s); err != nil && first == nil {
				first = fmt.Errorf("tegra: %w", err)
			}
		}
		delete(c.running, dir)
	}
	if err := c.das.PowerMode(false); err != nil && first == nil {
		first = fmt.Errorf("tegra: das: %w", err)
	}
	return first
}

// SuspendPre is called before the codec is suspended.
func (c *Card) SuspendPre() error {
	return nil
}

// SuspendPost stops the master clock.
func (c *Card) SuspendPost() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initDone {
		return errNotInit
	}
	return c.mclk.Disable()
}

// ResumePre restarts the master clock.
func (c *Card) ResumePre() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initDone {
		return errNotInit
	}
	return c.mclk.Enable()
}

// ResumePost is called after the codec resumed.
func (c *Card) ResumePost() error {
	return nil
}

// SetCodecConnection records the external control selection.
func (c *Card) SetCodecConnection(con Connection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.CodecCon = con
}

// SetCallMode records whether a voice call is up.
func (c *Card) SetCallMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.CallMode = on
}

// SetJack updates the jack state and the pins depending on it.
func (c *Card) SetJack(j Jack) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Jack = j
	logf("tegra: jack %s", j)
	return c.syncPins()
}

// SetPlayDevice restricts playback to the devices in d. DeviceNone leaves
// every output usable.
func (c *Card) SetPlayDevice(d Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.PlayDevice = d
	return c.syncPins()
}

// SetCaptureDevice restricts capture to the devices in d. DeviceNone leaves
// every input usable.
func (c *Card) SetCaptureDevice(d Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.CaptureDevice = d
	return c.syncPins()
}

//

func (c *Card) setup(l Link, codec, cpu dai.Endpoint, cfg dai.Config) error {
	if codec != nil {
		if err := codec.SetFormat(cfg); err != nil {
			return fmt.Errorf("tegra: %s codec format: %w", l, err)
		}
	}
	if cpu != nil {
		if err := cpu.SetFormat(cfg); err != nil {
			return fmt.Errorf("tegra: %s cpu format: %w", l, err)
		}
	}
	f, err := c.mclk.Rate()
	if err != nil {
		return fmt.Errorf("tegra: mclk: %w", err)
	}
	if codec != nil {
		if err := codec.SetSysClk(f); err != nil {
			return fmt.Errorf("tegra: %s codec clock: %w", l, err)
		}
	}
	if cpu != nil {
		if err := cpu.SetSysClk(f); err != nil {
			return fmt.Errorf("tegra: %s cpu clock: %w", l, err)
		}
	}
	logf("tegra: %s %s sysclk %s", l, cfg, f)
	return nil
}

// selectMic applies the bundle of the mic chosen by the policy and routes
// the matching mic widget.
//
// mu must be held.
func (c *Card) selectMic() error {
	m := c.opts.Policy.Select(c.session.Jack)
	if m == MicInactive {
		return fmt.Errorf("tegra: policy returned %s for a capture stream", m)
	}
	logf("tegra: %s mic for %s", m, c.session.Jack)
	if err := apply(c.codec, micBundle(m, c.opts.Params)); err != nil {
		return err
	}
	c.session.Mic = m
	return c.syncPins()
}

// syncPins applies the pin states and recomputes power.
//
// mu must be held.
func (c *Card) syncPins() error {
	if !c.initDone {
		return nil
	}
	if err := c.setPins(); err != nil {
		return err
	}
	if err := c.graph.Sync(); err != nil {
		return fmt.Errorf("tegra: %w", err)
	}
	return nil
}

// setPins derives the machine pins from the session.
//
// mu must be held.
func (c *Card) setPins() error {
	s := &c.session
	j := s.Jack
	pins := []struct {
		name string
		on   bool
	}{
		{Headphone, j.Present && !j.Headset && s.PlayDevice.allows(DeviceHeadphone)},
		{Headset, j.Present && j.Headset && (s.PlayDevice.allows(DeviceHeadset) || s.CaptureDevice.allows(DeviceHeadset))},
		{Lineout, s.PlayDevice.allows(DeviceLineout)},
		{IntSpk, s.PlayDevice.allows(DeviceSpeaker)},
		{IntMic, s.Mic != MicAnalog && s.CaptureDevice.allows(DeviceIntMic)},
		{ExtMic, s.Mic == MicAnalog && s.CaptureDevice.allows(DeviceExtMic)},
		{Linein, s.CaptureDevice.allows(DeviceLinein)},
	}
	for _, p := range pins {
		var err error
		if p.on {
			err = c.graph.EnablePin(p.name)
		} else {
			err = c.graph.DisablePin(p.name)
		}
		if err != nil {
			return fmt.Errorf("tegra: %w", err)
		}
	}
	return nil
}

// streamSinks returns the sinks a HiFi stream starts.
func streamSinks(dir dai.Direction) []string {
	if dir == dai.Capture {
		return []string{wm8903.CaptureSink}
	}
	return []string{Headphone, Headset, Lineout, IntSpk}
}

// FixedClock is a master clock that is always running at a fixed rate.
type FixedClock physic.Frequency

// Rate implements Clock.
func (f FixedClock) Rate() (physic.Frequency, error) {
	return physic.Frequency(f), nil
}

// Enable implements Clock.
func (f FixedClock) Enable() error {
	return nil
}

// Disable implements Clock.
func (f FixedClock) Disable() error {
	return nil
}
