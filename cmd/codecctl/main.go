// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// codecctl plans and applies audio codec configurations.
//
//	codecctl solve [-derive] [-mclk FREQ] [-rate FREQ]
//	codecctl apply [-derive] [-master] [-bus NAME | -smbus N] [-addr ADDR]
//	               [-mclk FREQ] [-rate FREQ] [-width BITS]
//	codecctl dapm [-headset] [-capture] [-bus NAME] [-addr ADDR]
//	              [-clk NAME | -mclk FREQ] [-amp NAME] [-jack NAME]
//	              [-spk PIN] [-intmic PIN] [-extmic PIN]
//
// solve prints the TLV320AIC3262 clock profile for a master clock and a
// sample rate. apply writes it to a codec. dapm runs a stream through the
// Tegra + WM8903 card and prints the powered widgets; the jack state comes
// from the -jack switch when set, from -headset otherwise.
package main

import (
	goflag "flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"periph.io/x/audio/v3"
	"periph.io/x/audio/v3/aic3262"
	"periph.io/x/audio/v3/dai"
	"periph.io/x/audio/v3/regmap"
	"periph.io/x/audio/v3/sysfs"
	"periph.io/x/audio/v3/tegra"
	"periph.io/x/audio/v3/wm8903"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

const usage = `usage: codecctl [-v LEVEL] solve|apply|dapm [OPTION]...`

func solve(args []string) error {
	flag, args := flags.New(args, "-derive")
	parm, args := parms.New(args, "-mclk", "-rate")
	if len(args) != 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	p, err := profile(flag.ByName["-derive"], parm.ByName["-mclk"], parm.ByName["-rate"])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", &p)
	fmt.Printf("codec clock %s, DAC %s, ADC %s, BCLK %s, %d bits per frame\n",
		p.CodecClock(), p.DACRate(), p.ADCRate(), p.BitClock(), p.FrameBits())
	return nil
}

func apply(args []string) error {
	flag, args := flags.New(args, "-derive", "-master")
	parm, args := parms.New(args, "-bus", "-smbus", "-addr", "-mclk", "-rate", "-width")
	if len(args) != 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	mclk, err := freq(parm.ByName["-mclk"], 12*physic.MegaHertz)
	if err != nil {
		return err
	}
	rate, err := freq(parm.ByName["-rate"], 48*physic.KiloHertz)
	if err != nil {
		return err
	}
	addr, err := number(parm.ByName["-addr"], 0x18)
	if err != nil {
		return err
	}
	width, err := number(parm.ByName["-width"], 16)
	if err != nil {
		return err
	}
	opts := aic3262.Opts{MCLK: mclk, Derive: flag.ByName["-derive"]}

	var d *aic3262.Dev
	if s := parm.ByName["-smbus"]; s != "" {
		n, err := number(s, 0)
		if err != nil {
			return err
		}
		if d, err = aic3262.New(&regmap.SMBus{Bus: n, Addr: addr}, &opts); err != nil {
			return err
		}
	} else {
		if _, err := audio.Init(); err != nil {
			return err
		}
		b, err := i2creg.Open(parm.ByName["-bus"])
		if err != nil {
			return err
		}
		defer b.Close()
		if d, err = aic3262.NewI2C(b, uint16(addr), &opts); err != nil {
			return err
		}
	}
	if flag.ByName["-master"] {
		if err := d.SetFormat(dai.Config{Format: dai.I2S, Role: dai.CodecMaster, Width: width}); err != nil {
			return err
		}
	}
	if err := d.HWParams(rate, width); err != nil {
		return err
	}
	p := d.Profile()
	glog.Infof("%s: applied %s", d, &p)
	glog.V(1).Infof("codec clock %s, bit clock %s", p.CodecClock(), p.BitClock())
	return nil
}

func dapm(args []string) error {
	flag, args := flags.New(args, "-headset", "-capture")
	parm, args := parms.New(args, "-bus", "-addr", "-clk", "-mclk", "-amp", "-jack", "-spk", "-intmic", "-extmic")
	if len(args) != 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	addr, err := number(parm.ByName["-addr"], wm8903.DefaultAddr)
	if err != nil {
		return err
	}
	if _, err := audio.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(parm.ByName["-bus"])
	if err != nil {
		return err
	}
	defer b.Close()

	das := &tegra.StaticDAS{Formats: map[tegra.Link]tegra.DataFormat{tegra.HiFi: tegra.FormatI2S}}
	if name := parm.ByName["-clk"]; name != "" {
		if das.Clock, err = sysfs.ClockByName(name); err != nil {
			return err
		}
	} else {
		f, err := freq(parm.ByName["-mclk"], 12*physic.MegaHertz)
		if err != nil {
			return err
		}
		das.Clock = tegra.FixedClock(f)
	}
	opts := tegra.Opts{}
	if name := parm.ByName["-amp"]; name != "" {
		if opts.Board.AmpSupply, err = sysfs.RegulatorByName(name); err != nil {
			return err
		}
	}
	for _, p := range []struct {
		flag string
		pin  *gpio.PinOut
	}{
		{"-spk", &opts.Board.SpeakerEnable},
		{"-intmic", &opts.Board.IntMicEnable},
		{"-extmic", &opts.Board.ExtMicEnable},
	} {
		if name := parm.ByName[p.flag]; name != "" {
			pin := gpioreg.ByName(name)
			if pin == nil {
				return fmt.Errorf("%s: unknown pin %q", p.flag, name)
			}
			*p.pin = pin
		}
	}
	jack := tegra.Jack{Present: flag.ByName["-headset"], Headset: flag.ByName["-headset"]}
	if name := parm.ByName["-jack"]; name != "" {
		sw, err := sysfs.SwitchByName(name)
		if err != nil {
			return err
		}
		state, err := sw.State()
		if err != nil {
			return err
		}
		jack = tegra.H2WJack(state)
	}

	codec := wm8903.NewI2C(b, uint16(addr))
	if err := codec.Reset(); err != nil {
		return err
	}
	c := tegra.New(codec, das, &opts)
	if err := c.SetJack(jack); err != nil {
		return err
	}
	if err := c.Init(); err != nil {
		return err
	}
	dir := dai.Playback
	if flag.ByName["-capture"] {
		dir = dai.Capture
	}
	if err := c.Startup(tegra.HiFi, dir); err != nil {
		return err
	}
	if err := c.HWParams(tegra.HiFi, dir, 16); err != nil {
		return err
	}
	if err := c.Prepare(tegra.HiFi, dir); err != nil {
		return err
	}
	glog.Infof("%s: %s stream, %s mic", c, dir, c.Session().Mic)
	glog.V(1).Infof("active sinks %v", c.Graph().Active())
	for _, w := range c.Graph().PoweredSet() {
		fmt.Println(w)
	}
	return c.Shutdown(tegra.HiFi, dir)
}

func profile(derive bool, mclk, rate string) (aic3262.ClockProfile, error) {
	m, err := freq(mclk, 12*physic.MegaHertz)
	if err != nil {
		return aic3262.ClockProfile{}, err
	}
	r, err := freq(rate, 48*physic.KiloHertz)
	if err != nil {
		return aic3262.ClockProfile{}, err
	}
	if derive {
		return aic3262.Derive(m, r)
	}
	return aic3262.Solve(m, r)
}

func freq(s string, def physic.Frequency) (physic.Frequency, error) {
	if s == "" {
		return def, nil
	}
	var f physic.Frequency
	if err := f.Set(s); err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return f, nil
}

func number(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return int(n), nil
}

func mainImpl() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("%s", usage)
	}
	// -v is glog's verbosity, shared by every command.
	parm, args := parms.New(os.Args[2:], "-v")
	if v := parm.ByName["-v"]; v != "" {
		if err := goflag.Set("v", v); err != nil {
			return err
		}
	}
	switch os.Args[1] {
	case "solve":
		return solve(args)
	case "apply":
		return apply(args)
	case "dapm":
		return dapm(args)
	default:
		return fmt.Errorf("%s: unknown command\n%s", os.Args[1], usage)
	}
}

func main() {
	// glog registers its options on the standard flag set; log to stderr
	// rather than to files in /tmp.
	_ = goflag.Set("logtostderr", "true")
	err := mainImpl()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "codecctl: %s.\n", err)
		os.Exit(1)
	}
}
