// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dapm

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// recorder counts and logs handler calls.
type recorder struct {
	log  []string
	up   map[string]int
	down map[string]int
	fail map[string]error
}

func newRecorder() *recorder {
	return &recorder{up: map[string]int{}, down: map[string]int{}, fail: map[string]error{}}
}

func (r *recorder) Event(w Widget, on bool) error {
	if err := r.fail[w.Name]; err != nil {
		return err
	}
	if on {
		r.up[w.Name]++
		r.log = append(r.log, "+"+w.Name)
	} else {
		r.down[w.Name]++
		r.log = append(r.log, "-"+w.Name)
	}
	return nil
}

func newGraph(t *testing.T, h Handler, ws []Widget, rs []Route) *Graph {
	g := New()
	for i := range ws {
		ws[i].Handler = h
	}
	if err := g.AddWidgets(ws...); err != nil {
		t.Fatal(err)
	}
	if err := g.AddRoutes(rs...); err != nil {
		t.Fatal(err)
	}
	return g
}

// playback is a small codec + board graph.
func playback(t *testing.T, h Handler) *Graph {
	return newGraph(t, h,
		[]Widget{
			{Name: "Headphone", Kind: Headphone},
			{Name: "Int Spk", Kind: Speaker},
			{Name: "HPOUTL", Kind: Output},
			{Name: "HPOUTR", Kind: Output},
			{Name: "LON", Kind: Output},
			{Name: "Left HP PGA", Kind: PGA},
			{Name: "Right HP PGA", Kind: PGA},
			{Name: "Left Spk PGA", Kind: PGA},
			{Name: "DACL", Kind: DAC},
			{Name: "DACR", Kind: DAC},
			{Name: "Charge Pump", Kind: Supply},
			{Name: "Linein", Kind: Line},
		},
		[]Route{
			{Sink: "Headphone", Source: "HPOUTL"},
			{Sink: "Headphone", Source: "HPOUTR"},
			{Sink: "Int Spk", Source: "LON"},
			{Sink: "HPOUTL", Source: "Left HP PGA"},
			{Sink: "HPOUTR", Source: "Right HP PGA"},
			{Sink: "LON", Source: "Left Spk PGA"},
			{Sink: "Left HP PGA", Source: "DACL"},
			{Sink: "Right HP PGA", Source: "DACR"},
			{Sink: "Left Spk PGA", Source: "DACL"},
			{Sink: "Left HP PGA", Source: "Charge Pump"},
			{Sink: "Right HP PGA", Source: "Charge Pump"},
		})
}

func TestHeadphoneOnly(t *testing.T) {
	r := newRecorder()
	g := newGraph(t, r,
		[]Widget{
			{Name: "Headphone", Kind: Headphone},
			{Name: "HPOUTL", Kind: Output},
			{Name: "HPOUTR", Kind: Output},
			{Name: "LINEOUTL", Kind: Output},
			{Name: "Int Spk", Kind: Speaker},
		},
		[]Route{
			{Sink: "Headphone", Source: "HPOUTL"},
			{Sink: "Headphone", Source: "HPOUTR"},
			{Sink: "Int Spk", Source: "LINEOUTL"},
		})
	if err := g.StreamStart("Headphone"); err != nil {
		t.Fatal(err)
	}
	want := []string{"HPOUTL", "HPOUTR", "Headphone"}
	if got := g.PoweredSet(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PoweredSet() = %v, want %v", got, want)
	}
	if g.Powered("LINEOUTL") || g.Powered("Int Spk") {
		t.Fatal("unrelated widget powered")
	}
}

func TestStartStopCycle(t *testing.T) {
	r := newRecorder()
	g := playback(t, r)
	if err := g.StreamStart("Headphone"); err != nil {
		t.Fatal(err)
	}
	if err := g.StreamStop("Headphone"); err != nil {
		t.Fatal(err)
	}
	if s := g.PoweredSet(); len(s) != 0 {
		t.Fatalf("still powered: %v", s)
	}
	if len(r.up) == 0 {
		t.Fatal("nothing was powered up")
	}
	if !reflect.DeepEqual(r.up, r.down) {
		t.Fatalf("up %v != down %v", r.up, r.down)
	}
	for name, n := range r.up {
		if n != 1 {
			t.Errorf("%s powered up %d times", name, n)
		}
	}
}

func TestOrdering(t *testing.T) {
	r := newRecorder()
	g := playback(t, r)
	if err := g.StreamStart("Headphone"); err != nil {
		t.Fatal(err)
	}
	pos := map[string]int{}
	for i, l := range r.log {
		pos[l] = i
	}
	before := [][2]string{
		{"+Charge Pump", "+DACL"},
		{"+DACL", "+Left HP PGA"},
		{"+Charge Pump", "+Left HP PGA"},
		{"+Left HP PGA", "+HPOUTL"},
		{"+HPOUTL", "+Headphone"},
		{"+HPOUTR", "+Headphone"},
	}
	for _, b := range before {
		if pos[b[0]] >= pos[b[1]] {
			t.Errorf("%s must happen before %s: %v", b[0], b[1], r.log)
		}
	}
	r.log = nil
	if err := g.StreamStop("Headphone"); err != nil {
		t.Fatal(err)
	}
	pos = map[string]int{}
	for i, l := range r.log {
		pos[l] = i
	}
	if pos["-Headphone"] >= pos["-HPOUTL"] || pos["-Left HP PGA"] >= pos["-DACL"] {
		t.Errorf("power down must go dependents first: %v", r.log)
	}
}

func TestSharedWidget(t *testing.T) {
	r := newRecorder()
	g := playback(t, r)
	if err := g.StreamStart("Headphone"); err != nil {
		t.Fatal(err)
	}
	if err := g.StreamStart("Int Spk"); err != nil {
		t.Fatal(err)
	}
	if r.up["DACL"] != 1 {
		t.Fatalf("DACL powered up %d times", r.up["DACL"])
	}
	if err := g.StreamStop("Headphone"); err != nil {
		t.Fatal(err)
	}
	if !g.Powered("DACL") {
		t.Fatal("DACL powered down while Int Spk is active")
	}
	if g.Powered("DACR") || g.Powered("Charge Pump") {
		t.Fatal("headphone only widgets still powered")
	}
	if r.down["DACL"] != 0 {
		t.Fatal("premature disable")
	}
	if err := g.StreamStop("Int Spk"); err != nil {
		t.Fatal(err)
	}
	if g.Powered("DACL") || r.down["DACL"] != 1 {
		t.Fatalf("DACL powered=%t down=%d", g.Powered("DACL"), r.down["DACL"])
	}
}

func TestStreamRefcount(t *testing.T) {
	g := playback(t, nil)
	for i := 0; i < 2; i++ {
		if err := g.StreamStart("Headphone"); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.StreamStop("Headphone"); err != nil {
		t.Fatal(err)
	}
	if !g.Powered("Headphone") {
		t.Fatal("one stream is still running")
	}
	if err := g.StreamStop("Headphone"); err != nil {
		t.Fatal(err)
	}
	if err := g.StreamStop("Headphone"); !errors.Is(err, ErrNotActive) {
		t.Fatalf("got %v, want ErrNotActive", err)
	}
	if a := g.Active(); len(a) != 0 {
		t.Fatalf("Active() = %v", a)
	}
}

func TestRouteRoundTrip(t *testing.T) {
	g := New()
	ws := []Widget{{Name: "A", Kind: Input}, {Name: "B", Kind: Mixer}, {Name: "C", Kind: Output}}
	if err := g.AddWidgets(ws...); err != nil {
		t.Fatal(err)
	}
	rs := []Route{
		{Sink: "B", Source: "A"},
		{Sink: "C", Control: "Switch", Source: "B"},
		{Sink: "C", Source: "A"},
		{Sink: "B", Source: "A"},
	}
	if err := g.AddRoutes(rs...); err != nil {
		t.Fatal(err)
	}
	if got := g.Routes(); !reflect.DeepEqual(got, rs) {
		t.Fatalf("Routes() = %v", got)
	}
	if err := g.RemoveRoutes(rs...); err != nil {
		t.Fatal(err)
	}
	if got := g.Routes(); len(got) != 0 {
		t.Fatalf("Routes() = %v, want none", got)
	}
	if err := g.RemoveRoutes(rs[0]); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("got %v, want ErrUnknownRoute", err)
	}
}

func TestRemoveRoutesAtomic(t *testing.T) {
	g := playback(t, nil)
	n := len(g.Routes())
	err := g.RemoveRoutes(Route{Sink: "Headphone", Source: "HPOUTL"}, Route{Sink: "Headphone", Source: "LON"})
	if !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("got %v", err)
	}
	if len(g.Routes()) != n {
		t.Fatal("partial removal")
	}
}

func TestAddErrors(t *testing.T) {
	g := playback(t, nil)
	if err := g.AddWidgets(Widget{Name: "X"}, Widget{Name: "X"}); !errors.Is(err, ErrDuplicateWidget) {
		t.Fatalf("got %v", err)
	}
	if err := g.AddWidgets(Widget{Name: "DACL"}); !errors.Is(err, ErrDuplicateWidget) {
		t.Fatalf("got %v", err)
	}
	if err := g.AddRoutes(Route{Sink: "Headphone", Source: "Nope"}); !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("got %v", err)
	}
	if err := g.StreamStart("Nope"); !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("got %v", err)
	}
	if err := g.StreamStart("Headphone"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddWidgets(Widget{Name: "Late"}); !errors.Is(err, ErrFrozen) {
		t.Fatalf("got %v", err)
	}
}

func TestControl(t *testing.T) {
	r := newRecorder()
	g := newGraph(t, r,
		[]Widget{
			{Name: "Lineout", Kind: Speaker},
			{Name: "Line Mixer", Kind: Mixer},
			{Name: "DACL", Kind: DAC},
			{Name: "IN3L", Kind: Input},
		},
		[]Route{
			{Sink: "Lineout", Source: "Line Mixer"},
			{Sink: "Line Mixer", Control: "DACL Switch", Source: "DACL"},
			{Sink: "Line Mixer", Control: "Bypass Switch", Source: "IN3L"},
		})
	if err := g.StreamStart("Lineout"); err != nil {
		t.Fatal(err)
	}
	if !g.Powered("IN3L") || !g.Powered("DACL") {
		t.Fatal("controls default to connected")
	}
	if err := g.SetControl("Bypass Switch", false); err != nil {
		t.Fatal(err)
	}
	if g.Powered("IN3L") || !g.Powered("DACL") {
		t.Fatalf("PoweredSet() = %v", g.PoweredSet())
	}
	if err := g.SetControl("Bypass Switch", true); err != nil {
		t.Fatal(err)
	}
	if !g.Powered("IN3L") || r.up["IN3L"] != 2 {
		t.Fatalf("IN3L up %d", r.up["IN3L"])
	}
	if err := g.SetControl("Nope", true); err == nil {
		t.Fatal("unknown control")
	}
}

func TestPins(t *testing.T) {
	g := newGraph(t, nil,
		[]Widget{
			{Name: "IN1L", Kind: Input},
			{Name: "Int Mic", Kind: Mic},
			{Name: "Ext Mic", Kind: Mic},
			{Name: "ADCL", Kind: ADC},
		},
		[]Route{
			{Sink: "ADCL", Source: "IN1L"},
			{Sink: "IN1L", Source: "Int Mic"},
			{Sink: "IN1L", Source: "Ext Mic"},
		})
	if err := g.DisablePin("Ext Mic"); err != nil {
		t.Fatal(err)
	}
	if g.PinEnabled("Ext Mic") || !g.PinEnabled("Int Mic") {
		t.Fatal("pin state")
	}
	if g.PinEnabled("ADCL") || g.PinEnabled("nope") {
		t.Fatal("only endpoints have pins")
	}
	if err := g.StreamStart("ADCL"); err != nil {
		t.Fatal(err)
	}
	want := []string{"ADCL", "IN1L", "Int Mic"}
	if got := g.PoweredSet(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PoweredSet() = %v, want %v", got, want)
	}
	if err := g.EnablePin("Ext Mic"); err != nil {
		t.Fatal(err)
	}
	if g.Powered("Ext Mic") {
		t.Fatal("pin change must wait for Sync")
	}
	if err := g.Sync(); err != nil {
		t.Fatal(err)
	}
	if !g.Powered("Ext Mic") {
		t.Fatal("Ext Mic not powered after Sync")
	}
	if err := g.DisablePin("ADCL"); err == nil {
		t.Fatal("ADC is not an endpoint")
	}
}

func TestEventError(t *testing.T) {
	r := newRecorder()
	g := playback(t, r)
	errAmp := errors.New("regulator failed")
	r.fail["Left HP PGA"] = errAmp
	err := g.StreamStart("Headphone")
	var ee *EventError
	if !errors.As(err, &ee) {
		t.Fatalf("got %v, want *EventError", err)
	}
	if ee.Widget != "Left HP PGA" || !ee.On || !errors.Is(err, errAmp) {
		t.Fatalf("EventError = %+v", ee)
	}
	if g.Powered("Left HP PGA") || g.Powered("Headphone") {
		t.Fatal("failed widget or its dependents powered")
	}
	if !g.Powered("DACL") {
		t.Fatal("transitions before the failure must stay applied")
	}
	delete(r.fail, "Left HP PGA")
	if err := g.Sync(); err != nil {
		t.Fatal(err)
	}
	if !g.Powered("Headphone") || r.up["DACL"] != 1 {
		t.Fatalf("retry: PoweredSet() = %v, DACL up %d", g.PoweredSet(), r.up["DACL"])
	}
}

func TestLoop(t *testing.T) {
	g := newGraph(t, nil,
		[]Widget{
			{Name: "Out", Kind: Output},
			{Name: "M1", Kind: Mixer},
			{Name: "M2", Kind: Mixer},
		},
		[]Route{
			{Sink: "Out", Source: "M1"},
			{Sink: "M1", Source: "M2"},
			{Sink: "M2", Source: "M1"},
		})
	if err := g.StreamStart("Out"); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(g.PoweredSet()) != "[M1 M2 Out]" {
		t.Fatalf("PoweredSet() = %v", g.PoweredSet())
	}
}

func TestKind(t *testing.T) {
	if s := Supply.String(); s != "Supply" {
		t.Fatal(s)
	}
	if s := Kind(200).String(); s != "Kind(200)" {
		t.Fatal(s)
	}
	if Mixer.Endpoint() || !Mic.Endpoint() {
		t.Fatal("Endpoint()")
	}
	r := Route{Sink: "C", Control: "Switch", Source: "B"}
	if s := r.String(); s != "C <-[Switch]- B" {
		t.Fatal(s)
	}
}
