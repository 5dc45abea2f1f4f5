// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dapm

import (
	"errors"
	"fmt"
)

// Kind is the kind of hardware element a widget stands for.
type Kind uint8

const (
	Input     Kind = iota // codec input pin
	Output                // codec output pin
	Mixer                 // mixer or mux
	Supply                // power supply, bias or clock feeding other widgets
	Line                  // line level jack
	PGA                   // programmable gain amplifier
	DAC                   // digital to analog converter
	ADC                   // analog to digital converter
	Headphone             // headphone jack
	Speaker               // speaker
	Mic                   // microphone
)

var kindNames = [...]string{"Input", "Output", "Mixer", "Supply", "Line", "PGA", "DAC", "ADC", "Headphone", "Speaker", "Mic"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Endpoint reports whether the widget is a board level endpoint, i.e. a pin
// that can be disabled when nothing is plugged in.
func (k Kind) Endpoint() bool {
	switch k {
	case Input, Output, Line, Headphone, Speaker, Mic:
		return true
	default:
		return false
	}
}

// Handler reacts to a widget power transition.
//
// Event is only called on an edge: on is true when the widget goes from
// powered down to powered up and false for the opposite. It is called with
// the graph lock held and must not call back into the graph.
type Handler interface {
	Event(w Widget, on bool) error
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(w Widget, on bool) error

// Event implements Handler.
func (h HandlerFunc) Event(w Widget, on bool) error {
	return h(w, on)
}

// Widget is a node of the power graph.
type Widget struct {
	Name    string
	Kind    Kind
	Handler Handler // optional
}

func (w Widget) String() string {
	return w.Name
}

// Route is a signal flow edge from Source to Sink.
//
// When Control is set, the route only conducts while the control is
// connected.
type Route struct {
	Sink    string
	Control string
	Source  string
}

func (r Route) String() string {
	if r.Control != "" {
		return fmt.Sprintf("%s <-[%s]- %s", r.Sink, r.Control, r.Source)
	}
	return fmt.Sprintf("%s <- %s", r.Sink, r.Source)
}

var (
	// ErrUnknownWidget is returned when a name doesn't match any widget.
	ErrUnknownWidget = errors.New("dapm: unknown widget")
	// ErrDuplicateWidget is returned when adding a widget whose name is taken.
	ErrDuplicateWidget = errors.New("dapm: duplicate widget")
	// ErrUnknownRoute is returned when removing a route that isn't present.
	ErrUnknownRoute = errors.New("dapm: unknown route")
	// ErrNotActive is returned when stopping a stream on an inactive sink.
	ErrNotActive = errors.New("dapm: sink not active")
	// ErrFrozen is returned when adding widgets after the first stream event.
	ErrFrozen = errors.New("dapm: widgets can't be added once streams ran")
)

// EventError is returned when a widget handler fails.
//
// The widget keeps its previous power state and the transitions after it
// were not attempted.
type EventError struct {
	Widget string
	On     bool
	Err    error
}

func (e *EventError) Error() string {
	s := "down"
	if e.On {
		s = "up"
	}
	return fmt.Sprintf("dapm: powering %s %q: %v", s, e.Widget, e.Err)
}

// Unwrap returns the handler error.
func (e *EventError) Unwrap() error {
	return e.Err
}
