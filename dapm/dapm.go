// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dapm implements dynamic audio power management: a graph of widgets
// connected by routes, where only the widgets on a path feeding an active
// sink are powered.
//
// A stream event names a sink. The powered set is every widget reachable
// backward from the active sinks through conducting routes. Widgets entering
// the set are powered up sources first, widgets leaving it are powered down
// dependents first, and handlers only see edges.
//
// Use build tag periph_audio_debug to log every transition.
package dapm

import (
	"fmt"
	"sort"
	"sync"
)

// Graph is a power graph.
//
// Widgets are added at initialization; once the first stream event ran the
// widget set is frozen. Routes, controls and pins can change at any time.
type Graph struct {
	mu     sync.Mutex
	nodes  []*node
	byName map[string]*node
	routes []Route
	off    map[string]bool // disconnected controls
	active map[string]int  // stream references per sink
	frozen bool
}

type node struct {
	w       Widget
	index   int
	powered bool
	pinOff  bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		byName: map[string]*node{},
		off:    map[string]bool{},
		active: map[string]int{},
	}
}

// AddWidgets adds widgets. Either all of them are added or none.
func (g *Graph) AddWidgets(ws ...Widget) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return ErrFrozen
	}
	seen := map[string]bool{}
	for _, w := range ws {
		if _, ok := g.byName[w.Name]; ok || seen[w.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateWidget, w.Name)
		}
		seen[w.Name] = true
	}
	for _, w := range ws {
		n := &node{w: w, index: len(g.nodes)}
		g.nodes = append(g.nodes, n)
		g.byName[w.Name] = n
	}
	return nil
}

// AddRoutes adds routes. Either all of them are added or none.
//
// Power is not recomputed; call Sync to apply the change to running streams.
func (g *Graph) AddRoutes(rs ...Route) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, r := range rs {
		if err := g.check(r.Sink); err != nil {
			return fmt.Errorf("%w in route %s", err, r)
		}
		if err := g.check(r.Source); err != nil {
			return fmt.Errorf("%w in route %s", err, r)
		}
	}
	g.routes = append(g.routes, rs...)
	return nil
}

// RemoveRoutes removes one instance of each route. Either all of them are
// removed or none.
//
// Power is not recomputed; call Sync to apply the change to running streams.
func (g *Graph) RemoveRoutes(rs ...Route) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	left := make([]Route, len(g.routes))
	copy(left, g.routes)
	for _, r := range rs {
		i := indexRoute(left, r)
		if i == -1 {
			return fmt.Errorf("%w: %s", ErrUnknownRoute, r)
		}
		left = append(left[:i], left[i+1:]...)
	}
	g.routes = left
	return nil
}

// Routes returns a copy of the routes in insertion order.
func (g *Graph) Routes() []Route {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Route, len(g.routes))
	copy(out, g.routes)
	return out
}

// Widgets returns the widgets in insertion order.
func (g *Graph) Widgets() []Widget {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Widget, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.w
	}
	return out
}

// StreamStart marks the sink active and recomputes power.
//
// Streams are counted: a sink started twice needs two StreamStop. When a
// handler fails the sink stays active and the error is returned; Sync retries
// the remaining transitions.
func (g *Graph) StreamStart(sink string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check(sink); err != nil {
		return err
	}
	g.frozen = true
	g.active[sink]++
	logf("dapm: stream start %q (%d)", sink, g.active[sink])
	return g.power()
}

// StreamStop releases one stream reference on the sink and recomputes power.
func (g *Graph) StreamStop(sink string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check(sink); err != nil {
		return err
	}
	if g.active[sink] == 0 {
		return fmt.Errorf("%w: %q", ErrNotActive, sink)
	}
	if g.active[sink]--; g.active[sink] == 0 {
		delete(g.active, sink)
	}
	logf("dapm: stream stop %q (%d)", sink, g.active[sink])
	return g.power()
}

// SetControl connects or disconnects every route carrying the control and
// recomputes power.
//
// Controls are connected until set otherwise.
func (g *Graph) SetControl(name string, connected bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	found := false
	for _, r := range g.routes {
		if r.Control == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("dapm: unknown control %q", name)
	}
	if connected {
		delete(g.off, name)
	} else {
		g.off[name] = true
	}
	return g.power()
}

// EnablePin marks an endpoint as usable. Pins are enabled by default.
//
// Power is not recomputed; call Sync.
func (g *Graph) EnablePin(name string) error {
	return g.setPin(name, false)
}

// DisablePin marks an endpoint as unusable, e.g. because nothing is plugged
// in. A disabled pin is never powered and doesn't conduct.
//
// Power is not recomputed; call Sync.
func (g *Graph) DisablePin(name string) error {
	return g.setPin(name, true)
}

// PinEnabled reports whether the endpoint pin is enabled.
func (g *Graph) PinEnabled(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.byName[name]
	return n != nil && n.w.Kind.Endpoint() && !n.pinOff
}

// Sync recomputes power.
func (g *Graph) Sync() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.power()
}

// Powered reports whether the widget is powered up.
func (g *Graph) Powered(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.byName[name]
	return n != nil && n.powered
}

// PoweredSet returns the sorted names of the powered widgets.
func (g *Graph) PoweredSet() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, n := range g.nodes {
		if n.powered {
			out = append(out, n.w.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Active returns the sorted names of the active sinks.
func (g *Graph) Active() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.active))
	for name := range g.active {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

//

func (g *Graph) check(name string) error {
	if _, ok := g.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	return nil
}

func (g *Graph) setPin(name string, off bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.byName[name]
	if n == nil {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	if !n.w.Kind.Endpoint() {
		return fmt.Errorf("dapm: %q is a %s, not an endpoint", name, n.w.Kind)
	}
	n.pinOff = off
	return nil
}

func (g *Graph) conducts(r Route) bool {
	return r.Control == "" || !g.off[r.Control]
}

// reachable returns the widgets that must be powered.
func (g *Graph) reachable() map[*node]bool {
	sources := map[*node][]*node{}
	for _, r := range g.routes {
		if g.conducts(r) {
			s := g.byName[r.Sink]
			sources[s] = append(sources[s], g.byName[r.Source])
		}
	}
	want := map[*node]bool{}
	var visit func(n *node)
	visit = func(n *node) {
		if want[n] || n.pinOff {
			return
		}
		want[n] = true
		for _, s := range sources[n] {
			visit(s)
		}
	}
	for _, n := range g.nodes {
		if g.active[n.w.Name] > 0 {
			visit(n)
		}
	}
	return want
}

// order returns the widgets sorted sources first. Among widgets that are
// ready at the same time supplies go first, then insertion order. Widgets
// caught in a loop are taken in insertion order.
func (g *Graph) order() []*node {
	indeg := make([]int, len(g.nodes))
	out := make([][]int, len(g.nodes))
	for _, r := range g.routes {
		s, d := g.byName[r.Source].index, g.byName[r.Sink].index
		if s == d {
			continue
		}
		out[s] = append(out[s], d)
		indeg[d]++
	}
	done := make([]bool, len(g.nodes))
	order := make([]*node, 0, len(g.nodes))
	for len(order) < len(g.nodes) {
		next := -1
		for i, n := range g.nodes {
			if done[i] || indeg[i] > 0 {
				continue
			}
			if next == -1 || (n.w.Kind == Supply && g.nodes[next].w.Kind != Supply) {
				next = i
			}
		}
		if next == -1 {
			for i := range g.nodes {
				if !done[i] {
					next = i
					break
				}
			}
		}
		done[next] = true
		order = append(order, g.nodes[next])
		for _, d := range out[next] {
			indeg[d]--
		}
	}
	return order
}

// power applies the difference between the powered set and the wanted set.
//
// mu must be held.
func (g *Graph) power() error {
	want := g.reachable()
	order := g.order()
	for i := len(order) - 1; i >= 0; i-- {
		if n := order[i]; n.powered && !want[n] {
			if err := g.event(n, false); err != nil {
				return err
			}
		}
	}
	for _, n := range order {
		if !n.powered && want[n] {
			if err := g.event(n, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) event(n *node, on bool) error {
	if h := n.w.Handler; h != nil {
		if err := h.Event(n.w, on); err != nil {
			return &EventError{Widget: n.w.Name, On: on, Err: err}
		}
	}
	n.powered = on
	logf("dapm: %q powered %t", n.w.Name, on)
	return nil
}

func indexRoute(rs []Route, r Route) int {
	for i := range rs {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
