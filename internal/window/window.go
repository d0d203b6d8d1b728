// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package window implements the per-axis smoothing filter applied to raw
// accelerometer ticks before orientation is derived from them.
package window

import (
	"fmt"
	"math"
)

const (
	// DefaultCapacity is 10 samples, roughly 100 ms at 100 Hz.
	DefaultCapacity = 10

	// deviceUnitsPerG converts raw device ticks to g.
	deviceUnitsPerG = 1000.0

	// Deadband below which a scaled value or average snaps to zero.
	Deadband = 0.1
)

// Observer is notified every time the window is full and a new average is
// available.
type Observer interface {
	OnAverageReady(avg float64)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(avg float64)

func (f ObserverFunc) OnAverageReady(avg float64) { f(avg) }

// Window keeps the last capacity scaled readings of one axis and their sum.
// It is not safe for concurrent use; the estimator owning it serializes access.
type Window struct {
	capacity int
	values   []float64 // front is values[0]
	sum      float64
	avg      float64
	ready    bool
	observer Observer
}

// New returns an empty window. A non-positive capacity is a programming
// error and panics.
func New(capacity int) *Window {
	if capacity <= 0 {
		panic(fmt.Sprintf("window: capacity must be positive, got %d", capacity))
	}
	return &Window{
		capacity: capacity,
		values:   make([]float64, 0, capacity+1),
	}
}

// SetObserver registers o (nil removes it).
func (w *Window) SetObserver(o Observer) {
	w.observer = o
}

// Scale converts a raw tick to g, rounded to two decimals, with the deadband
// applied.
func Scale(raw int) float64 {
	v := math.Round(float64(raw)/deviceUnitsPerG*100) / 100
	return deadband(v)
}

func deadband(v float64) float64 {
	if math.Abs(v) < Deadband {
		return 0
	}
	return v
}

// Add pushes one raw reading and returns the current average. ok is false
// while fewer than capacity readings have been seen.
func (w *Window) Add(raw int) (avg float64, ok bool) {
	v := Scale(raw)

	w.values = append(w.values, v)
	w.sum += v
	if len(w.values) > w.capacity {
		w.sum -= w.values[0]
		w.values = w.values[1:]
	}

	if len(w.values) < w.capacity {
		return 0, false
	}

	w.avg = deadband(w.sum / float64(w.capacity))
	w.ready = true
	if w.observer != nil {
		w.observer.OnAverageReady(w.avg)
	}
	return w.avg, true
}

// Average returns the last computed average. ok is false until the window
// has been filled once.
func (w *Window) Average() (float64, bool) {
	if !w.ready {
		return 0, false
	}
	return w.avg, true
}

// Len reports how many readings are held.
func (w *Window) Len() int { return len(w.values) }

// Capacity reports the configured size.
func (w *Window) Capacity() int { return w.capacity }

// Reset drops every reading; the window becomes not-ready again.
func (w *Window) Reset() {
	w.values = w.values[:0]
	w.sum = 0
	w.avg = 0
	w.ready = false
}
