// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"sync"

	"github.com/relabs-tech/posture_computer/internal/imu"
	"github.com/relabs-tech/posture_computer/internal/window"
)

// reassemblyDivisor is applied to each window average when the triplet is
// rebuilt. The window already converts to g, so this second division only
// shrinks the vector; tilt is scale invariant and the output is unchanged.
// Kept for parity with the deployed devices.
const reassemblyDivisor = 1000.0

// Settings are the user adjustable knobs of the estimator.
type Settings struct {
	YawCorrection int  `json:"yaw_correction"`
	InvertYAxis   bool `json:"invert_y_axis"`
}

// Observer receives every calibrated pose produced by the estimator.
type Observer interface {
	OnPose(p Pose)
}

type ObserverFunc func(p Pose)

func (f ObserverFunc) OnPose(p Pose) { f(p) }

// Estimator turns a stream of raw samples into calibrated poses.
// All methods are safe for concurrent use; ProcessSample, Calibrate and the
// setters share one lock so calibration never sees a half-updated pose.
type Estimator struct {
	mu sync.Mutex

	x, y, z *window.Window

	lastRaw Pose
	target  Target

	yawCorrection int
	pitchSign     float64

	observers []Observer
}

// NewEstimator builds an estimator whose per-axis windows hold capacity
// samples. It panics if capacity is not positive.
func NewEstimator(capacity int) *Estimator {
	return &Estimator{
		x:         window.New(capacity),
		y:         window.New(capacity),
		z:         window.New(capacity),
		pitchSign: 1,
	}
}

// Subscribe registers o for every pose returned by ProcessSample.
func (e *Estimator) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// ProcessSample feeds one sample through the pipeline. ok is false until all
// three windows have filled; no pose is produced and nothing is cached for
// calibration during that warm-up.
func (e *Estimator) ProcessSample(s imu.Sample) (Pose, bool) {
	e.mu.Lock()

	ax, okX := e.x.Add(s.X)
	ay, okY := e.y.Add(s.Y)
	az, okZ := e.z.Add(s.Z)
	if !okX || !okY || !okZ {
		e.mu.Unlock()
		return Pose{}, false
	}

	v := Vector{
		X: ax / reassemblyDivisor,
		Y: ay / reassemblyDivisor,
		Z: az / reassemblyDivisor,
	}
	raw := Tilt(Rotate(v, e.yawCorrection))
	e.lastRaw = raw

	out := Pose{
		Pitch: e.pitchSign * (raw.Pitch - e.target.Pitch),
		Roll:  raw.Roll - e.target.Roll,
	}
	observers := e.observers
	e.mu.Unlock()

	for _, o := range observers {
		o.OnPose(out)
	}
	return out, true
}

// Calibrate makes the most recent raw pose the neutral reference. It takes
// effect on the next sample.
func (e *Estimator) Calibrate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.target = Target{Pitch: e.lastRaw.Pitch, Roll: e.lastRaw.Roll}
}

// Calibration returns the stored target.
func (e *Estimator) Calibration() Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// SetCalibration restores a target saved elsewhere.
func (e *Estimator) SetCalibration(t Target) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.target = t
}

// LastRaw returns the uncalibrated pose of the last processed sample.
func (e *Estimator) LastRaw() Pose {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRaw
}

func (e *Estimator) SetYawCorrection(deg int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.yawCorrection = deg
}

func (e *Estimator) SetInvertYAxis(invert bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if invert {
		e.pitchSign = -1
	} else {
		e.pitchSign = 1
	}
}

// Apply sets both knobs at once.
func (e *Estimator) Apply(s Settings) {
	e.SetYawCorrection(s.YawCorrection)
	e.SetInvertYAxis(s.InvertYAxis)
}

func (e *Estimator) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Settings{YawCorrection: e.yawCorrection, InvertYAxis: e.pitchSign < 0}
}
