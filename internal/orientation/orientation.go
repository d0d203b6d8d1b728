// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
)

// Pose is the head orientation delivered to presentation, in degrees.
type Pose struct {
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// Target is the neutral pose captured by Calibrate.
type Target struct {
	Pitch float64 `json:"pitch_target"`
	Roll  float64 `json:"roll_target"`
}

// Vector is an acceleration triplet in arbitrary units.
type Vector struct {
	X, Y, Z float64
}

// Tilt computes pitch and roll from a gravity vector:
//
//	roll  = atan(az / sqrt(ax² + ay²))
//	pitch = -atan(ay / sqrt(ax² + az²))
//
// atan2 is used so a zero denominator gives ±90° (or 0 when the numerator is
// also zero) instead of NaN.
func Tilt(v Vector) Pose {
	rollRad := math.Atan2(v.Z, math.Sqrt(v.X*v.X+v.Y*v.Y))
	pitchRad := -math.Atan2(v.Y, math.Sqrt(v.X*v.X+v.Z*v.Z))

	return Pose{
		Pitch: pitchRad * 180.0 / math.Pi,
		Roll:  rollRad * 180.0 / math.Pi,
	}
}
