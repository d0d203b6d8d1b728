// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import "math"

// Rotate turns v about the sensor X axis by yawDeg degrees. The angle is the
// fixed mounting offset of the earable, not a measured yaw.
//
//	x' = x
//	y' = cos(θ)·y − sin(θ)·z
//	z' = sin(θ)·y + cos(θ)·z
func Rotate(v Vector, yawDeg int) Vector {
	if yawDeg == 0 {
		return v
	}
	theta := float64(yawDeg) * math.Pi / 180.0
	sin, cos := math.Sincos(theta)
	return Vector{
		X: v.X,
		Y: cos*v.Y - sin*v.Z,
		Z: sin*v.Y + cos*v.Z,
	}
}
