// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// Sample is one raw accelerometer reading from the wearable, in unscaled
// device units (1000 units per g).
type Sample struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Source delivers one complete 3-axis sample per sensor tick.
type Source interface {
	NextSample() (Sample, error)
}
