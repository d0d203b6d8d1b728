// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"math"

	"github.com/relabs-tech/posture_computer/internal/orientation"
)

// Limits are the display thresholds in degrees. Zero disables an axis.
type Limits struct {
	Pitch int `json:"pitch_limit"`
	Roll  int `json:"roll_limit"`
}

// Exceeded reports which axes are beyond their limit.
func (l Limits) Exceeded(p orientation.Pose) (pitch, roll bool) {
	pitch = l.Pitch > 0 && math.Abs(p.Pitch) > float64(l.Pitch)
	roll = l.Roll > 0 && math.Abs(p.Roll) > float64(l.Roll)
	return pitch, roll
}

// formatPose renders one console line.
func formatPose(tag string, p orientation.Pose, l Limits) string {
	line := fmt.Sprintf("[%s]  PITCH=%7.2f  ROLL=%7.2f", tag, p.Pitch, p.Roll)
	pitchOut, rollOut := l.Exceeded(p)
	if pitchOut {
		line += "  !PITCH"
	}
	if rollOut {
		line += "  !ROLL"
	}
	return line
}
