// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"

	"github.com/relabs-tech/posture_computer/internal/imu"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a sample source that simulates a slowly nodding and
// tilting head, with gravity mostly along +X.
func NewMockSource() imu.Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) NextSample() (imu.Sample, error) {
	elapsed := m.now().Sub(m.start).Seconds()
	return mockSampleAt(elapsed), nil
}

func mockSampleAt(elapsed float64) imu.Sample {
	pitch := 15 * math.Cos(elapsed*0.7) * math.Pi / 180
	roll := 20 * math.Sin(elapsed) * math.Pi / 180

	ay := -math.Sin(pitch)
	az := math.Sin(roll)
	ax := math.Sqrt(math.Max(0, 1-ay*ay-az*az))

	return imu.Sample{
		X: int(math.Round(ax * 1000)),
		Y: int(math.Round(ay * 1000)),
		Z: int(math.Round(az * 1000)),
	}
}
