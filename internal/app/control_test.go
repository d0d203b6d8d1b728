// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/posture_computer/internal/imu"
	"github.com/relabs-tech/posture_computer/internal/orientation"
)

func TestApplyControl(t *testing.T) {
	est := orientation.NewEstimator(1)

	cmd, err := ApplyControl(est, []byte(`{"action":"set_yaw","yaw":-40}`))
	require.NoError(t, err)
	assert.Equal(t, ActionSetYaw, cmd.Action)
	assert.Equal(t, -40, est.Settings().YawCorrection)

	_, err = ApplyControl(est, []byte(`{"action":"set_invert","invert":true}`))
	require.NoError(t, err)
	assert.True(t, est.Settings().InvertYAxis)

	_, err = ApplyControl(est, []byte(`{"action":"set_yaw","yaw":0}`))
	require.NoError(t, err)
	_, err = ApplyControl(est, []byte(`{"action":"set_invert","invert":false}`))
	require.NoError(t, err)

	raw, ok := est.ProcessSample(imu.Sample{X: 800, Y: 300, Z: 200})
	require.True(t, ok)
	_, err = ApplyControl(est, []byte(`{"action":"calibrate"}`))
	require.NoError(t, err)
	assert.Equal(t, orientation.Target{Pitch: raw.Pitch, Roll: raw.Roll}, est.Calibration())
}

func TestApplyControlRejects(t *testing.T) {
	est := orientation.NewEstimator(1)
	for _, payload := range []string{
		`not json`,
		`{"action":"reboot"}`,
		`{"action":"set_yaw"}`,
		`{"action":"set_invert"}`,
	} {
		_, err := ApplyControl(est, []byte(payload))
		assert.Error(t, err, payload)
	}
	assert.Equal(t, orientation.Settings{}, est.Settings())
}

func TestLimitsExceeded(t *testing.T) {
	l := Limits{Pitch: 20, Roll: 0}
	p, r := l.Exceeded(orientation.Pose{Pitch: -25, Roll: 80})
	assert.True(t, p)
	assert.False(t, r, "zero limit disables the axis")

	p, _ = l.Exceeded(orientation.Pose{Pitch: 20})
	assert.False(t, p)
}

func TestFormatPose(t *testing.T) {
	line := formatPose("POSE", orientation.Pose{Pitch: 1.5, Roll: -31}, Limits{Pitch: 10, Roll: 30})
	assert.Equal(t, "[POSE]  PITCH=   1.50  ROLL= -31.00  !ROLL", line)
}
