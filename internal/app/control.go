// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"

	"github.com/relabs-tech/posture_computer/internal/orientation"
)

// Control actions accepted on the control topic.
const (
	ActionCalibrate = "calibrate"
	ActionSetYaw    = "set_yaw"
	ActionSetInvert = "set_invert"
)

// ControlCommand is the JSON payload published on the control topic.
type ControlCommand struct {
	Action string `json:"action"`
	Yaw    *int   `json:"yaw,omitempty"`
	Invert *bool  `json:"invert,omitempty"`
}

// Validate checks that the command carries what its action needs.
func (c ControlCommand) Validate() error {
	switch c.Action {
	case ActionCalibrate:
		return nil
	case ActionSetYaw:
		if c.Yaw == nil {
			return fmt.Errorf("control: %s needs yaw", c.Action)
		}
		return nil
	case ActionSetInvert:
		if c.Invert == nil {
			return fmt.Errorf("control: %s needs invert", c.Action)
		}
		return nil
	default:
		return fmt.Errorf("control: unknown action %q", c.Action)
	}
}

// ApplyControl decodes payload and runs the matching estimator operation.
func ApplyControl(est *orientation.Estimator, payload []byte) (ControlCommand, error) {
	var cmd ControlCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return cmd, fmt.Errorf("control: decode: %w", err)
	}
	if err := cmd.Validate(); err != nil {
		return cmd, err
	}

	switch cmd.Action {
	case ActionCalibrate:
		est.Calibrate()
	case ActionSetYaw:
		est.SetYawCorrection(*cmd.Yaw)
	case ActionSetInvert:
		est.SetInvertYAxis(*cmd.Invert)
	}
	return cmd, nil
}
