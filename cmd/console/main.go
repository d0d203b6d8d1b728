// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"
	"time"

	"github.com/alecthomas/kong"

	"github.com/relabs-tech/posture_computer/internal/app"
)

var cli struct {
	Window         int           `help:"Samples per axis window." default:"10"`
	Yaw            int           `help:"Yaw correction in degrees." default:"0"`
	InvertY        bool          `help:"Flip the pitch sign."`
	Interval       time.Duration `help:"Time between mock samples." default:"100ms"`
	PitchLimit     int           `help:"Pitch display limit in degrees (0 disables)." default:"30"`
	RollLimit      int           `help:"Roll display limit in degrees (0 disables)." default:"30"`
	CalibrateAfter int           `help:"Calibrate after this many poses (0 never)." default:"0"`
}

func main() {
	kong.Parse(&cli, kong.Name("console"), kong.Description("Run the pose pipeline on a mock sensor."), kong.UsageOnError())

	log.Println("starting posture-computer (mock console)")

	if cli.Window <= 0 {
		log.Fatalf("--window must be positive, got %d", cli.Window)
	}
	if cli.Interval <= 0 {
		log.Fatalf("--interval must be positive, got %s", cli.Interval)
	}

	err := app.RunMockConsole(app.MockConsoleOptions{
		WindowCapacity: cli.Window,
		YawCorrection:  cli.Yaw,
		InvertYAxis:    cli.InvertY,
		Interval:       cli.Interval,
		Limits:         app.Limits{Pitch: cli.PitchLimit, Roll: cli.RollLimit},
		CalibrateAfter: cli.CalibrateAfter,
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
