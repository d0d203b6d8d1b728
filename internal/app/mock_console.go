// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/posture_computer/internal/orientation"
)

// MockConsoleOptions configure the offline pipeline demo.
type MockConsoleOptions struct {
	WindowCapacity int
	YawCorrection  int
	InvertYAxis    bool
	Interval       time.Duration
	Limits         Limits
	// CalibrateAfter captures the neutral pose once this many poses were
	// printed; zero never calibrates.
	CalibrateAfter int
}

// RunMockConsole drives the estimator with the mock source and prints every
// pose, without MQTT.
func RunMockConsole(opts MockConsoleOptions) error {
	est := orientation.NewEstimator(opts.WindowCapacity)
	est.Apply(orientation.Settings{YawCorrection: opts.YawCorrection, InvertYAxis: opts.InvertYAxis})

	printed := 0
	est.Subscribe(orientation.ObserverFunc(func(p orientation.Pose) {
		fmt.Println(formatPose("MOCK", p, opts.Limits))
		printed++
		if opts.CalibrateAfter > 0 && printed == opts.CalibrateAfter {
			est.Calibrate()
			fmt.Printf("[MOCK]  calibrated at %+v\n", est.Calibration())
		}
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return pump(ctx, orientation.NewMockSource(), est, opts.Interval)
}
