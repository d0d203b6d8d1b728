// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"

	"github.com/alecthomas/kong"

	"github.com/relabs-tech/posture_computer/internal/app"
	"github.com/relabs-tech/posture_computer/internal/config"
)

var cli struct {
	Config string `help:"Path to configuration file." default:"./posture_config.txt" type:"path"`
	Source string `help:"Override SENSOR_SOURCE (mock, serial, mqtt)."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("producer"),
		kong.Description("Accelerometer samples to calibrated head pose over MQTT."),
		kong.UsageOnError(),
	)

	log.Println("starting posture-computer producer (samples → pose → MQTT)")

	if err := config.InitGlobal(cli.Config); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunPostureProducer(cli.Source); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
