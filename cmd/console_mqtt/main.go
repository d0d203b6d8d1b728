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
}

func main() {
	kong.Parse(&cli, kong.Name("console_mqtt"), kong.UsageOnError())

	log.Println("starting posture-computer console (MQTT subscriber)")

	if err := config.InitGlobal(cli.Config); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
