// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Sensor sources understood by the producer.
const (
	SourceMock   = "mock"
	SourceSerial = "serial"
	SourceMQTT   = "mqtt"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string `yaml:"mqtt_broker"`
	MQTTClientIDProducer string `yaml:"mqtt_client_id_producer"`
	MQTTClientIDWeb      string `yaml:"mqtt_client_id_web"`
	MQTTClientIDConsole  string `yaml:"mqtt_client_id_console"`

	// Topics
	TopicSample  string `yaml:"topic_sample"`
	TopicPose    string `yaml:"topic_pose"`
	TopicControl string `yaml:"topic_control"`

	// Sensor input
	SensorSource   string `yaml:"sensor_source"`
	SerialPort     string `yaml:"serial_port"`
	SerialBaudRate int    `yaml:"serial_baud_rate"`

	// Orientation pipeline
	WindowCapacity int  `yaml:"window_capacity"`
	YawCorrection  int  `yaml:"yaw_correction"` // degrees, mounting offset
	InvertYAxis    bool `yaml:"invert_y_axis"`

	// Display limits, used by presentation only
	PitchLimit int `yaml:"pitch_limit"`
	RollLimit  int `yaml:"roll_limit"`

	// Timing
	SampleInterval int `yaml:"sample_interval"` // milliseconds, mock source only

	// Web Server
	WebServerPort int `yaml:"web_server_port"`
}

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDProducer: "posture-producer",
		MQTTClientIDWeb:      "posture-web",
		MQTTClientIDConsole:  "posture-console",
		TopicSample:          "posture/sample",
		TopicPose:            "posture/pose",
		TopicControl:         "posture/control",
		SensorSource:         SourceMock,
		SerialBaudRate:       115200,
		WindowCapacity:       10,
		PitchLimit:           30,
		RollLimit:            30,
		SampleInterval:       10,
		WebServerPort:        8080,
	}
}

// Package-level state for the singleton; use InitGlobal and Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
// Files ending in .yaml or .yml are decoded as YAML, anything else as
// KEY=VALUE lines.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		return LoadYAML(file)
	default:
		return Parse(file)
	}
}

// Parse reads KEY=VALUE lines. Empty lines and lines starting with # are
// ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadYAML decodes a YAML document on top of the defaults. Unknown fields
// are rejected.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_SAMPLE":
		c.TopicSample = value
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_CONTROL":
		c.TopicControl = value

	// Sensor input
	case "SENSOR_SOURCE":
		c.SensorSource = strings.ToLower(value)
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		c.SerialBaudRate, err = parseInt(key, value)

	// Orientation pipeline
	case "WINDOW_CAPACITY":
		c.WindowCapacity, err = parseInt(key, value)
	case "YAW_CORRECTION":
		c.YawCorrection, err = parseInt(key, value)
	case "INVERT_Y_AXIS":
		b, perr := strconv.ParseBool(value)
		if perr != nil {
			return fmt.Errorf("invalid INVERT_Y_AXIS %q: %w", value, perr)
		}
		c.InvertYAxis = b

	// Display limits
	case "PITCH_LIMIT":
		c.PitchLimit, err = parseInt(key, value)
	case "ROLL_LIMIT":
		c.RollLimit, err = parseInt(key, value)

	// Timing
	case "SAMPLE_INTERVAL":
		c.SampleInterval, err = parseInt(key, value)

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that all required fields are set and in range.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicPose == "" {
		return fmt.Errorf("TOPIC_POSE is required")
	}
	if c.WindowCapacity <= 0 {
		return fmt.Errorf("WINDOW_CAPACITY must be positive, got %d", c.WindowCapacity)
	}
	switch c.SensorSource {
	case SourceMock:
		if c.SampleInterval <= 0 {
			return fmt.Errorf("SAMPLE_INTERVAL must be positive, got %d", c.SampleInterval)
		}
	case SourceSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required when SENSOR_SOURCE=serial")
		}
		if c.SerialBaudRate <= 0 {
			return fmt.Errorf("SERIAL_BAUD_RATE must be positive, got %d", c.SerialBaudRate)
		}
	case SourceMQTT:
		if c.TopicSample == "" {
			return fmt.Errorf("TOPIC_SAMPLE is required when SENSOR_SOURCE=mqtt")
		}
	default:
		return fmt.Errorf("SENSOR_SOURCE must be one of mock, serial, mqtt, got %q", c.SensorSource)
	}
	if c.PitchLimit < 0 || c.RollLimit < 0 {
		return fmt.Errorf("PITCH_LIMIT and ROLL_LIMIT must not be negative")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls are no-ops.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
