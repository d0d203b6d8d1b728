// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/posture_computer/internal/config"
	"github.com/relabs-tech/posture_computer/internal/imu"
	"github.com/relabs-tech/posture_computer/internal/orientation"
)

// publisher is the part of mqtt.Client the producer needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// posePublisher forwards every calibrated pose to the pose topic.
type posePublisher struct {
	client publisher
	topic  string
}

func (p *posePublisher) OnPose(pose orientation.Pose) {
	payload, err := json.Marshal(pose)
	if err != nil {
		log.Printf("producer: json marshal error (pose): %v", err)
		return
	}
	if token := p.client.Publish(p.topic, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("producer: MQTT publish error (%s): %v", p.topic, token.Error())
	}
}

// NewEstimatorFromConfig builds the estimator with the configured window and
// settings applied.
func NewEstimatorFromConfig(cfg *config.Config) *orientation.Estimator {
	est := orientation.NewEstimator(cfg.WindowCapacity)
	est.Apply(orientation.Settings{
		YawCorrection: cfg.YawCorrection,
		InvertYAxis:   cfg.InvertYAxis,
	})
	return est
}

// pump reads samples from src into est until ctx is done or src is
// exhausted. With interval > 0 one sample is taken per tick.
func pump(ctx context.Context, src imu.Source, est *orientation.Estimator, interval time.Duration) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}

		s, err := src.NextSample()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read sample: %w", err)
		}
		est.ProcessSample(s)
	}
}

// RunPostureProducer reads accelerometer samples from the configured source,
// runs them through the orientation estimator and publishes calibrated poses
// to MQTT. Control commands arrive on the control topic.
func RunPostureProducer(sourceOverride string) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("producer: config not loaded")
	}
	source := cfg.SensorSource
	if sourceOverride != "" {
		source = sourceOverride
	}
	log.Printf("producer: starting (source=%s window=%d yaw=%d invertY=%t)",
		source, cfg.WindowCapacity, cfg.YawCorrection, cfg.InvertYAxis)

	est := NewEstimatorFromConfig(cfg)

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	est.Subscribe(&posePublisher{client: client, topic: cfg.TopicPose})

	if cfg.TopicControl != "" {
		token := client.Subscribe(cfg.TopicControl, 1, func(_ mqtt.Client, msg mqtt.Message) {
			cmd, err := ApplyControl(est, msg.Payload())
			if err != nil {
				log.Printf("producer: %v", err)
				return
			}
			log.Printf("producer: applied control %q (settings=%+v target=%+v)",
				cmd.Action, est.Settings(), est.Calibration())
		})
		if token.Wait() && token.Error() != nil {
			return fmt.Errorf("MQTT subscribe %s: %w", cfg.TopicControl, token.Error())
		}
		log.Printf("producer: subscribed to %s", cfg.TopicControl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch source {
	case config.SourceMock:
		log.Println("producer: using mock sample source")
		return pump(ctx, orientation.NewMockSource(), est, time.Duration(cfg.SampleInterval)*time.Millisecond)

	case config.SourceSerial:
		src, err := imu.OpenSerial(cfg.SerialPort, cfg.SerialBaudRate)
		if err != nil {
			return err
		}
		go func() {
			// unblocks a pending read on shutdown
			<-ctx.Done()
			_ = src.Close()
		}()
		err = pump(ctx, src, est, 0)
		if src.Skipped > 0 {
			log.Printf("producer: skipped %d malformed serial lines", src.Skipped)
		}
		if ctx.Err() != nil {
			return nil
		}
		return err

	case config.SourceMQTT:
		token := client.Subscribe(cfg.TopicSample, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var s imu.Sample
			if err := json.Unmarshal(msg.Payload(), &s); err != nil {
				log.Printf("producer: sample unmarshal error: %v", err)
				return
			}
			est.ProcessSample(s)
		})
		if token.Wait() && token.Error() != nil {
			return fmt.Errorf("MQTT subscribe %s: %w", cfg.TopicSample, token.Error())
		}
		log.Printf("producer: subscribed to %s", cfg.TopicSample)
		<-ctx.Done()
		log.Println("producer: shutting down")
		return nil

	default:
		return fmt.Errorf("producer: unknown sensor source %q", source)
	}
}
