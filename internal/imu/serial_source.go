// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialSource reads "x,y,z" lines from a sensor bridge attached to a
// serial port.
type SerialSource struct {
	*LineSource
	port io.ReadWriteCloser
}

// OpenSerial opens portName at baud (8N1).
func OpenSerial(portName string, baud int) (*SerialSource, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", portName, err)
	}
	log.Printf("imu: serial port opened on %s at %d baud", portName, baud)

	return &SerialSource{LineSource: NewLineSource(port), port: port}, nil
}

func (s *SerialSource) Close() error {
	return s.port.Close()
}
