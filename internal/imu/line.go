// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseLine decodes an "x,y,z" line. Surrounding whitespace is ignored.
func ParseLine(line string) (Sample, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 3 {
		return Sample{}, fmt.Errorf("imu: want 3 fields, got %d in %q", len(parts), line)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Sample{}, fmt.Errorf("imu: field %d of %q: %w", i, line, err)
		}
		v[i] = n
	}
	return Sample{X: v[0], Y: v[1], Z: v[2]}, nil
}

// FormatLine is the inverse of ParseLine.
func FormatLine(s Sample) string {
	return fmt.Sprintf("%d,%d,%d", s.X, s.Y, s.Z)
}

// LineSource reads samples from a line oriented stream, skipping blank,
// comment ("#") and malformed lines.
type LineSource struct {
	r *bufio.Reader

	// Skipped counts lines that could not be decoded.
	Skipped int
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: bufio.NewReader(r)}
}

func (s *LineSource) NextSample() (Sample, error) {
	for {
		line, err := s.r.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			sample, perr := ParseLine(trimmed)
			if perr == nil {
				return sample, nil
			}
			// partial lines are common right after the port opens
			s.Skipped++
		}
		if err != nil {
			return Sample{}, err
		}
	}
}
