// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	s, err := ParseLine(" 12, -340 ,1000\r\n")
	require.NoError(t, err)
	assert.Equal(t, Sample{X: 12, Y: -340, Z: 1000}, s)

	_, err = ParseLine("1,2")
	assert.Error(t, err)
	_, err = ParseLine("1,b,3")
	assert.Error(t, err)
}

func TestFormatLineRoundTrip(t *testing.T) {
	in := Sample{X: -1, Y: 0, Z: 987}
	out, err := ParseLine(FormatLine(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLineSourceSkipsNoise(t *testing.T) {
	src := NewLineSource(strings.NewReader("#hdr\n\n00,1\n1,2,3\ngarbage\n4,5,6"))

	s, err := src.NextSample()
	require.NoError(t, err)
	assert.Equal(t, Sample{1, 2, 3}, s)

	// last line has no trailing newline
	s, err = src.NextSample()
	require.NoError(t, err)
	assert.Equal(t, Sample{4, 5, 6}, s)

	_, err = src.NextSample()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, src.Skipped)
}
