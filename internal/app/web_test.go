// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/posture_computer/internal/orientation"
)

type controlRecorder struct {
	mu   sync.Mutex
	cmds []ControlCommand
	err  error
}

func (c *controlRecorder) send(cmd ControlCommand) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds = append(c.cmds, cmd)
	return c.err
}

func (c *controlRecorder) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *controlRecorder) list() []ControlCommand {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ControlCommand(nil), c.cmds...)
}

func newTestHub(t *testing.T) (*poseHub, *controlRecorder, *httptest.Server) {
	t.Helper()
	rec := &controlRecorder{}
	hub := newPoseHub(Limits{Pitch: 25, Roll: 15}, rec.send)
	srv := httptest.NewServer(hub.routes())
	t.Cleanup(srv.Close)
	return hub, rec, srv
}

func TestOrientationEndpoint(t *testing.T) {
	hub, _, srv := newTestHub(t)

	resp, err := http.Get(srv.URL + "/api/orientation")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	hub.Update(orientation.Pose{Pitch: 3.5, Roll: -1})

	resp, err = http.Get(srv.URL + "/api/orientation")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]float64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]float64{
		"pitch":       3.5,
		"roll":        -1,
		"pitch_limit": 25,
		"roll_limit":  15,
	}, body)
}

func TestCalibrateEndpoint(t *testing.T) {
	_, rec, srv := newTestHub(t)

	resp, err := http.Get(srv.URL + "/api/calibrate")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/calibrate", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []ControlCommand{{Action: ActionCalibrate}}, rec.list())

	rec.setErr(errors.New("broker down"))
	resp, err = http.Post(srv.URL+"/api/calibrate", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestSettingsEndpoint(t *testing.T) {
	_, rec, srv := newTestHub(t)

	resp, err := http.Post(srv.URL+"/api/settings", "application/json", strings.NewReader(`{"yaw":-20,"invert":true}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	cmds := rec.list()
	require.Len(t, cmds, 2)
	assert.Equal(t, ActionSetYaw, cmds[0].Action)
	assert.Equal(t, -20, *cmds[0].Yaw)
	assert.Equal(t, ActionSetInvert, cmds[1].Action)
	assert.True(t, *cmds[1].Invert)

	for _, body := range []string{`{}`, `{"yaw":"x"}`, `nope`} {
		resp, err := http.Post(srv.URL+"/api/settings", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	assert.Len(t, rec.list(), 2)
}

func TestWebsocketStream(t *testing.T) {
	hub, _, srv := newTestHub(t)
	hub.Update(orientation.Pose{Pitch: 1, Roll: 2})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var p orientation.Pose
	require.NoError(t, conn.ReadJSON(&p))
	assert.Equal(t, orientation.Pose{Pitch: 1, Roll: 2}, p)

	hub.Update(orientation.Pose{Pitch: -4, Roll: 0.5})
	require.NoError(t, conn.ReadJSON(&p))
	assert.Equal(t, orientation.Pose{Pitch: -4, Roll: 0.5}, p)
}

func TestWebsocketUnregistersOnClose(t *testing.T) {
	hub, _, srv := newTestHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	}, 5*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 0
	}, 5*time.Second, 10*time.Millisecond)
}
