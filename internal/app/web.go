// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/posture_computer/internal/config"
	"github.com/relabs-tech/posture_computer/internal/orientation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// orientationResponse is served by /api/orientation.
type orientationResponse struct {
	orientation.Pose
	Limits
}

// settingsRequest is the body of POST /api/settings.
type settingsRequest struct {
	Yaw    *int  `json:"yaw"`
	Invert *bool `json:"invert"`
}

// poseHub keeps the latest pose and fans it out to websocket clients.
type poseHub struct {
	limits  Limits
	control func(ControlCommand) error

	mu       sync.RWMutex
	lastPose orientation.Pose
	havePose bool
	clients  map[chan orientation.Pose]struct{}
}

func newPoseHub(limits Limits, control func(ControlCommand) error) *poseHub {
	return &poseHub{
		limits:  limits,
		control: control,
		clients: make(map[chan orientation.Pose]struct{}),
	}
}

// Update stores p and offers it to every client. Slow clients miss poses
// rather than stall the feed.
func (h *poseHub) Update(p orientation.Pose) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastPose = p
	h.havePose = true
	for ch := range h.clients {
		select {
		case ch <- p:
		default:
		}
	}
}

func (h *poseHub) latest() (orientation.Pose, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastPose, h.havePose
}

func (h *poseHub) register() (chan orientation.Pose, orientation.Pose, bool) {
	ch := make(chan orientation.Pose, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = struct{}{}
	return ch, h.lastPose, h.havePose
}

func (h *poseHub) unregister(ch chan orientation.Pose) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
}

func (h *poseHub) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orientation", h.handleOrientation)
	mux.HandleFunc("/api/calibrate", h.handleCalibrate)
	mux.HandleFunc("/api/settings", h.handleSettings)
	mux.HandleFunc("/ws", h.handleWS)
	return mux
}

func (h *poseHub) handleOrientation(w http.ResponseWriter, r *http.Request) {
	pose, ok := h.latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orientationResponse{Pose: pose, Limits: h.limits}); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (h *poseHub) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.control(ControlCommand{Action: ActionCalibrate}); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *poseHub) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("bad settings: %v", err), http.StatusBadRequest)
		return
	}
	if req.Yaw == nil && req.Invert == nil {
		http.Error(w, "bad settings: need yaw or invert", http.StatusBadRequest)
		return
	}

	if req.Yaw != nil {
		if err := h.control(ControlCommand{Action: ActionSetYaw, Yaw: req.Yaw}); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
	if req.Invert != nil {
		if err := h.control(ControlCommand{Action: ActionSetInvert, Invert: req.Invert}); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *poseHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch, last, have := h.register()
	defer h.unregister(ch)

	// The reader only detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if have {
		if err := conn.WriteJSON(last); err != nil {
			return
		}
	}
	for {
		select {
		case <-closed:
			return
		case p := <-ch:
			if err := conn.WriteJSON(p); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
		}
	}
}

// RunWeb subscribes to calibrated poses on MQTT and serves them over HTTP
// and websocket. Calibration and settings requests are forwarded to the
// producer on the control topic.
func RunWeb() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("web: config not loaded")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	control := func(cmd ControlCommand) error {
		payload, err := json.Marshal(cmd)
		if err != nil {
			return err
		}
		if token := client.Publish(cfg.TopicControl, 1, false, payload); token.Wait() && token.Error() != nil {
			return fmt.Errorf("publish control: %w", token.Error())
		}
		return nil
	}
	hub := newPoseHub(Limits{Pitch: cfg.PitchLimit, Roll: cfg.RollLimit}, control)

	token := client.Subscribe(cfg.TopicPose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("web: MQTT payload unmarshal error: %v", err)
			return
		}
		hub.Update(p)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicPose)

	mux := hub.routes()
	mux.Handle("/", http.FileServer(http.Dir("web")))

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
