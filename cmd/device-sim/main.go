// device-sim stands in for the physical garden device: it reports
// simulated sensor readings on an interval, polls for pending commands,
// "executes" them and acknowledges each one. Watering visibly lowers the
// raw soil value so the dashboard sees the moisture recover.
package main

import (
	"encoding/json"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type reading struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

type ingestRequest struct {
	DeviceID string    `json:"device_id"`
	Readings []reading `json:"readings"`
}

type commandPayload struct {
	Action     string `json:"action"`
	DurationMS int    `json:"duration_ms"`
}

type command struct {
	ID      string          `json:"id"`
	Command json.RawMessage `json:"command"`
}

type ackRequest struct {
	CommandID string `json:"command_id"`
	Status    string `json:"status"`
}

type simulator struct {
	client   *resty.Client
	logger   *zap.Logger
	deviceID string

	soil  float64
	light float64
	temp  float64
	hum   float64
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	baseURL := getEnvWithDefault("GATEWAY_URL", "http://localhost:8080")
	deviceID := getEnvWithDefault("DEVICE_ID", "farm_001")
	interval := intervalFromEnv()

	sim := &simulator{
		client:   resty.New().SetBaseURL(baseURL).SetTimeout(5 * time.Second),
		logger:   logger.With(zap.String("device_id", deviceID)),
		deviceID: deviceID,
		soil:     2800, // start thirsty so the mission has something to teach
		light:    900,
		temp:     24,
		hum:      55,
	}

	sim.logger.Info("device simulator started",
		zap.String("gateway", baseURL),
		zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		sim.drift()
		sim.report()
		sim.pollCommands()
	}
}

// drift nudges every sensor a little so the charts move.
func (s *simulator) drift() {
	s.soil += rand.Float64()*20 - 5 // dries out slowly between waterings
	s.light += rand.Float64()*60 - 30
	s.temp += rand.Float64()*0.6 - 0.3
	s.hum += rand.Float64()*2 - 1
}

func (s *simulator) report() {
	req := ingestRequest{
		DeviceID: s.deviceID,
		Readings: []reading{
			{Metric: "soil", Value: s.soil},
			{Metric: "light", Value: s.light},
			{Metric: "temp", Value: s.temp},
			{Metric: "hum", Value: s.hum},
		},
	}

	resp, err := s.client.R().SetBody(req).Post("/sensors")
	if err != nil {
		s.logger.Warn("failed to report readings", zap.Error(err))
		return
	}
	if resp.IsError() {
		s.logger.Warn("gateway rejected readings",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
	}
}

func (s *simulator) pollCommands() {
	var pending []command
	resp, err := s.client.R().
		SetQueryParam("device_id", s.deviceID).
		SetQueryParam("status", "pending").
		SetResult(&pending).
		Get("/commands")
	if err != nil {
		s.logger.Warn("failed to poll commands", zap.Error(err))
		return
	}
	if resp.IsError() {
		s.logger.Warn("gateway rejected poll",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return
	}

	// execute in the order received: the gateway returns oldest first
	for _, cmd := range pending {
		s.execute(cmd)
		s.acknowledge(cmd.ID)
	}
}

func (s *simulator) execute(cmd command) {
	var payload commandPayload
	if err := json.Unmarshal(cmd.Command, &payload); err != nil {
		s.logger.Warn("skipping malformed command",
			zap.String("command_id", cmd.ID),
			zap.Error(err))
		return
	}

	switch payload.Action {
	case "water":
		s.soil -= 800
		if s.soil < 1200 {
			s.soil = 1200
		}
	case "light":
		s.light += 300
	case "fan":
		s.temp -= 1.5
		s.hum -= 5
	default:
		s.logger.Info("ignoring unknown action",
			zap.String("command_id", cmd.ID),
			zap.String("action", payload.Action))
		return
	}

	s.logger.Info("executed command",
		zap.String("command_id", cmd.ID),
		zap.String("action", payload.Action),
		zap.Int("duration_ms", payload.DurationMS))
}

func (s *simulator) acknowledge(commandID string) {
	resp, err := s.client.R().
		SetBody(ackRequest{CommandID: commandID, Status: "ack"}).
		Patch("/commands")
	if err != nil {
		s.logger.Warn("failed to acknowledge command",
			zap.String("command_id", commandID),
			zap.Error(err))
		return
	}
	if resp.IsError() {
		s.logger.Warn("gateway rejected acknowledgement",
			zap.String("command_id", commandID),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
	}
}

func intervalFromEnv() time.Duration {
	raw := os.Getenv("REPORT_INTERVAL_SECONDS")
	if raw == "" {
		return 2 * time.Second
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
