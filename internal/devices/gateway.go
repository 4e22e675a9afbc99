package devices

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Gateway abstracts one room's sensor read and heater write. Implementations
// return errors instead of panicking when a device is unreachable; every call
// is bounded by a timeout.
type Gateway interface {
	ReadTemperature(ctx context.Context, roomID string) (float64, error)
	SetHeater(ctx context.Context, roomID string, on bool) error
}

const roomIDPlaceholder = "{room_id}"

// HTTPGateway talks to per-room devices over plain HTTP. Endpoint URLs are
// derived from patterns containing a {room_id} placeholder.
type HTTPGateway struct {
	sensorPattern string
	heaterPattern string
	client        *http.Client
}

// NewHTTPGateway builds a gateway with the given URL patterns and per-call
// timeout.
func NewHTTPGateway(sensorPattern, heaterPattern string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		sensorPattern: sensorPattern,
		heaterPattern: heaterPattern,
		client:        &http.Client{Timeout: timeout},
	}
}

type temperatureReply struct {
	Temperature *float64 `json:"temperature"`
}

type heaterRequest struct {
	Status bool `json:"status"`
}

type heaterReply struct {
	Success bool `json:"success"`
}

// ReadTemperature fetches the current reading from the room's sensor.
func (g *HTTPGateway) ReadTemperature(ctx context.Context, roomID string) (float64, error) {
	url := strings.ReplaceAll(g.sensorPattern, roomIDPlaceholder, roomID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build sensor request for %s: %w", roomID, err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("read sensor for %s: %w", roomID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("sensor for %s returned status %d", roomID, resp.StatusCode)
	}

	var reply temperatureReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return 0, fmt.Errorf("decode sensor reply for %s: %w", roomID, err)
	}
	if reply.Temperature == nil {
		return 0, fmt.Errorf("sensor reply for %s is missing temperature", roomID)
	}
	return *reply.Temperature, nil
}

// SetHeater commands the room's heater on or off. The device must acknowledge
// with success=true for the command to count.
func (g *HTTPGateway) SetHeater(ctx context.Context, roomID string, on bool) error {
	url := strings.ReplaceAll(g.heaterPattern, roomIDPlaceholder, roomID)

	body, err := json.Marshal(heaterRequest{Status: on})
	if err != nil {
		return fmt.Errorf("encode heater request for %s: %w", roomID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build heater request for %s: %w", roomID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("command heater for %s: %w", roomID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("heater for %s returned status %d", roomID, resp.StatusCode)
	}

	var reply heaterReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decode heater reply for %s: %w", roomID, err)
	}
	if !reply.Success {
		return fmt.Errorf("heater for %s refused the command", roomID)
	}
	return nil
}
