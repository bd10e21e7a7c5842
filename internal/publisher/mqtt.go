package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ewagner/gridbatch/internal/config"
	"github.com/ewagner/gridbatch/pkg/models"
)

// Publisher pushes pipeline results to an MQTT broker so downstream
// dashboards pick up new device totals without polling the output files.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New connects to the configured MQTT broker
func New(cfg config.MQTTConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("gridbatch")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	// Create and connect client
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.GetTopicPrefix(),
	}, nil
}

// DevicePayload is the per-device message published after a run
type DevicePayload struct {
	Serial            string  `json:"serial"`
	GridPurchaseTotal float64 `json:"grid_purchase_total"`
	GridFeedinTotal   float64 `json:"grid_feedin_total"`
	PublishedAt       string  `json:"published_at"`
}

// RunPayload is the run-level summary message
type RunPayload struct {
	Devices     int    `json:"devices"`
	PublishedAt string `json:"published_at"`
}

// PublishDeviceSummary sends one device's lifetime totals, retained so late
// subscribers see the latest run.
func (p *Publisher) PublishDeviceSummary(summary models.DeviceSummary) error {
	payload := DevicePayload{
		Serial:            summary.Serial,
		GridPurchaseTotal: summary.GridPurchaseTotal,
		GridFeedinTotal:   summary.GridFeedinTotal,
		PublishedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := fmt.Sprintf("%s/%s/summary", p.topicPrefix, summary.Serial)
	if token := p.client.Publish(topic, 1, true, body); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}

// PublishRunSummary announces that a full set of device summaries was published
func (p *Publisher) PublishRunSummary(devices int) error {
	payload := RunPayload{
		Devices:     devices,
		PublishedAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := fmt.Sprintf("%s/run", p.topicPrefix)
	if token := p.client.Publish(topic, 1, true, body); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
