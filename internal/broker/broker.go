// Package broker bridges the perception processes to the control loop over
// MQTT. The wake-word engine, pose tracker and marker detector run out of
// process and publish JSON detections; this client decodes them into the
// sensor slots and publishes loop telemetry back out.
package broker

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/bindiesel/bindiesel_client/internal/config"
	"github.com/bindiesel/bindiesel_client/internal/models"
	"github.com/bindiesel/bindiesel_client/internal/sensor"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const connectTimeout = 5 * time.Second

// OperatorRequest is the payload on the operator topic. Stop and reset both
// drop the robot back to idle.
type OperatorRequest struct {
	Command string `json:"command"`
}

type Broker struct {
	cfg    config.BrokerConfig
	client mqtt.Client

	person *sensor.Slot[models.PersonSignal]
	home   *sensor.Slot[models.HomeSignal]
	wake   *sensor.Latch
	reset  *sensor.Latch
}

func New(cfg config.BrokerConfig, person *sensor.Slot[models.PersonSignal], home *sensor.Slot[models.HomeSignal], wake, reset *sensor.Latch) *Broker {
	return &Broker{
		cfg:    cfg,
		person: person,
		home:   home,
		wake:   wake,
		reset:  reset,
	}
}

func (b *Broker) Connect() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", b.cfg.Host, b.cfg.Port))
	opts.SetClientID(b.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.OnConnect = func(client mqtt.Client) {
		log.Println("connected to mqtt broker")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("mqtt connection lost: %s\n", err.Error())
	}

	b.client = mqtt.NewClient(opts)
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed connecting to mqtt broker: %w", token.Error())
	}

	return b.subscribe()
}

func (b *Broker) subscribe() error {
	subscriptions := map[string]mqtt.MessageHandler{
		b.topic("person"):   b.onPerson,
		b.topic("marker"):   b.onMarker,
		b.topic("wake"):     b.onWake,
		b.topic("operator"): b.onOperator,
	}

	for topic, handler := range subscriptions {
		if token := b.client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("failed subscribing to %s: %w", topic, token.Error())
		}
		log.Printf("subscribed to topic: %s\n", topic)
	}
	return nil
}

func (b *Broker) onPerson(client mqtt.Client, msg mqtt.Message) {
	var signal models.PersonSignal
	err := json.Unmarshal(msg.Payload(), &signal)
	if err != nil {
		log.Printf("failed unmarshaling person detection: %s\n", err.Error())
		return
	}
	b.person.Publish(signal)
}

func (b *Broker) onMarker(client mqtt.Client, msg mqtt.Message) {
	var signal models.HomeSignal
	err := json.Unmarshal(msg.Payload(), &signal)
	if err != nil {
		log.Printf("failed unmarshaling marker detection: %s\n", err.Error())
		return
	}
	b.home.Publish(signal)
}

func (b *Broker) onWake(client mqtt.Client, msg mqtt.Message) {
	log.Println("wake event from broker")
	b.wake.Trigger()
}

func (b *Broker) onOperator(client mqtt.Client, msg mqtt.Message) {
	var req OperatorRequest
	err := json.Unmarshal(msg.Payload(), &req)
	if err != nil {
		log.Printf("failed unmarshaling operator request: %s\n", err.Error())
		return
	}

	switch req.Command {
	case "stop", "reset":
		log.Printf("operator %s from broker\n", req.Command)
		b.reset.Trigger()
	case "wake":
		log.Println("operator wake from broker")
		b.wake.Trigger()
	default:
		log.Printf("unknown operator command: %s\n", req.Command)
	}
}

// PublishTelemetry sends a loop snapshot on the state topic, fire and forget.
func (b *Broker) PublishTelemetry(telemetry models.Telemetry) {
	if b.client == nil || !b.client.IsConnected() {
		return
	}

	data, err := json.Marshal(telemetry)
	if err != nil {
		log.Printf("failed marshaling telemetry: %s\n", err.Error())
		return
	}
	b.client.Publish(b.topic("state"), 0, false, data)
}

func (b *Broker) Close() {
	if b.client != nil {
		b.client.Disconnect(250)
	}
}

func (b *Broker) topic(name string) string {
	return fmt.Sprintf("%s/%s", b.cfg.TopicBase, name)
}
