// Package console connects the robot to the operator console server over
// socket.io. Operators get a periodic HUD and health checks and can send
// wake/stop/reset back, which land in the same latches the broker uses.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/bindiesel/bindiesel_client/internal/config"
	"github.com/bindiesel/bindiesel_client/internal/models"
	"github.com/bindiesel/bindiesel_client/internal/sensor"
	socketio "github.com/googollee/go-socket.io"
	"github.com/prometheus/procfs"
)

type Console struct {
	cfg    config.ConsoleConfig
	client *socketio.Client

	wake  *sensor.Latch
	reset *sensor.Latch

	// latest telemetry for HUD builds, written from the pilot goroutine
	telemetry *sensor.Slot[models.Telemetry]
}

func New(cfg config.ConsoleConfig, client *socketio.Client, wake, reset *sensor.Latch) *Console {
	return &Console{
		cfg:       cfg,
		client:    client,
		wake:      wake,
		reset:     reset,
		telemetry: sensor.NewSlot[models.Telemetry](0),
	}
}

func (c *Console) RegisterHandlers() error {
	log.Println("registering console handlers")
	c.client.OnEvent("reply", func(s socketio.Conn, msg string) {
		log.Println("Receive Message /reply: ", "reply", msg)
	})

	c.client.OnEvent("wake", func(s socketio.Conn, msg string) {
		log.Println("wake from console")
		c.wake.Trigger()
	})

	c.client.OnEvent("stop", func(s socketio.Conn, msg string) {
		log.Println("stop from console")
		c.reset.Trigger()
	})

	c.client.OnEvent("reset", func(s socketio.Conn, msg string) {
		log.Println("reset from console")
		c.reset.Trigger()
	})

	log.Println("attemping to connect to console server...")
	err := c.client.Connect() //Client must have atleast 1 event handler to work
	if err != nil {
		return fmt.Errorf("error connecting to console server - %w", err)
	}
	log.Println("connected to console server")

	encodedMsg, err := encode(models.ConnectReq{
		Key:      c.cfg.Key,
		Password: c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("failed encoding connect request: %w", err)
	}
	c.client.Emit("robot_connect", encodedMsg)
	return nil
}

// PublishTelemetry stores the latest loop snapshot for the next HUD build.
func (c *Console) PublishTelemetry(telemetry models.Telemetry) {
	c.telemetry.Publish(telemetry)
}

// Start runs the HUD and health tickers until the context ends.
func (c *Console) Start(ctx context.Context) error {
	log.Println("starting console updater")

	hudTicker := time.NewTicker(c.cfg.HudPeriod)
	defer hudTicker.Stop()
	healthTicker := time.NewTicker(c.cfg.HealthPeriod)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping console updater: %s\n", ctx.Err().Error())
			return ctx.Err()
		case <-healthTicker.C:
			log.Println("healthcheck: healthy")
			c.client.Emit("robot_healthy", "")
		case <-hudTicker.C:
			c.sendHud()
		}
	}
}

func (c *Console) sendHud() {
	hud := models.Hud{
		Lines: c.buildHudLines(),
	}

	encodedMsg, err := encode(hud)
	if err != nil {
		log.Printf("failed encoding hud: %s\n", err.Error())
		return
	}
	c.client.Emit("hud", encodedMsg)
}

func (c *Console) buildHudLines() []string {
	lines := make([]string, 0, 4)

	telemetry, ok := c.telemetry.Latest(time.Now())
	if !ok {
		lines = append(lines, "no telemetry yet")
	} else {
		lines = append(lines,
			fmt.Sprintf("state: %s  speed: %s  steer: %.1f", telemetry.State, telemetry.Speed, telemetry.SteerDeg),
			fmt.Sprintf("person: %t  home: %t  proximity: %t", telemetry.PersonSeen, telemetry.HomeSeen, telemetry.Proximity),
			fmt.Sprintf("tick: %d  overruns: %d", telemetry.Tick, telemetry.Overruns),
		)
	}

	if line, err := c.netLine(); err == nil {
		lines = append(lines, line)
	}
	return lines
}

// netLine reports the wifi interface counters from procfs, the only link
// health the operator can see remotely.
func (c *Console) netLine() (string, error) {
	proc, err := procfs.Self()
	if err != nil {
		return "", fmt.Errorf("failed opening procfs: %w", err)
	}

	netDev, err := proc.NetDev()
	if err != nil {
		return "", fmt.Errorf("failed reading net dev stats: %w", err)
	}

	device, ok := netDev[c.cfg.NetDevice]
	if !ok {
		return "", fmt.Errorf("net device not found: %s", c.cfg.NetDevice)
	}
	return fmt.Sprintf("%s rx: %d tx: %d", device.Name, device.RxBytes, device.TxBytes), nil
}

func encode(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed marshaling for console: %w", err)
	}
	return string(data), nil
}
