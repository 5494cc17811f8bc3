// Package proximity reads the digital safety-stop line driven by the
// distance sensor's hardware comparator. The threshold lives on the sensor
// board; this adapter only debounces the pin and publishes a boolean.
package proximity

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bindiesel/bindiesel_client/internal/config"
	"github.com/bindiesel/bindiesel_client/internal/models"
	"github.com/bindiesel/bindiesel_client/internal/sensor"
	"github.com/stianeikeland/go-rpio/v4"
)

type Sensor struct {
	cfg       config.ProximityConfig
	slot      *sensor.Slot[models.ProximitySignal]
	pin       rpio.Pin
	available bool

	highCount int
}

func New(cfg config.ProximityConfig) *Sensor {
	return &Sensor{
		cfg:  cfg,
		slot: sensor.NewSlot[models.ProximitySignal](cfg.MaxAge),
	}
}

func (s *Sensor) Init() error {
	if !s.cfg.Enabled {
		return fmt.Errorf("proximity sensor disabled by config")
	}

	// rpio may already be open for the pwm driver, a second Open is harmless.
	err := rpio.Open()
	if err != nil {
		return fmt.Errorf("failed opening rpio for proximity sensor: %w", err)
	}

	s.pin = rpio.Pin(s.cfg.Pin)
	s.pin.Input()
	s.available = true
	log.Printf("proximity sensor reading pin %d\n", s.cfg.Pin)
	return nil
}

// Available reports whether the adapter initialized. The state machine
// refuses to follow when this is false.
func (s *Sensor) Available() bool {
	return s.available
}

// Start polls the pin until the context ends, publishing the debounced state
// into the slot. Requires a consecutive run of active reads before reporting
// triggered, which filters comparator chatter.
func (s *Sensor) Start(ctx context.Context) error {
	if !s.available {
		return fmt.Errorf("proximity sensor not initialized")
	}
	log.Println("starting proximity sensor poller")

	pollTicker := time.NewTicker(s.cfg.PollPeriod)
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping proximity sensor poller: %s\n", ctx.Err().Error())
			return ctx.Err()
		case <-pollTicker.C:
			active := s.pin.Read() == rpio.High
			if !s.cfg.ActiveHigh {
				active = !active
			}

			if active {
				s.highCount++
			} else {
				s.highCount = 0
			}

			s.slot.Publish(models.ProximitySignal{
				Triggered: s.highCount >= s.cfg.HighCount,
			})
		}
	}
}

func (s *Sensor) Latest(now time.Time) (models.ProximitySignal, bool) {
	if !s.available {
		return models.ProximitySignal{}, false
	}
	return s.slot.Latest(now)
}
