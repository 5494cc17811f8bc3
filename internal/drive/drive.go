// Package drive maps the state machine's abstract commands (named speed
// factor, steering degrees) onto the command driver's normalized channels.
package drive

import (
	"fmt"
	"log"

	"github.com/bindiesel/bindiesel_client/internal/command"
	"github.com/bindiesel/bindiesel_client/internal/config"
	"github.com/bindiesel/bindiesel_client/internal/models"
)

const (
	// esc is forward-only, 0 is stopped
	MinEsc = 0.0
	MaxEsc = 1.0

	MinSteer = -1.0
	MaxSteer = 1.0
)

type Drive struct {
	cfg    config.DriveConfig
	driver command.CommandDriverIFace
}

func New(cfg config.DriveConfig, driver command.CommandDriverIFace) *Drive {
	return &Drive{
		cfg:    cfg,
		driver: driver,
	}
}

func (d *Drive) Init() error {
	err := d.driver.Init()
	if err != nil {
		return fmt.Errorf("failed initializing command driver: %w", err)
	}
	// Center up before the first tick.
	return d.Apply(models.Command{Speed: models.SpeedStop, SteerDeg: 0})
}

// Apply converts one command into the esc/steer channel updates and hands
// them to the driver in a single batch.
func (d *Drive) Apply(cmd models.Command) error {
	steer := cmd.SteerDeg
	if steer > d.cfg.MaxSteer {
		steer = d.cfg.MaxSteer
	} else if steer < -d.cfg.MaxSteer {
		steer = -d.cfg.MaxSteer
	}

	err := d.driver.SetMany([]command.DriverCommand{
		{
			Name:  "esc",
			Value: d.speedValue(cmd.Speed),
			Min:   MinEsc,
			Max:   MaxEsc,
		},
		{
			Name:  "steer",
			Value: steer / d.cfg.MaxSteer,
			Min:   MinSteer,
			Max:   MaxSteer,
		},
	})
	if err != nil {
		return fmt.Errorf("failed setting drive commands: %w", err)
	}
	return nil
}

// Safe commands a stop with centered steering, the guaranteed exit action.
func (d *Drive) Safe() error {
	log.Println("commanding safe stop")
	return d.Apply(models.Command{Speed: models.SpeedStop, SteerDeg: 0})
}

func (d *Drive) Close() error {
	err := d.driver.Stop()
	if err != nil {
		return fmt.Errorf("failed stopping command driver: %w", err)
	}
	return nil
}

func (d *Drive) speedValue(speed models.SpeedFactor) float64 {
	switch speed {
	case models.SpeedSlow:
		return d.cfg.SpeedSlow
	case models.SpeedMedium:
		return d.cfg.SpeedMedium
	case models.SpeedFast:
		return d.cfg.SpeedFast
	case models.SpeedTurn:
		return d.cfg.SpeedTurn
	default:
		return d.cfg.SpeedStop
	}
}
