// Package pilot runs the fixed-cadence control loop: read every sensor slot
// as one snapshot, advance the state machine, apply the resulting command.
package pilot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bindiesel/bindiesel_client/internal/config"
	"github.com/bindiesel/bindiesel_client/internal/models"
	"github.com/bindiesel/bindiesel_client/internal/statemachine"
)

type EventSource interface {
	Consume() bool
}

type PersonSource interface {
	Latest(time.Time) (models.PersonSignal, bool)
}

type HomeSource interface {
	Latest(time.Time) (models.HomeSignal, bool)
}

type ProximitySource interface {
	Latest(time.Time) (models.ProximitySignal, bool)
	Available() bool
}

type Actuator interface {
	Apply(models.Command) error
	Safe() error
}

type Publisher interface {
	PublishTelemetry(models.Telemetry)
}

type Deps struct {
	Machine    *statemachine.Machine
	Wake       EventSource
	Reset      EventSource
	Person     PersonSource
	Home       HomeSource
	Proximity  ProximitySource
	Drive      Actuator
	Publishers []Publisher
}

type Pilot struct {
	cfg  config.PilotConfig
	deps Deps

	tickCount uint64
	overruns  uint64
}

func New(cfg config.PilotConfig, deps Deps) *Pilot {
	return &Pilot{
		cfg:  cfg,
		deps: deps,
	}
}

// Run blocks until the context is cancelled. The in-flight tick finishes and
// a safe stop is commanded before returning.
func (p *Pilot) Run(ctx context.Context) error {
	log.Printf("starting pilot at %s per tick\n", p.cfg.TickPeriod)

	defer func() {
		if err := p.deps.Drive.Safe(); err != nil {
			log.Printf("failed commanding safe stop on shutdown: %s\n", err.Error())
		}
	}()

	ticker := time.NewTicker(p.cfg.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping pilot: %s\n", ctx.Err().Error())
			return ctx.Err()
		case <-ticker.C:
			if err := p.Tick(time.Now()); err != nil {
				return err
			}
		}
	}
}

// Tick runs exactly one control cycle at now. Exposed for tests; Run calls it
// once per ticker fire so a command is never double-applied.
func (p *Pilot) Tick(now time.Time) error {
	snap := p.snapshot(now)
	cmd := p.deps.Machine.Tick(snap)

	if err := p.deps.Drive.Apply(cmd); err != nil {
		return fmt.Errorf("failed applying drive command: %w", err)
	}

	p.tickCount++
	if p.cfg.TelemetryEvery > 0 && p.tickCount%uint64(p.cfg.TelemetryEvery) == 0 {
		p.publish(snap, cmd)
	}

	if took := time.Since(now); took > p.cfg.TickPeriod {
		p.overruns++
		log.Printf("tick overrun: took %s with a budget of %s\n", took, p.cfg.TickPeriod)
	}
	return nil
}

// snapshot drains the event latches and reads every slot against a single
// clock value, so no signal changes mid-evaluation.
func (p *Pilot) snapshot(now time.Time) statemachine.Snapshot {
	snap := statemachine.Snapshot{
		Now:   now,
		Reset: p.deps.Reset.Consume(),
		Wake:  p.deps.Wake.Consume(),
	}
	snap.Person, snap.PersonValid = p.deps.Person.Latest(now)
	snap.Home, snap.HomeValid = p.deps.Home.Latest(now)
	snap.Proximity, snap.ProximityValid = p.deps.Proximity.Latest(now)
	snap.ProximityOK = p.deps.Proximity.Available()
	return snap
}

func (p *Pilot) publish(snap statemachine.Snapshot, cmd models.Command) {
	telemetry := models.Telemetry{
		State:      p.deps.Machine.State().String(),
		Speed:      cmd.Speed.String(),
		SteerDeg:   cmd.SteerDeg,
		Tick:       p.tickCount,
		Overruns:   p.overruns,
		TimeStamp:  snap.Now.UnixMilli(),
		Proximity:  snap.ProximityValid && snap.Proximity.Triggered,
		PersonSeen: snap.PersonValid && snap.Person.Present,
		HomeSeen:   snap.HomeValid && snap.Home.Found,
	}
	for i := range p.deps.Publishers {
		p.deps.Publishers[i].PublishTelemetry(telemetry)
	}
}
