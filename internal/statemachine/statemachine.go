// Package statemachine holds the operating state of the robot and turns the
// per-tick sensor snapshot into motor and steering commands.
//
// The machine is owned by a single control loop goroutine and is mutated
// exactly once per tick. All timing is derived from the snapshot clock, never
// read from the wall mid-evaluation.
package statemachine

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/bindiesel/bindiesel_client/internal/config"
	"github.com/bindiesel/bindiesel_client/internal/models"
)

type State int

const (
	StateIdle State = iota
	StateFollowing
	StateStopped
	StateHoming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateFollowing:
		return "FOLLOWING_USER"
	case StateStopped:
		return "STOPPED"
	case StateHoming:
		return "HOMING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is one tick's worth of sensor readings, taken together before any
// transition logic runs. The Valid flags come from the adapter slots; an
// invalid reading is treated as "not present / not found".
type Snapshot struct {
	Now time.Time

	Reset bool
	Wake  bool

	Person      models.PersonSignal
	PersonValid bool

	Proximity      models.ProximitySignal
	ProximityValid bool
	ProximityOK    bool

	Home      models.HomeSignal
	HomeValid bool
}

type Machine struct {
	cfg config.MachineConfig

	state     State
	enteredAt time.Time

	lastSeen time.Time //last tick a person was visible while following
	lostAt   time.Time //zero while the person is visible
}

func New(cfg config.MachineConfig, now time.Time) *Machine {
	return &Machine{
		cfg:       cfg,
		state:     StateIdle,
		enteredAt: now,
	}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) TimeInState(now time.Time) time.Duration {
	return now.Sub(m.enteredAt)
}

func (m *Machine) transitionTo(newState State, now time.Time) {
	if m.state != newState {
		log.Printf("state transition: %s -> %s\n", m.state, newState)
	}
	m.state = newState
	m.enteredAt = now

	if newState == StateFollowing {
		m.lastSeen = now
		m.lostAt = time.Time{}
	}
}

// Tick evaluates one control cycle and returns the command for this tick.
// Evaluation order: operator reset, proximity stop, state timeouts, signal
// transitions, then the in-state adaptive command.
func (m *Machine) Tick(snap Snapshot) models.Command {
	person := snap.Person
	if !snap.PersonValid {
		person = models.PersonSignal{}
	}
	home := snap.Home
	if !snap.HomeValid {
		home = models.HomeSignal{}
	}
	proximity := snap.ProximityValid && snap.Proximity.Triggered

	// Operator stop/reset beats everything and clears the state timer.
	if snap.Reset {
		m.transitionTo(StateIdle, snap.Now)
		return models.Command{Speed: models.SpeedStop, SteerDeg: 0}
	}

	// Safety stop while following. Steering is centered on the way in, the
	// same thing the hardware did on a TOF stop.
	if m.state == StateFollowing && proximity {
		m.transitionTo(StateStopped, snap.Now)
		return models.Command{Speed: models.SpeedStop, SteerDeg: 0}
	}

	elapsed := snap.Now.Sub(m.enteredAt)

	switch m.state {
	case StateStopped:
		// Dwell boundary is inclusive: elapsed == timeout transitions.
		if elapsed >= m.cfg.DwellTimeout {
			log.Println("trash collection window over, heading home")
			m.transitionTo(StateHoming, snap.Now)
		}
	case StateFollowing:
		if person.Present {
			m.lastSeen = snap.Now
			m.lostAt = time.Time{}
		} else if m.lostAt.IsZero() {
			m.lostAt = snap.Now
		}
		if snap.Now.Sub(m.lastSeen) >= m.cfg.FollowTimeout {
			log.Println("no user seen within follow timeout, going idle")
			m.transitionTo(StateIdle, snap.Now)
		}
	case StateHoming:
		if elapsed >= m.cfg.HomingTimeout {
			log.Println("home marker not reached within timeout, going idle")
			m.transitionTo(StateIdle, snap.Now)
		}
	}

	switch m.state {
	case StateIdle:
		if snap.Wake {
			if !snap.ProximityOK {
				log.Println("wake refused: proximity sensor unavailable")
			} else {
				log.Println("wake word accepted, following user")
				m.transitionTo(StateFollowing, snap.Now)
			}
		}
	case StateHoming:
		if home.Found && m.centered(home.AngleDeg) && proximity {
			log.Println("home marker reached")
			m.transitionTo(StateIdle, snap.Now)
		}
	}

	return m.command(snap.Now, person, home)
}

func (m *Machine) command(now time.Time, person models.PersonSignal, home models.HomeSignal) models.Command {
	elapsed := now.Sub(m.enteredAt)

	switch m.state {
	case StateFollowing:
		if person.Present {
			if m.centered(person.AngleDeg) {
				return models.Command{Speed: models.SpeedFast, SteerDeg: 0}
			}
			return models.Command{Speed: models.SpeedMedium, SteerDeg: m.clampSteer(person.AngleDeg)}
		}
		var lost time.Duration
		if !m.lostAt.IsZero() {
			lost = now.Sub(m.lostAt)
		}
		return models.Command{Speed: models.SpeedSlow, SteerDeg: m.sweepSteer(lost, m.cfg.LostGrace)}
	case StateStopped:
		return models.Command{Speed: models.SpeedStop, SteerDeg: 0}
	case StateHoming:
		if home.Found {
			if m.centered(home.AngleDeg) {
				return models.Command{Speed: models.SpeedMedium, SteerDeg: 0}
			}
			return models.Command{Speed: models.SpeedSlow, SteerDeg: m.clampSteer(home.AngleDeg)}
		}
		if elapsed < m.cfg.TurnDuration {
			// 180 away from the user before scanning for the marker.
			return models.Command{Speed: models.SpeedTurn, SteerDeg: m.clampSteer(m.cfg.TurnSteer)}
		}
		return models.Command{Speed: models.SpeedMedium, SteerDeg: m.sweepSteer(elapsed-m.cfg.TurnDuration, 0)}
	default:
		return models.Command{Speed: models.SpeedStop, SteerDeg: 0}
	}
}

// centered applies the shared angular tolerance, boundary inclusive, to both
// the person and home signals.
func (m *Machine) centered(angleDeg float64) bool {
	return math.Abs(angleDeg) <= m.cfg.CenterTolerance
}

func (m *Machine) clampSteer(angleDeg float64) float64 {
	if angleDeg > m.cfg.MaxSteer {
		return m.cfg.MaxSteer
	}
	if angleDeg < -m.cfg.MaxSteer {
		return -m.cfg.MaxSteer
	}
	return angleDeg
}

// sweepSteer is the search pattern: centered through the grace window, then
// alternating full deflections each sweep period. It is a pure function of
// elapsed time, so re-evaluating with no time passed repeats the command.
func (m *Machine) sweepSteer(elapsed, grace time.Duration) float64 {
	if elapsed < grace {
		return 0
	}
	if m.cfg.SweepPeriod <= 0 {
		return m.cfg.SweepAngle
	}
	phase := int64((elapsed - grace) / m.cfg.SweepPeriod)
	if phase%2 == 0 {
		return m.cfg.SweepAngle
	}
	return -m.cfg.SweepAngle
}
