package models

import (
	"fmt"

	"github.com/google/uuid"
)

// PersonSignal is the latest person-tracker reading. Angle is in degrees with
// forward = 0 and right positive. Present is false once the tracker has lost
// the person; a stale slot is treated the same way downstream.
type PersonSignal struct {
	AngleDeg float64   `json:"angle_deg"`
	Centered bool      `json:"centered"`
	Present  bool      `json:"present"`
	TrackID  uuid.UUID `json:"track_id"`
}

// HomeSignal is the latest home-marker reading, same conventions as PersonSignal.
type HomeSignal struct {
	AngleDeg float64 `json:"angle_deg"`
	Centered bool    `json:"centered"`
	Found    bool    `json:"found"`
}

// ProximitySignal is the digital safety-stop line from the distance sensor.
type ProximitySignal struct {
	Triggered bool `json:"triggered"`
}

// SpeedFactor names a fixed entry in the configured speed table. The core
// never computes raw actuation values, it only picks a named factor.
type SpeedFactor int

const (
	SpeedStop SpeedFactor = iota
	SpeedSlow
	SpeedMedium
	SpeedFast
	SpeedTurn
)

func (s SpeedFactor) String() string {
	switch s {
	case SpeedStop:
		return "STOP"
	case SpeedSlow:
		return "SLOW"
	case SpeedMedium:
		return "MEDIUM"
	case SpeedFast:
		return "FAST"
	case SpeedTurn:
		return "TURN"
	default:
		return fmt.Sprintf("SpeedFactor(%d)", int(s))
	}
}

// Command is the per-tick actuator order: a named speed factor and a steering
// angle in degrees (clamped by the drive layer).
type Command struct {
	Speed    SpeedFactor
	SteerDeg float64
}

// Telemetry is the loop status snapshot published to the broker and console.
type Telemetry struct {
	State      string  `json:"state"`
	Speed      string  `json:"speed"`
	SteerDeg   float64 `json:"steer_deg"`
	Tick       uint64  `json:"tick"`
	Overruns   uint64  `json:"overruns"`
	TimeStamp  int64   `json:"time_stamp"`
	Proximity  bool    `json:"proximity"`
	PersonSeen bool    `json:"person_seen"`
	HomeSeen   bool    `json:"home_seen"`
}

type ConnectReq struct {
	Key      string `json:"key"`
	Password string `json:"password"`
}

type Hud struct {
	Lines []string `json:"lines"`
}
