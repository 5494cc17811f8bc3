package config

import "time"

const (
	MaxSupportedServos = 16
	AppEnvBase         = "BINDIESEL_"

	// Default Command Options
	DefaultCommandDriver = "pipwm"
	DefaultAddress       = 0x40
	DefaultI2CDevice     = "/dev/i2c-1"

	DefaultMaxPulse = 2250
	DefaultMinPulse = 750
	DefaultInverted = false
	DefaultOffset   = 0

	// Motor ESC on GPIO12 at 40Hz (inverter circuit), steering servo on GPIO13 at 50Hz
	DefaultEscChannel     = 0
	DefaultEscFrequency   = 40
	DefaultSteerChannel   = 1
	DefaultSteerFrequency = 50

	// Default Pilot Options
	DefaultTickPeriod     = 100 * time.Millisecond //10hz control cadence
	DefaultTelemetryEvery = 10                     //once per second at 10hz

	// Default Machine Options
	DefaultCenterTolerance = 10.0 //degrees, |angle| <= tolerance counts as centered
	DefaultMaxSteer        = 45.0 //degrees, servo hard limit
	DefaultLostGrace       = 1500 * time.Millisecond
	DefaultDwellTimeout    = 4 * time.Second //pause at user for trash drop-off
	DefaultFollowTimeout   = 30 * time.Second
	DefaultHomingTimeout   = 90 * time.Second
	DefaultSweepAngle      = 20.0 //degrees, search oscillation amplitude
	DefaultSweepPeriod     = 700 * time.Millisecond
	DefaultTurnDuration    = 3400 * time.Millisecond //time for the 180 before marker search
	DefaultTurnSteer       = -45.0                   //full left during the 180

	// Default Speed Table (normalized esc fractions)
	DefaultSpeedStop   = 0.0
	DefaultSpeedSlow   = 0.25
	DefaultSpeedMedium = 0.45
	DefaultSpeedFast   = 0.65
	DefaultSpeedTurn   = 0.55

	// Default Proximity Options
	DefaultProximityEnabled    = true
	DefaultProximityPin        = 23 //GPIO23, digital line from the tof comparator
	DefaultProximityActiveHigh = true
	DefaultProximityPoll       = 10 * time.Millisecond
	DefaultProximityHighCount  = 1 //consecutive high reads required, raise if noisy
	DefaultProximityMaxAge     = 250 * time.Millisecond

	// Default Broker Options
	DefaultBrokerEnabled = true
	DefaultBrokerHost    = "127.0.0.1"
	DefaultBrokerPort    = 1883
	DefaultBrokerClient  = "bindiesel"
	DefaultTopicBase     = "bindiesel"
	DefaultPersonMaxAge  = 500 * time.Millisecond
	DefaultMarkerMaxAge  = 500 * time.Millisecond

	// Default Console Options
	DefaultConsoleEnabled = false
	DefaultConsoleServer  = "127.0.0.1:8181"
	DefaultConsoleKey     = ""
	DefaultConsolePass    = ""
	DefaultHudPeriod      = time.Second
	DefaultHealthPeriod   = 30 * time.Second
	DefaultNetDevice      = "wlan0"
)

type Config struct {
	CommandCfg   CommandConfig
	PilotCfg     PilotConfig
	MachineCfg   MachineConfig
	DriveCfg     DriveConfig
	ProximityCfg ProximityConfig
	BrokerCfg    BrokerConfig
	ConsoleCfg   ConsoleConfig
}

type CommandConfig struct {
	CommandDriver string
	Address       byte
	I2CDevice     string
	ServoCfgs     []ServoConfig
}

type ServoConfig struct {
	Name      string
	Inverted  bool
	Channel   int
	Frequency int
	MaxPulse  float64
	MinPulse  float64
	Offset    int
}

type PilotConfig struct {
	TickPeriod     time.Duration
	TelemetryEvery int
}

type MachineConfig struct {
	CenterTolerance float64
	MaxSteer        float64
	LostGrace       time.Duration
	DwellTimeout    time.Duration
	FollowTimeout   time.Duration
	HomingTimeout   time.Duration
	SweepAngle      float64
	SweepPeriod     time.Duration
	TurnDuration    time.Duration
	TurnSteer       float64
}

type DriveConfig struct {
	MaxSteer float64

	SpeedStop   float64
	SpeedSlow   float64
	SpeedMedium float64
	SpeedFast   float64
	SpeedTurn   float64
}

type ProximityConfig struct {
	Enabled    bool
	Pin        int
	ActiveHigh bool
	PollPeriod time.Duration
	HighCount  int
	MaxAge     time.Duration
}

type BrokerConfig struct {
	Enabled      bool
	Host         string
	Port         int
	ClientID     string
	TopicBase    string
	PersonMaxAge time.Duration
	MarkerMaxAge time.Duration
}

type ConsoleConfig struct {
	Enabled      bool
	Server       string
	Key          string
	Password     string
	HudPeriod    time.Duration
	HealthPeriod time.Duration
	NetDevice    string
}
