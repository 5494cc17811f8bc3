package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

func GetConfig() Config {
	cfg := Config{
		CommandCfg:   GetCommandConfig(),
		PilotCfg:     GetPilotConfig(),
		MachineCfg:   GetMachineConfig(),
		DriveCfg:     GetDriveConfig(),
		ProximityCfg: GetProximityConfig(),
		BrokerCfg:    GetBrokerConfig(),
		ConsoleCfg:   GetConsoleConfig(),
	}

	log.Printf("app Config: \n%+v\n", cfg)
	return cfg
}

func GetCommandConfig() CommandConfig {
	commandCfg := CommandConfig{
		CommandDriver: GetStringEnv("SERVODRIVER", DefaultCommandDriver),
		Address:       DefaultAddress,
		I2CDevice:     GetStringEnv("I2CDEVICE", DefaultI2CDevice),
		ServoCfgs:     make([]ServoConfig, 0, MaxSupportedServos),
	}

	for i := 0; i < MaxSupportedServos; i++ {
		envPrefix := fmt.Sprintf("SERVO%d_", i)
		servoCfg := ServoConfig{
			Name:      GetStringEnv(envPrefix+"NAME", defaultServoName(i)),
			Channel:   GetIntEnv(envPrefix+"CHANNEL", i),
			Frequency: GetIntEnv(envPrefix+"FREQUENCY", defaultServoFrequency(i)),
			MaxPulse:  float64(GetIntEnv(envPrefix+"MAXPULSE", DefaultMaxPulse)),
			MinPulse:  float64(GetIntEnv(envPrefix+"MINPULSE", DefaultMinPulse)),
			Inverted:  GetBoolEnv(envPrefix+"INVERTED", DefaultInverted),
			Offset:    GetIntEnv(envPrefix+"MIDOFFSET", DefaultOffset),
		}

		if servoCfg.Name != "" {
			log.Printf("found config for servo: %s\n", servoCfg.Name)
			commandCfg.ServoCfgs = append(commandCfg.ServoCfgs, servoCfg)
		}
	}
	return commandCfg
}

// The esc and steer channels always exist, extra servos are opt-in by env.
func defaultServoName(channel int) string {
	switch channel {
	case DefaultEscChannel:
		return "esc"
	case DefaultSteerChannel:
		return "steer"
	default:
		return ""
	}
}

func defaultServoFrequency(channel int) int {
	if channel == DefaultEscChannel {
		return DefaultEscFrequency
	}
	return DefaultSteerFrequency
}

func GetPilotConfig() PilotConfig {
	return PilotConfig{
		TickPeriod:     GetDurationEnv("TICK_PERIOD", DefaultTickPeriod),
		TelemetryEvery: GetIntEnv("TELEMETRY_EVERY", DefaultTelemetryEvery),
	}
}

func GetMachineConfig() MachineConfig {
	return MachineConfig{
		CenterTolerance: GetFloatEnv("CENTER_TOLERANCE", DefaultCenterTolerance),
		MaxSteer:        GetFloatEnv("MAX_STEER", DefaultMaxSteer),
		LostGrace:       GetDurationEnv("LOST_GRACE", DefaultLostGrace),
		DwellTimeout:    GetDurationEnv("DWELL_TIMEOUT", DefaultDwellTimeout),
		FollowTimeout:   GetDurationEnv("FOLLOW_TIMEOUT", DefaultFollowTimeout),
		HomingTimeout:   GetDurationEnv("HOMING_TIMEOUT", DefaultHomingTimeout),
		SweepAngle:      GetFloatEnv("SWEEP_ANGLE", DefaultSweepAngle),
		SweepPeriod:     GetDurationEnv("SWEEP_PERIOD", DefaultSweepPeriod),
		TurnDuration:    GetDurationEnv("TURN_DURATION", DefaultTurnDuration),
		TurnSteer:       GetFloatEnv("TURN_STEER", DefaultTurnSteer),
	}
}

func GetDriveConfig() DriveConfig {
	return DriveConfig{
		MaxSteer:    GetFloatEnv("MAX_STEER", DefaultMaxSteer),
		SpeedStop:   GetFloatEnv("SPEED_STOP", DefaultSpeedStop),
		SpeedSlow:   GetFloatEnv("SPEED_SLOW", DefaultSpeedSlow),
		SpeedMedium: GetFloatEnv("SPEED_MEDIUM", DefaultSpeedMedium),
		SpeedFast:   GetFloatEnv("SPEED_FAST", DefaultSpeedFast),
		SpeedTurn:   GetFloatEnv("SPEED_TURN", DefaultSpeedTurn),
	}
}

func GetProximityConfig() ProximityConfig {
	envPrefix := "PROXIMITY_"
	return ProximityConfig{
		Enabled:    GetBoolEnv(envPrefix+"ENABLED", DefaultProximityEnabled),
		Pin:        GetIntEnv(envPrefix+"PIN", DefaultProximityPin),
		ActiveHigh: GetBoolEnv(envPrefix+"ACTIVEHIGH", DefaultProximityActiveHigh),
		PollPeriod: GetDurationEnv(envPrefix+"POLL", DefaultProximityPoll),
		HighCount:  GetIntEnv(envPrefix+"HIGHCOUNT", DefaultProximityHighCount),
		MaxAge:     GetDurationEnv(envPrefix+"MAXAGE", DefaultProximityMaxAge),
	}
}

func GetBrokerConfig() BrokerConfig {
	envPrefix := "BROKER_"
	return BrokerConfig{
		Enabled:      GetBoolEnv(envPrefix+"ENABLED", DefaultBrokerEnabled),
		Host:         GetStringEnv(envPrefix+"HOST", DefaultBrokerHost),
		Port:         GetIntEnv(envPrefix+"PORT", DefaultBrokerPort),
		ClientID:     GetStringEnv(envPrefix+"CLIENTID", DefaultBrokerClient),
		TopicBase:    GetStringEnv(envPrefix+"TOPICBASE", DefaultTopicBase),
		PersonMaxAge: GetDurationEnv(envPrefix+"PERSON_MAXAGE", DefaultPersonMaxAge),
		MarkerMaxAge: GetDurationEnv(envPrefix+"MARKER_MAXAGE", DefaultMarkerMaxAge),
	}
}

func GetConsoleConfig() ConsoleConfig {
	envPrefix := "CONSOLE_"
	return ConsoleConfig{
		Enabled:      GetBoolEnv(envPrefix+"ENABLED", DefaultConsoleEnabled),
		Server:       GetStringEnv(envPrefix+"SERVER", DefaultConsoleServer),
		Key:          GetStringEnv(envPrefix+"KEY", DefaultConsoleKey),
		Password:     GetStringEnv(envPrefix+"PASSWORD", DefaultConsolePass),
		HudPeriod:    GetDurationEnv(envPrefix+"HUD_PERIOD", DefaultHudPeriod),
		HealthPeriod: GetDurationEnv(envPrefix+"HEALTH_PERIOD", DefaultHealthPeriod),
		NetDevice:    GetStringEnv(envPrefix+"NETDEVICE", DefaultNetDevice),
	}
}

func GetIntEnv(env string, defaultValue int) int {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseInt(strings.Trim(envValue, "\r"), 10, 32)
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return int(value)
		}
	}
}

func GetBoolEnv(env string, defaultValue bool) bool {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseBool(strings.Trim(envValue, "\r"))
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		} else {
			return value
		}
	}
}

func GetStringEnv(env string, defaultValue string) string {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		return strings.ToLower(strings.Trim(envValue, "\r"))
	}
}

func GetFloatEnv(env string, defaultValue float64) float64 {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := strconv.ParseFloat(envValue, 64)
		if err != nil {
			return defaultValue
		}
		return value
	}
}

func GetDurationEnv(env string, defaultValue time.Duration) time.Duration {
	envValue, found := os.LookupEnv(AppEnvBase + env)
	if !found {
		return defaultValue
	} else {
		value, err := time.ParseDuration(strings.Trim(envValue, "\r"))
		if err != nil {
			log.Printf("warning:%s not parsed - error: %s\n", env, err)
			return defaultValue
		}
		return value
	}
}
