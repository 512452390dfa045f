// Package config loads the simulator's JSON configuration via viper, the
// way the teacher pack's CLI layer resolves a config file path and binds
// it into a typed struct with documented defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/blacksheeep/airplane-sim/internal/geo"
)

// PID holds one axis's proportional/integral/derivative gains.
type PID struct {
	Kp float64 `mapstructure:"kp"`
	Ki float64 `mapstructure:"ki"`
	Kd float64 `mapstructure:"kd"`
}

// Autopilot holds the autopilot component's tunables and target waypoint.
type Autopilot struct {
	TargetLatitude  float64 `mapstructure:"target_latitude"`
	TargetLongitude float64 `mapstructure:"target_longitude"`
	TargetAltitude  float64 `mapstructure:"target_altitude"`
	TargetHeading   float64 `mapstructure:"target_heading"`
	TargetSpeed     float64 `mapstructure:"target_speed"`

	MaxClimbRate   float64 `mapstructure:"max_climb_rate"`
	MaxDescentRate float64 `mapstructure:"max_descent_rate"`
	MaxHeadingRate float64 `mapstructure:"max_heading_rate"`
	MinSpeed       float64 `mapstructure:"min_speed"`
	MaxSpeed       float64 `mapstructure:"max_speed"`

	HeadingPID  PID `mapstructure:"heading_pid"`
	AltitudePID PID `mapstructure:"altitude_pid"`
	SpeedPID    PID `mapstructure:"speed_pid"`
}

// Sensors holds the network feed addresses each sensor component dials,
// plus the synthetic INS seed position.
type Sensors struct {
	GPSAddr          string `mapstructure:"gps_addr"`
	LandingRadioAddr string `mapstructure:"landing_radio_addr"`
	SatComAddr       string `mapstructure:"sat_com_addr"`

	INSSeedLatitude  float64 `mapstructure:"ins_seed_latitude"`
	INSSeedLongitude float64 `mapstructure:"ins_seed_longitude"`
	INSSeedAltitude  float64 `mapstructure:"ins_seed_altitude"`
}

// Config is the complete simulator configuration.
type Config struct {
	Autopilot Autopilot `mapstructure:"autopilot"`
	Sensors   Sensors   `mapstructure:"sensors"`
	LogLevel  string    `mapstructure:"log_level"`
	BusSocket string    `mapstructure:"bus_socket"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("autopilot.target_latitude", 37.6188)
	v.SetDefault("autopilot.target_longitude", -122.3750)
	v.SetDefault("autopilot.target_altitude", 10000.0)
	v.SetDefault("autopilot.target_heading", 0.0)
	v.SetDefault("autopilot.target_speed", 250.0)

	v.SetDefault("autopilot.max_climb_rate", 2000.0)
	v.SetDefault("autopilot.max_descent_rate", 2000.0)
	v.SetDefault("autopilot.max_heading_rate", 3.0)
	v.SetDefault("autopilot.min_speed", 120.0)
	v.SetDefault("autopilot.max_speed", 400.0)

	v.SetDefault("autopilot.heading_pid.kp", 1.0)
	v.SetDefault("autopilot.heading_pid.ki", 0.1)
	v.SetDefault("autopilot.heading_pid.kd", 0.2)

	v.SetDefault("autopilot.altitude_pid.kp", 0.5)
	v.SetDefault("autopilot.altitude_pid.ki", 0.05)
	v.SetDefault("autopilot.altitude_pid.kd", 0.1)

	v.SetDefault("autopilot.speed_pid.kp", 0.3)
	v.SetDefault("autopilot.speed_pid.ki", 0.02)
	v.SetDefault("autopilot.speed_pid.kd", 0.05)

	v.SetDefault("sensors.gps_addr", "127.0.0.1:5555")
	v.SetDefault("sensors.landing_radio_addr", "127.0.0.1:5556")
	v.SetDefault("sensors.sat_com_addr", "127.0.0.1:5557")
	v.SetDefault("sensors.ins_seed_latitude", geo.SFOLatitude)
	v.SetDefault("sensors.ins_seed_longitude", geo.SFOLongitude)
	v.SetDefault("sensors.ins_seed_altitude", 0.0)

	v.SetDefault("log_level", "info")
	v.SetDefault("bus_socket", "")
}

// Load reads configuration from path (if non-empty) layered over
// defaults, and resolves target_heading to the great-circle bearing from
// SFO to the target waypoint when the config left it at zero, matching
// original_source/src/core/autopilot.c's autopilot_load_config fallback.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("json")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Autopilot.TargetHeading == 0 {
		cfg.Autopilot.TargetHeading = geo.BearingFromSFO(
			cfg.Autopilot.TargetLatitude,
			cfg.Autopilot.TargetLongitude,
		)
	}

	return &cfg, nil
}
