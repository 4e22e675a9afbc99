package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration, loaded from configs/config.yml.
type Config struct {
	Port         string `mapstructure:"port"`
	TopologyFile string `mapstructure:"topology_file"`

	Control  Control            `mapstructure:"control"`
	Defaults map[string]float64 `mapstructure:"default_temperatures"`
	Rooms    map[string]Room    `mapstructure:"room_overrides"`
	Devices  Devices            `mapstructure:"devices"`
	API      API                `mapstructure:"api"`
	DB       DB                 `mapstructure:"db"`
	Logging  Logging            `mapstructure:"logging"`
	Sim      Simulator          `mapstructure:"simulator"`
}

// Control holds the control loop tuning knobs.
type Control struct {
	CheckIntervalSeconds int     `mapstructure:"check_interval_seconds"`
	Hysteresis           float64 `mapstructure:"hysteresis"`
	MinAllowedTemp       float64 `mapstructure:"min_allowed_temperature"`
	MaxAllowedTemp       float64 `mapstructure:"max_allowed_temperature"`
}

// Room carries per-room overrides of the room-type defaults.
type Room struct {
	TargetTemperature *float64 `mapstructure:"target_temperature"`
}

// Devices describes how to reach the per-room sensor and heater endpoints.
// Patterns contain a {room_id} placeholder.
type Devices struct {
	SensorPattern  string `mapstructure:"sensor_pattern"`
	HeaterPattern  string `mapstructure:"heater_pattern"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// API holds HTTP-facing settings. ControlPin is the shared secret gating the
// stop/restart endpoints; empty disables them.
type API struct {
	Host       string `mapstructure:"host"`
	ControlPin string `mapstructure:"control_pin"`
}

type DB struct {
	Path string `mapstructure:"path"`
}

type Logging struct {
	Level    string `mapstructure:"level"`
	FilePath string `mapstructure:"file_path"`
}

// Simulator configures cmd/simulator's fake devices.
type Simulator struct {
	Port                 string  `mapstructure:"port"`
	TemperatureVariation float64 `mapstructure:"temperature_variation"`
	TickSeconds          int     `mapstructure:"tick_seconds"`
}

const placeholderRoomID = "{room_id}"

// Load reads configs/config.yml from the working directory.
func Load() (*Config, error) {
	return LoadFrom("configs")
}

// LoadFrom reads config.yml from the given directory, applies defaults and
// validates the result.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("topology_file", "configs/house_topology.yml")
	v.SetDefault("control.check_interval_seconds", 300)
	v.SetDefault("control.hysteresis", 0.0)
	v.SetDefault("control.min_allowed_temperature", 15.0)
	v.SetDefault("control.max_allowed_temperature", 30.0)
	v.SetDefault("devices.timeout_seconds", 5)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("simulator.port", "8081")
	v.SetDefault("simulator.temperature_variation", 2.0)
	v.SetDefault("simulator.tick_seconds", 15)
}

func (c *Config) validate() error {
	if c.Control.CheckIntervalSeconds < 1 {
		return fmt.Errorf("control.check_interval_seconds must be >= 1, got %d", c.Control.CheckIntervalSeconds)
	}
	if c.Control.Hysteresis < 0 {
		return fmt.Errorf("control.hysteresis must not be negative, got %v", c.Control.Hysteresis)
	}
	if c.Control.MinAllowedTemp >= c.Control.MaxAllowedTemp {
		return fmt.Errorf("control temperature range invalid: min %v >= max %v",
			c.Control.MinAllowedTemp, c.Control.MaxAllowedTemp)
	}
	for name, pattern := range map[string]string{
		"devices.sensor_pattern": c.Devices.SensorPattern,
		"devices.heater_pattern": c.Devices.HeaterPattern,
	} {
		if pattern == "" {
			return fmt.Errorf("%s is required", name)
		}
		if !strings.Contains(pattern, placeholderRoomID) {
			return fmt.Errorf("%s must contain the %s placeholder", name, placeholderRoomID)
		}
	}
	if c.Devices.TimeoutSeconds < 1 {
		return fmt.Errorf("devices.timeout_seconds must be >= 1, got %d", c.Devices.TimeoutSeconds)
	}
	return nil
}

// TargetFor resolves the configured target temperature for a room: the
// per-room override when present, otherwise the room-type default.
func (c *Config) TargetFor(roomID, roomType string) (float64, bool) {
	if ov, ok := c.Rooms[roomID]; ok && ov.TargetTemperature != nil {
		return *ov.TargetTemperature, true
	}
	t, ok := c.Defaults[roomType]
	return t, ok
}
