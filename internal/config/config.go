package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Serial struct {
	Port           string `yaml:"port"`             // e.g. /dev/ttyUSB0; empty probes all ports
	Baud           int    `yaml:"baud"`             // e.g. 9600
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`  // per payload byte
	WriteTimeoutMs int    `yaml:"write_timeout_ms"` // per diagnostics line
}

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0; empty picks the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 1000000
}

type GPIO struct {
	DataPin  string `yaml:"data_pin"`  // e.g. GPIO17
	ClockPin string `yaml:"clock_pin"` // e.g. GPIO27
	LatchPin string `yaml:"latch_pin"` // e.g. GPIO22
}

type Display struct {
	Driver string `yaml:"driver"` // "spi" | "gpio" | "sim"
	SPI    SPI    `yaml:"spi,omitempty"`
	GPIO   GPIO   `yaml:"gpio,omitempty"`
}

type Config struct {
	Serial  Serial  `yaml:"serial"`
	Display Display `yaml:"display"`

	AnimIntervalMs int `yaml:"anim_interval_ms"` // how long each animation frame holds
	Brightness     int `yaml:"brightness"`       // startup setting 0..255
}

// Default is the configuration written out when none exists yet.
func Default() *Config {
	return &Config{
		Serial: Serial{
			Baud:           9600,
			ReadTimeoutMs:  1000,
			WriteTimeoutMs: 1000,
		},
		Display: Display{
			Driver: "spi",
			SPI:    SPI{SpeedHz: 1000000},
			GPIO:   GPIO{DataPin: "GPIO17", ClockPin: "GPIO27", LatchPin: "GPIO22"},
		},
		AnimIntervalMs: 500,
		Brightness:     127,
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
