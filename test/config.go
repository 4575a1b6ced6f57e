package test

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config tunes the in-process scenario without recompiling.
type Config struct {
	Rooms        []string `envconfig:"TEST_ROOMS" default:"general,random"`
	HistoryLimit int      `envconfig:"TEST_HISTORY_LIMIT" default:"50"`
	BufferSize   int      `envconfig:"TEST_BUFFER_SIZE" default:"256"`
	SendBuffer   int      `envconfig:"TEST_CONNECTION_BUFFER" default:"64"`
	// TEST_TIMEOUT bounds every single read; raise it when debugging.
	Timeout time.Duration `envconfig:"TEST_TIMEOUT" default:"5s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
