package main

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=5000"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,default=data/badger"`
	BlugeFilepath        string        `env:"BLUGE_FILEPATH,default=data/bluge"`
	UploadsDir           string        `env:"UPLOADS_DIR,default=uploads"`
	Rooms                string        `env:"ROOMS,default=general;random;tech;gaming"`
	HistoryLimit         int           `env:"HISTORY_LIMIT,default=50"`
	BufferSize           int           `env:"BUFFER_SIZE,default=256"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	TokenSecret          string        `env:"TOKEN_SECRET,required=true"`
	TokenDuration        time.Duration `env:"TOKEN_DURATION,default=24h"`
	CensoredWordsPath    string        `env:"CENSORED_WORDS_PATH"`
	CensoredReplacement  string        `env:"CENSORED_CHARACTER_REPLACEMENT,default=*"`
	LogLevel             string        `env:"LOG_LEVEL,default=info"`
}

// CensoredRune converts the configured replacement to a rune. The env value
// stays a string because go-env parses rune fields as integers.
func (c Config) CensoredRune() (rune, error) {
	r := []rune(c.CensoredReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSORED_CHARACTER_REPLACEMENT must be a single character, got %q",
			c.CensoredReplacement,
		)
	}
	return r[0], nil
}

// RoomNames splits the configured room list, preserving order.
// Semicolon-separated because commas delimit env tag options.
// Names containing ":" are dropped, the store uses it as key separator.
func (c Config) RoomNames() []string {
	var names []string
	for _, name := range strings.Split(c.Rooms, ";") {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" || strings.Contains(trimmed, ":") {
			continue
		}
		names = append(names, trimmed)
	}
	return names
}
