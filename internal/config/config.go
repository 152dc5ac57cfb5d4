package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings, read from the environment (and an
// optional .env file in the working directory).
type Config struct {
	StoryFile string `envconfig:"CREEPY_STORY_FILE"`
	SaveFile  string `envconfig:"CREEPY_SAVE_FILE"`

	SoundDir   string  `envconfig:"CREEPY_SOUND_DIR" default:"assets"`
	Mute       bool    `envconfig:"CREEPY_MUTE" default:"false"`
	Volume     float64 `envconfig:"CREEPY_VOLUME" default:"1.0"`
	SampleRate int     `envconfig:"CREEPY_SAMPLE_RATE" default:"44100"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	LogFile     string `envconfig:"LOG_FILE"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid CREEPY_SAMPLE_RATE %d", cfg.SampleRate)
	}
	return &cfg, nil
}
