package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "IQAMA"

// Env holds the settings read from the environment.
type Env struct {
	ConfigFile string `envconfig:"CONFIG"`
	RulesFile  string `envconfig:"RULES_FILE"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"warn"`
	CacheDir   string `envconfig:"CACHE_DIR"`
	NoCache    bool   `envconfig:"NO_CACHE" default:"false"`

	// APIURL points the Athan provider at another Al Adhan compatible host.
	APIURL string `envconfig:"API_URL"`
}

// LoadEnv loads dotenv files into the process environment, then reads the
// IQAMA_* variables. With no files given it tries ".env" in the working
// directory. Missing dotenv files are ignored; variables already set in the
// environment win over dotenv values.
func LoadEnv(dotenv ...string) (Env, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Env{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("read environment: %w", err)
	}
	return env, nil
}

// Apply copies the environment values that are set onto c.
func (e Env) Apply(c *Config) {
	if e.RulesFile != "" {
		c.RulesFile = e.RulesFile
	}
	if e.CacheDir != "" {
		c.CacheDir = e.CacheDir
	}
}
