// Package config holds the application settings taken from the environment.
package config

import (
	"fmt"
	"runtime"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ENV_PREFIX prefixes every variable read, e.g. TREASUREHUNT_PORT.
const ENV_PREFIX = "TREASUREHUNT"

// Config holds the application's configuration values.
type Config struct {
	Host     string // Host the play server binds
	Port     int    // Port of the play server
	Debug    bool   // Enables debug logging
	NWorkers int    // Number of training workers
}

// Addr is the play server's listen address.
func (cfg Config) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Load reads the optional .env files, then the TREASUREHUNT_* environment variables over
// the defaults. With no files given, .env in the working directory is tried.
func Load(envFiles ...string) (cfg Config, err error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.WithError(err).Debug(".env file not found or could not be loaded")
	}

	vp := viper.New()
	vp.SetEnvPrefix(ENV_PREFIX)
	vp.AutomaticEnv()
	vp.SetDefault("host", "localhost")
	vp.SetDefault("port", 8080)
	vp.SetDefault("debug", false)
	vp.SetDefault("nworkers", runtime.NumCPU())

	cfg = Config{
		Host:     vp.GetString("host"),
		Port:     vp.GetInt("port"),
		Debug:    vp.GetBool("debug"),
		NWorkers: vp.GetInt("nworkers"),
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		err = fmt.Errorf("%s_PORT out of range: %d", ENV_PREFIX, cfg.Port)
		return
	}
	if cfg.NWorkers < 1 {
		err = fmt.Errorf("%s_NWORKERS must be positive: %d", ENV_PREFIX, cfg.NWorkers)
	}
	return
}
