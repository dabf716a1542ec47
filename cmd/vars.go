package cmd

import (
	"context"
	"os"
	"os/signal"

	"treasurehunt/config"
	"treasurehunt/environment"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	appConfig config.Config
	envFile   string
	debug     bool

	boardSize   int
	jumpCount   int
	wallDensity float64
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path of an optional .env file")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// addBoardFlags registers the -n/-j/-d board flags shared by the human front ends.
func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&boardSize, "size", "n", environment.DEFAULT_SIZE, "Board size (at least 5)")
	cmd.Flags().IntVarP(&jumpCount, "jumps", "j", 3, "Number of jump pickups")
	cmd.Flags().Float64VarP(&wallDensity, "density", "d", 0.7, "Wall density in [0,1)")
}

func boardConfig() environment.Config {
	return environment.FixedConfig(boardSize, jumpCount, wallDensity)
}

// LoadConfig reads the application config and sets up logging. The --debug flag wins over
// the environment.
func LoadConfig() (err error) {
	if appConfig, err = config.Load(envFile); err != nil {
		return
	}
	if debug {
		appConfig.Debug = true
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if appConfig.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.WithField("config", appConfig).Debug("loaded config")
	return
}

// interruptContext is cancelled on the first interrupt.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
