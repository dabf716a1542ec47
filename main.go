/*
Treasure hunt is a small toroidal maze game: find the treasure on an n×n board whose edges
wrap, going around the walls or jumping them with tokens picked up along the way. The same
environment is played in the terminal, in the browser, and by a tabular Q-learning agent
trained with parallel episode workers.
*/

package main

import (
	"os"

	"treasurehunt/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		log.WithError(err).Error("treasurehunt failed")
		os.Exit(1)
	}
}
