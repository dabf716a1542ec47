package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"treasurehunt/reinforcement"
	"treasurehunt/terminal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	PROGRESS_RATE  = 200 * time.Millisecond
	EVALUATE_GAMES = 100
)

func TrainCommand() *cobra.Command {
	var configPath string
	var nworkers int
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a tabular Q-learning agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			trainingConfig, err := reinforcement.FromYaml(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("nworkers") {
				nworkers = appConfig.NWorkers
			}
			return runTraining(ctx, cmd.OutOrStdout(), trainingConfig, nworkers)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "./config.yaml", "Path of the training config")
	cmd.Flags().IntVar(&nworkers, "nworkers", 1, "Number of episode workers, overrides TREASUREHUNT_NWORKERS")
	return cmd
}

func runTraining(
	ctx context.Context,
	out io.Writer,
	trainingConfig *reinforcement.TrainingConfig,
	nworkers int,
) error {
	trainCtx, cancel, err := trainingConfig.WithTrainingDeadline(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	log.WithFields(log.Fields{
		"episodes": trainingConfig.Episodes,
		"nworkers": nworkers,
		"size":     trainingConfig.Environment.Size,
	}).Info("training")

	printerCtx, stopPrinter := context.WithCancel(ctx)
	printer := terminal.NewProgressPrinter(out, PROGRESS_RATE)
	printer.Start(printerCtx)

	start := time.Now()
	summary, err := reinforcement.Train(trainCtx, trainingConfig, nworkers,
		func(_ context.Context, episodeCount int, stats *reinforcement.Stats) {
			printer.TrySet(stats.String())
		})
	stopPrinter()
	printer.Wait()
	if summary == nil {
		return err
	}
	if err != nil {
		log.WithError(err).Warn("training interrupted")
	}

	fmt.Fprintf(out, "Trained %d episodes in %v: success rate %.2f, return %.2f ± %.2f, length %.1f, %d states\n",
		summary.Episodes, time.Since(start).Round(time.Millisecond), summary.SuccessRate(),
		summary.MeanReturn, summary.StdReturn, summary.MeanLength, summary.Table.Len())
	if n := len(summary.MovingReturns); n > 0 {
		fmt.Fprintf(out, "Moving return(%d): first %.2f, last %.2f\n",
			summary.Window, summary.MovingReturns[0], summary.MovingReturns[n-1])
	}

	result, evalErr := reinforcement.Evaluate(ctx, summary.Table, trainingConfig.Environment,
		trainingConfig.Seed+uint64(nworkers), EVALUATE_GAMES)
	if evalErr != nil {
		return evalErr
	}
	fmt.Fprintf(out, "Greedy play over %d games: win rate %.2f, return %.2f, length %.1f\n",
		result.Games, result.WinRate(), result.MeanReturn, result.MeanLength)
	return err
}
