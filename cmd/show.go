package cmd

import (
	"fmt"

	"treasurehunt/board"
	"treasurehunt/environment"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Generate a board and print it with its stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []environment.Option{}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, environment.WithSeed(seed))
			}
			env, err := environment.New(boardConfig(), opts...)
			if err != nil {
				return err
			}
			if _, _, err = env.Reset(nil); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err = board.Render(out, env.Board(), board.PlayerAt(board.Start)); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return board.ShowStats(out, env.Board())
		},
	}
	addBoardFlags(cmd)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible board")
	return cmd
}
