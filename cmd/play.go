package cmd

import (
	"os"

	"treasurehunt/environment"
	"treasurehunt/terminal"

	"github.com/spf13/cobra"
)

func PlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			env, err := environment.New(boardConfig())
			if err != nil {
				return err
			}
			return terminal.NewGame(env, cmd.OutOrStdout()).Run(ctx, os.Stdin)
		},
	}
	addBoardFlags(cmd)
	return cmd
}
