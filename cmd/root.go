// Package cmd is the treasurehunt command tree.
package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "treasurehunt",
		Short:         "A toroidal treasure hunt maze, playable by humans and learnable by agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return LoadConfig()
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		ShowCommand(),
		PlayCommand(),
		ServeCommand(),
		TrainCommand(),
	)

	return cmd
}
