package cmd

import (
	"fmt"

	"treasurehunt/server"

	"github.com/spf13/cobra"
)

func ServeCommand() *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			if !cmd.Flags().Changed("host") {
				host = appConfig.Host
			}
			if !cmd.Flags().Changed("port") {
				port = appConfig.Port
			}

			srv, err := server.NewServer(ctx, fmt.Sprintf("%s:%d", host, port), boardConfig())
			if err != nil {
				return err
			}
			return srv.Serve()
		},
	}
	addBoardFlags(cmd)
	cmd.Flags().StringVar(&host, "host", "localhost", "Host to bind, overrides TREASUREHUNT_HOST")
	cmd.Flags().IntVar(&port, "port", 8080, "Port to bind, overrides TREASUREHUNT_PORT")
	return cmd
}
