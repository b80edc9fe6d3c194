package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelmesh-lang/modelmesh/pkg/server"
	"github.com/modelmesh-lang/modelmesh/pkg/watch"
)

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "server port")
}

// serveCmd exposes change events of the loaded model resource on a
// websocket watch endpoint.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve model change events",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadResource()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			port = cfg.Port
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.DefaultConfig(port))
		srv.Handle("/watch", watch.HttpHandler(r.GetResourceSet()))
		return srv.ListenAndServeContext(ctx, 10*time.Second)
	},
}
