package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/modelmesh-lang/modelmesh/pkg/resource"
	"github.com/modelmesh-lang/modelmesh/pkg/server"
	"github.com/modelmesh-lang/modelmesh/pkg/watch"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	modelFile string
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mctl",
		Short: "Inspect and serve model resource files",
		Long: `mctl operates on serialized model resources: it lists the object
pool, reconstructs metamodel packages stored in them and serves
change events over websocket connections.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err == nil {
					resource.SetLogger(logger)
					watch.SetLogger(logger)
					server.SetLogger(logger)
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&modelFile, "file", "f", "", "model file to operate on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(rootsCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fakeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
