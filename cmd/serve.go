// =============================================================================
// Workbank Normalizer - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which starts the HTTP upload
// endpoint (see internal/server).
//
// COMMAND USAGE:
//   workbank serve [--addr :8080]
//
// The server stops gracefully on SIGINT or SIGTERM.
//
// =============================================================================

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/workbank-normalizer/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP upload server",
	Long: `The serve command exposes the normalizer over HTTP:

  GET  /health    liveness check
  GET  /systems   supported partner systems
  POST /process   multipart upload with "file" and "system" fields`,

	RunE: func(cmd *cobra.Command, args []string) error {
		processor, systems, err := loadProcessor()
		if err != nil {
			return err
		}

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(appConfig, processor, systems, log).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
