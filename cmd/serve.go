package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"shopmate/internal/apihandlers"
)

var (
	serveAddr string // Listen address
	servePort string // Listen port
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the shopmate web UI and JSON API",
	Long: `Starts an HTTP server with the search form at /, the JSON API under
/api/v1, a health check at /health and Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		cfg := appInstance.Config

		router, err := apihandlers.NewRouter(apihandlers.NewAPIHandler(appInstance), cfg.Server.ReleaseMode)
		if err != nil {
			return err
		}

		addr, port := cfg.Server.Addr, cfg.Server.Port
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		listenAddr := fmt.Sprintf("%s:%s", addr, port)
		log.Infof("Starting shopmate server on http://%s", listenAddr)

		// router.Run blocks unless an error occurs
		if err := router.Run(listenAddr); err != nil {
			log.Errorf("Failed to run server: %v", err)
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
}
