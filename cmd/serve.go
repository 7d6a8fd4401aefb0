package cmd

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"rollcall-roster/db"
	"rollcall-roster/handlers"
	"rollcall-roster/roster"
)

var httpAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the roster as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if httpAddr != "" {
			cfg.HTTP.Addr = httpAddr
		}

		store, closer, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		apiHandler := handlers.NewAPIHandler(roster.New(), store, cfg.Excel.Sheet)

		router := gin.Default()
		apiHandler.RegisterRoutes(router)

		log.Printf("Starting server on %s (store: %s)", cfg.HTTP.Addr, store.Location())
		return router.Run(cfg.HTTP.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (default :8080)")
	rootCmd.AddCommand(serveCmd)
}
