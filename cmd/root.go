package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"rollcall-roster/config"
	"rollcall-roster/console"
	"rollcall-roster/db"
	"rollcall-roster/roster"
)

var (
	configPath string
	filePath   string
	backend    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Interactive student roster manager",
	Long: `roster keeps a list of students and their averages in memory and lets
you add, list, sort, edit, delete, search, save and load them from a menu.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			log.SetOutput(io.Discard)
		}
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closer, err := db.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		menu := console.NewMenu(roster.New(), store, cmd.InOrStdin(), cmd.OutOrStdout())
		return menu.Run(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "roster.yml", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "roster file for save/load (default students.txt)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: file, redis or excel")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log storage activity to stderr")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if filePath != "" {
		cfg.File = filePath
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
