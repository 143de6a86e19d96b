package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/config"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/logging"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = zap.NewNop()
	flush   = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "oxiportal",
	Short:         "Approval portal session engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		// The chat view owns the terminal.
		if cmd.Name() == "chat" {
			return nil
		}
		logger, flush, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flush()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default $PORTAL_CONFIG)")
	rootCmd.AddCommand(newServeCmd(), newCatalogCmd(), newChatCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
