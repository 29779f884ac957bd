package main

import (
	"fmt"
	"os"

	"process-report/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRoot() *cobra.Command {
	var configFile string
	cfg := new(config.Config)

	root := &cobra.Command{
		Use:           "processreport",
		Short:         "Generate technical optimization reports for industrial processes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			*cfg = *config.Load(configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file path (e.g. etc/config-dev.yaml)")

	root.AddCommand(
		serveCmd(cfg),
		generateCmd(cfg),
		historyCmd(cfg),
		hashPasswordCmd(),
	)
	return root
}
