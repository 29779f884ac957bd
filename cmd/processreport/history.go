package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"process-report/internal/config"
	"process-report/internal/logger"
	"process-report/internal/render"
	"process-report/internal/service"

	"github.com/spf13/cobra"
)

func historyCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and manage saved reports",
	}
	cmd.AddCommand(historyListCmd(cfg), historyShowCmd(cfg), historyExportCmd(cfg), historyClearCmd(cfg))
	return cmd
}

func historyListCmd(cfg *config.Config) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitQuiet(cfg.Log)
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.close()

			list := a.history.List()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), list)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Date, e.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func historyShowCmd(cfg *config.Config) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitQuiet(cfg.Log)
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.close()

			e, ok := a.history.Find(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", service.ErrHistoryNotFound, args[0])
			}
			text, err := render.Terminal(e.Report, style, 100)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty")
	return cmd
}

func historyExportCmd(cfg *config.Config) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a saved report as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitQuiet(cfg.Log)
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.close()

			e, ok := a.history.Find(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", service.ErrHistoryNotFound, args[0])
			}
			if dir == "" {
				dir = cfg.Export.Dir
			}
			path, err := a.exporter.ExportToFile(e.Report, dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "out", "", "output directory (default export.dir)")
	return cmd
}

func historyClearCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitQuiet(cfg.Log)
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.close()

			n := len(a.history.List())
			if err := a.orch.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d reports\n", n)
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for auth.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
