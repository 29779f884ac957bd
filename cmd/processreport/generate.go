package main

import (
	"context"
	"errors"
	"fmt"

	"process-report/internal/config"
	"process-report/internal/form"
	"process-report/internal/logger"
	"process-report/internal/model"
	"process-report/internal/render"
	"process-report/internal/service"
	"process-report/internal/storage"

	"github.com/spf13/cobra"
)

func generateCmd(cfg *config.Config) *cobra.Command {
	var (
		fields  = map[string]*string{}
		withPDF bool
		pdfDir  string
		style   string
		width   int
		rawJSON bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a report from the command line",
		Example: `  processreport generate --name "CNC Line A" \
    --description "Three machining cells feed one manual inspection station" \
    --challenges "Unplanned downtime" --pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitQuiet(cfg.Log)
			ctx := cmd.Context()

			a, err := newApp(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer a.close()

			for field, v := range fields {
				if err := a.form.Set(field, *v); err != nil {
					return err
				}
			}

			var entry model.HistoryEntry
			err = a.form.Submit(ctx, func(ctx context.Context, in model.ProcessInput) error {
				var err error
				entry, err = a.orch.Submit(ctx, in)
				return err
			})
			var we *storage.WriteError
			switch {
			case errors.Is(err, form.ErrValidationBlocked):
				return fmt.Errorf("--name and --description are required")
			case errors.As(err, &we):
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: report not saved to history: %v\n", err)
			case err != nil:
				return errors.New(service.FailureMessage)
			}

			out := cmd.OutOrStdout()
			if rawJSON {
				if err := printJSON(out, entry); err != nil {
					return err
				}
			} else {
				text, err := render.Terminal(entry.Report, style, width)
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
			}

			if withPDF {
				dir := pdfDir
				if dir == "" {
					dir = cfg.Export.Dir
				}
				path, err := a.exporter.ExportToFile(entry.Report, dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", path)
			}
			return nil
		},
	}

	flags := []struct{ field, name, usage string }{
		{form.FieldProcessName, "name", "process name (required)"},
		{form.FieldProcessDescription, "description", "process description (required)"},
		{form.FieldKPIs, "kpis", "key performance indicators"},
		{form.FieldChallenges, "challenges", "current challenges / bottlenecks"},
		{form.FieldEquipment, "equipment", "equipment used"},
		{form.FieldDataCollection, "data-collection", "data collection methods"},
	}
	for _, f := range flags {
		fields[f.field] = cmd.Flags().String(f.name, "", f.usage)
	}
	cmd.Flags().BoolVar(&withPDF, "pdf", false, "also export the report as PDF")
	cmd.Flags().StringVar(&pdfDir, "out", "", "PDF directory (default export.dir)")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty")
	cmd.Flags().IntVar(&width, "width", 100, "wrap width")
	cmd.Flags().BoolVar(&rawJSON, "json", false, "print the history entry as JSON")
	return cmd
}
