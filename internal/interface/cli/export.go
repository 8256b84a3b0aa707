package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
	"github.com/YoshitsuguKoike/kindred/internal/application/service"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/di"
)

func newExportCmd() *cobra.Command {
	var (
		owner  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Snapshot one owner's records into the export store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			container, err := di.NewContainer(cmd.Context(), globalConfig, di.WithFs(settingsFs))
			if err != nil {
				return err
			}
			defer container.Close()

			if container.StorageName() == di.StorageMemory {
				globalLogger.Warn("memory storage holds no records outside a running server", zap.String("owner", owner))
			}
			info, err := runExport(cmd.Context(), container.GetExporter(), container.GetExportStore(), owner, format, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", color.New(color.FgGreen).Sprint("Saved"), info.Location, info.Size)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&owner, "owner", "", "owner ID (the session identifier)")
	cmd.Flags().StringVar(&format, "format", service.FormatYAML, "archive format (yaml, json)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored exports of an owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			container, err := di.NewContainer(cmd.Context(), globalConfig, di.WithFs(settingsFs))
			if err != nil {
				return err
			}
			defer container.Close()
			return runExportList(cmd.Context(), cmd.OutOrStdout(), container.GetExportStore(), owner)
		},
	}
	cmd.AddCommand(list)
	return cmd
}

// runExport snapshots owner and stores the encoded archive
func runExport(ctx context.Context, exporter *service.Exporter, store output.ExportStore, owner, format string, now time.Time) (*output.ExportInfo, error) {
	doc, err := exporter.Snapshot(ctx, owner)
	if err != nil {
		return nil, err
	}
	data, contentType, err := service.Encode(doc, format)
	if err != nil {
		return nil, err
	}
	info, err := store.SaveExport(ctx, output.SaveExportRequest{
		Owner:       owner,
		Name:        service.FileName(owner, format, now),
		Content:     data,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save export: %w", err)
	}
	return info, nil
}

func runExportList(ctx context.Context, w io.Writer, store output.ExportStore, owner string) error {
	infos, err := store.ListExports(ctx, owner)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "No exports")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s  %8d  %s\n",
			color.New(color.FgCyan).Sprint(info.SavedAt.UTC().Format(time.RFC3339)),
			info.Size, info.Name)
	}
	return nil
}
