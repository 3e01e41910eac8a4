package main

import (
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/allocdesk/internal/export"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

func newExportCmd(a *app) *cobra.Command {
	var filter gateway.ExportFilter
	var dir, name string
	cmd := &cobra.Command{
		Use:   "export <employee|project|allocation>",
		Short: "Download records as an Excel workbook",
		Long: "Download records as an Excel workbook.\n\n" +
			"--type narrows the rows: all, active, name, id, and for allocations\n" +
			"also employee or project. --value carries the name or id to match.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindArg(args[0])
			if err != nil {
				return err
			}
			c, err := a.client(true)
			if err != nil {
				return err
			}
			res, err := export.Save(cmd.Context(), c, kind, filter, dir, name)
			if err != nil {
				return err
			}
			a.printf("Saved %s (%d bytes)\n", res.Path, res.Download.Bytes)

			sheets, err := export.Summarize(res.Path)
			if err != nil {
				a.log.Warn("could not read back the workbook", slog.String("path", res.Path), slog.String("error", err.Error()))
				return nil
			}
			rows := make([][]string, len(sheets))
			for i, s := range sheets {
				rows[i] = []string{s.Name, strconv.Itoa(s.Rows)}
			}
			table(a.out, []string{"SHEET", "ROWS"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Type, "type", "", "Row filter type")
	cmd.Flags().StringVar(&filter.Value, "value", "", "Row filter value")
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to save into")
	cmd.Flags().StringVar(&name, "name", "", "File name, defaults to the server's suggestion")
	return cmd
}
