package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/engage-cli/internal/table"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the merged activity/firmographic table to a file",
	Long:  "Left-joins the firmographic table onto the activity table on the customer identifier and writes the result as CSV or XLSX, chosen by the output extension.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sess, st, err := initSession(ctx, false)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		merged, err := sess.Merged()
		if err != nil {
			return err
		}

		if err := writeTable(merged, exportOut); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("out", exportOut),
			zap.Int("rows", merged.NumRows()),
		)
		return nil
	},
}

func writeTable(t *table.Table, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeTableXLSX(t, path)
	}
	return writeTableCSV(t, path)
}

func writeTableCSV(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for len(row) < t.NumColumns() {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write row %d", i)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return eris.Wrap(f.Close(), "export: close")
}

func writeTableXLSX(t *table.Table, path string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Merged")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range t.Columns() {
		header.AddCell().SetString(col)
	}
	for i := 0; i < t.NumRows(); i++ {
		row := sheet.AddRow()
		for _, cell := range t.Row(i) {
			row.AddCell().SetString(cell)
		}
	}

	return eris.Wrapf(file.Save(path), "export: save %s", path)
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path, .csv or .xlsx (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
