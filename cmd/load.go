package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/engage-cli/internal/store"
)

var loadRefresh bool

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load and snapshot the configured sources",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sess, st, err := initSession(ctx, loadRefresh)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		zap.L().Info("sources loaded",
			zap.Int("activities", len(sess.Activities())),
			zap.Int("accounts", len(sess.AccountOptions())),
			zap.String("date_column", sess.DateColumn()),
		)

		infos, err := st.ListSnapshots(ctx)
		if err != nil {
			return err
		}
		formatSnapshotList(os.Stdout, infos)
		return nil
	},
}

func formatSnapshotList(w io.Writer, infos []store.SnapshotInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tROWS\tLOADED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\n",
			info.Source, info.RowCount, info.LoadedAt.Format(time.RFC3339))
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	loadCmd.Flags().BoolVar(&loadRefresh, "refresh", false, "ignore cached snapshots and reload from the sources")
	rootCmd.AddCommand(loadCmd)
}
