package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/engage-cli/internal/pipeline"
)

var accountsLimit int

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Rank accounts by activity volume",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sess, st, err := initSession(ctx, false)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit := accountsLimit
		if limit == 0 {
			limit = cfg.Dashboard.TopAccountsLimit
		}

		top := sess.TopAccounts(limit)
		if len(top) == 0 {
			fmt.Fprintln(os.Stderr, "No accounts found.")
			return nil
		}

		formatAccountList(os.Stdout, top)
		return nil
	},
}

func formatAccountList(w io.Writer, counts []pipeline.AccountCount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tACTIVITIES")
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.AccountName, c.Activities)
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	accountsCmd.Flags().IntVar(&accountsLimit, "limit", 0, "max accounts to show (default from config)")
	rootCmd.AddCommand(accountsCmd)
}
