package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/engage-cli/internal/query"
)

var (
	queryTypes    []string
	queryAccounts []string
	queryStart    string
	queryEnd      string
	querySearch   string
	queryRefresh  bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print filtered activity records as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		filters := query.Filters{
			Types:      queryTypes,
			Accounts:   queryAccounts,
			NameSearch: querySearch,
		}
		var err error
		if filters.Start, err = parseDateFlag(queryStart); err != nil {
			return err
		}
		if filters.End, err = parseDateFlag(queryEnd); err != nil {
			return err
		}

		sess, st, err := initSession(ctx, queryRefresh)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sess.FilteredActivities(filters))
	},
}

// parseDateFlag parses a --start/--end value. Bounds are inclusive day
// precision; an empty value means unbounded.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, eris.Wrapf(err, "parse date %q (want YYYY-MM-DD)", s)
	}
	utc := ts.UTC()
	return &utc, nil
}

func init() {
	queryCmd.Flags().StringSliceVar(&queryTypes, "type", nil, "activity types to include (repeatable)")
	queryCmd.Flags().StringSliceVar(&queryAccounts, "account", nil, "account names to include (repeatable)")
	queryCmd.Flags().StringVar(&queryStart, "start", "", "inclusive start date (YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&queryEnd, "end", "", "inclusive end date (YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&querySearch, "search", "", "case-insensitive person name substring filter")
	queryCmd.Flags().BoolVar(&queryRefresh, "refresh", false, "ignore cached snapshots")
	rootCmd.AddCommand(queryCmd)
}
