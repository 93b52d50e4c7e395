package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/engage-cli/internal/classify"
	"github.com/sells-group/engage-cli/internal/query"
)

var (
	contactsStatus string
	contactsSearch string
)

var contactsCmd = &cobra.Command{
	Use:   "contacts <account>",
	Short: "Show classified contacts for an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		filters := query.Filters{NameSearch: contactsSearch}
		if contactsStatus != "" {
			status, ok := classify.ParseStatus(contactsStatus)
			if !ok {
				return eris.Errorf("unknown status %q (want affinity, engaged, or unengaged)", contactsStatus)
			}
			filters.Statuses = []classify.Status{status}
		}

		sess, st, err := initSession(ctx, false)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		contacts, err := sess.Contacts(args[0], filters)
		if err != nil {
			return err
		}

		if len(contacts) == 0 {
			fmt.Fprintln(os.Stderr, "No contacts found.")
			return nil
		}

		formatContactList(os.Stdout, contacts)
		return nil
	},
}

func formatContactList(w io.Writer, contacts []classify.Contact) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tSTATUS\tCOLOR")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			c.DisplayName, c.JobTitle, c.Status, classify.StatusColors[c.Status])
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	contactsCmd.Flags().StringVar(&contactsStatus, "status", "", "filter by status (affinity, engaged, unengaged, or a legacy color)")
	contactsCmd.Flags().StringVar(&contactsSearch, "search", "", "case-insensitive name substring filter")
	rootCmd.AddCommand(contactsCmd)
}
