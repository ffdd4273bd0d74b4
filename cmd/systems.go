package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/workbank-normalizer/internal/rules"
	"github.com/spf13/cobra"
)

var systemsVerbose bool

// systemsCmd lists the partner systems the registry knows.
var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "List the supported partner systems",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := rules.Default()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SYSTEM\tBANK CODE\tBANK NAME")
		for _, id := range registry.SortedSystems() {
			set, _ := registry.Lookup(id)
			info := set.Info()
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.System, dash(info.BankCode), dash(info.BankName))
			if systemsVerbose && len(info.Columns) > 0 {
				fmt.Fprintf(w, "\t\t%s\n", strings.Join(info.Columns, ", "))
			}
		}
		return w.Flush()
	},
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(systemsCmd)
	systemsCmd.Flags().BoolVar(&systemsVerbose, "columns", false, "Also list the expected source columns")
}
