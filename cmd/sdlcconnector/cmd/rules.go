package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/solatis/sdlc-connector/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the built-in event rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered event types and their extraction paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := rules.GitHub()
		verbose, _ := cmd.Flags().GetBool("paths")

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EVENT\tLABEL\tARRAY\tPATHS")
		for _, eventType := range registry.EventTypes() {
			compiled, _ := registry.Lookup(eventType)
			r := compiled.Rule()

			label := "-"
			if r.LabelPath != "" {
				label = r.LabelPath
			}
			array := "-"
			if r.Array != nil {
				array = r.Array.Path
				if len(r.Array.Fields) > 0 {
					array += " {" + strings.Join(r.Array.Fields, ", ") + "}"
				}
			}

			paths := fmt.Sprintf("%d", len(r.Paths))
			if verbose {
				paths = strings.Join(r.Paths, " ")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", eventType, label, array, paths)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().Bool("paths", false, "print every scalar path instead of a count")
}
