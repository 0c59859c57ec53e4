package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var showInactive bool

var experimentsCmd = &cobra.Command{
	Use:     "experiments",
	Aliases: []string{"list"},
	Short:   "List experiments",
	Long:    `List the experiments in the catalog with their variants and traffic split.`,
	RunE:    runExperiments,
}

func init() {
	experimentsCmd.Flags().BoolVarP(&showInactive, "all", "a", false, "include inactive experiments")
	rootCmd.AddCommand(experimentsCmd)
}

func runExperiments(cmd *cobra.Command, args []string) error {
	core, err := loadCore(zap.NewNop(), nil)
	if err != nil {
		return err
	}

	exps := core.Registry.ListActive()
	if showInactive {
		exps = core.Registry.List()
	}

	if len(exps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No active experiments.")
		return nil
	}

	// Print table
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE\tVARIANTS\tTOTAL")

	for _, exp := range exps {
		state := "ACTIVE"
		if !exp.Active {
			state = "INACTIVE"
		}

		variants := make([]string, len(exp.Variants))
		for i, v := range exp.Variants {
			variants[i] = fmt.Sprintf("%s:%d", v.ID, v.Weight)
		}

		// Flag weight sums that leave a residual control zone
		total := fmt.Sprintf("%d", exp.TotalWeight())
		if exp.TotalWeight() != 100 {
			total += " (!)"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			exp.ID,
			exp.Name,
			state,
			strings.Join(variants, ", "),
			total,
		)
	}

	return w.Flush()
}
