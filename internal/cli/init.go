package cli

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fliptech/ftab/internal/config"
	"github.com/fliptech/ftab/internal/domain"
)

var (
	initOutput string
	initYes    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter catalog file",
	Long: `Write the built-in experiment and domain catalog to a YAML file you can edit
and pass back with --config.

Example:
  ftab init
  ftab init --output site.yaml --yes`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "ftab.yaml", "catalog file to write")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "accept defaults without prompting")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(initOutput); err == nil {
		return fmt.Errorf("%s already exists", initOutput)
	}

	cat := config.Default()

	if !initYes {
		def, err := promptDefaultDomain(cat.Domains)
		if err != nil {
			return err
		}
		cat.DefaultDomain = def
	}

	data, err := encodeCatalog(cat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(initOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s (%d experiments, %d domains, default %s)\n",
		initOutput, len(cat.Experiments), len(cat.Domains), cat.DefaultDomain)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next:")
	fmt.Fprintf(out, "  ftab experiments --config %s\n", initOutput)
	fmt.Fprintf(out, "  ftab serve --config %s\n", initOutput)
	return nil
}

func encodeCatalog(cat config.Catalog) ([]byte, error) {
	data, err := yaml.Marshal(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return data, nil
}

func promptDefaultDomain(configs []domain.DomainConfig) (string, error) {
	items := make([]string, len(configs))
	for i, c := range configs {
		items[i] = c.Domain
	}

	prompt := promptui.Select{
		Label: "Fallback domain for unknown hosts",
		Items: items,
		Size:  len(items),
	}

	_, choice, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return "", err
	}
	return choice, nil
}
