package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/PerAsperaMods/modkit/adapters/presets"
	"github.com/PerAsperaMods/modkit/core/domain"
)

func (c *CLI) newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Validate and inspect override preset files",
	}

	cmd.AddCommand(c.newPresetsLintCmd())
	cmd.AddCommand(c.newPresetsListCmd())

	return cmd
}

func (c *CLI) newPresetsLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>...",
		Short: "Validate preset files without applying them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				pf, err := presets.Load(path)
				if err != nil {
					failed++
					_, _ = fmt.Fprintf(out, "error  %s: %v\n", path, err)
					continue
				}
				_, _ = fmt.Fprintf(out, "ok     %s (%d overrides, %d warmup types)\n", path, len(pf.Overrides), len(pf.Warmup))
			}

			if failed > 0 {
				return zerr.With(zerr.New("preset validation failed"), "failed_files", failed)
			}
			return nil
		},
	}
}

func (c *CLI) newPresetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "Show the overrides a preset file declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := presets.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if pf.Version != "" {
				_, _ = fmt.Fprintf(out, "version: %s\n", pf.Version)
			}
			for _, name := range pf.Warmup {
				_, _ = fmt.Fprintf(out, "warmup: %s\n", name)
			}
			if len(pf.Overrides) == 0 {
				_, _ = fmt.Fprintln(out, "no overrides")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "OWNER\tMETHOD\tTYPE\tSTRATEGY\tVALUE\tENABLED")
			for _, ov := range pf.Overrides {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%t\n",
					ov.Owner, ov.Capability.Name, ov.Kind, strategyCell(ov), ov.Value, ov.Enabled)
			}
			return w.Flush()
		},
	}
}

// strategyCell renders the strategy with its bounds where it has any.
func strategyCell(ov domain.PresetOverride) string {
	if ov.Strategy == domain.StrategyClamp {
		return fmt.Sprintf("clamp[%v..%v]", ov.Low, ov.High)
	}
	return ov.Strategy.String()
}
