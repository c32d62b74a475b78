// Package resolve explains how partner names map to country codes and blocs.
package resolve

import (
	"fmt"
	"io"
	"text/tabwriter"

	"jovanny3/tradeflow/cmd/root"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/resolver"

	"github.com/spf13/cobra"
)

// Cmd represents the resolve command
var Cmd = &cobra.Command{
	Use:   "resolve NAME...",
	Short: "Resolve partner names to ISO alpha-3 codes and regions",
	Long: `Resolve runs every matching strategy (exception table, exact name, fuzzy
name) against each partner name and prints the resulting code, the region and
the outcome of every strategy.`,
	Args: cobra.MinimumNArgs(1),
	RunE: resolveFunc,
}

// Resolution is one line of resolve output.
type Resolution struct {
	Name     string
	Code     models.CountryCode
	Region   models.Region
	Strategy string
	Trail    string
}

// Explain resolves every name with r.
func Explain(r *resolver.Resolver, names []string) []Resolution {
	out := make([]Resolution, 0, len(names))
	for _, name := range names {
		trail := r.Explain(name)
		res := Resolution{Name: name, Trail: trail.Summary(), Strategy: "-"}
		if best, ok := trail.Best(); ok {
			res.Code = best.Code
			res.Strategy = best.Strategy
		}
		res.Region = r.Classify(res.Code)
		out = append(out, res)
	}
	return out
}

// Print writes resolutions as an aligned table.
func Print(w io.Writer, resolutions []Resolution) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCODE\tREGION\tSTRATEGY\tTRAIL")
	for _, r := range resolutions {
		code := r.Code.String()
		if code == "" {
			code = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, code, r.Region, r.Strategy, r.Trail)
	}
	return tw.Flush()
}

func resolveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	return Print(cmd.OutOrStdout(), Explain(c.GetResolver(), args))
}
