// Package demo writes the synthetic demo dataset as CSV.
package demo

import (
	"jovanny3/tradeflow/cmd/root"
	"jovanny3/tradeflow/internal/common"
	"jovanny3/tradeflow/internal/demo"
	"jovanny3/tradeflow/internal/logging"

	"github.com/spf13/cobra"
)

// Seed is bound to the --seed flag.
var Seed int64

// Cmd represents the demo command
var Cmd = &cobra.Command{
	Use:   "demo",
	Short: "Write the synthetic demo trade dataset",
	Long: `Demo writes a deterministic synthetic dataset for the default report year:
one export and one import row per month, partner and product. The output can
be fed back to summarize with --input.`,
	RunE: demoFunc,
}

func init() {
	Cmd.Flags().Int64Var(&Seed, "seed", demo.DefaultSeed, "Random seed")
}

func demoFunc(cmd *cobra.Command, args []string) error {
	logger := root.GetLogger()
	table := demo.Generate(Seed)

	if root.SharedFlags.Output == "" {
		return common.WriteRawTable(cmd.OutOrStdout(), table)
	}
	if err := common.WriteRawTableFile(table, root.SharedFlags.Output, logger); err != nil {
		return err
	}
	logger.Info("Demo dataset written",
		logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output},
		logging.Field{Key: "seed", Value: Seed})
	return nil
}
