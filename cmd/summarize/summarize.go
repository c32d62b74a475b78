// Package summarize runs the trade pipeline over a CSV file or the demo
// dataset and prints the report.
package summarize

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"jovanny3/tradeflow/cmd/root"
	"jovanny3/tradeflow/internal/common"
	"jovanny3/tradeflow/internal/demo"
	"jovanny3/tradeflow/internal/filter"
	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/pipeline"
	"jovanny3/tradeflow/internal/report"

	"github.com/spf13/cobra"
)

// Options holds the summarize flags.
type Options struct {
	RatesFile string
	Currency  string
	Months    []int
	Partners  []string
	Products  []string
	Flow      string
	MinValue  float64
	MaxValue  float64
	Search    string
	TopN      int
	Format    string
	ViewsDir  string
	Demo      bool
	Seed      int64
}

// Flags is bound to Cmd.
var Flags = Options{}

// Cmd represents the summarize command
var Cmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize trade records into views, KPIs and insights",
	Long: `Summarize reads a trade CSV (year, month, flow, partner_country, product_desc
and the local value column), resolves partners to countries and blocs,
converts values to the selected currency and prints aggregate views, KPIs and
insights as JSON, YAML or text.`,
	RunE: summarizeFunc,
}

func init() {
	f := Cmd.Flags()
	f.StringVar(&Flags.RatesFile, "rates", "", "Exchange-rate CSV with month,rate columns")
	f.StringVar(&Flags.Currency, "currency", "", "Target currency (local or reference; default local)")
	f.IntSliceVar(&Flags.Months, "months", nil, "Months to keep, e.g. 1,2,3")
	f.StringArrayVar(&Flags.Partners, "partner", nil, "Partner label to keep (repeatable)")
	f.StringArrayVar(&Flags.Products, "product", nil, "Product label to keep (repeatable)")
	f.StringVar(&Flags.Flow, "flow", "", "Flow to keep (Export or Import)")
	f.Float64Var(&Flags.MinValue, "min", 0, "Minimum record value")
	f.Float64Var(&Flags.MaxValue, "max", 0, "Maximum record value")
	f.StringVar(&Flags.Search, "search", "", "Accent-insensitive search over partner and product")
	f.IntVar(&Flags.TopN, "top", 0, "Number of partners and products ranked (default from config)")
	f.StringVar(&Flags.Format, "format", report.FormatJSON, "Report format: "+strings.Join(report.Formats, ", "))
	f.StringVar(&Flags.ViewsDir, "views-dir", "", "Directory receiving one CSV per aggregate view")
	f.BoolVar(&Flags.Demo, "demo", false, "Use the synthetic demo dataset instead of --input")
	f.Int64Var(&Flags.Seed, "seed", demo.DefaultSeed, "Seed of the demo dataset")
}

// BuildFilter turns the flags into filter parameters. Value bounds apply
// only when their flag was set.
func BuildFilter(cmd *cobra.Command, opts Options) (filter.FilterParameters, error) {
	params := filter.FilterParameters{
		Months:   opts.Months,
		Partners: opts.Partners,
		Products: opts.Products,
		Search:   opts.Search,
	}
	if opts.Flow != "" {
		params.Flow = models.ParseFlow(opts.Flow)
		if !params.Flow.IsValid() {
			return params, fmt.Errorf("unknown flow %q: use Export or Import", opts.Flow)
		}
	}
	if cmd != nil && cmd.Flags().Changed("min") {
		v := opts.MinValue
		params.MinValue = &v
	}
	if cmd != nil && cmd.Flags().Changed("max") {
		v := opts.MaxValue
		params.MaxValue = &v
	}
	return params, params.Validate()
}

// LoadInput reads the trade table and the rates named by opts.
func LoadInput(inputFile string, opts Options, logger logging.Logger) (models.RawTable, models.RateTable, error) {
	var table models.RawTable
	switch {
	case opts.Demo:
		table = demo.Generate(opts.Seed)
		logger.Info("Using demo dataset",
			logging.Field{Key: "seed", Value: opts.Seed},
			logging.Field{Key: logging.FieldCount, Value: len(table.Rows)})
	case inputFile != "":
		var err error
		table, err = common.ReadRawTableFile(inputFile, logger)
		if err != nil {
			return table, nil, err
		}
	default:
		return table, nil, fmt.Errorf("an input file (--input) or --demo is required")
	}

	rates := models.RateTable{}
	if opts.RatesFile != "" {
		var err error
		rates, err = common.ReadRateFile(opts.RatesFile, logger)
		if err != nil {
			return table, nil, err
		}
	}
	return table, rates, nil
}

// Write sends data to outputFile, or to w when outputFile is empty.
func Write(w io.Writer, outputFile string, data []byte) error {
	if outputFile == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, models.PermissionFile); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}

func summarizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	logger := c.GetLogger()

	params, err := BuildFilter(cmd, Flags)
	if err != nil {
		return err
	}
	table, rates, err := LoadInput(root.SharedFlags.Input, Flags, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := c.GetPipeline().Run(ctx, pipeline.Input{
		Table:    table,
		Rates:    rates,
		Currency: models.ParseCurrency(Flags.Currency),
		Filter:   params,
		TopN:     Flags.TopN,
	})
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	for _, w := range result.Warnings {
		logger.Warn(w, logging.Field{Key: logging.FieldRunID, Value: result.RunID})
	}

	out, err := c.GetReportGenerator().GenerateReport(result, Flags.Format)
	if err != nil {
		return err
	}
	if err := Write(cmd.OutOrStdout(), root.SharedFlags.Output, out); err != nil {
		return err
	}

	if Flags.ViewsDir != "" {
		if err := common.WriteViewsToDir(Flags.ViewsDir, result.Views, result.MonthlyBalance, logger); err != nil {
			return err
		}
	}

	logger.Info("Summary completed",
		logging.Field{Key: logging.FieldRunID, Value: result.RunID},
		logging.Field{Key: logging.FieldCount, Value: result.FilteredCount})
	return nil
}
