// Package report renders pipeline results for external consumers.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"jovanny3/tradeflow/internal/currencyutils"
	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/pipeline"

	"gopkg.in/yaml.v3"
)

// Supported report formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatYAML, FormatText}

// ReportGenerator renders a pipeline result as JSON, YAML or a short text
// summary.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &ReportGenerator{
		logger: logger.WithField("component", "ReportGenerator"),
	}
}

// GenerateReport renders result in format. It returns an error if the result
// is nil or the format is unsupported.
func (g *ReportGenerator) GenerateReport(result *pipeline.Result, format string) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("cannot render a nil result")
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return g.generateJSONReport(result)
	case FormatYAML, "yml":
		return g.generateYAMLReport(result)
	case FormatText:
		return g.generateTextReport(result), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(result *pipeline.Result) ([]byte, error) {
	jsonReport, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(jsonReport, '\n'), nil
}

func (g *ReportGenerator) generateYAMLReport(result *pipeline.Result) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

func optionalPercent(p *float64) string {
	if p == nil {
		return "—"
	}
	return currencyutils.FormatPercent(*p)
}

func optionalRatio(p *float64) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *p)
}

func (g *ReportGenerator) generateTextReport(result *pipeline.Result) []byte {
	var b strings.Builder
	currency := result.Currency.String()
	k := result.KPIs

	fmt.Fprintf(&b, "Run %s, report year %d, currency %s\n", result.RunID, result.ReportYear, currency)
	fmt.Fprintf(&b, "Records: %d normalized, %d after filters\n", result.RecordCount, result.FilteredCount)
	fmt.Fprintf(&b, "Exports:  %s\n", currencyutils.FormatValue(k.TotalExport, currency))
	fmt.Fprintf(&b, "Imports:  %s\n", currencyutils.FormatValue(k.TotalImport, currency))
	fmt.Fprintf(&b, "Balance:  %s\n", currencyutils.FormatValue(k.Balance, currency))
	fmt.Fprintf(&b, "Coverage: %s\n", optionalRatio(k.Coverage))
	fmt.Fprintf(&b, "Partners: %d\n", k.PartnerCount)
	if k.ReferenceMonth != 0 {
		fmt.Fprintf(&b, "%s vs previous month: %s\n", models.MonthName(k.ReferenceMonth), optionalPercent(k.MonthOverMonthChange))
	}

	if len(result.Partners.Top) > 0 {
		fmt.Fprintf(&b, "\nTop partners (%s):\n", result.ReferenceFlow)
		for i, row := range result.Partners.Top {
			fmt.Fprintf(&b, "%3d. %s %s\n", i+1, row.Partner, currencyutils.FormatValue(row.Value, currency))
		}
	}
	if len(result.Products.Top) > 0 {
		fmt.Fprintf(&b, "\nTop products (%s):\n", result.ReferenceFlow)
		for i, row := range result.Products.Top {
			fmt.Fprintf(&b, "%3d. %s %s\n", i+1, row.Product, currencyutils.FormatValue(row.Value, currency))
		}
	}

	b.WriteString("\nInsights:\n")
	for _, insight := range result.Insights {
		fmt.Fprintf(&b, "- %s\n", insight)
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	if len(result.UnresolvedPartners) > 0 {
		fmt.Fprintf(&b, "\nUnresolved partners: %s\n", strings.Join(result.UnresolvedPartners, ", "))
	}
	return []byte(b.String())
}
