// Package insights computes headline KPIs and templated observations over a
// filtered, converted record set. Nothing here returns an error: degenerate
// input yields zero totals, nil ratios or the no-data message.
package insights

import (
	"fmt"

	"jovanny3/tradeflow/internal/aggregator"
	"jovanny3/tradeflow/internal/currencyutils"
	"jovanny3/tradeflow/internal/models"
)

// NoDataMessage is the only insight produced for an empty or zero-valued
// record set.
const NoDataMessage = "Sem valores no filtro atual. Ajuste os filtros para ver insights."

// Engine computes KPIs and insights.
type Engine struct {
	paretoThreshold float64
}

// New creates an engine. A non-positive threshold selects
// aggregator.DefaultParetoThreshold.
func New(paretoThreshold float64) *Engine {
	if paretoThreshold <= 0 {
		paretoThreshold = aggregator.DefaultParetoThreshold
	}
	return &Engine{paretoThreshold: paretoThreshold}
}

var defaultEngine = New(0)

// ComputeKPIs uses the default engine.
func ComputeKPIs(records []models.ConvertedRecord, referenceMonth int) models.KPIs {
	return defaultEngine.ComputeKPIs(records, referenceMonth)
}

// ComputeInsights uses the default engine.
func ComputeInsights(records []models.ConvertedRecord) []string {
	return defaultEngine.ComputeInsights(records)
}

func flowTotals(records []models.ConvertedRecord) (exports, imports float64) {
	for _, row := range aggregator.Totals(records, aggregator.DimensionFlow, "") {
		switch row.Flow {
		case models.FlowExport:
			exports = row.Value
		case models.FlowImport:
			imports = row.Value
		}
	}
	return exports, imports
}

// monthTotals returns flow-agnostic totals indexed by month-1, zero-filled.
func monthTotals(records []models.ConvertedRecord) [models.MaxMonth]float64 {
	var totals [models.MaxMonth]float64
	for _, row := range aggregator.Totals(records, aggregator.DimensionMonth, "") {
		if models.ValidMonth(row.Month) {
			totals[row.Month-1] = row.Value
		}
	}
	return totals
}

// ComputeKPIs computes totals, balance, coverage, partner count and the
// month-over-month change at referenceMonth. A referenceMonth of 0 selects
// the latest month present in records.
func (e *Engine) ComputeKPIs(records []models.ConvertedRecord, referenceMonth int) models.KPIs {
	exports, imports := flowTotals(records)
	kpis := models.KPIs{
		TotalExport: exports,
		TotalImport: imports,
		Balance:     exports - imports,
	}
	if imports > 0 {
		coverage := exports / imports
		kpis.Coverage = &coverage
	}

	partners := make(map[string]struct{})
	for _, rec := range records {
		partners[rec.PartnerCountryClean] = struct{}{}
		if referenceMonth == 0 && rec.Month > kpis.ReferenceMonth {
			kpis.ReferenceMonth = rec.Month
		}
	}
	kpis.PartnerCount = len(partners)
	if referenceMonth != 0 {
		kpis.ReferenceMonth = referenceMonth
	}

	if ref := kpis.ReferenceMonth; ref > models.MinMonth && ref <= models.MaxMonth {
		months := monthTotals(records)
		if prev := months[ref-2]; prev > 0 {
			change := (months[ref-1]/prev - 1) * 100
			kpis.MonthOverMonthChange = &change
		}
	}
	return kpis
}

// ComputeInsights returns, in order: the leading partner and product with
// their shares, the busiest and quietest months, the sign of the balance and
// the number of partners making up the concentration threshold.
func (e *Engine) ComputeInsights(records []models.ConvertedRecord) []string {
	total := aggregator.Total(records)
	if len(records) == 0 || total <= 0 {
		return []string{NoDataMessage}
	}

	var insights []string
	partners := aggregator.Totals(records, aggregator.DimensionPartner, "")

	if top := aggregator.TopN(partners, aggregator.DimensionPartner, 1); len(top) == 1 {
		insights = append(insights, fmt.Sprintf("%s é o principal parceiro no período filtrado, com %s do total.",
			top[0].Partner, currencyutils.FormatPercent(top[0].Value/total*100)))
	}

	products := aggregator.Totals(records, aggregator.DimensionProduct, "")
	if top := aggregator.TopN(products, aggregator.DimensionProduct, 1); len(top) == 1 {
		insights = append(insights, fmt.Sprintf("O produto de maior peso é %s, com %s do total.",
			top[0].Product, currencyutils.FormatPercent(top[0].Value/total*100)))
	}

	months := monthTotals(records)
	best, worst := 0, 0
	for i := range months {
		if months[i] > months[best] {
			best = i
		}
		if months[i] < months[worst] {
			worst = i
		}
	}
	if months[best] > 0 {
		insights = append(insights, fmt.Sprintf("O mês com maior atividade foi %s, e o menor foi %s.",
			models.MonthName(best+1), models.MonthName(worst+1)))
	}

	exports, imports := flowTotals(records)
	if exports-imports >= 0 {
		insights = append(insights, "A balança comercial está superavitária no período filtrado (exportações ≥ importações).")
	} else {
		insights = append(insights, "A balança comercial está deficitária no período filtrado (importações > exportações).")
	}

	pareto := aggregator.Pareto(partners, aggregator.DimensionPartner, e.paretoThreshold)
	if n := pareto.GroupsToThreshold(); n >= 1 {
		noun := "parceiros respondem"
		if n == 1 {
			noun = "parceiro responde"
		}
		insights = append(insights, fmt.Sprintf("%d %s por cerca de %s do valor total.",
			n, noun, currencyutils.FormatPercent(e.paretoThreshold)))
	}

	return insights
}
