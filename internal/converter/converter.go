// Package converter values resolved trade records in the local or the
// reference currency using monthly exchange rates.
package converter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"jovanny3/tradeflow/internal/logging"
	"jovanny3/tradeflow/internal/models"
	"jovanny3/tradeflow/internal/tradeerror"
)

// Converter converts between a local and a reference currency. Rates are
// expressed as local units per reference unit.
type Converter struct {
	local     models.Currency
	reference models.Currency
	logger    logging.Logger
}

// New creates a converter. Empty currencies select AOA and USD.
func New(local, reference models.Currency, logger logging.Logger) *Converter {
	if local == "" {
		local = models.CurrencyAOA
	}
	if reference == "" {
		reference = models.CurrencyUSD
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Converter{local: local, reference: reference, logger: logger}
}

// Local returns the local currency.
func (c *Converter) Local() models.Currency {
	return c.local
}

// Reference returns the reference currency.
func (c *Converter) Reference() models.Currency {
	return c.reference
}

// Supported lists the currencies Convert accepts.
func (c *Converter) Supported() []models.Currency {
	return []models.Currency{c.local, c.reference}
}

// Convert values every record in target. In local mode the value is the
// local amount, the applied rate is NaN and every month counts as explicit.
// In reference mode each month uses its explicit positive rate or the mean
// rate; records without any usable rate get a NaN value.
func (c *Converter) Convert(records []models.ResolvedRecord, target models.Currency, rates models.RateTable) (models.Conversion, error) {
	target = models.ParseCurrency(string(target))
	if target != c.local && target != c.reference {
		return models.Conversion{}, &tradeerror.UnsupportedCurrencyError{
			Currency:  string(target),
			Supported: []string{c.local.String(), c.reference.String()},
		}
	}

	conv := models.Conversion{
		Records:           make([]models.ConvertedRecord, len(records)),
		Currency:          target,
		Identity:          target == c.local,
		MeanRate:          rates.MeanRate(),
		AllMonthsExplicit: rates.Complete(),
	}

	if conv.Identity {
		conv.AllMonthsExplicit = true
		for i, rec := range records {
			conv.Records[i] = models.ConvertedRecord{ResolvedRecord: rec, AppliedRate: math.NaN(), Value: rec.ValueLocal}
		}
		return conv, nil
	}

	fallback := make(map[int]struct{})
	for i, rec := range records {
		rate, explicit := rates.RateFor(rec.Month)
		if !explicit {
			fallback[rec.Month] = struct{}{}
		}
		value := math.NaN()
		if rate > 0 {
			value = rec.ValueLocal / rate
		} else {
			conv.Unconvertible++
		}
		conv.Records[i] = models.ConvertedRecord{ResolvedRecord: rec, AppliedRate: rate, Value: value}
	}

	for m := range fallback {
		conv.FallbackMonths = append(conv.FallbackMonths, m)
	}
	sort.Ints(conv.FallbackMonths)

	c.logger.Debug("Converted records",
		logging.Field{Key: logging.FieldStage, Value: "convert"},
		logging.Field{Key: logging.FieldCurrency, Value: target},
		logging.Field{Key: logging.FieldRate, Value: conv.MeanRate},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: "unconvertible", Value: conv.Unconvertible})

	return conv, nil
}

// Warnings returns the consumer-facing notices for a conversion: mean-rate
// fallback use and unconvertible values. Local-currency conversions never
// warn.
func Warnings(conv models.Conversion) []string {
	if conv.Identity {
		return nil
	}
	var warnings []string
	if !conv.AllMonthsExplicit {
		if conv.MeanRate > 0 {
			months := make([]string, len(conv.FallbackMonths))
			for i, m := range conv.FallbackMonths {
				months[i] = strconv.Itoa(m)
			}
			msg := fmt.Sprintf("not every month has an explicit %s rate; missing months use the mean rate %.4f", conv.Currency, conv.MeanRate)
			if len(months) > 0 {
				msg += " (applied to months " + strings.Join(months, ", ") + ")"
			}
			warnings = append(warnings, msg)
		} else {
			warnings = append(warnings, fmt.Sprintf("no positive %s rate supplied; values cannot be converted", conv.Currency))
		}
	}
	if conv.Unconvertible > 0 {
		warnings = append(warnings, fmt.Sprintf("%d records have no usable exchange rate and are excluded from totals", conv.Unconvertible))
	}
	return warnings
}
