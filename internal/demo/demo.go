// Package demo generates the synthetic trade dataset used when no input file
// is given.
package demo

import (
	"math"
	"math/rand/v2"
	"strconv"

	"jovanny3/tradeflow/internal/models"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSeed reproduces the reference demo dataset.
const DefaultSeed int64 = 7

// Partners are the demo partner names, spelled as they appear in national
// statistics.
var Partners = []string{
	"China", "Índia", "Portugal", "África do Sul", "Espanha", "França", "Holanda",
	"Itália", "Alemanha", "Emirados Árabes Unidos", "Singapura", "Japão", "Brasil",
	"Namíbia", "Zâmbia", "Congo (RDC)", "Congo-Brazzaville", "EUA", "Reino Unido",
}

// Products are the demo product descriptions.
var Products = []string{
	"Petróleo bruto", "Gás natural", "Diamantes", "Derivados de petróleo", "Bebidas",
	"Cimentos", "Madeira serrada", "Peixes congelados", "Café", "Açúcar",
}

var (
	majorExports = map[string]bool{"Petróleo bruto": true, "Gás natural": true, "Diamantes": true}
	majorImports = map[string]bool{"Derivados de petróleo": true, "Cimentos": true}
)

const (
	exportFlowLabel = "Exportações"
	importFlowLabel = "Importações"
)

// Columns is the header of the generated table.
var Columns = []string{
	models.ColumnYear, models.ColumnMonth, models.ColumnFlow,
	models.ColumnPartnerCountry, models.ColumnProductDesc, models.ColumnValueAOA,
}

// Generate returns one export and one import row per month, partner and
// product for the default report year. Values are normal draws floored at 0
// with a ±10% sinusoidal seasonality that moves exports and imports in
// opposite directions. The same seed always yields the same table.
func Generate(seed int64) models.RawTable {
	src := rand.NewPCG(uint64(seed), uint64(seed))
	standard := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	table := models.RawTable{
		Columns: Columns,
		Rows:    make([]map[string]string, 0, models.MaxMonth*len(Partners)*len(Products)*2),
	}
	year := strconv.Itoa(models.DefaultReportYear)

	for month := models.MinMonth; month <= models.MaxMonth; month++ {
		season := 1 + 0.1*math.Sin(2*math.Pi*float64(month)/12)
		m := strconv.Itoa(month)

		for _, partner := range Partners {
			for _, product := range Products {
				baseExport := 1.2e10
				if majorExports[product] {
					baseExport = 1.8e12
				}
				baseImport := 1e10
				if majorImports[product] {
					baseImport = 8e11
				}

				export := math.Max(0, baseExport+0.2*baseExport*standard.Rand()) * season
				imp := math.Max(0, baseImport+0.25*baseImport*standard.Rand()) * (2 - season)

				table.Rows = append(table.Rows,
					row(year, m, exportFlowLabel, partner, product, export),
					row(year, m, importFlowLabel, partner, product, imp),
				)
			}
		}
	}
	return table
}

func row(year, month, flow, partner, product string, value float64) map[string]string {
	return map[string]string{
		models.ColumnYear:           year,
		models.ColumnMonth:          month,
		models.ColumnFlow:           flow,
		models.ColumnPartnerCountry: partner,
		models.ColumnProductDesc:    product,
		models.ColumnValueAOA:       strconv.FormatFloat(value, 'f', 2, 64),
	}
}
