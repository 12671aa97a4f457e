package finance

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// The strict workbook template: three sheets, fixed metric labels in the
// first column. Income statement rows carry three year columns oldest
// first; the other sheets carry a single value column.
var (
	incomeMetrics = []string{"Revenue", "EBITDA", "Net Profit"}

	balanceMetrics = []string{
		"Total Assets", "Equity", "Current Assets", "Current Liabilities", "Total Debt",
	}

	cashFlowMetrics = []string{"Operating Cash Flow", "CapEx"}
)

// ParseWorkbook reads the financial statement template and returns the
// statement data ready for Analyze. Missing sheets, missing metric rows,
// and non-numeric cells are hard errors: the template is strict so that a
// silently misaligned import cannot feed wrong numbers into scoring.
func ParseWorkbook(path string) (Statements, error) {
	var s Statements

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return s, eris.Wrapf(err, "finance: open workbook %s", path)
	}

	income, err := sheetValues(f, "Income_Statement", incomeMetrics, 3)
	if err != nil {
		return s, err
	}
	s.Revenue = [3]float64{income["Revenue"][0], income["Revenue"][1], income["Revenue"][2]}
	s.EBITDA = [3]float64{income["EBITDA"][0], income["EBITDA"][1], income["EBITDA"][2]}
	s.NetProfit = [3]float64{income["Net Profit"][0], income["Net Profit"][1], income["Net Profit"][2]}

	balance, err := sheetValues(f, "Balance_Sheet", balanceMetrics, 1)
	if err != nil {
		return s, err
	}
	s.TotalAssets = balance["Total Assets"][0]
	s.Equity = balance["Equity"][0]
	s.CurrentAssets = balance["Current Assets"][0]
	s.CurrentLiabilities = balance["Current Liabilities"][0]
	s.TotalDebt = balance["Total Debt"][0]

	cash, err := sheetValues(f, "Cash_Flow", cashFlowMetrics, 1)
	if err != nil {
		return s, err
	}
	s.OperatingCashFlow = cash["Operating Cash Flow"][0]
	s.CapEx = cash["CapEx"][0]

	return s, nil
}

// sheetValues reads the named sheet and returns each required metric's
// numeric columns. The first row is the header and is skipped.
func sheetValues(f *xlsx.File, sheetName string, metrics []string, valueCols int) (map[string][]float64, error) {
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, eris.Errorf("finance: sheet %q not found", sheetName)
	}

	found := make(map[string][]float64, len(metrics))
	for i, row := range sheet.Rows {
		if i == 0 || len(row.Cells) == 0 {
			continue
		}
		label, ok := canonicalMetric(row.Cells[0].String(), metrics)
		if !ok {
			continue
		}
		if len(row.Cells) < valueCols+1 {
			return nil, eris.Errorf("finance: sheet %q row %q has %d value cells, want %d",
				sheetName, label, len(row.Cells)-1, valueCols)
		}

		values := make([]float64, valueCols)
		for c := 0; c < valueCols; c++ {
			raw := strings.TrimSpace(row.Cells[c+1].String())
			v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil {
				return nil, eris.Errorf("finance: sheet %q row %q: non-numeric value %q",
					sheetName, label, raw)
			}
			values[c] = v
		}
		found[label] = values
	}

	for _, m := range metrics {
		if _, ok := found[m]; !ok {
			return nil, eris.Errorf("finance: sheet %q missing required metric %q", sheetName, m)
		}
	}
	return found, nil
}

// canonicalMetric matches a cell label against the required metrics,
// case-insensitively, and returns the canonical spelling.
func canonicalMetric(label string, metrics []string) (string, bool) {
	label = strings.TrimSpace(label)
	for _, m := range metrics {
		if strings.EqualFold(label, m) {
			return m, true
		}
	}
	return "", false
}
