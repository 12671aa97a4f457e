// Package finance derives three-year financial analysis metrics from
// statement data and maps them onto the financial KPI inputs of a review.
package finance

import (
	"math"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// Statements holds the raw inputs of the three-year analysis. Revenue,
// EBITDA, and NetProfit are ordered oldest first: [Y-2, Y-1, Y].
type Statements struct {
	Revenue   [3]float64 `json:"revenue"`
	EBITDA    [3]float64 `json:"ebitda"`
	NetProfit [3]float64 `json:"net_profit"`

	TotalAssets        float64 `json:"total_assets"`
	Equity             float64 `json:"equity"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	TotalDebt          float64 `json:"total_debt"`

	OperatingCashFlow float64 `json:"operating_cash_flow"`
	CapEx             float64 `json:"capex"`
}

// Metrics is the derived analysis result.
type Metrics struct {
	RevGrowthY1 float64 `json:"rev_growth_y1"`
	RevGrowthY2 float64 `json:"rev_growth_y2"`
	RevCAGR     float64 `json:"rev_cagr"`

	EBITDAMargin float64 `json:"ebitda_margin"`
	NetMargin    float64 `json:"net_margin"`

	ROA float64 `json:"roa"`
	ROE float64 `json:"roe"`

	CurrentRatio float64 `json:"current_ratio"`
	DebtRatio    float64 `json:"debt_ratio"`

	FreeCashFlow float64 `json:"free_cash_flow"`
}

// CAGR computes the compound annual growth rate between start and end over
// the given number of years. Non-positive starts yield 0.
func CAGR(start, end float64, years int) float64 {
	if start <= 0 || years <= 0 {
		return 0
	}
	return math.Pow(end/start, 1/float64(years)) - 1
}

// Analyze derives the full metric set. Ratios with a zero denominator
// evaluate to 0 rather than failing; missing statement lines are an
// analyst-input problem, not a pipeline error.
func Analyze(s Statements) Metrics {
	m := Metrics{
		RevCAGR:      CAGR(s.Revenue[0], s.Revenue[2], 2),
		FreeCashFlow: s.OperatingCashFlow - s.CapEx,
	}

	if s.Revenue[0] != 0 {
		m.RevGrowthY1 = (s.Revenue[1] - s.Revenue[0]) / s.Revenue[0]
	}
	if s.Revenue[1] != 0 {
		m.RevGrowthY2 = (s.Revenue[2] - s.Revenue[1]) / s.Revenue[1]
	}
	if s.Revenue[2] != 0 {
		m.EBITDAMargin = s.EBITDA[2] / s.Revenue[2]
		m.NetMargin = s.NetProfit[2] / s.Revenue[2]
	}
	if s.TotalAssets != 0 {
		m.ROA = s.NetProfit[2] / s.TotalAssets
		m.DebtRatio = s.TotalDebt / s.TotalAssets
	}
	if s.Equity != 0 {
		m.ROE = s.NetProfit[2] / s.Equity
	}
	if s.CurrentLiabilities != 0 {
		m.CurrentRatio = s.CurrentAssets / s.CurrentLiabilities
	}

	return m
}

// KPIValues maps derived metrics onto the financial KPI inputs consumed by
// the scoring pipeline. Percent-unit KPIs receive percent values.
func KPIValues(m Metrics) map[string]float64 {
	return map[string]float64{
		"FIN_MARGIN":        model.Round2(m.EBITDAMargin * 100),
		"FIN_REV_GROWTH":    model.Round2(m.RevCAGR * 100),
		"FIN_CURRENT_RATIO": model.Round2(m.CurrentRatio),
		"FIN_DEBT_RATIO":    model.Round2(m.DebtRatio),
	}
}
