package finance

// Alert severities, ordered from most to least urgent.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
)

// Alert flags a financial risk condition detected in the derived metrics.
type Alert struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Alerts screens metrics against fixed risk thresholds.
func Alerts(m Metrics) []Alert {
	var alerts []Alert

	if m.RevCAGR < 0 {
		alerts = append(alerts, Alert{SeverityCritical, "Revenue is declining"})
	}
	if m.EBITDAMargin < 0.1 {
		alerts = append(alerts, Alert{SeverityHigh, "Very low operating margin"})
	}
	if m.CurrentRatio < 1 {
		alerts = append(alerts, Alert{SeverityCritical, "Liquidity risk detected"})
	}
	if m.DebtRatio > 0.65 {
		alerts = append(alerts, Alert{SeverityHigh, "Excessive leverage"})
	}
	if m.FreeCashFlow < 0 {
		alerts = append(alerts, Alert{SeverityMedium, "Negative free cash flow"})
	}

	return alerts
}
