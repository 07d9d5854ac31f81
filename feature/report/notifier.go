package report

import (
	"stock-sync/feature/analysis"

	"go.uber.org/zap"
)

// Notifier logs analysis findings one entry per item.
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a notifier writing to logger.
func NewNotifier(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{logger: logger}
}

// Notify logs discrepancies as warnings, CRITICAL and HIGH anomalies as
// errors (others as warnings) and reorder suggestions as info.
func (n *Notifier) Notify(result analysis.Result) {
	if len(result.Discrepancies) == 0 {
		n.logger.Info("No discrepancies to report")
	}
	for _, d := range result.Discrepancies {
		n.logger.Warn("Stock discrepancy",
			zap.String("severity", string(d.Severity)),
			zap.String("sku", d.SKU),
			zap.String("name", d.Name),
			zap.Int("catalog_stock", d.CatalogStock),
			zap.Int("record_stock", d.RecordStock),
			zap.Int("difference", d.Difference),
		)
	}

	for _, w := range result.Warnings {
		n.logger.Warn(w)
	}

	for _, a := range result.Anomalies {
		fields := []zap.Field{
			zap.String("severity", string(a.Severity)),
			zap.String("type", string(a.Type)),
			zap.String("sku", a.SKU),
			zap.String("name", a.Name),
			zap.String("recommendation", a.Recommendation),
		}
		switch a.Severity {
		case analysis.SeverityCritical, analysis.SeverityHigh:
			n.logger.Error(a.Message, fields...)
		default:
			n.logger.Warn(a.Message, fields...)
		}
	}

	for _, s := range result.Suggestions {
		n.logger.Info("Reorder suggested",
			zap.String("urgency", string(s.Urgency)),
			zap.String("sku", s.SKU),
			zap.String("name", s.Name),
			zap.Int("current_stock", s.CurrentStock),
			zap.Int("recommended_order", s.RecommendedOrder),
		)
	}
}
