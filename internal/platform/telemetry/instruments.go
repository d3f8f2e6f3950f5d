package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/beanline/coffee_backoffice"

// Instruments are the spans and counters recorded by the business services.
type Instruments struct {
	Tracer trace.Tracer

	Sales            metric.Int64Counter
	SalesRevenue     metric.Float64Counter
	Refunds          metric.Int64Counter
	RefundedAmount   metric.Float64Counter
	StockAdjustments metric.Int64Counter
	OrderTransitions metric.Int64Counter
}

// NewInstruments creates instruments from the global providers. Before Init
// has run, or when telemetry is disabled, they are no-ops.
func NewInstruments() *Instruments {
	meter := otel.Meter(instrumentationName)
	ins := &Instruments{Tracer: otel.Tracer(instrumentationName)}

	// Instrument creation only fails on invalid names; the returned instrument is a usable no-op.
	ins.Sales, _ = meter.Int64Counter("pos.sales",
		metric.WithDescription("Completed POS sales"))
	ins.SalesRevenue, _ = meter.Float64Counter("pos.sales.revenue",
		metric.WithDescription("Gross POS revenue including tax"))
	ins.Refunds, _ = meter.Int64Counter("pos.refunds",
		metric.WithDescription("POS refunds issued"))
	ins.RefundedAmount, _ = meter.Float64Counter("pos.refunds.amount",
		metric.WithDescription("Amount refunded at the till"))
	ins.StockAdjustments, _ = meter.Int64Counter("inventory.adjustments",
		metric.WithDescription("Manual stock adjustments"))
	ins.OrderTransitions, _ = meter.Int64Counter("orders.status_transitions",
		metric.WithDescription("Order status changes"))

	return ins
}
