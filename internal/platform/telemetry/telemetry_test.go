package telemetry_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/beanline/coffee_backoffice/internal/platform/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := telemetry.Init(context.Background(), telemetry.Config{Enabled: false}, slog.Default())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewInstrumentsUsableWithoutProviders(t *testing.T) {
	ins := telemetry.NewInstruments()
	require.NotNil(t, ins.Tracer)

	ctx, span := ins.Tracer.Start(context.Background(), "test")
	ins.Sales.Add(ctx, 1)
	ins.SalesRevenue.Add(ctx, 11.49)
	ins.Refunds.Add(ctx, 1)
	ins.RefundedAmount.Add(ctx, 5)
	ins.StockAdjustments.Add(ctx, 1)
	ins.OrderTransitions.Add(ctx, 1)
	span.End()
}
