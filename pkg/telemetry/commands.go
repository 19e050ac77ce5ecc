package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/pantry/pkg/kernel"
)

const meterName = "github.com/ghuser/pantry"

// Command outcomes recorded on catalog.commands.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected" // business rule failure, carries a kernel code
	OutcomeFailed   = "failed"   // infrastructure failure
)

// CommandCounter counts catalog commands for one bounded context.
type CommandCounter struct {
	context string
	counter metric.Int64Counter
}

// NewCommandCounter registers catalog.commands on the global meter provider.
// Call it after Setup so the Prometheus reader sees the instrument.
func NewCommandCounter(boundedContext string) (*CommandCounter, error) {
	c, err := otel.Meter(meterName).Int64Counter("catalog.commands",
		metric.WithDescription("Catalog commands handled, by context, command and outcome"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, err
	}
	return &CommandCounter{context: boundedContext, counter: c}, nil
}

// Record adds one command with the outcome derived from err.
// A nil receiver is a no-op.
func (c *CommandCounter) Record(ctx context.Context, command string, err error) {
	if c == nil {
		return
	}
	c.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("context", c.context),
		attribute.String("command", command),
		attribute.String("outcome", Outcome(err)),
	))
}

// Outcome classifies err for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case kernel.CodeOf(err) != "":
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}
