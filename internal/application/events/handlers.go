// Package events holds the domain event subscribers: metric recording and
// the audit trail.
package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/travel"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/telemetry"
)

// MetricsHandler records business metrics from derivation and posting events
type MetricsHandler struct {
	metrics *telemetry.BusinessMetrics
}

// NewMetricsHandler creates a MetricsHandler
func NewMetricsHandler(metrics *telemetry.BusinessMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes returns the events this handler subscribes to
func (h *MetricsHandler) EventTypes() []string {
	return []string{"TripExpensesDerived", "TransactionsGenerated"}
}

// Handle records the metric matching the event
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *travel.TripExpensesDerivedEvent:
		h.metrics.RecordExpensesDerived(ctx, e.ExpenseCount, e.TotalAmount, e.TransportMode)
	case *ledger.TransactionsGeneratedEvent:
		variance := e.TotalDebits.Sub(e.TotalCredits).Abs()
		h.metrics.RecordPosting(ctx, e.PaymentType.String(), e.TransactionCount, variance)
	}
	return nil
}

// AuditHandler writes every domain event to the audit log, enriched with
// the request id and active trace
type AuditHandler struct {
	log *logger.ContextLogger
}

// NewAuditHandler creates an AuditHandler
func NewAuditHandler(base *zap.Logger) *AuditHandler {
	return &AuditHandler{log: logger.NewContextLogger(base)}
}

// EventTypes returns nil: the audit handler subscribes to everything
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Handle logs the event
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.log.Info(ctx, "domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()))
	return nil
}
