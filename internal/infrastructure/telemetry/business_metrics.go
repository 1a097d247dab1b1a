package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks the document-management business flows: expense
// derivation from trips and payment posting into the ledger.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	expensesDerivedTotal  *Counter
	expenseAmountTotal    *FloatGauge
	derivationDuration    *Histogram
	transactionsPosted    *Counter
	postingsTotal         *Counter
	postingsRejectedTotal *Counter
	trialBalanceVariance  *FloatGauge
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// ErrMeterNil is returned when a nil meter is supplied.
var ErrMeterNil = fmt.Errorf("telemetry: meter cannot be nil")

// NewBusinessMetrics creates the business metrics instruments.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{meter: cfg.Meter, logger: logger}

	var err error
	bm.expensesDerivedTotal, err = NewCounter(
		cfg.Meter,
		"dms_expenses_derived_total",
		"Total number of expense records derived from trips",
		"{expenses}",
	)
	if err != nil {
		return nil, err
	}

	bm.expenseAmountTotal, err = NewFloatGauge(
		cfg.Meter,
		"dms_expense_amount_last",
		"Total amount of the most recent expense derivation",
		"{ngn}",
	)
	if err != nil {
		return nil, err
	}

	bm.derivationDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "dms_expense_derivation_duration_seconds",
		Description: "Duration of expense derivation runs",
		Unit:        "s",
		Boundaries:  []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
	if err != nil {
		return nil, err
	}

	bm.transactionsPosted, err = NewCounter(
		cfg.Meter,
		"dms_transactions_posted_total",
		"Total number of ledger transactions generated",
		"{transactions}",
	)
	if err != nil {
		return nil, err
	}

	bm.postingsTotal, err = NewCounter(
		cfg.Meter,
		"dms_postings_total",
		"Total number of payment posting runs",
		"{postings}",
	)
	if err != nil {
		return nil, err
	}

	bm.postingsRejectedTotal, err = NewCounter(
		cfg.Meter,
		"dms_postings_rejected_total",
		"Posting runs rejected for imbalance or duplication",
		"{postings}",
	)
	if err != nil {
		return nil, err
	}

	bm.trialBalanceVariance, err = NewFloatGauge(
		cfg.Meter,
		"dms_trial_balance_variance",
		"Absolute debit/credit variance of the most recent posting",
		"{ngn}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordExpensesDerived records a completed derivation run.
func (bm *BusinessMetrics) RecordExpensesDerived(ctx context.Context, count int, total decimal.Decimal, transportMode string) {
	bm.expensesDerivedTotal.Add(ctx, int64(count), AttrTransportMode.String(transportMode))
	amount, _ := total.Float64()
	bm.expenseAmountTotal.Record(ctx, amount, AttrTransportMode.String(transportMode))
}

// RecordDerivationDuration records how long a derivation run took.
func (bm *BusinessMetrics) RecordDerivationDuration(ctx context.Context, seconds float64, transportMode string) {
	bm.derivationDuration.Record(ctx, seconds, AttrTransportMode.String(transportMode))
}

// RecordPosting records a completed posting run and its trial balance
// variance.
func (bm *BusinessMetrics) RecordPosting(ctx context.Context, paymentType string, transactions int, variance decimal.Decimal) {
	bm.postingsTotal.Inc(ctx, AttrPaymentType.String(paymentType))
	bm.transactionsPosted.Add(ctx, int64(transactions), AttrPaymentType.String(paymentType))
	v, _ := variance.Float64()
	bm.trialBalanceVariance.Record(ctx, v, AttrPaymentType.String(paymentType))
}

// RecordPostingRejected records a posting refused before persistence.
func (bm *BusinessMetrics) RecordPostingRejected(ctx context.Context, paymentType, reason string) {
	bm.postingsRejectedTotal.Inc(ctx,
		AttrPaymentType.String(paymentType),
		AttrPostingReason.String(reason),
	)
}
