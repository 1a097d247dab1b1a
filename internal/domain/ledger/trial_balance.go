package ledger

import (
	"github.com/shopspring/decimal"
)

// DefaultBalanceTolerance is the variance below which a transaction set is
// considered balanced
var DefaultBalanceTolerance = decimal.NewFromFloat(0.01)

// TrialBalanceResult is a read-only view over a transaction list: the
// left/right partition, side totals, and the debit/credit variance
type TrialBalanceResult struct {
	Left         []*Transaction  `json:"left"`
	Right        []*Transaction  `json:"right"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	LeftTotal    decimal.Decimal `json:"left_total"`
	RightTotal   decimal.Decimal `json:"right_total"`
	Variance     decimal.Decimal `json:"variance"`
	Tolerance    decimal.Decimal `json:"tolerance"`
	IsBalanced   bool            `json:"is_balanced"`
}

// ComputeTrialBalance partitions transactions into trial-balance sides and
// verifies that debits and credits cancel out within the tolerance. It is
// a pure function over the list: callers recompute it whenever the list
// changes. A non-positive tolerance falls back to the default of 0.01.
//
// Transactions persisted before the split debit/credit columns existed
// carry null splits; their display totals fall back to Amount on the side
// the entry sits on.
func ComputeTrialBalance(transactions []*Transaction, tolerance decimal.Decimal) *TrialBalanceResult {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = DefaultBalanceTolerance
	}

	result := &TrialBalanceResult{
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		LeftTotal:    decimal.Zero,
		RightTotal:   decimal.Zero,
		Tolerance:    tolerance,
	}

	for _, txn := range transactions {
		if txn == nil {
			continue
		}

		switch {
		case txn.DebitAmount.Valid:
			result.TotalDebits = result.TotalDebits.Add(txn.DebitAmount.Decimal)
		case txn.Type == EntryDebit:
			result.TotalDebits = result.TotalDebits.Add(txn.Amount)
		}
		switch {
		case txn.CreditAmount.Valid:
			result.TotalCredits = result.TotalCredits.Add(txn.CreditAmount.Decimal)
		case txn.Type == EntryCredit:
			result.TotalCredits = result.TotalCredits.Add(txn.Amount)
		}

		if txn.TrailBalance == TrailLeft {
			result.Left = append(result.Left, txn)
			result.LeftTotal = result.LeftTotal.Add(txn.DisplayDebit())
		} else {
			result.Right = append(result.Right, txn)
			result.RightTotal = result.RightTotal.Add(txn.DisplayCredit())
		}
	}

	result.Variance = result.TotalDebits.Sub(result.TotalCredits).Abs()
	result.IsBalanced = result.Variance.LessThan(tolerance)
	return result
}
