package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaffPayment(t *testing.T, amount float64) *Payment {
	t.Helper()
	payment, err := NewPayment(PaymentStaff, decimal.NewFromFloat(amount), "Test", uuid.New(), "Staff")
	require.NoError(t, err)
	return payment
}

func newRule(t *testing.T, name string, precedence int, selector BaseSelector, rateType RateType) *JournalType {
	t.Helper()
	jt, err := NewJournalType(name, precedence, selector, rateType)
	require.NoError(t, err)
	return jt
}

func TestComputeAmounts(t *testing.T) {
	t.Run("staff payment is taxable at gross", func(t *testing.T) {
		payment := newStaffPayment(t, 100000)

		amounts := ComputeAmounts(payment, nil)

		assert.True(t, amounts.Gross.Equal(decimal.NewFromInt(100000)))
		assert.True(t, amounts.Taxable.Equal(amounts.Gross))
		assert.True(t, amounts.VATRate.IsZero())
		assert.True(t, amounts.BaseTaxable.Equal(amounts.Gross))
	})

	t.Run("third party with admin fee gets VAT uplift", func(t *testing.T) {
		payment, err := NewPayment(PaymentThirdParty, decimal.NewFromInt(107500), "Vendor Invoice", uuid.New(), "Vendor")
		require.NoError(t, err)
		payment.AttachExpenditure(&Expenditure{
			AdminFeeAmount: decimal.NewFromInt(100000),
			SubTotalAmount: decimal.NewFromInt(95000),
			Currency:       "NGN",
		})

		vat := newRule(t, "VAT", 1, BaseTaxable, RatePercent)
		vat.IsVAT = true
		vat.Rate = decimal.NewFromFloat(7.5)
		vat.Category = CategoryDefault

		amounts := ComputeAmounts(payment, []*JournalType{vat})

		// 100000 * 107.5 / 100
		assert.True(t, amounts.Taxable.Equal(decimal.NewFromInt(107500)), "got %s", amounts.Taxable)
		assert.True(t, amounts.VATRate.Equal(decimal.NewFromFloat(7.5)))
		assert.True(t, amounts.BaseTaxable.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("zero admin fee falls back to sub total", func(t *testing.T) {
		payment, err := NewPayment(PaymentThirdParty, decimal.NewFromInt(100000), "Vendor Invoice", uuid.New(), "Vendor")
		require.NoError(t, err)
		payment.AttachExpenditure(&Expenditure{
			SubTotalAmount: decimal.NewFromInt(80000),
		})

		vat := newRule(t, "VAT", 1, BaseTaxable, RatePercent)
		vat.IsVAT = true
		vat.Rate = decimal.NewFromInt(5)

		amounts := ComputeAmounts(payment, []*JournalType{vat})
		assert.True(t, amounts.BaseTaxable.Equal(decimal.NewFromInt(80000)))
		assert.True(t, amounts.Taxable.Equal(decimal.NewFromInt(84000)))
	})

	t.Run("VAT rule for another category is ignored", func(t *testing.T) {
		payment, err := NewPayment(PaymentThirdParty, decimal.NewFromInt(100000), "Vendor Invoice", uuid.New(), "Vendor")
		require.NoError(t, err)
		payment.AttachExpenditure(&Expenditure{SubTotalAmount: decimal.NewFromInt(80000)})

		vat := newRule(t, "VAT", 1, BaseTaxable, RatePercent)
		vat.IsVAT = true
		vat.Rate = decimal.NewFromInt(5)
		vat.Category = string(PaymentStaff)

		amounts := ComputeAmounts(payment, []*JournalType{vat})
		assert.True(t, amounts.Taxable.Equal(amounts.Gross))
		assert.True(t, amounts.VATRate.IsZero())
	})
}

// The canonical percent-plus-contra posting: a 10% deduction on a 100k
// staff payment must produce a balanced debit/credit pair.
func TestGenerate_PercentWithContra(t *testing.T) {
	payment := newStaffPayment(t, 100000)

	entityID := uuid.New()
	rule := newRule(t, "Withholding Tax", 1, BaseGross, RatePercent)
	rule.Rate = decimal.NewFromInt(10)
	rule.Kind = KindDeduct
	rule.Benefactor = BenefactorEntity
	rule.EntityID = entityID
	rule.PostingRules = PostingRules{CreateContraEntries: true}

	gen := NewTransactionGenerator()
	transactions := gen.Generate(payment, []*JournalType{rule}, []uuid.UUID{rule.ID})

	require.Len(t, transactions, 2)

	primary, contra := transactions[0], transactions[1]
	assert.Equal(t, EntryDebit, primary.Type)
	assert.True(t, primary.Amount.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, TrailLeft, primary.TrailBalance)
	assert.Equal(t, entityID, primary.BeneficiaryID)
	assert.Equal(t, "Entity", primary.BeneficiaryType)
	assert.Equal(t, "Withholding Tax - Test", primary.Narration)
	assert.True(t, primary.DebitAmount.Valid)
	assert.False(t, primary.CreditAmount.Valid)

	assert.Equal(t, EntryCredit, contra.Type)
	assert.True(t, contra.Amount.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, TrailRight, contra.TrailBalance)
	assert.Equal(t, "entity", contra.BeneficiaryType)
	assert.Equal(t, "Contra - Withholding Tax - Test", contra.Narration)
	assert.True(t, contra.IsContra)

	balance := ComputeTrialBalance(transactions, decimal.Zero)
	assert.True(t, balance.LeftTotal.Equal(decimal.NewFromInt(10000)))
	assert.True(t, balance.RightTotal.Equal(decimal.NewFromInt(10000)))
	assert.True(t, balance.IsBalanced)
}

func TestGenerate_PrecedenceOrder(t *testing.T) {
	payment := newStaffPayment(t, 50000)

	third := newRule(t, "Third", 3, BaseGross, RatePercent)
	first := newRule(t, "First", 1, BaseGross, RatePercent)
	secondA := newRule(t, "Second A", 2, BaseGross, RatePercent)
	secondB := newRule(t, "Second B", 2, BaseGross, RatePercent)
	for _, jt := range []*JournalType{third, first, secondA, secondB} {
		jt.Rate = decimal.NewFromInt(1)
		jt.Kind = KindDeduct
	}

	catalog := []*JournalType{third, secondA, first, secondB}
	selected := []uuid.UUID{first.ID, secondA.ID, secondB.ID, third.ID}

	transactions := NewTransactionGenerator().Generate(payment, catalog, selected)

	require.Len(t, transactions, 4)
	assert.Equal(t, first.ID, transactions[0].JournalTypeID)
	// precedence ties keep catalog order
	assert.Equal(t, secondA.ID, transactions[1].JournalTypeID)
	assert.Equal(t, secondB.ID, transactions[2].JournalTypeID)
	assert.Equal(t, third.ID, transactions[3].JournalTypeID)
}

func TestGenerate_UnselectedRulesIgnored(t *testing.T) {
	payment := newStaffPayment(t, 50000)

	selectedRule := newRule(t, "Selected", 1, BaseGross, RatePercent)
	selectedRule.Rate = decimal.NewFromInt(5)
	selectedRule.Kind = KindDeduct
	unselected := newRule(t, "Unselected", 2, BaseGross, RatePercent)
	unselected.Rate = decimal.NewFromInt(5)
	unselected.Kind = KindDeduct

	transactions := NewTransactionGenerator().Generate(
		payment,
		[]*JournalType{selectedRule, unselected},
		[]uuid.UUID{selectedRule.ID},
	)

	require.Len(t, transactions, 1)
	assert.Equal(t, selectedRule.ID, transactions[0].JournalTypeID)
}

func TestGenerate_BaseSelectors(t *testing.T) {
	payment, err := NewPayment(PaymentThirdParty, decimal.NewFromInt(107500), "Vendor", uuid.New(), "Vendor")
	require.NoError(t, err)
	payment.AttachExpenditure(&Expenditure{AdminFeeAmount: decimal.NewFromInt(100000)})

	vat := newRule(t, "VAT", 1, BaseTaxable, RatePercent)
	vat.IsVAT = true
	vat.Rate = decimal.NewFromFloat(7.5)
	vat.Kind = KindDeduct

	nonTaxable := newRule(t, "Reimbursement", 2, BaseNonTaxable, RatePercent)
	nonTaxable.Rate = decimal.NewFromInt(100)
	nonTaxable.Kind = KindAdd

	custom := newRule(t, "Stamp Duty", 3, BaseCustom, RateFixed)
	custom.FixedAmount = decimal.NewFromInt(50)
	custom.Kind = KindDeduct

	catalog := []*JournalType{vat, nonTaxable, custom}
	transactions := NewTransactionGenerator().Generate(payment, catalog,
		[]uuid.UUID{vat.ID, nonTaxable.ID, custom.ID})

	require.Len(t, transactions, 3)
	// taxable = 100000 * 107.5 / 100 = 107500; VAT at 7.5% of taxable
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromFloat(8062.5)), "got %s", transactions[0].Amount)
	// non-taxable = gross - taxable = 0 for this payment
	assert.True(t, transactions[1].Amount.IsZero())
	assert.Equal(t, EntryCredit, transactions[1].Type)
	assert.True(t, transactions[2].Amount.Equal(decimal.NewFromInt(50)))
}

func TestGenerate_NonTaxableForStaffUsesGross(t *testing.T) {
	payment := newStaffPayment(t, 60000)

	rule := newRule(t, "Allowance", 1, BaseNonTaxable, RatePercent)
	rule.Rate = decimal.NewFromInt(10)
	rule.Kind = KindAdd

	transactions := NewTransactionGenerator().Generate(payment, []*JournalType{rule}, []uuid.UUID{rule.ID})

	require.Len(t, transactions, 1)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromInt(6000)))
}

func TestGenerate_EntryTypeResolution(t *testing.T) {
	payment := newStaffPayment(t, 1000)

	cases := []struct {
		name     string
		kind     JournalKind
		ruleType EntryType
		expected EntryType
	}{
		{"deduct is debit", KindDeduct, "", EntryDebit},
		{"add is credit", KindAdd, "", EntryCredit},
		{"info with both posts as debit", KindInfo, EntryBoth, EntryDebit},
		{"info with credit posts as credit", KindInfo, EntryCredit, EntryCredit},
		{"info with debit posts as debit", KindInfo, EntryDebit, EntryDebit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := newRule(t, "Rule", 1, BaseGross, RatePercent)
			rule.Rate = decimal.NewFromInt(1)
			rule.Kind = tc.kind
			rule.Type = tc.ruleType

			transactions := NewTransactionGenerator().Generate(payment, []*JournalType{rule}, []uuid.UUID{rule.ID})
			require.Len(t, transactions, 1)
			assert.Equal(t, tc.expected, transactions[0].Type)
			assert.Equal(t, SideFor(tc.expected), transactions[0].TrailBalance)
		})
	}
}

func TestGenerate_Rounding(t *testing.T) {
	payment := newStaffPayment(t, 1001)

	makeRule := func(rounding RoundingMode, rate float64) *JournalType {
		rule := newRule(t, "Levy", 1, BaseGross, RatePercent)
		rule.Rate = decimal.NewFromFloat(rate)
		rule.Kind = KindDeduct
		rule.Rounding = rounding
		return rule
	}

	generate := func(rule *JournalType, opts ...TransactionGeneratorOption) decimal.Decimal {
		transactions := NewTransactionGenerator(opts...).Generate(payment, []*JournalType{rule}, []uuid.UUID{rule.ID})
		require.Len(t, transactions, 1)
		return transactions[0].Amount
	}

	t.Run("half up", func(t *testing.T) {
		// 1001 * 0.5% = 5.005 -> 5; 1001 * 2.5% = 25.025 -> 25
		assert.True(t, generate(makeRule(RoundingHalfUp, 0.5)).Equal(decimal.NewFromInt(5)))
		// 1001 * 4.5% = 45.045 -> 45
		assert.True(t, generate(makeRule(RoundingHalfUp, 4.5)).Equal(decimal.NewFromInt(45)))
	})

	t.Run("bankers default rounds half to even", func(t *testing.T) {
		// 1001 * 2.5% = 25.025 -> 25; half-to-even at .5: 1001*4.3456...
		assert.True(t, generate(makeRule(RoundingBankers, 2.5)).Equal(decimal.NewFromInt(25)))

		// exact half: 5000 * 0.05% of 1001 irrelevant; construct 12.5 via fixed
		half := newRule(t, "Half", 1, BaseCustom, RateFixed)
		half.FixedAmount = decimal.NewFromFloat(12.5)
		half.Kind = KindDeduct
		half.Rounding = RoundingBankers
		assert.True(t, generate(half).Equal(decimal.NewFromInt(12)), "12.5 rounds to even 12")

		half.FixedAmount = decimal.NewFromFloat(13.5)
		assert.True(t, generate(half).Equal(decimal.NewFromInt(14)), "13.5 rounds to even 14")
	})

	t.Run("legacy bankers floors when the rounded value is odd", func(t *testing.T) {
		rule := newRule(t, "Legacy", 1, BaseCustom, RateFixed)
		rule.Kind = KindDeduct
		rule.Rounding = RoundingBankers

		// 13.4 rounds to 13 (odd) -> floor(13.4) = 13
		rule.FixedAmount = decimal.NewFromFloat(13.4)
		assert.True(t, generate(rule, WithLegacyBankersRounding()).Equal(decimal.NewFromInt(13)))

		// 12.9 rounds to 13 (odd) -> floor(12.9) = 12
		rule.FixedAmount = decimal.NewFromFloat(12.9)
		assert.True(t, generate(rule, WithLegacyBankersRounding()).Equal(decimal.NewFromInt(12)))

		// 12.4 rounds to 12 (even) -> 12
		rule.FixedAmount = decimal.NewFromFloat(12.4)
		assert.True(t, generate(rule, WithLegacyBankersRounding()).Equal(decimal.NewFromInt(12)))
	})

	t.Run("no rounding keeps the raw amount", func(t *testing.T) {
		rule := makeRule(RoundingNone, 0.5)
		assert.True(t, generate(rule).Equal(decimal.NewFromFloat(5.005)))
	})
}

func TestGenerate_UnknownRuleValuesDegrade(t *testing.T) {
	payment := newStaffPayment(t, 10000)

	rule := newRule(t, "Odd Rule", 1, BaseGross, RatePercent)
	rule.BaseSelector = BaseSelector("UNKNOWN")
	rule.RateType = RateType("hourly")
	rule.Kind = KindDeduct

	transactions := NewTransactionGenerator().Generate(payment, []*JournalType{rule}, []uuid.UUID{rule.ID})

	// still emits a transaction, with amount defaulted to zero
	require.Len(t, transactions, 1)
	assert.True(t, transactions[0].Amount.IsZero())
}

func TestGenerate_ContraSymmetry(t *testing.T) {
	payment := newStaffPayment(t, 75000)

	var catalog []*JournalType
	var selected []uuid.UUID
	for i, rate := range []int64{5, 10, 2} {
		rule := newRule(t, "Rule", i+1, BaseGross, RatePercent)
		rule.Rate = decimal.NewFromInt(rate)
		rule.Kind = KindDeduct
		rule.PostingRules = PostingRules{CreateContraEntries: true}
		catalog = append(catalog, rule)
		selected = append(selected, rule.ID)
	}

	transactions := NewTransactionGenerator().Generate(payment, catalog, selected)

	require.Len(t, transactions, 6)
	for i := 0; i < len(transactions); i += 2 {
		primary, contra := transactions[i], transactions[i+1]
		assert.True(t, primary.Amount.Equal(contra.Amount))
		assert.Equal(t, primary.Type.Opposite(), contra.Type)
		assert.NotEqual(t, primary.TrailBalance, contra.TrailBalance)
		assert.Equal(t, primary.JournalTypeID, contra.JournalTypeID)
	}

	balance := ComputeTrialBalance(transactions, decimal.Zero)
	assert.True(t, balance.IsBalanced)
}
